package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultChatURL    = "https://openrouter.ai/api/v1/chat/completions"
	DefaultKeyInfoURL = "https://openrouter.ai/api/v1/auth/key"
	DefaultModel      = "deepseek/deepseek-chat"

	defaultTimeout = 60 * time.Second
	maxErrorChars  = 200
	maxBodyBytes   = 4 << 20
)

// OpenRouterOptions configures an OpenRouterProvider.
type OpenRouterOptions struct {
	ChatURL     string
	KeyInfoURL  string
	Model       string
	Temperature float64
	MaxTokens   int
	Referer     string
	Title       string
	Timeout     time.Duration
}

// OpenRouterProvider talks to the OpenRouter chat completions API. Request
// and response bodies use the OpenAI-compatible types from go-openai.
type OpenRouterProvider struct {
	opts       OpenRouterOptions
	httpClient *http.Client
}

// NewOpenRouterProvider creates a new OpenRouter provider. Zero-valued
// options fall back to the OpenRouter defaults.
func NewOpenRouterProvider(opts OpenRouterOptions) *OpenRouterProvider {
	if opts.ChatURL == "" {
		opts.ChatURL = DefaultChatURL
	}
	if opts.KeyInfoURL == "" {
		opts.KeyInfoURL = DefaultKeyInfoURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1000
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	return &OpenRouterProvider{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

func (p *OpenRouterProvider) Name() string {
	return "openrouter"
}

func (p *OpenRouterProvider) Complete(ctx context.Context, apiKey string, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.opts.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.opts.MaxTokens
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.opts.Temperature
	}

	var messages []openai.ChatCompletionMessage
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(temperature),
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.opts.ChatURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	p.setHeaders(httpReq, apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	respBody, err := p.do(httpReq)
	if err != nil {
		return nil, err
	}

	var resp openai.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("OpenRouter returned no choices")
	}

	return &CompletionResponse{
		Content:      resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
		FinishReason: string(resp.Choices[0].FinishReason),
	}, nil
}

// KeyInfo asks the provider to describe apiKey. A rejected key surfaces as
// an *HTTPError.
func (p *OpenRouterProvider) KeyInfo(ctx context.Context, apiKey string) (*KeyInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.opts.KeyInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	p.setHeaders(httpReq, apiKey)

	respBody, err := p.do(httpReq)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data KeyInfo `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("decoding key info: %w", err)
	}
	return &envelope.Data, nil
}

func (p *OpenRouterProvider) do(req *http.Request) ([]byte, error) {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

func (p *OpenRouterProvider) setHeaders(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if p.opts.Referer != "" {
		req.Header.Set("HTTP-Referer", p.opts.Referer)
	}
	if p.opts.Title != "" {
		req.Header.Set("X-Title", p.opts.Title)
	}
}

// errorMessage extracts a human-readable message from an error body:
// {"detail": ...} first, then OpenAI-style {"error": {"message": ...}},
// then the raw text cut to maxErrorChars.
func errorMessage(body []byte) string {
	var withDetail struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &withDetail) == nil && len(withDetail.Detail) > 0 && string(withDetail.Detail) != "null" {
		var s string
		if json.Unmarshal(withDetail.Detail, &s) == nil {
			return truncate(s, maxErrorChars)
		}
		return truncate(string(withDetail.Detail), maxErrorChars)
	}

	var apiErr openai.ErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
		return truncate(apiErr.Error.Message, maxErrorChars)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty response body"
	}
	return truncate(text, maxErrorChars)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
