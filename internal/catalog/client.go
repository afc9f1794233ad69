package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	queryPath          = "/api/ai-query"
	DefaultProbePath   = "/api/components"
	defaultTimeout     = 60 * time.Second
	maxResponseBytes   = 8 << 20
	serverErrorMessage = "Ошибка сервера: %d"
)

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Client calls the local component search backend.
type Client struct {
	baseURL    string
	probePath  string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. A zero timeout
// uses the default of 60 seconds.
func NewClient(baseURL, probePath string, timeout time.Duration) *Client {
	if probePath == "" {
		probePath = DefaultProbePath
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		probePath:  probePath,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type queryRequest struct {
	Query  string `json:"query"`
	APIKey string `json:"api_key,omitempty"`
}

// Query posts a free-text question to the backend. A backend answer with
// success=false is returned as is, not as an error; transport failures and
// non-2xx statuses are errors.
func (c *Client) Query(ctx context.Context, question, apiKey string) (*QueryResult, error) {
	body, err := json.Marshal(queryRequest{Query: question, APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+queryPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result QueryResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decoding query response: %w", err)
	}
	if result.Success && result.Mode == "" {
		result.Mode = ModeBrain
	}
	return &result, nil
}

// Characteristics fetches the voltage-current characteristic of one
// component.
func (c *Client) Characteristics(ctx context.Context, id string) (*SearchResult, error) {
	endpoint := c.baseURL + "/api/components/" + url.PathEscape(id) + "/characteristics"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ComponentID     string  `json:"component_id"`
		Characteristics []Point `json:"characteristics"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("decoding characteristics: %w", err)
	}
	if payload.ComponentID == "" {
		payload.ComponentID = id
	}
	return NewCurve(payload.ComponentID, payload.Characteristics), nil
}

// Ping reports whether the backend answers its probe endpoint with 2xx.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.probePath, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	_, err = c.do(req)
	return err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: backendError(resp.StatusCode, body)}
	}
	return body, nil
}

// backendError prefers the backend's own error or detail text over a
// generic status message.
func backendError(status int, body []byte) string {
	var payload struct {
		Error  string `json:"error"`
		Detail any    `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if s, ok := payload.Detail.(string); ok && s != "" {
			return s
		}
	}
	return fmt.Sprintf(serverErrorMessage, status)
}
