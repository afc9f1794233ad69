// Package dispatch routes a question to the search backend or the chat
// model and normalizes the answer.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ziadkadry99/partscope/internal/catalog"
	"github.com/ziadkadry99/partscope/internal/classify"
	"github.com/ziadkadry99/partscope/internal/history"
	"github.com/ziadkadry99/partscope/internal/llm"
	"github.com/ziadkadry99/partscope/internal/notify"
)

const (
	// DefaultTimeout bounds one dispatch end to end.
	DefaultTimeout = 60 * time.Second
	snippetChars   = 200
)

// Searcher is the local search backend.
type Searcher interface {
	Query(ctx context.Context, question, apiKey string) (*catalog.QueryResult, error)
}

// KeySource yields the stored chat credential.
type KeySource interface {
	Load(ctx context.Context) (string, bool)
}

// Recorder keeps the history of dispatched questions.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// HistoryPolicy controls which outcomes are written to history.
type HistoryPolicy struct {
	// RecordFailures also records failed dispatches. Successes are always
	// recorded.
	RecordFailures bool
}

// Options tune a Dispatcher.
type Options struct {
	Policy  HistoryPolicy
	Timeout time.Duration
}

// Dispatcher sends each question to exactly one backend.
type Dispatcher struct {
	keys    KeySource
	history Recorder
	search  Searcher
	chat    llm.Provider
	policy  HistoryPolicy
	timeout time.Duration
}

// New creates a dispatcher. history may be nil to skip recording.
func New(keys KeySource, hist Recorder, search Searcher, chat llm.Provider, opts Options) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Dispatcher{
		keys:    keys,
		history: hist,
		search:  search,
		chat:    chat,
		policy:  opts.Policy,
		timeout: opts.Timeout,
	}
}

// Dispatch classifies question, calls one backend and returns the
// normalized result. Failures never surface as Go errors: they come back
// as unsuccessful results and raise a toast on sink.
func (d *Dispatcher) Dispatch(ctx context.Context, question string, sink notify.Sink) catalog.QueryResult {
	question = strings.TrimSpace(question)
	if question == "" {
		sink.Notify(notify.LevelWarning, "Введите запрос")
		return catalog.Failure(catalog.ModeInvalidInput, "Пустой запрос")
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	intent := classify.Classify(question)

	var res catalog.QueryResult
	switch intent {
	case classify.Chat:
		res = d.askChat(ctx, question, sink)
	default:
		res = d.askSearch(ctx, question, sink)
	}
	res.Intent = string(intent)

	slog.Info("dispatched query",
		"intent", intent,
		"mode", res.Mode,
		"success", res.Success,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	d.record(ctx, question, intent, res)
	return res
}

func (d *Dispatcher) askChat(ctx context.Context, question string, sink notify.Sink) catalog.QueryResult {
	key, ok := d.keys.Load(ctx)
	if !ok {
		sink.Notify(notify.LevelWarning, "Для чата с ИИ нужен API ключ OpenRouter")
		return catalog.Failure(catalog.ModeNoKey, "API ключ OpenRouter не указан")
	}

	resp, err := llm.Ask(ctx, d.chat, key, question)
	if err != nil {
		msg := chatError(err)
		sink.Notify(notify.LevelDanger, msg)
		return catalog.Failure(catalog.ModeOpenRouterError, msg)
	}

	return catalog.QueryResult{Success: true, Mode: catalog.ModeOpenRouter, Response: resp.Content}
}

func (d *Dispatcher) askSearch(ctx context.Context, question string, sink notify.Sink) catalog.QueryResult {
	key, _ := d.keys.Load(ctx)

	res, err := d.search.Query(ctx, question, key)
	if err != nil {
		msg := searchError(err)
		sink.Notify(notify.LevelDanger, msg)
		return catalog.Failure(catalog.ModeBrainError, msg)
	}

	if !res.Success {
		if res.Error == "" {
			res.Error = "Неизвестная ошибка обработки запроса"
		}
		sink.Notify(notify.LevelWarning, res.Error)
	}
	return *res
}

func (d *Dispatcher) record(ctx context.Context, question string, intent classify.Intent, res catalog.QueryResult) {
	if d.history == nil || (!res.Success && !d.policy.RecordFailures) {
		return
	}

	e := history.Entry{
		Query:   question,
		Type:    string(intent),
		Mode:    res.Mode,
		Success: res.Success,
	}
	switch {
	case !res.Success:
		e.ResponseSnippet = truncate(res.Error, snippetChars)
	case res.Result != nil:
		e.ResultCount = res.Result.Len()
	default:
		e.ResponseSnippet = truncate(res.Response, snippetChars)
	}

	// The request context may already be past its deadline.
	if err := d.history.Record(context.WithoutCancel(ctx), e); err != nil {
		slog.Warn("recording history", "error", err)
	}
}

func chatError(err error) string {
	var httpErr *llm.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return fmt.Sprintf("Ошибка OpenRouter (%d): %s", httpErr.StatusCode, httpErr.Message)
	case errors.Is(err, context.DeadlineExceeded):
		return "Превышено время ожидания ответа OpenRouter (timeout)"
	case isNetwork(err):
		return "Сеть недоступна, не удалось связаться с OpenRouter: " + err.Error()
	default:
		return "Ошибка OpenRouter: " + err.Error()
	}
}

func searchError(err error) string {
	var httpErr *catalog.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		return "Локальный сервер не ответил вовремя (timeout)"
	case isNetwork(err):
		return "Локальный сервер недоступен: " + err.Error()
	default:
		return "Ошибка локального поиска: " + err.Error()
	}
}

func isNetwork(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
