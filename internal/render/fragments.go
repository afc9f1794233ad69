package render

import (
	"io"
	"strings"

	"github.com/ziadkadry99/partscope/internal/catalog"
	"github.com/ziadkadry99/partscope/internal/history"
	"github.com/ziadkadry99/partscope/internal/keystore"
	"github.com/ziadkadry99/partscope/internal/notify"
	"github.com/ziadkadry99/partscope/internal/status"
)

// ErrorKind groups error messages by their likely cause.
type ErrorKind string

const (
	ErrorCredential ErrorKind = "credential"
	ErrorNetwork    ErrorKind = "network"
	ErrorModel      ErrorKind = "model"
	ErrorOther      ErrorKind = "other"
)

var errorMarkers = []struct {
	kind    ErrorKind
	level   notify.Level
	markers []string
}{
	{ErrorCredential, notify.LevelWarning, []string{"key", "ключ", "401", "unauthorized"}},
	{ErrorNetwork, notify.LevelInfo, []string{"network", "connection", "timeout", "недоступен", "сеть", "fetch"}},
	{ErrorModel, notify.LevelWarning, []string{"model", "модел"}},
}

// ClassifyError picks the kind and display severity of an error message by
// the first matching marker group.
func ClassifyError(msg string) (ErrorKind, notify.Level) {
	lower := strings.ToLower(msg)
	for _, g := range errorMarkers {
		for _, m := range g.markers {
			if strings.Contains(lower, m) {
				return g.kind, g.level
			}
		}
	}
	return ErrorOther, notify.LevelDanger
}

type errorView struct {
	Kind      ErrorKind
	Level     notify.Level
	Title     string
	Message   string
	Hint      string
	FilterURL string
}

func (r *Renderer) errorView(msg string) *errorView {
	if msg == "" {
		msg = "Неизвестная ошибка обработки запроса"
	}
	kind, level := ClassifyError(msg)
	v := &errorView{Kind: kind, Level: level, Message: msg, FilterURL: r.opts.FilterURL}
	switch kind {
	case ErrorCredential:
		v.Title = "Проблема с API ключом"
		v.Hint = "Проверьте или заново укажите API ключ OpenRouter."
	case ErrorNetwork:
		v.Title = "Сервис недоступен"
		v.Hint = "Проверьте подключение к сети и что локальный сервер поиска запущен."
	case ErrorModel:
		v.Title = "Проблема с моделью"
		v.Hint = "Проверьте название модели в настройке chat.model."
	default:
		v.Title = "Ошибка ИИ-обработки"
		v.Hint = "Попробуйте переформулировать запрос."
	}
	return v
}

// Error renders the inline error panel for msg.
func (r *Renderer) Error(w io.Writer, msg string) error {
	return r.tmpl.ExecuteTemplate(w, "error", r.errorView(msg))
}

type statusView struct {
	status.Status
	Color string
	OOB   bool
}

var modeColors = map[status.Mode]string{
	status.Full:      "success",
	status.LocalOnly: "info",
	status.ChatOnly:  "warning",
	status.None:      "danger",
}

func newStatusView(s status.Status, oob bool) statusView {
	return statusView{Status: s, Color: modeColors[s.Mode], OOB: oob}
}

// Status renders the header badge and the status panel as out-of-band
// swaps. Pages lacking either target simply ignore it.
func (r *Renderer) Status(w io.Writer, s status.Status) error {
	v := newStatusView(s, true)
	if err := r.tmpl.ExecuteTemplate(w, "status-badge", v); err != nil {
		return err
	}
	return r.tmpl.ExecuteTemplate(w, "status-panel", v)
}

// Toasts appends toasts to the toast container out of band. Nothing is
// written for an empty list.
func (r *Renderer) Toasts(w io.Writer, toasts []notify.Notification) error {
	if len(toasts) == 0 {
		return nil
	}
	return r.tmpl.ExecuteTemplate(w, "toasts-oob", toasts)
}

type historyItem struct {
	Index   int
	Query   string
	Success bool
	Count   int
	When    string
}

type historyView struct {
	OOB   bool
	Items []historyItem
}

func newHistoryView(entries []history.Entry, oob bool) historyView {
	v := historyView{OOB: oob}
	for i, e := range entries {
		item := historyItem{Index: i, Query: e.Query, Success: e.Success, Count: e.ResultCount}
		if t := e.Time(); !t.IsZero() {
			item.When = t.Local().Format("02.01.2006 15:04")
		}
		v.Items = append(v.Items, item)
	}
	return v
}

// History renders the recent-query list. oob marks it for an out-of-band
// swap alongside another response.
func (r *Renderer) History(w io.Writer, entries []history.Entry, oob bool) error {
	return r.tmpl.ExecuteTemplate(w, "history", newHistoryView(entries, oob))
}

type keyView struct {
	keystore.View
	Prefix string
}

// KeyForm renders the credential form for v.
func (r *Renderer) KeyForm(w io.Writer, v keystore.View) error {
	return r.tmpl.ExecuteTemplate(w, "key-form", keyView{View: v, Prefix: r.opts.KeyPrefix})
}

// QueryInput renders the question input holding value. With autoSubmit
// the form is submitted 500 ms after the swap.
func (r *Renderer) QueryInput(w io.Writer, value string, autoSubmit bool) error {
	if err := r.tmpl.ExecuteTemplate(w, "query-input", value); err != nil {
		return err
	}
	if autoSubmit {
		return r.tmpl.ExecuteTemplate(w, "autosubmit", nil)
	}
	return nil
}

// Page is everything the main page shows on load.
type Page struct {
	Status     status.Status
	Toasts     []notify.Notification
	Query      string
	AutoSubmit bool
	Key        keystore.View
	History    []history.Entry
}

type pageView struct {
	Title       string
	Status      statusView
	Toasts      []notify.Notification
	Query       string
	AutoSubmit  bool
	Key         keyView
	History     historyView
	Detail      *curveView
	DetailError *errorView
}

// Page renders the main page.
func (r *Renderer) Page(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, "page", pageView{
		Title:      r.opts.Title,
		Status:     newStatusView(p.Status, false),
		Toasts:     p.Toasts,
		Query:      p.Query,
		AutoSubmit: p.AutoSubmit,
		Key:        keyView{View: p.Key, Prefix: r.opts.KeyPrefix},
		History:    newHistoryView(p.History, false),
	})
}

// DetailPage renders the characteristic page of one component, or an
// error panel when fetching it failed.
func (r *Renderer) DetailPage(w io.Writer, s status.Status, curve *catalog.SearchResult, errMsg string) error {
	v := pageView{Title: r.opts.Title, Status: newStatusView(s, false)}
	if errMsg != "" || curve == nil {
		v.DetailError = r.errorView(errMsg)
	} else {
		cv := r.curveView("", curve)
		v.Detail = &cv
	}
	return r.tmpl.ExecuteTemplate(w, "page", v)
}
