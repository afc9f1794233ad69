package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/partscope/internal/catalog"
	"github.com/ziadkadry99/partscope/internal/history"
	"github.com/ziadkadry99/partscope/internal/notify"
	"github.com/ziadkadry99/partscope/internal/render"
)

// statusResponse is the JSON response for the status endpoint.
type statusResponse struct {
	Mode             string `json:"mode"`
	Label            string `json:"label"`
	BackendAvailable bool   `json:"backend_available"`
	HasKey           bool   `json:"has_key"`
}

// historyResponse is the JSON response for the history endpoint.
type historyResponse struct {
	Entries []history.Entry `json:"entries"`
}

func (d *Dashboard) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := d.session(ctx)

	page := render.Page{
		Status:  d.status(ctx, s),
		Key:     s.keys.View(ctx),
		History: s.history.List(ctx, d.cfg.HistoryShown),
	}
	if id := strings.TrimSpace(r.URL.Query().Get("component")); id != "" {
		page.Query = render.AskQuestion(id)
		page.AutoSubmit = true
	} else if q := r.URL.Query().Get("q"); q != "" {
		page.Query = q
	}

	var buf bytes.Buffer
	if err := d.cfg.Renderer.Page(&buf, page); err != nil {
		renderFailed(w, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (d *Dashboard) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := d.session(ctx)
	toasts := &notify.Collector{}

	tok, ok := d.cfg.Tracker.Begin(s.id)
	if !ok {
		toasts.Warning("Запрос уже выполняется, дождитесь ответа")
		d.toastOnly(w, toasts)
		return
	}
	defer d.cfg.Tracker.Finish(tok)

	question := r.FormValue("query")
	res := s.dispatcher.Dispatch(ctx, question, toasts)

	var buf bytes.Buffer
	err := d.cfg.Renderer.Result(&buf, strings.TrimSpace(question), res)
	if err == nil {
		err = d.cfg.Renderer.History(&buf, s.history.List(ctx, d.cfg.HistoryShown), true)
	}
	if err == nil {
		err = d.cfg.Renderer.Toasts(&buf, toasts.Drain())
	}
	if err != nil {
		renderFailed(w, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (d *Dashboard) handleAsk(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("component"))
	if id == "" {
		toasts := &notify.Collector{}
		toasts.Warning("Не указан компонент")
		d.toastOnly(w, toasts)
		return
	}

	var buf bytes.Buffer
	if err := d.cfg.Renderer.QueryInput(&buf, render.AskQuestion(id), true); err != nil {
		renderFailed(w, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (d *Dashboard) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := d.session(ctx)
	toasts := &notify.Collector{}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	entry, ok := s.history.Entry(ctx, index)
	if err != nil || !ok {
		toasts.Warning("Запрос не найден в истории")
		d.toastOnly(w, toasts)
		return
	}
	toasts.Info("Запрос загружен из истории")

	var buf bytes.Buffer
	err = d.cfg.Renderer.QueryInput(&buf, entry.Query, false)
	if err == nil {
		err = d.cfg.Renderer.Toasts(&buf, toasts.Drain())
	}
	if err != nil {
		renderFailed(w, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (d *Dashboard) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := d.session(ctx)

	var buf bytes.Buffer
	if err := d.cfg.Renderer.Status(&buf, d.status(ctx, s)); err != nil {
		renderFailed(w, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (d *Dashboard) handleComponent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := d.session(ctx)
	id := chi.URLParam(r, "id")

	curve, err := d.cfg.Catalog.Characteristics(ctx, id)
	errMsg := ""
	code := http.StatusOK
	if err != nil {
		slog.Warn("fetching characteristics", "component", id, "error", err)
		errMsg = err.Error()
		code = http.StatusBadGateway
		var httpErr *catalog.HTTPError
		if errors.As(err, &httpErr) {
			errMsg = httpErr.Message
			if httpErr.StatusCode == http.StatusNotFound {
				code = http.StatusNotFound
			}
		}
	}

	var buf bytes.Buffer
	if err := d.cfg.Renderer.DetailPage(&buf, d.status(ctx, s), curve, errMsg); err != nil {
		renderFailed(w, err)
		return
	}
	writeHTML(w, code, buf.Bytes())
}

func (d *Dashboard) handleStatusJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := d.status(ctx, d.session(ctx))
	writeJSON(w, http.StatusOK, statusResponse{
		Mode:             string(st.Mode),
		Label:            st.Label,
		BackendAvailable: st.BackendAvailable,
		HasKey:           st.HasKey,
	})
}

func (d *Dashboard) handleHistoryJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries := d.session(ctx).history.List(ctx, 0)
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
}

// toastOnly answers with toasts alone and tells htmx to leave the request
// target untouched.
func (d *Dashboard) toastOnly(w http.ResponseWriter, toasts *notify.Collector) {
	var buf bytes.Buffer
	if err := d.cfg.Renderer.Toasts(&buf, toasts.Drain()); err != nil {
		renderFailed(w, err)
		return
	}
	w.Header().Set("HX-Reswap", "none")
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func renderFailed(w http.ResponseWriter, err error) {
	slog.Error("rendering fragment", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleFilter sends the "show all" and error-panel links to the backend's
// filter page, keeping any query string.
func (d *Dashboard) handleFilter(w http.ResponseWriter, r *http.Request) {
	target := d.cfg.FilterTarget
	if r.URL.RawQuery != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}
