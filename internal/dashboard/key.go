package dashboard

import (
	"bytes"
	"context"
	"net/http"

	"github.com/ziadkadry99/partscope/internal/notify"
)

func (d *Dashboard) handleSaveKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := d.session(ctx)
	toasts := &notify.Collector{}

	changed := false
	s.keys.OnChange(func(context.Context) { changed = true })
	s.keys.Save(ctx, r.FormValue("api_key"), toasts)

	d.writeKeyResponse(w, r, s, changed, toasts)
}

func (d *Dashboard) handleClearKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := d.session(ctx)
	toasts := &notify.Collector{}

	changed := false
	s.keys.OnChange(func(context.Context) { changed = true })
	s.keys.Clear(ctx, toasts)

	d.writeKeyResponse(w, r, s, changed, toasts)
}

func (d *Dashboard) handleValidateKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := d.session(ctx)
	toasts := &notify.Collector{}

	if d.cfg.Validator == nil {
		toasts.Info("Проверка ключа недоступна")
	} else {
		s.keys.Validate(ctx, d.cfg.Validator, toasts)
	}
	d.toastOnly(w, toasts)
}

// writeKeyResponse re-renders the key form and, when the key changed, the
// status badge and panel.
func (d *Dashboard) writeKeyResponse(w http.ResponseWriter, r *http.Request, s *session, changed bool, toasts *notify.Collector) {
	ctx := r.Context()

	var buf bytes.Buffer
	err := d.cfg.Renderer.KeyForm(&buf, s.keys.View(ctx))
	if err == nil && changed {
		err = d.cfg.Renderer.Status(&buf, d.status(ctx, s))
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
