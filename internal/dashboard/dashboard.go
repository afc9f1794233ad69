package dashboard

import (
	"context"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/partscope/internal/catalog"
	"github.com/ziadkadry99/partscope/internal/dispatch"
	"github.com/ziadkadry99/partscope/internal/history"
	"github.com/ziadkadry99/partscope/internal/inflight"
	"github.com/ziadkadry99/partscope/internal/keystore"
	"github.com/ziadkadry99/partscope/internal/llm"
	"github.com/ziadkadry99/partscope/internal/render"
	"github.com/ziadkadry99/partscope/internal/status"
	"github.com/ziadkadry99/partscope/internal/storage"
)

// Catalog is the search backend as seen by the page.
type Catalog interface {
	dispatch.Searcher
	Characteristics(ctx context.Context, id string) (*catalog.SearchResult, error)
}

// Config wires a Dashboard to its collaborators.
type Config struct {
	Store     storage.Port
	Catalog   Catalog
	Chat      llm.Provider
	Validator keystore.Validator
	Prober    *status.Prober
	Renderer  *render.Renderer
	Tracker   *inflight.Tracker

	KeyPrefix       string
	HistoryLimit    int
	HistoryShown    int
	Policy          dispatch.HistoryPolicy
	DispatchTimeout time.Duration
	SecureCookie    bool

	// FilterTarget is the backend's manual filter page. When set, the
	// renderer's relative filter link redirects there.
	FilterTarget string
}

// Dashboard serves the catalog page and its htmx fragments.
type Dashboard struct {
	cfg Config
}

// New creates a new Dashboard. Missing renderer, tracker and history
// settings take their defaults.
func New(cfg Config) *Dashboard {
	if cfg.Renderer == nil {
		cfg.Renderer = render.New(render.Options{KeyPrefix: cfg.KeyPrefix})
	}
	if cfg.Tracker == nil {
		cfg.Tracker = inflight.New(0)
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = history.DefaultLimit
	}
	if cfg.HistoryShown <= 0 {
		cfg.HistoryShown = history.DefaultShown
	}
	return &Dashboard{cfg: cfg}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/static/app.js", d.ServeScript)
	if path := d.filterPath(); path != "" {
		r.Get(path, d.handleFilter)
	}

	r.Group(func(r chi.Router) {
		r.Use(d.sessionMiddleware)

		r.Get("/", d.handlePage)
		r.Get("/component/{id}", d.handleComponent)
		r.Post("/query", d.handleQuery)
		r.Post("/ask", d.handleAsk)
		r.Get("/history/{index}", d.handleHistory)
		r.Get("/status", d.handleStatus)

		r.Post("/key", d.handleSaveKey)
		r.Delete("/key", d.handleClearKey)
		r.Post("/key/validate", d.handleValidateKey)

		r.Get("/api/status", d.handleStatusJSON)
		r.Get("/api/history", d.handleHistoryJSON)
	})
}

// filterPath is the local path of the renderer's filter link, or "" when
// the link is absolute or there is nowhere to redirect.
func (d *Dashboard) filterPath() string {
	if d.cfg.FilterTarget == "" {
		return ""
	}
	u, err := url.Parse(d.cfg.Renderer.Options().FilterURL)
	if err != nil || u.IsAbs() || u.Host != "" || u.Path == "" || u.Path == "/" {
		return ""
	}
	return u.Path
}

// session holds the per-browser services of one request.
type session struct {
	id         string
	keys       *keystore.Store
	history    *history.Store
	dispatcher *dispatch.Dispatcher
}

func (d *Dashboard) session(ctx context.Context) *session {
	id := sessionID(ctx)
	port := storage.SessionScope(d.cfg.Store, id)

	keys := keystore.New(port, d.cfg.KeyPrefix)
	hist := history.New(port, d.cfg.HistoryLimit)
	return &session{
		id:      id,
		keys:    keys,
		history: hist,
		dispatcher: dispatch.New(keys, hist, d.cfg.Catalog, d.cfg.Chat, dispatch.Options{
			Policy:  d.cfg.Policy,
			Timeout: d.cfg.DispatchTimeout,
		}),
	}
}

func (d *Dashboard) status(ctx context.Context, s *session) status.Status {
	backend := false
	if d.cfg.Prober != nil {
		backend = d.cfg.Prober.Available(ctx)
	}
	return status.Compute(backend, s.keys.HasKey(ctx))
}
