package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ziadkadry99/partscope/internal/catalog"
	"github.com/ziadkadry99/partscope/internal/config"
	"github.com/ziadkadry99/partscope/internal/db"
	"github.com/ziadkadry99/partscope/internal/dispatch"
	"github.com/ziadkadry99/partscope/internal/history"
	"github.com/ziadkadry99/partscope/internal/keystore"
	"github.com/ziadkadry99/partscope/internal/llm"
	"github.com/ziadkadry99/partscope/internal/render"
	"github.com/ziadkadry99/partscope/internal/storage"
)

// cliSession scopes the key and history of every terminal command.
const cliSession = "cli"

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `partscope init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	setupLogging(cfg)
	return cfg, nil
}

// setupLogging installs a stderr text handler at the configured level.
// Stdout stays free for command output and the MCP protocol.
func setupLogging(cfg *config.Config) {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// services holds the collaborators shared by the web server, the CLI
// commands and the MCP server.
type services struct {
	cfg        *config.Config
	db         *db.DB
	store      storage.Port
	catalog    *catalog.Client
	openrouter *llm.OpenRouterProvider
	chat       llm.Provider
	renderer   *render.Renderer
}

// newServices opens the database and builds the backend clients. Callers
// must close s.db.
func newServices(cfg *config.Config) (*services, error) {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	openrouter := llm.NewOpenRouterProvider(llm.OpenRouterOptions{
		ChatURL:     cfg.Chat.URL,
		KeyInfoURL:  cfg.Chat.KeyInfoURL,
		Model:       cfg.Chat.Model,
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
		Referer:     cfg.Chat.Referer,
		Title:       cfg.Chat.Title,
		Timeout:     cfg.DispatchTimeout(),
	})

	return &services{
		cfg:        cfg,
		db:         database,
		store:      storage.NewSQLite(database),
		catalog:    catalog.NewClient(cfg.Backend.URL, cfg.Backend.ProbePath, cfg.BackendTimeout()),
		openrouter: openrouter,
		chat:       llm.NewRateLimitedProvider(openrouter, cfg.Chat.RequestsPerMinute),
		renderer: render.New(render.Options{
			ListLimit: cfg.Render.ListLimit,
			TableRows: cfg.Render.TableRows,
			FilterURL: cfg.UI.FilterURL,
			KeyPrefix: cfg.Key.Prefix,
		}),
	}, nil
}

// keys returns the key store of the CLI session.
func (s *services) keys() *keystore.Store {
	return keystore.New(storage.SessionScope(s.store, cliSession), s.cfg.Key.Prefix)
}

// history returns the history of the CLI session.
func (s *services) history() *history.Store {
	return history.New(storage.SessionScope(s.store, cliSession), s.cfg.History.Limit)
}

// dispatcher builds a dispatcher over the CLI session. A key in the
// environment takes precedence over the stored one.
func (s *services) dispatcher() *dispatch.Dispatcher {
	return dispatch.New(envKeys{s.keys()}, s.history(), s.catalog, s.chat, dispatch.Options{
		Policy:  dispatch.HistoryPolicy{RecordFailures: s.cfg.History.RecordFailures},
		Timeout: s.cfg.DispatchTimeout(),
	})
}

// envKeys prefers OPENROUTER_API_KEY over the stored credential.
type envKeys struct {
	stored dispatch.KeySource
}

func (e envKeys) Load(ctx context.Context) (string, bool) {
	if key := os.Getenv(config.APIKeyEnvVar); key != "" {
		return key, true
	}
	return e.stored.Load(ctx)
}

// commandContext bounds a single CLI command. A zero timeout means 30s.
func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}
