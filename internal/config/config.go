package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".partscope.yml"

// EnvPrefix prefixes every environment override. A double underscore
// separates nested keys: PARTSCOPE_BACKEND__URL -> backend.url.
const EnvPrefix = "PARTSCOPE_"

// APIKeyEnvVar is read by the CLI as a credential that bypasses the key store.
const APIKeyEnvVar = "OPENROUTER_API_KEY"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PARTSCOPE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// A tier without an explicit model picks the tier's model.
	if !k.Exists("chat.model") && k.Exists("chat.tier") {
		cfg.Chat.Model = ModelFor(cfg.Chat.Tier)
	}

	return cfg, nil
}

// envKey maps PARTSCOPE_CHAT__MAX_TOKENS to chat.max_tokens.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validTiers is the set of recognized model tier values.
var validTiers = map[ModelTier]bool{
	TierLite:   true,
	TierNormal: true,
	TierMax:    true,
}

// validLogLevels is the set of recognized log_level values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("backend.url must start with http:// or https://, got %q", c.Backend.URL)
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeout_seconds must be non-negative")
	}

	if c.Chat.URL == "" {
		return fmt.Errorf("chat.url is required")
	}
	if c.Chat.Model == "" {
		return fmt.Errorf("chat.model is required")
	}
	if c.Chat.Tier != "" && !validTiers[c.Chat.Tier] {
		return fmt.Errorf("invalid chat.tier %q: must be one of lite, normal, max", c.Chat.Tier)
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return fmt.Errorf("chat.temperature must be between 0 and 2")
	}
	if c.Chat.MaxTokens < 0 {
		return fmt.Errorf("chat.max_tokens must be non-negative")
	}
	if c.Chat.RequestsPerMinute < 0 {
		return fmt.Errorf("chat.requests_per_minute must be non-negative")
	}

	if c.Key.Prefix == "" {
		return fmt.Errorf("key.prefix is required")
	}

	if c.History.Limit <= 0 {
		return fmt.Errorf("history.limit must be positive")
	}
	if c.History.Shown < 0 || c.History.Shown > c.History.Limit {
		return fmt.Errorf("history.shown must be between 0 and history.limit")
	}

	if c.Render.ListLimit <= 0 {
		return fmt.Errorf("render.list_limit must be positive")
	}
	if c.Render.TableRows <= 0 {
		return fmt.Errorf("render.table_rows must be positive")
	}

	if c.Dispatch.TimeoutSeconds <= 0 {
		return fmt.Errorf("dispatch.timeout_seconds must be positive")
	}
	if c.Dispatch.ReleaseAfterSeconds < 0 {
		return fmt.Errorf("dispatch.release_after_seconds must be non-negative")
	}

	return nil
}

// SlogLevel returns the slog level named by log_level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DatabasePath is the SQLite file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "partscope.db")
}

// BackendTimeout is the per-request timeout for the search backend.
func (c *Config) BackendTimeout() time.Duration {
	return seconds(c.Backend.TimeoutSeconds)
}

// ProbeTTL is how long a backend availability result is cached.
func (c *Config) ProbeTTL() time.Duration {
	return seconds(c.Backend.ProbeTTLSeconds)
}

// DispatchTimeout bounds one dispatched question.
func (c *Config) DispatchTimeout() time.Duration {
	return seconds(c.Dispatch.TimeoutSeconds)
}

// ReleaseAfter is the in-flight fallback release delay. Zero disables it.
func (c *Config) ReleaseAfter() time.Duration {
	return seconds(c.Dispatch.ReleaseAfterSeconds)
}

// FilterTarget is the backend page a relative ui.filter_url stands for.
// It is empty when the filter URL already points at another host.
func (c *Config) FilterTarget() string {
	path, _, _ := strings.Cut(c.UI.FilterURL, "?")
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return ""
	}
	return strings.TrimRight(c.Backend.URL, "/") + path
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
