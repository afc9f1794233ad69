package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Chat.Model != "deepseek/deepseek-chat" {
		t.Errorf("expected default model %q, got %q", "deepseek/deepseek-chat", cfg.Chat.Model)
	}
	if cfg.Key.Prefix != "sk-or-v1-" {
		t.Errorf("expected default key prefix, got %q", cfg.Key.Prefix)
	}
	if cfg.History.Limit != 20 || cfg.History.Shown != 5 {
		t.Errorf("expected history 20/5, got %d/%d", cfg.History.Limit, cfg.History.Shown)
	}
	if cfg.History.RecordFailures {
		t.Error("failures should not be recorded by default")
	}
	if cfg.Render.ListLimit != 6 || cfg.Render.TableRows != 15 {
		t.Errorf("expected render 6/15, got %d/%d", cfg.Render.ListLimit, cfg.Render.TableRows)
	}
	if cfg.DispatchTimeout() != 60*time.Second {
		t.Errorf("expected dispatch timeout 60s, got %s", cfg.DispatchTimeout())
	}
	if cfg.Chat.Temperature != 0.1 {
		t.Errorf("expected temperature 0.1, got %v", cfg.Chat.Temperature)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.partscope.yml")

	original := DefaultConfig()
	original.Port = 9090
	original.Backend.URL = "http://catalog.local:8000"
	original.Chat.Model = "openai/gpt-4o-mini"
	original.Chat.Temperature = 0.2
	original.History.RecordFailures = true
	original.Dispatch.ReleaseAfterSeconds = 0

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.Backend.URL != original.Backend.URL {
		t.Errorf("backend.url: got %q, want %q", loaded.Backend.URL, original.Backend.URL)
	}
	if loaded.Chat.Model != original.Chat.Model {
		t.Errorf("chat.model: got %q, want %q", loaded.Chat.Model, original.Chat.Model)
	}
	if loaded.Chat.Temperature != original.Chat.Temperature {
		t.Errorf("chat.temperature: got %f, want %f", loaded.Chat.Temperature, original.Chat.Temperature)
	}
	if !loaded.History.RecordFailures {
		t.Error("history.record_failures: got false, want true")
	}
	if loaded.ReleaseAfter() != 0 {
		t.Errorf("release_after: got %s, want 0", loaded.ReleaseAfter())
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("expected default backend url, got %q", cfg.Backend.URL)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yml")
	if err := os.WriteFile(path, []byte("backend:\n  url: http://other:9000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.URL != "http://other:9000" {
		t.Errorf("backend.url = %q", cfg.Backend.URL)
	}
	if cfg.Backend.ProbePath != "/api/components" {
		t.Errorf("backend.probe_path = %q, want default", cfg.Backend.ProbePath)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want default", cfg.Port)
	}
}

func TestLoadTierPicksModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tier.yml")
	if err := os.WriteFile(path, []byte("chat:\n  tier: max\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Chat.Model != ModelFor(TierMax) {
		t.Errorf("chat.model = %q, want %q", cfg.Chat.Model, ModelFor(TierMax))
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("PARTSCOPE_PORT", "9999")
	t.Setenv("PARTSCOPE_BACKEND__URL", "http://env-backend:8000")
	t.Setenv("PARTSCOPE_CHAT__MAX_TOKENS", "500")
	t.Setenv("PARTSCOPE_LOG_LEVEL", "debug")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Port != 9999 {
		t.Errorf("env override port: got %d, want 9999", loaded.Port)
	}
	if loaded.Backend.URL != "http://env-backend:8000" {
		t.Errorf("env override backend.url: got %q", loaded.Backend.URL)
	}
	if loaded.Chat.MaxTokens != 500 {
		t.Errorf("env override chat.max_tokens: got %d, want 500", loaded.Chat.MaxTokens)
	}
	if loaded.SlogLevel() != slog.LevelDebug {
		t.Errorf("log level: got %v, want debug", loaded.SlogLevel())
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"PARTSCOPE_PORT":                      "port",
		"PARTSCOPE_ALLOW_ALL_ORIGINS":         "allow_all_origins",
		"PARTSCOPE_DISPATCH__TIMEOUT_SECONDS": "dispatch.timeout_seconds",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"empty backend", func(c *Config) { c.Backend.URL = "" }},
		{"backend without scheme", func(c *Config) { c.Backend.URL = "localhost:8000" }},
		{"empty chat url", func(c *Config) { c.Chat.URL = "" }},
		{"empty model", func(c *Config) { c.Chat.Model = "" }},
		{"bad tier", func(c *Config) { c.Chat.Tier = "ultra" }},
		{"temperature too high", func(c *Config) { c.Chat.Temperature = 3 }},
		{"negative rpm", func(c *Config) { c.Chat.RequestsPerMinute = -1 }},
		{"empty prefix", func(c *Config) { c.Key.Prefix = "" }},
		{"zero history", func(c *Config) { c.History.Limit = 0 }},
		{"shown above limit", func(c *Config) { c.History.Shown = 21 }},
		{"zero list limit", func(c *Config) { c.Render.ListLimit = 0 }},
		{"zero table rows", func(c *Config) { c.Render.TableRows = 0 }},
		{"zero dispatch timeout", func(c *Config) { c.Dispatch.TimeoutSeconds = 0 }},
		{"negative release", func(c *Config) { c.Dispatch.ReleaseAfterSeconds = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestModelFor(t *testing.T) {
	if got := ModelFor(TierLite); got != "deepseek/deepseek-chat" {
		t.Errorf("ModelFor(lite) = %q", got)
	}
	// Unknown tier falls back to normal.
	if got := ModelFor("unknown"); got != ModelFor(TierNormal) {
		t.Errorf("ModelFor(unknown) = %q, want normal model", got)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/var/lib/partscope"
	if got := cfg.DatabasePath(); got != filepath.Join("/var/lib/partscope", "partscope.db") {
		t.Errorf("DatabasePath() = %q", got)
	}
}

func TestValidateURL(t *testing.T) {
	good := []string{"http://localhost:8000", "https://catalog.example.com"}
	bad := []string{"", "localhost:8000", "ftp://x", "http://"}
	for _, s := range good {
		if err := validateURL(s); err != nil {
			t.Errorf("validateURL(%q) = %v, want nil", s, err)
		}
	}
	for _, s := range bad {
		if err := validateURL(s); err == nil {
			t.Errorf("validateURL(%q) = nil, want error", s)
		}
	}
}

func TestValidatePort(t *testing.T) {
	tests := map[string]bool{
		"8080":  true,
		"1":     true,
		"0":     false,
		"65536": false,
		"abc":   false,
	}
	for in, ok := range tests {
		err := validatePort(in)
		if ok && err != nil {
			t.Errorf("validatePort(%q) = %v, want nil", in, err)
		}
		if !ok && err == nil {
			t.Errorf("validatePort(%q) = nil, want error", in)
		}
	}
}

func TestFilterTarget(t *testing.T) {
	tests := []struct {
		backend string
		filter  string
		want    string
	}{
		{"http://localhost:8000", "/components", "http://localhost:8000/components"},
		{"http://localhost:8000/", "/components?type=diode", "http://localhost:8000/components"},
		{"http://localhost:8000", "https://catalog.example/components", ""},
		{"http://localhost:8000", "//catalog.example/components", ""},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Backend.URL = tt.backend
		cfg.UI.FilterURL = tt.filter
		if got := cfg.FilterTarget(); got != tt.want {
			t.Errorf("FilterTarget(%q, %q) = %q, want %q", tt.backend, tt.filter, got, tt.want)
		}
	}
}
