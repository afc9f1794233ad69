package config

// ModelTier trades answer quality against cost for the chat model.
type ModelTier string

const (
	TierLite   ModelTier = "lite"
	TierNormal ModelTier = "normal"
	TierMax    ModelTier = "max"
)

// Config is the top-level partscope configuration, corresponding to .partscope.yml.
type Config struct {
	Port            int            `yaml:"port" koanf:"port"`
	AllowAllOrigins bool           `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	DataDir         string         `yaml:"data_dir" koanf:"data_dir"`
	LogLevel        string         `yaml:"log_level" koanf:"log_level"`
	Backend         BackendConfig  `yaml:"backend" koanf:"backend"`
	Chat            ChatConfig     `yaml:"chat" koanf:"chat"`
	Key             KeyConfig      `yaml:"key" koanf:"key"`
	History         HistoryConfig  `yaml:"history" koanf:"history"`
	Render          RenderConfig   `yaml:"render" koanf:"render"`
	UI              UIConfig       `yaml:"ui" koanf:"ui"`
	Dispatch        DispatchConfig `yaml:"dispatch" koanf:"dispatch"`
}

// BackendConfig locates the local component search service.
type BackendConfig struct {
	URL            string `yaml:"url" koanf:"url"`
	ProbePath      string `yaml:"probe_path" koanf:"probe_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	// ProbeTTLSeconds is how long a backend availability check is reused.
	ProbeTTLSeconds int `yaml:"probe_ttl_seconds" koanf:"probe_ttl_seconds"`
}

// ChatConfig holds the OpenRouter chat settings.
type ChatConfig struct {
	URL               string    `yaml:"url" koanf:"url"`
	KeyInfoURL        string    `yaml:"key_info_url" koanf:"key_info_url"`
	Tier              ModelTier `yaml:"tier" koanf:"tier"`
	Model             string    `yaml:"model" koanf:"model"`
	Temperature       float64   `yaml:"temperature" koanf:"temperature"`
	MaxTokens         int       `yaml:"max_tokens" koanf:"max_tokens"`
	Referer           string    `yaml:"referer" koanf:"referer"`
	Title             string    `yaml:"title" koanf:"title"`
	RequestsPerMinute int       `yaml:"requests_per_minute" koanf:"requests_per_minute"`
}

// KeyConfig controls credential validation.
type KeyConfig struct {
	Prefix string `yaml:"prefix" koanf:"prefix"`
}

// HistoryConfig controls the recent-query log.
type HistoryConfig struct {
	Limit          int  `yaml:"limit" koanf:"limit"`
	Shown          int  `yaml:"shown" koanf:"shown"`
	RecordFailures bool `yaml:"record_failures" koanf:"record_failures"`
}

// RenderConfig controls result fragment sizes.
type RenderConfig struct {
	ListLimit int `yaml:"list_limit" koanf:"list_limit"`
	TableRows int `yaml:"table_rows" koanf:"table_rows"`
}

// UIConfig holds links into the surrounding catalog site.
type UIConfig struct {
	FilterURL string `yaml:"filter_url" koanf:"filter_url"`
}

// DispatchConfig bounds a single question.
type DispatchConfig struct {
	TimeoutSeconds      int `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	ReleaseAfterSeconds int `yaml:"release_after_seconds" koanf:"release_after_seconds"`
}
