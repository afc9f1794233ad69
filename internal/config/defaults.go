package config

// tierModels maps each tier to its OpenRouter model.
var tierModels = map[ModelTier]string{
	TierLite:   "deepseek/deepseek-chat",
	TierNormal: "deepseek/deepseek-chat",
	TierMax:    "anthropic/claude-3.5-sonnet",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:     8080,
		DataDir:  ".partscope",
		LogLevel: "info",
		Backend: BackendConfig{
			URL:             "http://localhost:8000",
			ProbePath:       "/api/components",
			TimeoutSeconds:  30,
			ProbeTTLSeconds: 30,
		},
		Chat: ChatConfig{
			URL:               "https://openrouter.ai/api/v1/chat/completions",
			KeyInfoURL:        "https://openrouter.ai/api/v1/auth/key",
			Tier:              TierNormal,
			Model:             tierModels[TierNormal],
			Temperature:       0.1,
			MaxTokens:         1000,
			Title:             "Electronic Components Catalog",
			RequestsPerMinute: 20,
		},
		Key: KeyConfig{
			Prefix: "sk-or-v1-",
		},
		History: HistoryConfig{
			Limit: 20,
			Shown: 5,
		},
		Render: RenderConfig{
			ListLimit: 6,
			TableRows: 15,
		},
		UI: UIConfig{
			FilterURL: "/components",
		},
		Dispatch: DispatchConfig{
			TimeoutSeconds:      60,
			ReleaseAfterSeconds: 90,
		},
	}
}

// ModelFor returns the chat model for the given tier. Unknown tiers get
// the normal model.
func ModelFor(tier ModelTier) string {
	if m, ok := tierModels[tier]; ok {
		return m
	}
	return tierModels[TierNormal]
}
