package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to partscope! Let's configure the catalog assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Search backend.
	backendPrompt := promptui.Prompt{
		Label:    "Component search backend URL",
		Default:  cfg.Backend.URL,
		Validate: validateURL,
	}
	backendURL, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	cfg.Backend.URL = backendURL

	// 2. Chat model tier.
	tierPrompt := promptui.Select{
		Label: "Select chat model tier",
		Items: []string{
			"lite   - cheapest (" + ModelFor(TierLite) + ")",
			"normal - balanced (" + ModelFor(TierNormal) + ")",
			"max    - best answers (" + ModelFor(TierMax) + ")",
		},
		CursorPos: 1,
	}
	tierIdx, _, err := tierPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("tier selection: %w", err)
	}
	tiers := []ModelTier{TierLite, TierNormal, TierMax}
	cfg.Chat.Tier = tiers[tierIdx]
	cfg.Chat.Model = ModelFor(cfg.Chat.Tier)

	// 3. Listen port.
	portPrompt := promptui.Prompt{
		Label:    "Web server port",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for sessions, keys and history",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	// 5. History policy.
	failPrompt := promptui.Select{
		Label: "Record failed questions in history?",
		Items: []string{"no", "yes"},
	}
	failIdx, _, err := failPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("history policy: %w", err)
	}
	cfg.History.RecordFailures = failIdx == 1

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if os.Getenv(APIKeyEnvVar) == "" {
		fmt.Printf("\nNote: chat answers need an OpenRouter key. Set %s or run `partscope key set`.\n", APIKeyEnvVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// validateURL accepts absolute http(s) URLs.
func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}

// validatePort accepts 1-65535.
func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("port must be a number")
	}
	if n < 1 || n > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	return nil
}
