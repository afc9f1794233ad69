package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/partscope/internal/config"
	"github.com/ziadkadry99/partscope/internal/keystore"
	"github.com/ziadkadry99/partscope/internal/notify"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the OpenRouter API key used for chat answers",
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store an OpenRouter API key (prompts when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var input string
		if len(args) == 1 {
			input = args[0]
		} else {
			prompt := promptui.Prompt{
				Label: "OpenRouter API key",
				Mask:  '*',
				Validate: func(s string) error {
					if !strings.HasPrefix(strings.TrimSpace(s), cfg.Key.Prefix) {
						return fmt.Errorf("key must start with %s", cfg.Key.Prefix)
					}
					return nil
				},
			}
			input, err = prompt.Run()
			if err != nil {
				return fmt.Errorf("reading key: %w", err)
			}
		}

		svc, err := newServices(cfg)
		if err != nil {
			return err
		}
		defer svc.db.Close()

		ctx, cancel := commandContext(cfg.BackendTimeout())
		defer cancel()

		sink := &notify.Collector{}
		ok := svc.keys().Save(ctx, input, sink)
		printNotifications(sink)
		if !ok {
			return fmt.Errorf("key not saved")
		}
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, err := newServices(cfg)
		if err != nil {
			return err
		}
		defer svc.db.Close()

		ctx, cancel := commandContext(cfg.BackendTimeout())
		defer cancel()

		sink := &notify.Collector{}
		svc.keys().Clear(ctx, sink)
		printNotifications(sink)
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored API key, masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, err := newServices(cfg)
		if err != nil {
			return err
		}
		defer svc.db.Close()

		ctx, cancel := commandContext(cfg.BackendTimeout())
		defer cancel()

		view := svc.keys().View(ctx)
		if view.HasKey {
			fmt.Printf("Stored key: %s\n", view.Value)
		} else {
			fmt.Println("No key stored.")
		}
		if env := os.Getenv(config.APIKeyEnvVar); env != "" {
			fmt.Printf("%s is set and takes precedence: %s\n", config.APIKeyEnvVar, keystore.Mask(env))
		}
		return nil
	},
}

var keyValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the stored API key against OpenRouter",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, err := newServices(cfg)
		if err != nil {
			return err
		}
		defer svc.db.Close()

		ctx, cancel := commandContext(cfg.DispatchTimeout())
		defer cancel()

		sink := &notify.Collector{}
		result := svc.keys().Validate(ctx, svc.openrouter, sink)
		printNotifications(sink)
		if result.Label != "" {
			fmt.Printf("Label: %s\n", result.Label)
		}
		if !result.Valid {
			return fmt.Errorf("key is not valid")
		}
		return nil
	},
}

// printNotifications writes collected toasts to stderr.
func printNotifications(c *notify.Collector) {
	for _, n := range c.Drain() {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, n.Message)
	}
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyClearCmd, keyShowCmd, keyValidateCmd)
	rootCmd.AddCommand(keyCmd)
}
