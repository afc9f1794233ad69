package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear recently asked questions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent questions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")

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

		hist := svc.history()
		entries := hist.List(ctx, limit)

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No questions recorded yet.")
			return nil
		}
		for i, e := range entries {
			status := "ok"
			if !e.Success {
				status = "failed"
			}
			fmt.Printf("  %d. %s  [%s/%s, %s]\n", i, e.Query, e.Type, e.Mode, status)
			if ts := e.Time(); !ts.IsZero() {
				fmt.Printf("     %s\n", ts.Local().Format("02.01.2006 15:04"))
			}
			switch {
			case e.ResultCount > 0:
				fmt.Printf("     %d results\n", e.ResultCount)
			case e.ResponseSnippet != "":
				fmt.Printf("     %s\n", e.ResponseSnippet)
			}
		}
		fmt.Printf("\n%d shown, up to %d kept.\n", len(entries), hist.Limit())
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recorded questions",
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

		if err := svc.history().Clear(ctx); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Println("History cleared.")
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "maximum number of entries (0 for all)")
	historyListCmd.Flags().Bool("json", false, "output entries as JSON")
	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
