package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/partscope/internal/catalog"
	"github.com/ziadkadry99/partscope/internal/classify"
	"github.com/ziadkadry99/partscope/internal/notify"
	"github.com/ziadkadry99/partscope/internal/progress"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the component catalog a question",
	Long: `Classifies the question, sends it to the local search backend or the chat
model, and prints the answer. Use --component to fetch the voltage-current
characteristic of one component directly.`,
	Example: `  partscope ask КТ315 характеристики
  partscope ask "Объясни принцип работы биполярного транзистора"
  partscope ask --component 2N3904 --json`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "output the normalized result as JSON")
	askCmd.Flags().BoolP("quiet", "q", false, "hide the progress spinner")
	askCmd.Flags().Bool("explain", false, "print the routing decision before asking")
	askCmd.Flags().String("component", "", "fetch the characteristic of this component id")
	askCmd.Flags().Bool("copy", false, "copy the answer to the system clipboard")
	askCmd.Flags().Int("width", 100, "wrap chat answers at this many columns (0 disables)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	explain, _ := cmd.Flags().GetBool("explain")
	component, _ := cmd.Flags().GetString("component")
	copyOut, _ := cmd.Flags().GetBool("copy")
	width, _ := cmd.Flags().GetInt("width")

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" && component == "" {
		return fmt.Errorf("a question or --component is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.db.Close()

	ctx, cancel := commandContext(cfg.DispatchTimeout() + 5*time.Second)
	defer cancel()

	if explain && question != "" {
		fmt.Fprintf(os.Stderr, "intent: %s (component id: %t)\n", classify.Classify(question), classify.HasComponentID(question))
	}

	reporter := progress.NewReporter(quiet || jsonOutput)
	sink := &notify.Collector{}

	var res catalog.QueryResult
	if component != "" {
		reporter.Start("Загрузка характеристик " + component)
		curve, err := svc.catalog.Characteristics(ctx, component)
		reporter.Stop()
		if err != nil {
			res = catalog.Failure(catalog.ModeBrainError, err.Error())
		} else {
			res = catalog.QueryResult{Success: true, Mode: catalog.ModeBrain, Result: curve}
		}
	} else {
		reporter.Start("Обработка запроса")
		res = svc.dispatcher().Dispatch(ctx, question, sink)
		reporter.Stop()
	}

	printNotifications(sink)

	var out string
	if jsonOutput {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		out = string(data) + "\n"
	} else {
		out = svc.renderer.Text(res)
		if res.IsChat() && width > 0 {
			out = wordwrap.String(out, width)
		}
	}
	fmt.Print(out)

	if copyOut && res.Success {
		if err := clipboard.WriteAll(out); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Copied to clipboard.")
	}

	if !res.Success {
		return fmt.Errorf("query failed (%s)", res.Mode)
	}
	return nil
}
