package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "partscope",
	Short: "AI assistant for an electronic components catalog",
	Long: `partscope routes free-text questions about transistors, diodes and tubes
either to the local component search service or to an OpenRouter chat model,
and renders the answers as an htmx web page, plain text, or MCP tool results.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".partscope.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
