package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/partscope/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize partscope configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the search backend, chat model and web server, and writes the result to the --config path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
