package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/wabridge/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "wabridge",
	Short: "Bridge between a WhatsApp gateway process and Go message handlers",
	Long: `wabridge receives message events from an external WhatsApp gateway over
HTTP, runs them through registered handlers, and answers with the actions
(send, delete, kick, add, promote, demote) the gateway should execute.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
