package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ziadkadry99/wabridge/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize wabridge configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the bridge and writes the config file (.wabridge.yml by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
