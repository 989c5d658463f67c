package main

import (
	"os"

	"RiskSentinel/internal/config"
	"RiskSentinel/internal/logging"

	"github.com/spf13/cobra"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "risksentinel",
	Short:         "Portfolio risk scoring and chart pattern monitoring",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		logging.Setup(loaded.Log.Level, loaded.Log.Format)
		cfg = loaded
		return nil
	},
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultPath, "path to YAML config")

	rootCmd.AddCommand(versionCmd, scoreCmd, patternsCmd, runCmd, modelCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
