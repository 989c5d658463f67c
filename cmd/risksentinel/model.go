package main

import (
	"fmt"
	"os"
	"path/filepath"

	"RiskSentinel/internal/modelstore"

	"github.com/spf13/cobra"
)

var seedOut string

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage the learned pattern model",
}

var modelSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the stock template model to a SQLite file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := seedOut
		if path == "" {
			path = cfg.Pattern.ModelPath
		}
		if path == "" {
			return fmt.Errorf("no output path: set --out or pattern.model_path")
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create model dir: %w", err)
			}
		}
		m := modelstore.DefaultTemplates()
		if err := modelstore.Save(cmd.Context(), path, m); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d templates) to %s\n", m.Name(), len(m.Templates), path)
		return nil
	},
}

func init() {
	modelSeedCmd.Flags().StringVarP(&seedOut, "out", "o", "", "output SQLite path (default pattern.model_path)")
	modelCmd.AddCommand(modelSeedCmd)
}
