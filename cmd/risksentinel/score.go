package main

import (
	"encoding/json"

	"RiskSentinel/internal/account"
	"RiskSentinel/internal/report"
	"RiskSentinel/internal/risk"

	"github.com/spf13/cobra"
)

var scoreJSON bool

var scoreCmd = &cobra.Command{
	Use:   "score [portfolio-file]",
	Short: "Score the risk of a portfolio file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Account.PortfolioFile
		if len(args) == 1 {
			path = args[0]
		}
		state, err := account.LoadPortfolio(path)
		if err != nil {
			return err
		}

		engine := risk.NewEngine()
		m := engine.Evaluate(state)
		if scoreJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		}
		report.WriteRisk(cmd.OutOrStdout(), m, engine.Factors(m))
		return nil
	},
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print metrics as JSON")
}
