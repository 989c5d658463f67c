package main

import (
	"context"
	"encoding/json"
	"fmt"

	"RiskSentinel/internal/collector"
	"RiskSentinel/internal/config"
	"RiskSentinel/internal/modelstore"
	"RiskSentinel/internal/pattern"
	"RiskSentinel/internal/report"
	"RiskSentinel/internal/series"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	patternsCSV  string
	patternsJSON bool
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Analyze a price series for chart patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		if patternsCSV != "" {
			cfg.Series.Source = "csv"
			cfg.Series.CSVPath = patternsCSV
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()

		col, err := newCollector(cfg)
		if err != nil {
			return err
		}
		n, err := col.Fill(ctx, cfg.Series.Capacity)
		if err != nil {
			return err
		}
		log.Debug().Int("samples", n).Str("source", col.Source.Name()).Msg("series loaded")

		rec := newRecognizer(ctx, cfg)
		a, err := rec.Analyze(ctx, col.Buffer.Snapshot())
		if err != nil {
			return err
		}
		if patternsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a)
		}
		report.WritePatterns(cmd.OutOrStdout(), a)
		return nil
	},
}

func init() {
	patternsCmd.Flags().StringVar(&patternsCSV, "csv", "", "read samples from a CSV file instead of the configured source")
	patternsCmd.Flags().BoolVar(&patternsJSON, "json", false, "print the analysis as JSON")
}

func newCollector(cfg *config.Config) (*collector.Collector, error) {
	var src collector.Source
	switch cfg.Series.Source {
	case "csv":
		s, err := collector.NewCSVSource(cfg.Series.CSVPath)
		if err != nil {
			return nil, err
		}
		src = s
	case "mock":
		src = collector.NewMockSource(cfg.Series.BasePrice, cfg.Series.Seed)
	default:
		return nil, fmt.Errorf("unknown series source %q", cfg.Series.Source)
	}
	return collector.NewCollector(src, series.NewBuffer(cfg.Series.Capacity)), nil
}

// newRecognizer builds a recognizer and loads the configured model, if any.
// A load failure is logged and leaves heuristic detection in place.
func newRecognizer(ctx context.Context, cfg *config.Config) *pattern.Recognizer {
	var loader pattern.ModelLoader
	if cfg.Pattern.ModelPath != "" {
		loader = modelstore.Loader{Path: cfg.Pattern.ModelPath}
	}
	rec := pattern.NewRecognizer(cfg.Pattern.Config, loader)
	_ = rec.Initialize(ctx)
	return rec
}
