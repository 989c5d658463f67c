package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RiskSentinel/internal/account"
	"RiskSentinel/internal/metrics"
	"RiskSentinel/internal/monitor"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var runOnStart bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Monitor the portfolio and price series on the configured schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		log.Info().Msg("RiskSentinel starting")

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		holder, err := account.OpenHolder(cfg.Account.PortfolioFile)
		if err != nil {
			return err
		}
		col, err := newCollector(cfg)
		if err != nil {
			return err
		}
		rec := newRecognizer(ctx, cfg)
		reg := metrics.NewRegistry()

		mon := monitor.NewMonitor(ctx, holder, col, rec, reg)
		if err := mon.RegisterAll(cfg.Schedule.RiskCron, cfg.Schedule.PatternCron); err != nil {
			return err
		}

		var srv *http.Server
		if cfg.Metrics.Addr != "" {
			srv = &http.Server{
				Addr: cfg.Metrics.Addr,
				Handler: reg.Router(func() map[string]any {
					l := mon.Latest()
					return map[string]any{
						"model_loaded":       rec.ModelLoaded(),
						"rank":               l.Risk.Rank,
						"account_version":    holder.Version(),
						"account_updated_at": holder.UpdatedAt(),
						"evaluated_version":  l.AccountVersion,
						"series_length":      col.Buffer.Len(),
					}
				}),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("metrics server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("metrics server")
				}
			}()
		}

		if runOnStart {
			mon.RunRiskNow()
			if _, err := mon.RunPatternsNow(); err != nil {
				log.Error().Err(err).Msg("initial pattern run")
			}
		}
		mon.Start()

		// SIGHUP reloads the portfolio file.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		for sig := range sigCh {
			if sig == syscall.SIGHUP {
				if err := holder.Reload(); err != nil {
					log.Error().Err(err).Msg("reload portfolio")
				} else {
					mon.RunRiskNow()
				}
				continue
			}
			break
		}

		log.Info().Msg("shutdown signal received, stopping")
		cancel()
		mon.Stop()
		if srv != nil {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("metrics server shutdown")
			}
		}
		log.Info().Msg("RiskSentinel stopped")
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "evaluate once immediately at startup")
}
