package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"RiskSentinel/internal/account"
	"RiskSentinel/internal/collector"
	"RiskSentinel/internal/metrics"
	"RiskSentinel/internal/model"
	"RiskSentinel/internal/pattern"
	"RiskSentinel/internal/report"
	"RiskSentinel/internal/risk"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Latest is the most recent result of each job.
type Latest struct {
	Risk           model.RiskMetrics
	AccountVersion uint64
	RiskAt         time.Time
	Patterns       *model.PatternAnalysis
}

// Monitor drives risk evaluation and pattern analysis on cron cadences.
type Monitor struct {
	Cron       *cron.Cron
	Engine     *risk.Engine
	Account    *account.Holder
	Collector  *collector.Collector
	Recognizer *pattern.Recognizer
	Metrics    *metrics.Registry // optional
	Ctx        context.Context

	mu     sync.RWMutex
	latest Latest

	analyzing atomic.Bool
	exhausted atomic.Bool
}

// ErrAnalysisInFlight is returned by RunPatternsNow while another analysis runs.
var ErrAnalysisInFlight = errors.New("pattern analysis already running")

// NewMonitor creates a Monitor. Latest starts with the no-position baseline.
func NewMonitor(ctx context.Context, holder *account.Holder, col *collector.Collector, rec *pattern.Recognizer, reg *metrics.Registry) *Monitor {
	return &Monitor{
		Cron:       cron.New(cron.WithSeconds(), cron.WithLogger(cronLogger{})),
		Engine:     risk.NewEngine(),
		Account:    holder,
		Collector:  col,
		Recognizer: rec,
		Metrics:    reg,
		Ctx:        ctx,
		latest:     Latest{Risk: risk.DefaultMetrics()},
	}
}

// RegisterAll registers the risk and pattern jobs. A run that is still going
// when its next tick fires is skipped rather than queued.
func (m *Monitor) RegisterAll(riskCron, patternCron string) error {
	chain := cron.NewChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{}))
	if _, err := m.Cron.AddJob(riskCron, chain.Then(cron.FuncJob(m.riskTask))); err != nil {
		return fmt.Errorf("register risk task: %w", err)
	}
	if _, err := m.Cron.AddJob(patternCron, chain.Then(cron.FuncJob(m.patternTask))); err != nil {
		return fmt.Errorf("register pattern task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (m *Monitor) Start() {
	m.Cron.Start()
	log.Info().Int("jobs", len(m.Cron.Entries())).Msg("monitor started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (m *Monitor) Stop() {
	<-m.Cron.Stop().Done()
	log.Info().Msg("monitor stopped")
}

// Latest returns the most recent results.
func (m *Monitor) Latest() Latest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// RunRiskNow evaluates the current account immediately.
func (m *Monitor) RunRiskNow() model.RiskMetrics {
	return m.riskEvaluate()
}

// RunPatternsNow collects one sample and analyzes the buffered series
// immediately. It shares the scheduled job's single-flight rule.
func (m *Monitor) RunPatternsNow() (*model.PatternAnalysis, error) {
	return m.patternAnalyze()
}

func (m *Monitor) riskTask() {
	m.riskEvaluate()
}

func (m *Monitor) riskEvaluate() model.RiskMetrics {
	state, version := m.Account.Snapshot()
	rm := m.Engine.Evaluate(state)

	m.mu.Lock()
	if version < m.latest.AccountVersion {
		// a newer account version was evaluated while this one ran
		m.mu.Unlock()
		log.Debug().Uint64("account_version", version).Msg("discarding stale risk evaluation")
		return rm
	}
	prev := m.latest.Risk
	m.latest.Risk = rm
	m.latest.AccountVersion = version
	m.latest.RiskAt = time.Now()
	m.mu.Unlock()

	if prev.Rank != rm.Rank {
		log.Info().Str("from", string(prev.Rank)).Str("to", string(rm.Rank)).
			Int("score", rm.TotalRiskScore).Uint64("account_version", version).
			Msg("risk rank changed")
	}
	log.Debug().Str("risk", report.RiskLine(rm)).Int("positions", len(state.Positions)).
		Msg("risk evaluated")

	if m.Metrics != nil {
		m.Metrics.ObserveRisk(rm)
	}
	return rm
}

func (m *Monitor) patternTask() {
	_, err := m.patternAnalyze()
	switch {
	case errors.Is(err, ErrAnalysisInFlight):
		log.Debug().Msg("pattern analysis still running, skipping tick")
	case err != nil:
		log.Error().Err(err).Msg("pattern task")
	}
}

func (m *Monitor) patternAnalyze() (*model.PatternAnalysis, error) {
	if !m.analyzing.CompareAndSwap(false, true) {
		return nil, ErrAnalysisInFlight
	}
	defer m.analyzing.Store(false)

	// a failed collect still analyzes what is already buffered
	_, err := m.Collector.Collect(m.Ctx)
	switch {
	case errors.Is(err, io.EOF):
		if !m.exhausted.Swap(true) {
			log.Info().Str("source", m.Collector.Source.Name()).Msg("sample source exhausted")
		}
	case err != nil:
		log.Warn().Err(err).Str("source", m.Collector.Source.Name()).Msg("collect sample")
	}

	series := m.Collector.Buffer.Snapshot()
	start := time.Now()
	analysis, err := m.Recognizer.Analyze(m.Ctx, series)
	if err != nil {
		return nil, fmt.Errorf("analyze patterns: %w", err)
	}
	took := time.Since(start)

	m.mu.Lock()
	m.latest.Patterns = analysis
	m.mu.Unlock()

	for _, p := range analysis.Patterns {
		log.Info().Str("analysis", analysis.ID).Str("pattern", string(p.Type)).
			Float64("confidence", p.Confidence).Str("direction", string(p.PredictedDirection)).
			Msg("pattern detected")
	}
	if m.Metrics != nil {
		m.Metrics.ObserveAnalysis(analysis, len(series), took)
	}
	return analysis, nil
}

// cronLogger routes cron's own messages through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
