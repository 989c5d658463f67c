// Package metrics exposes risk and pattern results to Prometheus.
package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"RiskSentinel/internal/model"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var ranks = []model.Rank{model.RankS, model.RankA, model.RankB, model.RankC, model.RankD}

var statusEffects = []model.StatusEffect{
	model.StatusProtected,
	model.StatusVulnerable,
	model.StatusWeakened,
	model.StatusStrengthened,
}

// Registry holds the RiskSentinel collectors on a private prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	// Risk metrics
	RiskScore      prometheus.Gauge
	ComponentScore *prometheus.GaugeVec
	Rank           *prometheus.GaugeVec
	StatusEffect   *prometheus.GaugeVec
	Evaluations    prometheus.Counter

	// Pattern metrics
	Analyses         *prometheus.CounterVec
	PatternsDetected *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	SeriesLength     prometheus.Gauge
}

// NewRegistry creates and registers all collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		RiskScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "risksentinel_risk_score",
			Help: "Latest total risk score (0-100, higher is healthier)",
		}),
		ComponentScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "risksentinel_component_score",
			Help: "Latest per-factor risk score",
		}, []string{"component"}),
		Rank: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "risksentinel_rank",
			Help: "1 for the current risk rank, 0 otherwise",
		}, []string{"rank"}),
		StatusEffect: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "risksentinel_status_effect",
			Help: "1 when the status effect is active",
		}, []string{"effect"}),
		Evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "risksentinel_risk_evaluations_total",
			Help: "Total number of risk evaluations",
		}),

		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "risksentinel_pattern_analyses_total",
			Help: "Total number of pattern analyses by detection source",
		}, []string{"source"}),
		PatternsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "risksentinel_patterns_detected_total",
			Help: "Total number of detected patterns by type",
		}, []string{"type"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "risksentinel_pattern_analysis_duration_seconds",
			Help:    "Duration of pattern analyses in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"source"}),
		SeriesLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "risksentinel_series_length",
			Help: "Number of samples in the last analyzed series",
		}),
	}

	r.reg.MustRegister(
		r.RiskScore, r.ComponentScore, r.Rank, r.StatusEffect, r.Evaluations,
		r.Analyses, r.PatternsDetected, r.AnalysisDuration, r.SeriesLength,
	)
	return r
}

// ObserveRisk records a risk evaluation.
func (r *Registry) ObserveRisk(m model.RiskMetrics) {
	r.Evaluations.Inc()
	r.RiskScore.Set(float64(m.TotalRiskScore))
	r.ComponentScore.WithLabelValues("position_size").Set(m.PositionSizeScore)
	r.ComponentScore.WithLabelValues("stop_loss").Set(m.StopLossScore)
	r.ComponentScore.WithLabelValues("risk_reward").Set(m.RiskRewardScore)
	r.ComponentScore.WithLabelValues("account_risk").Set(m.AccountRiskScore)

	for _, rk := range ranks {
		r.Rank.WithLabelValues(string(rk)).Set(boolValue(rk == m.Rank))
	}
	for _, e := range statusEffects {
		r.StatusEffect.WithLabelValues(string(e)).Set(boolValue(m.Has(e)))
	}
}

// ObserveAnalysis records a pattern analysis over a series of n samples.
func (r *Registry) ObserveAnalysis(a *model.PatternAnalysis, n int, took time.Duration) {
	source := string(a.Source)
	r.Analyses.WithLabelValues(source).Inc()
	r.AnalysisDuration.WithLabelValues(source).Observe(took.Seconds())
	r.SeriesLength.Set(float64(n))
	for _, p := range a.Patterns {
		r.PatternsDetected.WithLabelValues(string(p.Type)).Inc()
	}
}

// HealthFunc reports extra health details for /healthz.
type HealthFunc func() map[string]any

// Router serves /metrics and /healthz.
func (r *Registry) Router(health HealthFunc) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		body := map[string]any{"status": "ok"}
		if health != nil {
			for k, v := range health() {
				body[k] = v
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}).Methods(http.MethodGet)
	return router
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
