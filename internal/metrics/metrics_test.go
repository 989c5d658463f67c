package metrics

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"RiskSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	srv := httptest.NewServer(r.Router(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveRisk(t *testing.T) {
	r := NewRegistry()
	r.ObserveRisk(model.RiskMetrics{
		PositionSizeScore: 0,
		StopLossScore:     100,
		RiskRewardScore:   100,
		AccountRiskScore:  0,
		TotalRiskScore:    50,
		HealthLevel:       50,
		Rank:              model.RankD,
		StatusEffects:     []model.StatusEffect{model.StatusProtected},
	})

	body := scrape(t, r)
	assert.Contains(t, body, "risksentinel_risk_score 50")
	assert.Contains(t, body, `risksentinel_component_score{component="stop_loss"} 100`)
	assert.Contains(t, body, `risksentinel_rank{rank="D"} 1`)
	assert.Contains(t, body, `risksentinel_rank{rank="S"} 0`)
	assert.Contains(t, body, `risksentinel_status_effect{effect="Protected"} 1`)
	assert.Contains(t, body, `risksentinel_status_effect{effect="Vulnerable"} 0`)
	assert.Contains(t, body, "risksentinel_risk_evaluations_total 1")
}

func TestObserveAnalysis(t *testing.T) {
	r := NewRegistry()
	a := &model.PatternAnalysis{
		Source: model.SourceHeuristic,
		Patterns: []model.Pattern{
			{Type: model.PatternDoubleTop},
			{Type: model.PatternDoubleBottom},
		},
	}
	r.ObserveAnalysis(a, 60, 2*time.Millisecond)
	r.ObserveAnalysis(&model.PatternAnalysis{Source: model.SourceNone}, 10, time.Millisecond)

	body := scrape(t, r)
	assert.Contains(t, body, `risksentinel_pattern_analyses_total{source="heuristic"} 1`)
	assert.Contains(t, body, `risksentinel_pattern_analyses_total{source="none"} 1`)
	assert.Contains(t, body, `risksentinel_patterns_detected_total{type="double_top"} 1`)
	assert.Contains(t, body, "risksentinel_series_length 10")
	assert.Contains(t, body, `risksentinel_pattern_analysis_duration_seconds_count{source="heuristic"} 1`)
}

func TestHealthz(t *testing.T) {
	r := NewRegistry()
	srv := httptest.NewServer(r.Router(func() map[string]any {
		return map[string]any{"model_loaded": false}
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["model_loaded"])
}

func TestRouter_RejectsPost(t *testing.T) {
	srv := httptest.NewServer(NewRegistry().Router(nil))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/metrics", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
