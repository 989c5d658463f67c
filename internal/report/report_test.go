package report

import (
	"bytes"
	"testing"
	"time"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/risk"

	"github.com/stretchr/testify/assert"
)

func TestWriteRisk(t *testing.T) {
	e := risk.NewEngine()
	m := e.Evaluate(model.AccountState{
		Balance: 10000,
		Positions: []model.TradePosition{
			{Size: 1000, EntryPrice: 100, StopLoss: model.Price(98), Leverage: 1},
		},
	})

	var buf bytes.Buffer
	WriteRisk(&buf, m, e.Factors(m))
	out := buf.String()

	assert.Contains(t, out, "Risk rank D | score 50/100")
	assert.Contains(t, out, "Position size")
	assert.Contains(t, out, "Account risk")
	assert.Contains(t, out, "0.30")
	assert.Contains(t, out, "Status: Protected")
}

func TestWritePatterns(t *testing.T) {
	a := &model.PatternAnalysis{
		ID:        "abc",
		Source:    model.SourceHeuristic,
		Trend:     model.DirectionUp,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Patterns: []model.Pattern{{
			Type:               model.PatternDoubleTop,
			Confidence:         0.75,
			StartIndex:         0,
			EndIndex:           29,
			PredictedDirection: model.DirectionDown,
			ResistanceLevel:    model.Price(90),
		}},
	}

	var buf bytes.Buffer
	WritePatterns(&buf, a)
	out := buf.String()

	assert.Contains(t, out, "source heuristic")
	assert.Contains(t, out, "2026-03-01 12:00:00")
	assert.Contains(t, out, "Trend: up")
	assert.Contains(t, out, "double_top")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "0-29")
	assert.Contains(t, out, "90.00")
}

func TestWritePatterns_Empty(t *testing.T) {
	var buf bytes.Buffer
	WritePatterns(&buf, &model.PatternAnalysis{ID: "x", Source: model.SourceNone})
	assert.Contains(t, buf.String(), "No patterns detected")
	assert.NotContains(t, buf.String(), "Trend:")
}

func TestRiskLine(t *testing.T) {
	assert.Equal(t, "S 100 [Protected]", RiskLine(risk.DefaultMetrics()))
	assert.Equal(t, "D 0 [none]", RiskLine(model.RiskMetrics{Rank: model.RankD}))
}
