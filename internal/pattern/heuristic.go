package pattern

import (
	"RiskSentinel/internal/calculator"
	"RiskSentinel/internal/model"
)

// detectHeuristic runs rule-based detection over the most recent Window prices.
// It returns the detected patterns and the qualitative SMA trend; the trend
// does not gate detection.
func (r *Recognizer) detectHeuristic(series []model.PatternSample) ([]model.Pattern, model.Direction) {
	prices := make([]float64, len(series))
	for i, s := range series {
		prices[i] = s.Price
	}
	window := calculator.Tail(prices, r.cfg.Window)

	sma := calculator.SMASeries(window, r.cfg.SMAPeriod)
	trend := calculator.DetectTrend(sma, r.cfg.TrendLookback, r.cfg.TrendThreshold)

	patterns := []model.Pattern{}
	support, resistance, err := calculator.SupportResistance(window)
	if err != nil {
		return patterns, trend
	}

	start := len(prices) - r.cfg.Window
	if start < 0 {
		start = 0
	}
	end := len(prices) - 1

	if r.isDoubleTop(window) {
		patterns = append(patterns, model.Pattern{
			Type:               model.PatternDoubleTop,
			Confidence:         r.cfg.HeuristicConfidence,
			StartIndex:         start,
			EndIndex:           end,
			PredictedDirection: model.DirectionDown,
			ResistanceLevel:    level(resistance),
		})
	}
	if r.isDoubleBottom(window) {
		patterns = append(patterns, model.Pattern{
			Type:               model.PatternDoubleBottom,
			Confidence:         r.cfg.HeuristicConfidence,
			StartIndex:         start,
			EndIndex:           end,
			PredictedDirection: model.DirectionUp,
			SupportLevel:       level(support),
		})
	}
	return patterns, trend
}

// isDoubleTop reports whether at least two prices lie within tolerance of the
// window high and the first and last of them are more than MinExtremeSpan apart.
func (r *Recognizer) isDoubleTop(window []float64) bool {
	high, _, err := calculator.WindowRange(window)
	if err != nil {
		return false
	}
	threshold := high * (1 - r.cfg.ExtremeTolerance)
	return r.spans(window, func(p float64) bool { return p > threshold })
}

// isDoubleBottom is the mirror of isDoubleTop against the window low.
func (r *Recognizer) isDoubleBottom(window []float64) bool {
	_, low, err := calculator.WindowRange(window)
	if err != nil {
		return false
	}
	threshold := low * (1 + r.cfg.ExtremeTolerance)
	return r.spans(window, func(p float64) bool { return p < threshold })
}

func (r *Recognizer) spans(window []float64, match func(float64) bool) bool {
	first, last, count := -1, -1, 0
	for i, p := range window {
		if !match(p) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		count++
	}
	return count >= 2 && last-first > r.cfg.MinExtremeSpan
}
