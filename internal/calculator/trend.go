package calculator

import "RiskSentinel/internal/model"

// DetectTrend compares the first and last of the most recent `lookback` SMA values.
// A rise of at least threshold (0.02 = 2%) is up, a fall of the same size is down.
func DetectTrend(sma []float64, lookback int, threshold float64) model.Direction {
	recent := Tail(sma, lookback)
	if len(recent) == 0 {
		return model.DirectionNeutral
	}
	first := recent[0]
	last := recent[len(recent)-1]
	switch {
	case last >= first*(1+threshold):
		return model.DirectionUp
	case last <= first*(1-threshold):
		return model.DirectionDown
	default:
		return model.DirectionNeutral
	}
}
