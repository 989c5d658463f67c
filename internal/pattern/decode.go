package pattern

import (
	"fmt"
	"math"

	"RiskSentinel/internal/calculator"
	"RiskSentinel/internal/model"
)

// directions gives the bias implied by each pattern type.
var directions = map[model.PatternType]model.Direction{
	model.PatternDoubleTop:     model.DirectionDown,
	model.PatternDoubleBottom:  model.DirectionUp,
	model.PatternHeadShoulders: model.DirectionDown,
	model.PatternTriangle:      model.DirectionNeutral,
	model.PatternChannel:       model.DirectionNeutral,
}

// decode turns a probability vector into patterns spanning the whole series.
func (r *Recognizer) decode(probs []float64, series []model.PatternSample) ([]model.Pattern, error) {
	if len(probs) != len(model.PatternTypes) {
		return nil, fmt.Errorf("%w: got %d outputs, want %d", ErrMalformedOutput, len(probs), len(model.PatternTypes))
	}
	for i, p := range probs {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("%w: output %d = %v", ErrMalformedOutput, i, p)
		}
	}

	prices := make([]float64, len(series))
	for i, s := range series {
		prices[i] = s.Price
	}
	support, resistance, err := calculator.SupportResistance(prices)
	if err != nil {
		return nil, err
	}

	patterns := []model.Pattern{}
	for i, p := range probs {
		if p < r.cfg.ModelThreshold {
			continue
		}
		typ := model.PatternTypes[i]
		pat := model.Pattern{
			Type:               typ,
			Confidence:         p,
			StartIndex:         0,
			EndIndex:           len(series) - 1,
			PredictedDirection: directions[typ],
		}
		switch pat.PredictedDirection {
		case model.DirectionUp:
			pat.SupportLevel = level(support)
		case model.DirectionDown:
			pat.ResistanceLevel = level(resistance)
		default:
			pat.SupportLevel = level(support)
			pat.ResistanceLevel = level(resistance)
		}
		patterns = append(patterns, pat)
	}
	return patterns, nil
}

func level(v float64) *float64 {
	return &v
}
