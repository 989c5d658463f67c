package collector

import (
	"context"

	"RiskSentinel/internal/model"
)

// Source supplies price/volume samples one at a time. Next returns io.EOF
// once a finite source is exhausted.
type Source interface {
	Next(ctx context.Context) (model.PatternSample, error)
	Name() string
}
