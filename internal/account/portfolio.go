package account

import (
	"errors"
	"fmt"
	"math"
	"os"

	"RiskSentinel/internal/model"

	"gopkg.in/yaml.v3"
)

// ErrInvalidPosition marks a portfolio entry the engine should never see.
var ErrInvalidPosition = errors.New("invalid position")

// LoadPortfolio reads an account state from a YAML or JSON file. Positions
// without a leverage are taken as unleveraged.
func LoadPortfolio(filePath string) (model.AccountState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return model.AccountState{}, fmt.Errorf("read portfolio: %w", err)
	}
	return ParsePortfolio(data)
}

// ParsePortfolio decodes a portfolio document. JSON input is accepted since it
// is valid YAML.
func ParsePortfolio(data []byte) (model.AccountState, error) {
	var state model.AccountState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return model.AccountState{}, fmt.Errorf("parse portfolio: %w", err)
	}
	for i := range state.Positions {
		p := &state.Positions[i]
		if p.Leverage == 0 {
			p.Leverage = 1
		}
		if err := checkPosition(*p); err != nil {
			return model.AccountState{}, fmt.Errorf("position %d: %w", i, err)
		}
	}
	if state.Positions == nil {
		state.Positions = []model.TradePosition{}
	}
	return state, nil
}

func checkPosition(p model.TradePosition) error {
	switch {
	case !finite(p.Size) || p.Size < 0:
		return fmt.Errorf("%w: size %v", ErrInvalidPosition, p.Size)
	case !finite(p.EntryPrice) || p.EntryPrice <= 0:
		return fmt.Errorf("%w: entry price %v", ErrInvalidPosition, p.EntryPrice)
	case !finite(p.Leverage) || p.Leverage < 1:
		return fmt.Errorf("%w: leverage %v", ErrInvalidPosition, p.Leverage)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
