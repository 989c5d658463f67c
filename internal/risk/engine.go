package risk

import (
	"math"

	"RiskSentinel/internal/model"
)

// Weights sets how much each factor contributes to the total score. They sum to 1.
type Weights struct {
	PositionSize float64
	StopLoss     float64
	RiskReward   float64
	AccountRisk  float64
}

// DefaultWeights returns the fixed weighting used by the engine.
func DefaultWeights() Weights {
	return Weights{
		PositionSize: 0.30,
		StopLoss:     0.25,
		RiskReward:   0.25,
		AccountRisk:  0.20,
	}
}

// DefaultMetrics returns the baseline for an account with no open positions,
// also usable before any account data has arrived.
func DefaultMetrics() model.RiskMetrics {
	return model.RiskMetrics{
		PositionSizeScore: 100,
		StopLossScore:     100,
		RiskRewardScore:   100,
		AccountRiskScore:  100,
		TotalRiskScore:    100,
		HealthLevel:       100,
		Rank:              model.RankS,
		StatusEffects:     []model.StatusEffect{model.StatusProtected},
	}
}

// Engine converts account snapshots into risk metrics. It holds no state beyond
// its weights and is safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine creates an Engine with DefaultWeights.
func NewEngine() *Engine {
	return &Engine{weights: DefaultWeights()}
}

// Evaluate computes the full risk metrics for an account.
//
// An account without positions yields DefaultMetrics. A non-positive or
// non-finite balance with open positions yields the maximal-risk result:
// every score 0 and rank D.
func (e *Engine) Evaluate(acct model.AccountState) model.RiskMetrics {
	if len(acct.Positions) == 0 {
		return DefaultMetrics()
	}
	if !validBalance(acct.Balance) {
		return maximalRisk(acct)
	}

	m := model.RiskMetrics{
		PositionSizeScore: scorePositionSize(acct),
		StopLossScore:     scoreStopLoss(acct),
		RiskRewardScore:   scoreRiskReward(acct),
		AccountRiskScore:  scoreAccountRisk(acct),
	}
	m.TotalRiskScore = e.total(m)
	m.HealthLevel = m.TotalRiskScore
	m.Rank = RankFor(m.TotalRiskScore)
	m.StatusEffects = statusEffects(acct)
	return m
}

// Factors breaks computed metrics down into weighted contributions.
func (e *Engine) Factors(m model.RiskMetrics) []Factor {
	return []Factor{
		newFactor("Position size", m.PositionSizeScore, e.weights.PositionSize),
		newFactor("Stop loss", m.StopLossScore, e.weights.StopLoss),
		newFactor("Risk/reward", m.RiskRewardScore, e.weights.RiskReward),
		newFactor("Account risk", m.AccountRiskScore, e.weights.AccountRisk),
	}
}

func (e *Engine) total(m model.RiskMetrics) int {
	sum := m.PositionSizeScore*e.weights.PositionSize +
		m.StopLossScore*e.weights.StopLoss +
		m.RiskRewardScore*e.weights.RiskReward +
		m.AccountRiskScore*e.weights.AccountRisk
	return int(clamp(math.Round(sum)))
}

func validBalance(balance float64) bool {
	return balance > 0 && !math.IsInf(balance, 1)
}

func maximalRisk(acct model.AccountState) model.RiskMetrics {
	return model.RiskMetrics{
		Rank:          RankFor(0),
		StatusEffects: statusEffects(acct),
	}
}
