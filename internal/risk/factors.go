package risk

import (
	"math"
	"sort"

	"RiskSentinel/internal/model"
)

const (
	maxPositionPct  = 2.0 // percent of balance before the size penalty applies
	sizePenalty     = 15.0
	maxStopDistPct  = 2.0 // percent of entry price before the wide-stop penalty applies
	noStopPenalty   = 40.0
	wideStopPenalty = 10.0
	noStopRRPenalty = 50.0
	riskPctPenalty  = 5.0
	maxLeverage     = 2.0
	strongSizeRatio = 0.02
)

// Factor is one weighted contribution to the total score.
type Factor struct {
	Name     string
	Score    float64
	Weight   float64
	Weighted float64
}

func newFactor(name string, score, weight float64) Factor {
	return Factor{Name: name, Score: score, Weight: weight, Weighted: score * weight}
}

// exposurePct is size×leverage as a percentage of balance.
func exposurePct(p model.TradePosition, balance float64) float64 {
	return p.Size * p.Leverage / balance * 100
}

// scorePositionSize deducts 15 points per percentage point of leveraged size above 2% of balance.
// Penalties compound across positions. A non-finite size or leverage zeroes the score.
func scorePositionSize(acct model.AccountState) float64 {
	penalties := make([]float64, 0, len(acct.Positions))
	for _, p := range acct.Positions {
		if pct := exposurePct(p, acct.Balance); !(pct <= maxPositionPct) {
			penalties = append(penalties, (pct-maxPositionPct)*sizePenalty)
		}
	}
	return clamp(100 - sumSorted(penalties))
}

// scoreStopLoss deducts 40 for each unprotected position, and 10 points per
// percentage point of stop distance beyond 2% for protected ones. A
// non-finite stop zeroes the score.
func scoreStopLoss(acct model.AccountState) float64 {
	penalties := make([]float64, 0, len(acct.Positions))
	for _, p := range acct.Positions {
		if !p.HasStopLoss() {
			penalties = append(penalties, noStopPenalty)
			continue
		}
		dist := math.Abs((*p.StopLoss - p.EntryPrice) / p.EntryPrice * 100)
		if !(dist <= maxStopDistPct) {
			penalties = append(penalties, (dist-maxStopDistPct)*wideStopPenalty)
		}
	}
	return clamp(100 - sumSorted(penalties))
}

// scoreRiskReward deducts 50 for each position without a stop loss.
// Take-profit placement is not scored.
func scoreRiskReward(acct model.AccountState) float64 {
	unprotected := 0
	for _, p := range acct.Positions {
		if !p.HasStopLoss() {
			unprotected++
		}
	}
	return clamp(100 - float64(unprotected)*noStopRRPenalty)
}

// scoreAccountRisk deducts 5 points per percent of balance at risk. Capital at
// risk is the stop distance times size, or the full size when unprotected.
func scoreAccountRisk(acct model.AccountState) float64 {
	exposures := make([]float64, 0, len(acct.Positions))
	for _, p := range acct.Positions {
		if p.HasStopLoss() {
			exposures = append(exposures, math.Abs(p.EntryPrice-*p.StopLoss)*p.Size)
		} else {
			exposures = append(exposures, p.Size)
		}
	}
	riskPct := sumSorted(exposures) / acct.Balance * 100
	return clamp(100 - riskPct*riskPctPenalty)
}

func statusEffects(acct model.AccountState) []model.StatusEffect {
	allStops, anyHighLeverage := true, false
	allSmall := validBalance(acct.Balance)
	for _, p := range acct.Positions {
		if !p.HasStopLoss() {
			allStops = false
		}
		if !(p.Leverage <= maxLeverage) {
			anyHighLeverage = true
		}
		if allSmall && !(p.Size*p.Leverage/acct.Balance <= strongSizeRatio) {
			allSmall = false
		}
	}

	effects := make([]model.StatusEffect, 0, 3)
	if allStops {
		effects = append(effects, model.StatusProtected)
	} else {
		effects = append(effects, model.StatusVulnerable)
	}
	if anyHighLeverage {
		effects = append(effects, model.StatusWeakened)
	}
	if allSmall {
		effects = append(effects, model.StatusStrengthened)
	}
	return effects
}

// sumSorted adds values in ascending order so the result does not depend on
// the order positions were supplied in.
func sumSorted(values []float64) float64 {
	sort.Float64s(values)
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

func clamp(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(100, score))
}
