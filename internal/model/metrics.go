package model

// Rank is the letter grade derived from the total risk score. S is best.
type Rank string

const (
	RankS Rank = "S"
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
	RankD Rank = "D"
)

// StatusEffect is a qualitative, portfolio-wide risk tag.
type StatusEffect string

const (
	StatusProtected    StatusEffect = "Protected"
	StatusVulnerable   StatusEffect = "Vulnerable"
	StatusWeakened     StatusEffect = "Weakened"
	StatusStrengthened StatusEffect = "Strengthened"
)

// RiskMetrics is the output of the risk engine.
type RiskMetrics struct {
	PositionSizeScore float64        `json:"position_size_score"`
	StopLossScore     float64        `json:"stop_loss_score"`
	RiskRewardScore   float64        `json:"risk_reward_score"`
	AccountRiskScore  float64        `json:"account_risk_score"`
	TotalRiskScore    int            `json:"total_risk_score"`
	HealthLevel       int            `json:"health_level"`
	Rank              Rank           `json:"rank"`
	StatusEffects     []StatusEffect `json:"status_effects"`
}

// Has reports whether the given status effect is present.
func (m RiskMetrics) Has(effect StatusEffect) bool {
	for _, e := range m.StatusEffects {
		if e == effect {
			return true
		}
	}
	return false
}
