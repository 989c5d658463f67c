package risk

import "RiskSentinel/internal/model"

// Ranks maps inclusive lower score bounds to letter grades, best first.
var Ranks = []struct {
	MinScore int
	Rank     model.Rank
}{
	{90, model.RankS},
	{80, model.RankA},
	{70, model.RankB},
	{60, model.RankC},
}

// LowestRank applies to scores below every bound in Ranks.
const LowestRank = model.RankD

// RankFor maps a total risk score to its rank.
func RankFor(score int) model.Rank {
	for _, r := range Ranks {
		if score >= r.MinScore {
			return r.Rank
		}
	}
	return LowestRank
}
