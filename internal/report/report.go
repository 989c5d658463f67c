// Package report renders risk metrics and pattern analyses as text.
package report

import (
	"fmt"
	"io"
	"strings"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/risk"

	"github.com/olekukonko/tablewriter"
)

// WriteRisk prints the rank header, the factor breakdown and status effects.
func WriteRisk(w io.Writer, m model.RiskMetrics, factors []risk.Factor) {
	fmt.Fprintf(w, "Risk rank %s | score %d/100 | health %d\n", m.Rank, m.TotalRiskScore, m.HealthLevel)

	table := tablewriter.NewWriter(w)
	table.Header("Factor", "Score", "Weight", "Weighted")
	for _, f := range factors {
		table.Append(
			f.Name,
			fmt.Sprintf("%.1f", f.Score),
			fmt.Sprintf("%.2f", f.Weight),
			fmt.Sprintf("%.2f", f.Weighted),
		)
	}
	table.Render()

	fmt.Fprintf(w, "Status: %s\n", effects(m.StatusEffects))
}

// WritePatterns prints one row per detected pattern.
func WritePatterns(w io.Writer, a *model.PatternAnalysis) {
	fmt.Fprintf(w, "Pattern analysis %s | source %s | %s\n", a.ID, a.Source, a.Timestamp.Format("2006-01-02 15:04:05"))
	if a.Trend != "" {
		fmt.Fprintf(w, "Trend: %s\n", a.Trend)
	}
	if len(a.Patterns) == 0 {
		fmt.Fprintln(w, "No patterns detected")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("Pattern", "Confidence", "Range", "Direction", "Support", "Resistance")
	for _, p := range a.Patterns {
		table.Append(
			string(p.Type),
			fmt.Sprintf("%.0f%%", p.Confidence*100),
			fmt.Sprintf("%d-%d", p.StartIndex, p.EndIndex),
			string(p.PredictedDirection),
			levelString(p.SupportLevel),
			levelString(p.ResistanceLevel),
		)
	}
	table.Render()
}

// RiskLine is a one-line summary for logs and status output.
func RiskLine(m model.RiskMetrics) string {
	return fmt.Sprintf("%s %d [%s]", m.Rank, m.TotalRiskScore, effects(m.StatusEffects))
}

func effects(es []model.StatusEffect) string {
	if len(es) == 0 {
		return "none"
	}
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

func levelString(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
