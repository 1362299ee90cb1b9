package scoring

import (
	"fmt"

	"github.com/privscore/privscore/pkg/models"
)

type baseline struct {
	group string
	score int
}

var baselines = []baseline{
	{"General Public", 64},
	{"Tech Savvy Users", 78},
	{"Security Professionals", 92},
}

// Compare ranks the overall percentage against the reference groups
func Compare(total, max int) models.BaselineComparison {
	pct := Percentage(total, max)

	cmp := models.BaselineComparison{UserScore: pct}
	for _, b := range baselines {
		cmp.Comparisons = append(cmp.Comparisons, models.GroupComparison{
			Group:      b.group,
			Baseline:   b.score,
			Difference: pct - b.score,
			BetterThan: pct > b.score,
		})
	}

	switch {
	case pct >= 92:
		cmp.Rank = "Expert"
	case pct >= 78:
		cmp.Rank = "Advanced"
	case pct >= 64:
		cmp.Rank = "Average"
	default:
		cmp.Rank = "Beginner"
	}
	return cmp
}

// Insights produces the short headline lines shown above the breakdown
func Insights(agg *models.CategoryScores, total, max int) []string {
	var out []string

	switch {
	case max > 0 && atLeast(total, max, ChampionMin):
		out = append(out, "🌟 Exceptional security posture - you're in the top 10% of users!")
	case max > 0 && atLeast(total, max, AwareMin):
		out = append(out, "✅ Solid security foundation with room for strategic improvements.")
	case max > 0 && atLeast(total, max, DevelopingMin):
		out = append(out, "⚠️ Moderate security level - focus on critical gaps first.")
	default:
		out = append(out, "🚨 Multiple security vulnerabilities need immediate attention.")
	}

	if weakest := Weakest(agg, 1); len(weakest) > 0 {
		w := weakest[0]
		if w.Percentage < 30 {
			out = append(out, fmt.Sprintf("🔴 %s is critically weak and needs immediate focus.", w.Category))
		} else if w.Percentage < 60 {
			out = append(out, fmt.Sprintf("🟡 %s shows significant room for improvement.", w.Category))
		}
	}

	if strongest := Strongest(agg, 1); len(strongest) > 0 && strongest[0].Percentage >= 90 {
		out = append(out, fmt.Sprintf("🟢 Excellent %s practices - keep it up!", strongest[0].Category))
	}

	account, okAccount := agg.Get("Account Security")
	awareness, okAwareness := agg.Get("Digital Awareness")
	if okAccount && okAwareness && account.Percentage < 50 && awareness.Percentage < 50 {
		out = append(out, "⚠️ Low account security + poor awareness = high risk of credential theft.")
	}

	return out
}
