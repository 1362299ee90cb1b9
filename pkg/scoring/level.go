package scoring

import "github.com/privscore/privscore/pkg/models"

// Level bucket lower bounds, in percent
const (
	ChampionMin   = 90
	AwareMin      = 70
	DevelopingMin = 50
)

var (
	levelChampion = models.SecurityLevel{
		Label:       "Champion",
		Title:       "Security Champion",
		Description: "Excellent security practices! You're well-protected against most threats.",
		ColorTag:    "green",
		Insight:     "You're in the top 10% of security-conscious users. Your practices significantly reduce your risk of cyber attacks.",
	}
	levelAware = models.SecurityLevel{
		Label:       "Aware",
		Title:       "Security Aware",
		Description: "Good foundation with some areas to strengthen for better protection.",
		ColorTag:    "blue",
		Insight:     "You have solid security fundamentals but could benefit from addressing a few key vulnerabilities.",
	}
	levelDeveloping = models.SecurityLevel{
		Label:       "Developing",
		Title:       "Developing Security",
		Description: "You've taken some important steps, but significant vulnerabilities remain.",
		ColorTag:    "yellow",
		Insight:     "You're on the right track but need to prioritize the most critical security measures to reduce your risk.",
	}
	levelAtRisk = models.SecurityLevel{
		Label:       "At Risk",
		Title:       "At Risk",
		Description: "Your current practices leave you vulnerable to common security threats.",
		ColorTag:    "red",
		Insight:     "Your security posture needs immediate attention. Multiple critical vulnerabilities put you at high risk of cyber attacks.",
	}
)

// atLeast reports whether total/max is at least pct percent, without rounding
func atLeast(total, max, pct int) bool {
	return 100*total >= pct*max
}

// SecurityLevelFor classifies total out of max. Bounds are inclusive below and exclusive above.
func SecurityLevelFor(total, max int) models.SecurityLevel {
	if max <= 0 {
		return levelAtRisk
	}
	switch {
	case atLeast(total, max, ChampionMin):
		return levelChampion
	case atLeast(total, max, AwareMin):
		return levelAware
	case atLeast(total, max, DevelopingMin):
		return levelDeveloping
	default:
		return levelAtRisk
	}
}
