package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/risk"
)

// Resource is a static reading link appended to every report
type Resource struct {
	Title string
	URL   string
}

// Resources are listed at the end of the report
var Resources = []Resource{
	{"Two-Factor Authentication Guide", "https://www.cisa.gov/secure-our-world/turn-on-multifactor-authentication"},
	{"Password Security Guide", "https://www.nist.gov/cybersecurity/how-do-i-create-good-password"},
	{"Check for Data Breaches", "https://haveibeenpwned.com/"},
	{"Phishing Prevention", "https://www.cisa.gov/news-events/news/avoiding-social-engineering-and-phishing-attacks"},
}

// Filename names the downloadable report for a date
func Filename(date time.Time) string {
	return fmt.Sprintf("PrivScore-Results-%s.txt", date.Format("2006-01-02"))
}

// Render writes the plain-text report. advice may be empty.
func Render(r models.Results, advice []models.Advice, date time.Time) string {
	var b strings.Builder

	b.WriteString("PrivScore Security Assessment Results\n")
	fmt.Fprintf(&b, "Generated on: %s\n\n", date.Format("01/02/2006"))

	b.WriteString("=== OVERALL SCORE ===\n")
	fmt.Fprintf(&b, "Score: %d/%d (%d%%)\n", r.TotalScore, r.MaxScore, r.Percentage)
	fmt.Fprintf(&b, "Security Level: %s\n", r.Level.Title)
	fmt.Fprintf(&b, "%s\n", r.Level.Description)
	if r.PreviousScore != nil {
		fmt.Fprintf(&b, "Previous Score: %d/%d\n", *r.PreviousScore, r.MaxScore)
	}
	b.WriteString("\n")

	b.WriteString("=== CATEGORY BREAKDOWN ===\n")
	if r.Categories != nil {
		for p := r.Categories.Oldest(); p != nil; p = p.Next() {
			fmt.Fprintf(&b, "%s: %d/%d (%d%%)\n", p.Key, p.Value.Total, p.Value.Possible, p.Value.Percentage)
		}
	}

	b.WriteString("\n=== TOP RECOMMENDATIONS ===\n")
	for i, rec := range r.Recommendations {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, rec.Priority, rec.Action)
		fmt.Fprintf(&b, "   %s\n", rec.Description)
		for _, step := range rec.Steps {
			fmt.Fprintf(&b, "   - %s\n", step)
		}
		b.WriteString("\n")
	}

	b.WriteString("=== RISK SUMMARY ===\n")
	info := risk.LevelInfo(r.Risk.RiskLevel)
	fmt.Fprintf(&b, "Risk Level: %s (%s)\n", r.Risk.RiskLevel, info.Description)
	fmt.Fprintf(&b, "Critical answers: %d\n", r.Risk.CriticalCount)
	for _, p := range r.Risk.Patterns {
		fmt.Fprintf(&b, "• %s\n", risk.Describe(p))
	}
	fmt.Fprintf(&b, "Action: %s\n\n", info.ActionRequired)

	if len(advice) > 0 {
		b.WriteString("=== PERSONALIZED ADVICE ===\n")
		for _, a := range advice {
			fmt.Fprintf(&b, "%s\n", a.Labeled())
		}
		b.WriteString("\n")
	}

	b.WriteString("=== SECURITY RESOURCES ===\n")
	for _, res := range Resources {
		fmt.Fprintf(&b, "• %s: %s\n", res.Title, res.URL)
	}

	return b.String()
}
