package risk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/privscore/privscore/pkg/models"
)

// ErrIncomplete is returned when the record does not cover every question of the bank
var ErrIncomplete = errors.New("risk analysis requires a complete answer record")

// Pattern tags
const (
	HighAccountRisk                 = "high_account_risk"
	SocialEngineeringVulnerable     = "social_engineering_vulnerable"
	DeviceVulnerability             = "device_vulnerability"
	MultipleCriticalVulnerabilities = "multiple_critical_vulnerabilities"
	HighCredentialTheftRisk         = "high_credential_theft_risk"
	EndpointSecurityWeakness        = "endpoint_security_weakness"
)

// Categories that carry per-answer pattern tags
const (
	accountCategory   = "Account Security"
	awarenessCategory = "Digital Awareness"
	deviceCategory    = "Device Security"
)

// Thresholds holds the counters that promote combined patterns and risk levels
type Thresholds struct {
	MultipleCritical  int
	AccountCritical   int
	AwarenessCritical int
	DeviceCritical    int
	Moderate          int
	High              int
	Extreme           int
}

// DefaultThresholds are the production bounds
var DefaultThresholds = Thresholds{
	MultipleCritical:  3,
	AccountCritical:   2,
	AwarenessCritical: 1,
	DeviceCritical:    2,
	Moderate:          2,
	High:              4,
	Extreme:           6,
}

var categoryPatterns = map[string]string{
	accountCategory:   HighAccountRisk,
	awarenessCategory: SocialEngineeringVulnerable,
	deviceCategory:    DeviceVulnerability,
}

// Analyze scans a complete record with the default thresholds
func Analyze(answers []int, qs []models.Question) (models.RiskAnalysis, error) {
	return DefaultThresholds.Analyze(answers, qs)
}

// Analyze scans a complete record for co-occurring critical answers
func (th Thresholds) Analyze(answers []int, qs []models.Question) (models.RiskAnalysis, error) {
	if len(answers) != len(qs) {
		return models.RiskAnalysis{}, fmt.Errorf("%w: %d of %d answered", ErrIncomplete, len(answers), len(qs))
	}

	var patterns []string
	seen := make(map[string]bool)
	critical := make(map[string]int)
	count := 0

	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			patterns = append(patterns, tag)
		}
	}

	for i, score := range answers {
		if score != 0 {
			continue
		}
		count++
		cat := qs[i].Category
		critical[cat]++
		if tag, ok := categoryPatterns[cat]; ok {
			add(tag)
		}
	}

	if count >= th.MultipleCritical {
		add(MultipleCriticalVulnerabilities)
	}
	if critical[accountCategory] >= th.AccountCritical && critical[awarenessCategory] >= th.AwarenessCritical {
		add(HighCredentialTheftRisk)
	}
	if critical[deviceCategory] >= th.DeviceCritical {
		add(EndpointSecurityWeakness)
	}

	if patterns == nil {
		patterns = []string{}
	}

	return models.RiskAnalysis{
		Patterns:      patterns,
		RiskLevel:     th.Level(count),
		CriticalCount: count,
	}, nil
}

// Level buckets a critical answer count
func (th Thresholds) Level(critical int) models.RiskLevel {
	switch {
	case critical >= th.Extreme:
		return models.RiskExtreme
	case critical >= th.High:
		return models.RiskHigh
	case critical >= th.Moderate:
		return models.RiskModerate
	default:
		return models.RiskLow
	}
}

var descriptions = map[string]string{
	HighAccountRisk:                 "Your account security practices put you at high risk of credential theft and unauthorized access",
	SocialEngineeringVulnerable:     "You may be susceptible to phishing, social engineering attacks, and online scams",
	MultipleCriticalVulnerabilities: "Multiple critical security gaps significantly increase your overall attack surface",
	DeviceVulnerability:             "Your devices may be vulnerable to malware, unauthorized access, and data theft",
	HighCredentialTheftRisk:         "Combined account and awareness weaknesses create elevated credential theft risk",
	EndpointSecurityWeakness:        "Your endpoints (computers, phones, tablets) lack proper security protections",
}

// Describe explains a pattern tag; unknown tags are humanized
func Describe(pattern string) string {
	if d, ok := descriptions[pattern]; ok {
		return d
	}
	return strings.ReplaceAll(pattern, "_", " ")
}

// LevelDetails is the guidance attached to a risk level
type LevelDetails struct {
	Level          models.RiskLevel `json:"level"`
	ColorTag       string           `json:"colorTag"`
	Description    string           `json:"description"`
	ActionRequired string           `json:"actionRequired"`
	ThreatLevel    string           `json:"threatLevel"`
}

var levels = map[models.RiskLevel]LevelDetails{
	models.RiskExtreme: {
		Level:          models.RiskExtreme,
		ColorTag:       "red",
		Description:    "Multiple critical vulnerabilities detected",
		ActionRequired: "Immediate comprehensive security overhaul needed",
		ThreatLevel:    "Very High",
	},
	models.RiskHigh: {
		Level:          models.RiskHigh,
		ColorTag:       "orange",
		Description:    "Several important security gaps identified",
		ActionRequired: "Prompt action needed to address key vulnerabilities",
		ThreatLevel:    "High",
	},
	models.RiskModerate: {
		Level:          models.RiskModerate,
		ColorTag:       "yellow",
		Description:    "Some security improvements recommended",
		ActionRequired: "Regular security maintenance and improvements",
		ThreatLevel:    "Medium",
	},
	models.RiskLow: {
		Level:          models.RiskLow,
		ColorTag:       "green",
		Description:    "Good security posture with minor areas for improvement",
		ActionRequired: "Maintain current practices and stay vigilant",
		ThreatLevel:    "Low",
	},
}

// LevelInfo returns the guidance for a level, falling back to LOW
func LevelInfo(level models.RiskLevel) LevelDetails {
	if d, ok := levels[level]; ok {
		return d
	}
	return levels[models.RiskLow]
}
