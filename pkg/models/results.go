package models

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// CategoryScore aggregates the answers recorded for one category
type CategoryScore struct {
	Total      int `json:"total"`
	Possible   int `json:"possible"`
	Percentage int `json:"percentage"`
	Answered   int `json:"answered"`
}

// CategoryScores keeps categories in bank declaration order
type CategoryScores = orderedmap.OrderedMap[string, CategoryScore]

// RankedCategory is a category paired with its aggregate
type RankedCategory struct {
	Category string `json:"category"`
	CategoryScore
}

// SecurityLevel is the overall four-bucket classification
type SecurityLevel struct {
	Label       string `json:"label"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ColorTag    string `json:"colorTag"`
	Insight     string `json:"insight"`
}

// Priority ranks a recommendation
type Priority string

const (
	PriorityCritical    Priority = "CRITICAL"
	PriorityHigh        Priority = "HIGH"
	PriorityMedium      Priority = "MEDIUM"
	PriorityLow         Priority = "LOW"
	PriorityExcellent   Priority = "EXCELLENT"
	PriorityMaintenance Priority = "MAINTENANCE"
)

// Recommendation is one prioritized action item
type Recommendation struct {
	Priority        Priority `json:"priority"`
	Category        string   `json:"category"`
	Action          string   `json:"action"`
	Description     string   `json:"description"`
	Impact          string   `json:"impact,omitempty"`
	TimeToImplement string   `json:"timeToImplement,omitempty"`
	Steps           []string `json:"steps"`
}

// RiskLevel is the outcome of the risk pattern analysis
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskExtreme  RiskLevel = "EXTREME"
)

// RiskAnalysis lists the weakness patterns found in a complete record
type RiskAnalysis struct {
	Patterns      []string  `json:"patterns"`
	RiskLevel     RiskLevel `json:"riskLevel"`
	CriticalCount int       `json:"criticalCount"`
}

// RiskTally counts answers by severity
type RiskTally struct {
	Critical int `json:"critical"`
	Moderate int `json:"moderate"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// BaselineComparison places the user against reference groups
type BaselineComparison struct {
	UserScore   int               `json:"userScore"`
	Comparisons []GroupComparison `json:"comparisons"`
	Rank        string            `json:"rank"`
}

// GroupComparison is the user's distance to one baseline
type GroupComparison struct {
	Group      string `json:"group"`
	Baseline   int    `json:"baseline"`
	Difference int    `json:"difference"`
	BetterThan bool   `json:"betterThan"`
}

// Results is everything rendered once an assessment is complete
type Results struct {
	SessionID       string             `json:"sessionId"`
	TotalScore      int                `json:"totalScore"`
	MaxScore        int                `json:"maxScore"`
	Percentage      int                `json:"percentage"`
	Level           SecurityLevel      `json:"level"`
	Categories      *CategoryScores    `json:"categories"`
	Weakest         []RankedCategory   `json:"weakest"`
	Strongest       []RankedCategory   `json:"strongest"`
	Recommendations []Recommendation   `json:"recommendations"`
	Risk            RiskAnalysis       `json:"risk"`
	Tally           RiskTally          `json:"tally"`
	Insights        []string           `json:"insights"`
	Comparison      BaselineComparison `json:"comparison"`
	PreviousScore   *int               `json:"previousScore,omitempty"`
	GeneratedAt     time.Time          `json:"generatedAt"`
}

// AdviceSource tells where a piece of advice text came from
type AdviceSource string

const (
	SourceAI     AdviceSource = "ai"
	SourceExpert AdviceSource = "expert"
)

// Advice is one displayable advice line with its provenance
type Advice struct {
	Text   string       `json:"text"`
	Source AdviceSource `json:"source"`
}

// Labeled prefixes the text with a provenance marker
func (a Advice) Labeled() string {
	if a.Source == SourceAI {
		return "🤖 AI: " + a.Text
	}
	return "📋 Expert: " + a.Text
}

// AdviceResult is the stored outcome of one advice request
type AdviceResult struct {
	RequestID  string    `json:"requestId"`
	SessionID  string    `json:"sessionId"`
	Generation string    `json:"generation"`
	WeakAreas  []string  `json:"weakAreas"`
	Advice     []Advice  `json:"advice"`
	CreatedAt  time.Time `json:"createdAt"`
}
