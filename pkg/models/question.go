package models

// MaxChoiceScore is the point value of a perfect answer
const MaxChoiceScore = 10

// Choice is one labeled answer to a question
type Choice struct {
	Label string `json:"label" yaml:"label"`
	Score int    `json:"score" yaml:"score"`
	Tip   string `json:"tip" yaml:"tip"`
}

// Question is a single entry of the assessment bank
type Question struct {
	Category string   `json:"category" yaml:"category"`
	Prompt   string   `json:"prompt" yaml:"prompt"`
	Choices  []Choice `json:"choices" yaml:"choices"`
}

// MaxScore returns the highest score any choice of the question awards
func (q Question) MaxScore() int {
	best := 0
	for _, c := range q.Choices {
		if c.Score > best {
			best = c.Score
		}
	}
	return best
}

// Metadata describes a bank file
type Metadata struct {
	Version     string `json:"version" yaml:"version"`
	LastUpdated string `json:"lastUpdated" yaml:"lastUpdated"`
	Description string `json:"description" yaml:"description"`
}

// QuestionsData is the on-disk layout of a bank file
type QuestionsData struct {
	Metadata  Metadata   `json:"metadata" yaml:"metadata"`
	Questions []Question `json:"questions" yaml:"questions"`
}
