package models

import "time"

// AssessmentSession holds one user's answer record.
// Scores[i] is always the score recorded for question i of the bank.
type AssessmentSession struct {
	ID            string    `json:"id"`
	Scores        []int     `json:"scores"`
	Generation    string    `json:"generation"`
	PreviousScore *int      `json:"previousScore,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AnswerRequest selects a choice for the current question
type AnswerRequest struct {
	Choice *int `json:"choice"`
}

// SessionResponse is returned by the session endpoints
type SessionResponse struct {
	Session         *AssessmentSession `json:"session,omitempty"`
	CurrentQuestion *int               `json:"currentQuestion,omitempty"`
	TotalQuestions  int                `json:"totalQuestions"`
	Complete        bool               `json:"complete"`
	LastTip         string             `json:"lastTip,omitempty"`
}

// AdviceConfigRequest toggles the advice transport at runtime
type AdviceConfigRequest struct {
	APIKey   *string `json:"apiKey,omitempty"`
	UseProxy *bool   `json:"useProxy,omitempty"`
}
