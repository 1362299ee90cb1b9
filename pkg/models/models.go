package models

// APIResponse is the envelope every JSON endpoint replies with
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// QuestionResponse wraps one or more questions of the bank
type QuestionResponse struct {
	Index      *int       `json:"index,omitempty"`
	Question   *Question  `json:"question,omitempty"`
	Questions  []Question `json:"questions,omitempty"`
	Count      int        `json:"count,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	Metadata   *Metadata  `json:"metadata,omitempty"`
}
