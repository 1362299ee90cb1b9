package questions

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/privscore/privscore/pkg/models"
)

//go:embed bank.yaml
var embeddedBank []byte

// ErrEmptyBank is returned when a bank file holds no questions
var ErrEmptyBank = errors.New("question bank is empty")

// Bank is the ordered, read-only question bank shared by every session
type Bank struct {
	metadata   models.Metadata
	questions  []models.Question
	categories []string
}

// Default returns the bank compiled into the binary
func Default() (*Bank, error) {
	return Parse(embeddedBank)
}

// Load reads a YAML bank from disk
func Load(path string) (*Bank, error) {
	log.Printf("📂 Loading questions from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	bank, err := Parse(data)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ %d questions loaded in %d categories", bank.Len(), len(bank.categories))
	return bank, nil
}

// Parse decodes and validates a YAML bank document
func Parse(data []byte) (*Bank, error) {
	var doc models.QuestionsData
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	if err := Validate(doc.Questions); err != nil {
		return nil, err
	}

	return New(doc.Metadata, doc.Questions), nil
}

// New builds a bank from already validated questions
func New(meta models.Metadata, qs []models.Question) *Bank {
	b := &Bank{
		metadata:  meta,
		questions: make([]models.Question, len(qs)),
	}
	copy(b.questions, qs)

	seen := make(map[string]bool)
	for _, q := range b.questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			b.categories = append(b.categories, q.Category)
		}
	}
	return b
}

// Validate checks that every question can be scored out of ten points
func Validate(qs []models.Question) error {
	if len(qs) == 0 {
		return ErrEmptyBank
	}

	for i, q := range qs {
		if q.Category == "" {
			return fmt.Errorf("question %d: missing category", i)
		}
		if q.Prompt == "" {
			return fmt.Errorf("question %d: missing prompt", i)
		}
		if len(q.Choices) == 0 {
			return fmt.Errorf("question %d: no choices", i)
		}
		for j, c := range q.Choices {
			if c.Score < 0 || c.Score > models.MaxChoiceScore {
				return fmt.Errorf("question %d choice %d: score %d out of range [0,%d]", i, j, c.Score, models.MaxChoiceScore)
			}
		}
		if q.MaxScore() != models.MaxChoiceScore {
			return fmt.Errorf("question %d: no choice worth %d points", i, models.MaxChoiceScore)
		}
	}
	return nil
}

// Len returns the number of questions
func (b *Bank) Len() int {
	return len(b.questions)
}

// At returns question i
func (b *Bank) At(i int) (models.Question, bool) {
	if i < 0 || i >= len(b.questions) {
		return models.Question{}, false
	}
	return b.questions[i], true
}

// Questions returns the bank in declaration order. Callers must not modify it.
func (b *Bank) Questions() []models.Question {
	return b.questions
}

// Categories lists each category once, in the order it first appears
func (b *Bank) Categories() []string {
	out := make([]string, len(b.categories))
	copy(out, b.categories)
	return out
}

// Metadata returns the bank header
func (b *Bank) Metadata() models.Metadata {
	return b.metadata
}

// MaxScore is the best total a full record can reach
func (b *Bank) MaxScore() int {
	total := 0
	for _, q := range b.questions {
		total += q.MaxScore()
	}
	return total
}
