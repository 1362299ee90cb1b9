package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/questions"
)

// ErrQuestionNotFound is returned for an index outside the bank
var ErrQuestionNotFound = errors.New("question not found")

// QuestionService serves the read-only question bank
type QuestionService struct {
	bank *questions.Bank
}

// NewQuestionService creates the service over a loaded bank
func NewQuestionService(bank *questions.Bank) *QuestionService {
	return &QuestionService{bank: bank}
}

// LoadBank returns the bank at path, or the embedded one when path is empty
func LoadBank(path string) (*questions.Bank, error) {
	if path == "" {
		bank, err := questions.Default()
		if err != nil {
			return nil, fmt.Errorf("load embedded question bank: %w", err)
		}
		log.Printf("📚 Using embedded question bank (%d questions)", bank.Len())
		return bank, nil
	}
	return questions.Load(path)
}

// Bank exposes the underlying bank
func (s *QuestionService) Bank() *questions.Bank {
	return s.bank
}

// GetAllQuestions returns every question in order
func (s *QuestionService) GetAllQuestions() []models.Question {
	return s.bank.Questions()
}

// GetQuestion returns the question at index
func (s *QuestionService) GetQuestion(index int) (models.Question, error) {
	q, ok := s.bank.At(index)
	if !ok {
		return models.Question{}, fmt.Errorf("%w: index %d", ErrQuestionNotFound, index)
	}
	return q, nil
}

// GetQuestionCount returns the number of questions
func (s *QuestionService) GetQuestionCount() int {
	return s.bank.Len()
}

// GetCategories lists categories in declaration order
func (s *QuestionService) GetCategories() []string {
	return s.bank.Categories()
}

// GetQuestionMetadata returns the bank header
func (s *QuestionService) GetQuestionMetadata() models.Metadata {
	return s.bank.Metadata()
}
