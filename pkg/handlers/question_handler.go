package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/services"
)

// Explainer produces the "why this matters" text for a question
type Explainer interface {
	Explain(ctx context.Context, q models.Question) models.Advice
}

// QuestionHandler serves the question bank
type QuestionHandler struct {
	questionService *services.QuestionService
	explainer       Explainer
	explainTimeout  time.Duration
}

// NewQuestionHandler creates the handler. explainTimeout bounds one explanation request.
func NewQuestionHandler(questionService *services.QuestionService, explainer Explainer, explainTimeout time.Duration) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		explainer:       explainer,
		explainTimeout:  explainTimeout,
	}
}

// GetAllQuestions handles GET /api/questions
func (h *QuestionHandler) GetAllQuestions(ctx *fasthttp.RequestCtx) {
	questions := h.questionService.GetAllQuestions()
	meta := h.questionService.GetQuestionMetadata()

	responseData := models.QuestionResponse{
		Questions: questions,
		Count:     len(questions),
		Metadata:  &meta,
	}

	respondWithSuccess(ctx, responseData, "Questions retrieved")
}

// GetQuestion handles GET /api/questions/{index}
func (h *QuestionHandler) GetQuestion(ctx *fasthttp.RequestCtx) {
	index, ok := pathInt(ctx, "index")
	if !ok {
		respondWithError(ctx, fasthttp.StatusBadRequest, "Invalid question index")
		return
	}

	question, err := h.questionService.GetQuestion(index)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	responseData := models.QuestionResponse{
		Index:    &index,
		Question: &question,
		Count:    h.questionService.GetQuestionCount(),
	}

	respondWithSuccess(ctx, responseData, "Question retrieved")
}

// GetCategories handles GET /api/questions/categories
func (h *QuestionHandler) GetCategories(ctx *fasthttp.RequestCtx) {
	categories := h.questionService.GetCategories()
	respondWithSuccess(ctx, models.QuestionResponse{
		Categories: categories,
		Count:      len(categories),
	}, "Categories retrieved")
}

// GetQuestionMetadata handles GET /api/questions/metadata
func (h *QuestionHandler) GetQuestionMetadata(ctx *fasthttp.RequestCtx) {
	meta := h.questionService.GetQuestionMetadata()
	respondWithSuccess(ctx, models.QuestionResponse{
		Metadata: &meta,
		Count:    h.questionService.GetQuestionCount(),
	}, "Metadata retrieved")
}

// GetExplanation handles GET /api/questions/{index}/explanation
func (h *QuestionHandler) GetExplanation(ctx *fasthttp.RequestCtx) {
	index, ok := pathInt(ctx, "index")
	if !ok {
		respondWithError(ctx, fasthttp.StatusBadRequest, "Invalid question index")
		return
	}

	question, err := h.questionService.GetQuestion(index)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, h.explainTimeout)
	defer cancel()

	explanation := h.explainer.Explain(reqCtx, question)
	respondWithSuccess(ctx, map[string]interface{}{
		"index":       index,
		"category":    question.Category,
		"explanation": explanation,
		"labeled":     explanation.Labeled(),
	}, fmt.Sprintf("Explanation for question %d", index+1))
}
