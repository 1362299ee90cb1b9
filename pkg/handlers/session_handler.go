package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/privscore/privscore/pkg/export"
	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/services"
)

// SessionHandler handles the assessment flow of one user
type SessionHandler struct {
	sessionService *services.SessionService
	resultsService *services.ResultsService
	adviceService  *services.AdviceService
}

// NewSessionHandler creates the session handler
func NewSessionHandler(sessionService *services.SessionService, resultsService *services.ResultsService, adviceService *services.AdviceService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		resultsService: resultsService,
		adviceService:  adviceService,
	}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(ctx *fasthttp.RequestCtx) {
	session, err := h.sessionService.Create(ctx)
	if err != nil {
		respondWithError(ctx, fasthttp.StatusInternalServerError, fmt.Sprintf("Error creating session: %v", err))
		return
	}

	respondWithStatus(ctx, fasthttp.StatusCreated, h.sessionService.View(session, ""), "Session created")
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(ctx *fasthttp.RequestCtx) {
	session, err := h.sessionService.Get(ctx, pathString(ctx, "id"))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, h.sessionService.View(session, ""), "Session retrieved")
}

// SubmitAnswer handles POST /api/sessions/{id}/answer
func (h *SessionHandler) SubmitAnswer(ctx *fasthttp.RequestCtx) {
	var request models.AnswerRequest
	if err := json.Unmarshal(ctx.PostBody(), &request); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "Invalid JSON")
		return
	}
	if request.Choice == nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "choice is required")
		return
	}

	session, picked, err := h.sessionService.Answer(ctx, pathString(ctx, "id"), *request.Choice)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, h.sessionService.View(session, picked.Tip), "Answer recorded")
}

// SkipQuestion handles POST /api/sessions/{id}/skip
func (h *SessionHandler) SkipQuestion(ctx *fasthttp.RequestCtx) {
	session, err := h.sessionService.Skip(ctx, pathString(ctx, "id"))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, h.sessionService.View(session, ""), "Question skipped")
}

// GoBack handles POST /api/sessions/{id}/back
func (h *SessionHandler) GoBack(ctx *fasthttp.RequestCtx) {
	session, err := h.sessionService.Back(ctx, pathString(ctx, "id"))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, h.sessionService.View(session, ""), "Last answer removed")
}

// ResetSession handles POST /api/sessions/{id}/reset
func (h *SessionHandler) ResetSession(ctx *fasthttp.RequestCtx) {
	session, err := h.sessionService.Reset(ctx, pathString(ctx, "id"))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	log.Printf("🔄 Session %s reset", session.ID)
	respondWithSuccess(ctx, h.sessionService.View(session, ""), "Assessment restarted")
}

// GetResults handles GET /api/sessions/{id}/results
func (h *SessionHandler) GetResults(ctx *fasthttp.RequestCtx) {
	results, err := h.results(ctx)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithSuccess(ctx, results, "Results calculated")
}

// ExportResults handles GET /api/sessions/{id}/export
func (h *SessionHandler) ExportResults(ctx *fasthttp.RequestCtx) {
	results, err := h.results(ctx)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	var advice []models.Advice
	latest, err := h.adviceService.Latest(ctx, results.SessionID)
	switch {
	case err == nil:
		advice = latest.Advice
	case !errors.Is(err, services.ErrAdvicePending):
		log.Printf("⚠️ Exporting %s without advice: %v", results.SessionID, err)
	}

	now := time.Now()
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(now)))
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyString(export.Render(*results, advice, now))
}

func (h *SessionHandler) results(ctx *fasthttp.RequestCtx) (*models.Results, error) {
	session, err := h.sessionService.Get(ctx, pathString(ctx, "id"))
	if err != nil {
		return nil, err
	}
	return h.resultsService.Build(session)
}
