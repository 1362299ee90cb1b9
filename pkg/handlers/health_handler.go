package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/privscore/privscore/pkg/advice"
)

// Pinger checks a backing store
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler reports whether the server can serve assessments
type HealthHandler struct {
	store   Pinger
	advisor *advice.Service
}

func NewHealthHandler(store Pinger, advisor *advice.Service) *HealthHandler {
	return &HealthHandler{store: store, advisor: advisor}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(ctx *fasthttp.RequestCtx) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.store.HealthCheck(pingCtx); err != nil {
		respondWithError(ctx, fasthttp.StatusServiceUnavailable, fmt.Sprintf("Service unavailable: %v", err))
		return
	}

	respondWithSuccess(ctx, map[string]interface{}{
		"status": "healthy",
		"redis":  "connected",
		"advice": h.advisor.Status().Mode,
	}, "Service is healthy")
}
