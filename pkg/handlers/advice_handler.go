package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"

	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/services"
	websocketHub "github.com/privscore/privscore/pkg/websocket"
)

type AdviceHandler struct {
	adviceService  *services.AdviceService
	sessionService *services.SessionService
	hub            *websocketHub.Hub
	upgrader       websocket.FastHTTPUpgrader
	configToken    string
	testTimeout    time.Duration
}

// ConfigTokenHeader carries the token that unlocks runtime advice configuration
const ConfigTokenHeader = "X-Config-Token"

func NewAdviceHandler(adviceService *services.AdviceService, sessionService *services.SessionService, hub *websocketHub.Hub,
	allowedOrigins []string, configToken string, testTimeout time.Duration) *AdviceHandler {
	return &AdviceHandler{
		adviceService:  adviceService,
		sessionService: sessionService,
		hub:            hub,
		upgrader: websocket.FastHTTPUpgrader{
			CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
				return originAllowed(allowedOrigins, string(ctx.Request.Header.Peek("Origin")))
			},
		},
		configToken: configToken,
		testTimeout: testTimeout,
	}
}

// HandleWebSocket subscribes a socket to the advice notifications of one session
func (ah *AdviceHandler) HandleWebSocket(ctx *fasthttp.RequestCtx) {
	sessionID := string(ctx.QueryArgs().Peek("session"))
	if sessionID == "" {
		respondWithError(ctx, fasthttp.StatusBadRequest, "session query parameter is required")
		return
	}
	if _, err := ah.sessionService.Get(ctx, sessionID); err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	// advice that finished before the socket connected is replayed once
	latest, latestErr := ah.adviceService.Latest(ctx, sessionID)

	err := ah.upgrader.Upgrade(ctx, func(ws *websocket.Conn) {
		ah.hub.Register(sessionID, ws)
		defer ah.hub.Unregister(sessionID, ws)

		if latestErr == nil {
			ah.hub.Publish(sessionID, services.AdviceReadyEvent, latest)
		}

		// clients only listen; reading detects the close
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("⚠️ WebSocket read error for session %s: %v", sessionID, err)
				}
				return
			}
		}
	})

	if err != nil {
		log.Printf("❌ Error upgrading to WebSocket: %v", err)
	}
}

// RequestAdvice handles POST /api/sessions/{id}/advice
func (ah *AdviceHandler) RequestAdvice(ctx *fasthttp.RequestCtx) {
	req, err := ah.adviceService.Request(ctx, pathString(ctx, "id"))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	respondWithStatus(ctx, fasthttp.StatusAccepted, req, "Advice is being prepared")
}

// GetAdvice handles GET /api/sessions/{id}/advice
func (ah *AdviceHandler) GetAdvice(ctx *fasthttp.RequestCtx) {
	result, err := ah.adviceService.Latest(ctx, pathString(ctx, "id"))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}

	labeled := make([]string, len(result.Advice))
	for i, a := range result.Advice {
		labeled[i] = a.Labeled()
	}
	respondWithSuccess(ctx, map[string]interface{}{
		"result":  result,
		"labeled": labeled,
	}, "Advice ready")
}

// GetStatus handles GET /api/advice/status
func (ah *AdviceHandler) GetStatus(ctx *fasthttp.RequestCtx) {
	respondWithSuccess(ctx, ah.adviceService.Advisor().Status(), "Advice status")
}

// UpdateConfig handles POST /api/advice/config. The transport is shared by every session,
// so the call needs the operator token and is refused outright when none is configured.
func (ah *AdviceHandler) UpdateConfig(ctx *fasthttp.RequestCtx) {
	if !ah.configAllowed(ctx) {
		log.Printf("🚫 Refused advice reconfiguration from %s", ctx.RemoteIP())
		respondWithError(ctx, fasthttp.StatusForbidden, "Advice configuration is not allowed")
		return
	}

	var request models.AdviceConfigRequest
	if err := json.Unmarshal(ctx.PostBody(), &request); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "Invalid JSON")
		return
	}
	if request.APIKey == nil && request.UseProxy == nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "apiKey or useProxy is required")
		return
	}

	status := ah.adviceService.Advisor().Reconfigure(request.APIKey, request.UseProxy)
	respondWithSuccess(ctx, status, "Advice configuration updated")
}

// TestConnection handles POST /api/advice/test
func (ah *AdviceHandler) TestConnection(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := context.WithTimeout(ctx, ah.testTimeout)
	defer cancel()

	result := ah.adviceService.Advisor().TestConnection(reqCtx)
	respondWithSuccess(ctx, result, result.Message)
}

func (ah *AdviceHandler) configAllowed(ctx *fasthttp.RequestCtx) bool {
	if ah.configToken == "" {
		return false
	}
	got := ctx.Request.Header.Peek(ConfigTokenHeader)
	return subtle.ConstantTimeCompare(got, []byte(ah.configToken)) == 1
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
