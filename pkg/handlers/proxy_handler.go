package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/privscore/privscore/pkg/advice"
	"github.com/privscore/privscore/pkg/inference"
)

// ProxyHandler forwards prompts to the inference provider with the server-held credential
type ProxyHandler struct {
	client       *inference.Client
	maxBodyBytes int
	timeout      time.Duration
}

// NewProxyHandler creates the proxy. A client without a credential makes every call answer 503.
func NewProxyHandler(client *inference.Client, maxBodyBytes int, timeout time.Duration) *ProxyHandler {
	return &ProxyHandler{client: client, maxBodyBytes: maxBodyBytes, timeout: timeout}
}

// Forward handles POST /api/ai-proxy
func (h *ProxyHandler) Forward(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.Response.Header.Set("Allow", fasthttp.MethodPost)
		h.fail(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed", "", false)
		return
	}

	body := ctx.PostBody()
	if h.maxBodyBytes > 0 && len(body) > h.maxBodyBytes {
		h.fail(ctx, fasthttp.StatusRequestEntityTooLarge, "Request body too large", "", false)
		return
	}

	var request advice.ProxyRequest
	if err := json.Unmarshal(body, &request); err != nil {
		h.fail(ctx, fasthttp.StatusBadRequest, "Invalid JSON", "", false)
		return
	}
	request.Model = strings.TrimSpace(request.Model)
	if request.Model == "" || strings.TrimSpace(request.Inputs) == "" {
		h.fail(ctx, fasthttp.StatusBadRequest, "Missing required fields: model and inputs", "", false)
		return
	}
	if !inference.ValidModel(request.Model) {
		h.fail(ctx, fasthttp.StatusBadRequest, "Invalid model name", "", false)
		return
	}

	if !h.client.HasAPIKey() {
		h.fail(ctx, fasthttp.StatusServiceUnavailable, "AI service not configured", "", true)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	data, err := h.client.Generate(reqCtx, request.Model, inference.Request{
		Inputs:     request.Inputs,
		Parameters: request.Parameters,
		Task:       request.Task,
	})
	if err != nil {
		var statusErr *inference.StatusError
		if errors.As(err, &statusErr) {
			log.Printf("⚠️ Proxy upstream %s returned %d", request.Model, statusErr.StatusCode)
			h.fail(ctx, statusErr.StatusCode, "AI service error", statusErr.Body, true)
			return
		}
		log.Printf("❌ Proxy call to %s failed: %v", request.Model, err)
		h.fail(ctx, fasthttp.StatusBadGateway, "AI service unreachable", err.Error(), true)
		return
	}

	respondWithJSON(ctx, fasthttp.StatusOK, advice.ProxyReply{
		Success:   true,
		Data:      data,
		Model:     request.Model,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *ProxyHandler) fail(ctx *fasthttp.RequestCtx, status int, message, details string, fallback bool) {
	respondWithJSON(ctx, status, advice.ProxyReply{
		Error:    message,
		Details:  details,
		Fallback: fallback,
	})
}
