package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/privscore/privscore/pkg/models"
	"github.com/privscore/privscore/pkg/services"
)

// respondWithJSON writes response as the JSON body
func respondWithJSON(ctx *fasthttp.RequestCtx, statusCode int, response interface{}) {
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.SetStatusCode(statusCode)

	jsonData, err := json.Marshal(response)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"success": false, "error": "failed to encode response"}`)
		return
	}

	ctx.SetBody(jsonData)
}

func respondWithError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	respondWithJSON(ctx, statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func respondWithSuccess(ctx *fasthttp.RequestCtx, data interface{}, message string) {
	respondWithStatus(ctx, fasthttp.StatusOK, data, message)
}

func respondWithStatus(ctx *fasthttp.RequestCtx, statusCode int, data interface{}, message string) {
	respondWithJSON(ctx, statusCode, models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrAdvicePending):
		return fasthttp.StatusNotFound
	case errors.Is(err, services.ErrInvalidChoice):
		return fasthttp.StatusBadRequest
	case errors.Is(err, services.ErrAssessmentComplete),
		errors.Is(err, services.ErrAssessmentIncomplete),
		errors.Is(err, services.ErrNothingToUndo):
		return fasthttp.StatusConflict
	default:
		return fasthttp.StatusInternalServerError
	}
}

func respondWithServiceError(ctx *fasthttp.RequestCtx, err error) {
	respondWithError(ctx, statusFor(err), err.Error())
}

// pathInt reads an integer route parameter set by the router
func pathInt(ctx *fasthttp.RequestCtx, name string) (int, bool) {
	raw, _ := ctx.UserValue(name).(string)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func pathString(ctx *fasthttp.RequestCtx, name string) string {
	s, _ := ctx.UserValue(name).(string)
	return s
}
