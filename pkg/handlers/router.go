package handlers

import (
	"log"
	"strings"

	"github.com/valyala/fasthttp"
)

const contentSecurityPolicy = "default-src 'self'; connect-src 'self' ws: wss:; img-src 'self' data:; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'"

// Router dispatches requests to the handlers by path and method
type Router struct {
	Questions      *QuestionHandler
	Sessions       *SessionHandler
	Advice         *AdviceHandler
	Proxy          *ProxyHandler
	Health         *HealthHandler
	AllowedOrigins []string
}

// Handle is the fasthttp request handler
func (r *Router) Handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	log.Printf("📡 %s %s", method, path)

	r.setHeaders(ctx)

	if method == fasthttp.MethodOptions {
		ctx.SetStatusCode(fasthttp.StatusNoContent)
		return
	}

	switch {
	case path == "/api/health":
		r.Health.HealthCheck(ctx)

	case path == "/ws":
		r.Advice.HandleWebSocket(ctx)

	// the proxy answers 405 itself
	case path == "/api/ai-proxy":
		r.Proxy.Forward(ctx)

	case path == "/api/questions" && method == fasthttp.MethodGet:
		r.Questions.GetAllQuestions(ctx)
	case path == "/api/questions/categories" && method == fasthttp.MethodGet:
		r.Questions.GetCategories(ctx)
	case path == "/api/questions/metadata" && method == fasthttp.MethodGet:
		r.Questions.GetQuestionMetadata(ctx)
	case strings.HasPrefix(path, "/api/questions/") && method == fasthttp.MethodGet:
		r.handleQuestionRoutes(ctx, path)

	case path == "/api/advice/status" && method == fasthttp.MethodGet:
		r.Advice.GetStatus(ctx)
	case path == "/api/advice/config" && method == fasthttp.MethodPost:
		r.Advice.UpdateConfig(ctx)
	case path == "/api/advice/test" && method == fasthttp.MethodPost:
		r.Advice.TestConnection(ctx)

	case path == "/api/sessions" && method == fasthttp.MethodPost:
		r.Sessions.CreateSession(ctx)
	case strings.HasPrefix(path, "/api/sessions/") && method == fasthttp.MethodGet:
		r.handleSessionGetRoutes(ctx, path)
	case strings.HasPrefix(path, "/api/sessions/") && method == fasthttp.MethodPost:
		r.handleSessionPostRoutes(ctx, path)

	default:
		serve404(ctx)
	}
}

func (r *Router) setHeaders(ctx *fasthttp.RequestCtx) {
	h := &ctx.Response.Header
	h.Set("Server", "PrivScore")
	h.Set("Cache-Control", "no-store")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("Content-Security-Policy", contentSecurityPolicy)

	origin := string(ctx.Request.Header.Peek("Origin"))
	if origin != "" && originAllowed(r.AllowedOrigins, origin) {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Vary", "Origin")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+ConfigTokenHeader)
	}
}

func (r *Router) handleQuestionRoutes(ctx *fasthttp.RequestCtx, path string) {
	parts := strings.Split(path, "/")

	// /api/questions/{index}
	if len(parts) == 4 {
		ctx.SetUserValue("index", parts[3])
		r.Questions.GetQuestion(ctx)
		return
	}

	// /api/questions/{index}/explanation
	if len(parts) == 5 && parts[4] == "explanation" {
		ctx.SetUserValue("index", parts[3])
		r.Questions.GetExplanation(ctx)
		return
	}

	serve404(ctx)
}

func (r *Router) handleSessionGetRoutes(ctx *fasthttp.RequestCtx, path string) {
	parts := strings.Split(path, "/")

	// /api/sessions/{id}
	if len(parts) == 4 && parts[3] != "" {
		ctx.SetUserValue("id", parts[3])
		r.Sessions.GetSession(ctx)
		return
	}

	if len(parts) != 5 || parts[3] == "" {
		serve404(ctx)
		return
	}
	ctx.SetUserValue("id", parts[3])

	switch parts[4] {
	case "results":
		r.Sessions.GetResults(ctx)
	case "export":
		r.Sessions.ExportResults(ctx)
	case "advice":
		r.Advice.GetAdvice(ctx)
	default:
		serve404(ctx)
	}
}

func (r *Router) handleSessionPostRoutes(ctx *fasthttp.RequestCtx, path string) {
	parts := strings.Split(path, "/")

	if len(parts) != 5 || parts[3] == "" {
		serve404(ctx)
		return
	}
	ctx.SetUserValue("id", parts[3])

	switch parts[4] {
	case "answer":
		r.Sessions.SubmitAnswer(ctx)
	case "skip":
		r.Sessions.SkipQuestion(ctx)
	case "back":
		r.Sessions.GoBack(ctx)
	case "reset":
		r.Sessions.ResetSession(ctx)
	case "advice":
		r.Advice.RequestAdvice(ctx)
	default:
		serve404(ctx)
	}
}

func serve404(ctx *fasthttp.RequestCtx) {
	respondWithError(ctx, fasthttp.StatusNotFound, "Route not found: "+string(ctx.Method())+" "+string(ctx.Path()))
}
