package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/privscore/privscore/pkg/inference"
	"github.com/privscore/privscore/pkg/models"
)

// Config is the process-wide advice configuration
type Config struct {
	Enabled           bool
	APIKey            string
	UseProxy          bool
	ProxyURL          string
	BaseURL           string
	AttemptTimeout    time.Duration
	AdviceModels      []string
	ExplanationModels []string
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		UseProxy:          true,
		ProxyURL:          "http://localhost:8080/api/ai-proxy",
		BaseURL:           inference.DefaultBaseURL,
		AttemptTimeout:    12 * time.Second,
		AdviceModels:      []string{"gpt2", "microsoft/DialoGPT-small", "distilgpt2"},
		ExplanationModels: []string{"gpt2", "distilgpt2"},
	}
}

var (
	adviceParams      = inference.Parameters{MaxLength: 300, Temperature: 0.8, DoSample: true}
	explanationParams = inference.Parameters{MaxLength: 120, Temperature: 0.7, DoSample: true}
	testParams        = inference.Parameters{MaxLength: 20}
)

var explanationPhrasings = []string{
	`Explain in simple terms why this cybersecurity question is important: "%s". Give a practical reason in 1-2 sentences.`,
	`Why does this matter for personal cybersecurity: "%s"? Answer in one or two short sentences.`,
	`A home user is asked: "%s". In plain language, the main security benefit of doing this is`,
}

// Status describes the active configuration without revealing the credential
type Status struct {
	Enabled           bool     `json:"enabled"`
	Mode              string   `json:"mode"`
	HasAPIKey         bool     `json:"hasApiKey"`
	AdviceModels      []string `json:"adviceModels"`
	ExplanationModels []string `json:"explanationModels"`
}

// ConnectionResult reports a connection self-test
type ConnectionResult struct {
	Success  bool          `json:"success"`
	Mode     string        `json:"mode"`
	Model    string        `json:"model,omitempty"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"-"`
	TimeMs   int64         `json:"timeMs"`
}

// Service produces advice and explanations, degrading to expert text on any failure
type Service struct {
	mu         sync.RWMutex
	cfg        Config
	transport  Transport
	override   Transport
	httpClient *fasthttp.Client
	thresholds Thresholds
}

// Option customizes a Service
type Option func(*Service)

// WithHTTPClient sets the fasthttp client used by the built-in transports
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(s *Service) { s.httpClient = hc }
}

// WithTransport replaces the built-in transports
func WithTransport(t Transport) Option {
	return func(s *Service) { s.override = t }
}

// WithThresholds replaces the extraction thresholds
func WithThresholds(th Thresholds) Option {
	return func(s *Service) { s.thresholds = th }
}

// NewService creates a service from cfg
func NewService(cfg Config, opts ...Option) *Service {
	s := &Service{thresholds: DefaultThresholds}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = &fasthttp.Client{Name: inference.UserAgent, MaxConnsPerHost: 32}
	}

	s.cfg = cfg
	s.transport = s.buildTransport(cfg)

	st := s.Status()
	log.Printf("🤖 Advice service initialized: enabled=%t mode=%s hasApiKey=%t models=%v",
		st.Enabled, st.Mode, st.HasAPIKey, st.AdviceModels)
	return s
}

func (s *Service) buildTransport(cfg Config) Transport {
	if !cfg.Enabled {
		return nil
	}
	if s.override != nil {
		return s.override
	}
	if cfg.UseProxy && cfg.ProxyURL != "" {
		return NewProxyTransport(cfg.ProxyURL, s.httpClient)
	}
	if cfg.APIKey != "" {
		return NewDirectTransport(inference.NewClient(cfg.BaseURL, cfg.APIKey, inference.WithHTTPClient(s.httpClient)))
	}
	return nil
}

// Reconfigure sets the credential and/or proxy mode; nil leaves a value unchanged
func (s *Service) Reconfigure(apiKey *string, useProxy *bool) Status {
	s.mu.Lock()
	if apiKey != nil {
		s.cfg.APIKey = strings.TrimSpace(*apiKey)
	}
	if useProxy != nil {
		s.cfg.UseProxy = *useProxy
	}
	s.transport = s.buildTransport(s.cfg)
	s.mu.Unlock()

	st := s.Status()
	log.Printf("🔧 Advice service reconfigured: mode=%s hasApiKey=%t", st.Mode, st.HasAPIKey)
	return st
}

// Enabled reports whether a usable transport is configured
func (s *Service) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transport != nil
}

// Status returns a snapshot of the configuration
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mode := ModeDisabled
	if s.transport != nil {
		mode = s.transport.Mode()
	}
	return Status{
		Enabled:           s.transport != nil,
		Mode:              mode,
		HasAPIKey:         s.cfg.APIKey != "",
		AdviceModels:      append([]string(nil), s.cfg.AdviceModels...),
		ExplanationModels: append([]string(nil), s.cfg.ExplanationModels...),
	}
}

func (s *Service) current() (Transport, Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.transport == nil {
		return nil, s.cfg, ErrNotConfigured
	}
	return s.transport, s.cfg, nil
}

// AdvicePrompt builds the prompt for a list of weak areas
func AdvicePrompt(weakAreas []string) string {
	areas := "General Security"
	if len(weakAreas) > 0 {
		areas = strings.Join(weakAreas, ", ")
	}
	return fmt.Sprintf("Give 3 cybersecurity recommendations for someone with weaknesses in: %s. Be specific and practical.", areas)
}

// PersonalizedAdvice returns one to MaxItems advice lines for the weak areas. It never fails:
// any transport or extraction problem yields the expert table instead.
func (s *Service) PersonalizedAdvice(ctx context.Context, weakAreas []string) []models.Advice {
	limit := s.thresholds.MaxItems
	if limit <= 0 {
		limit = DefaultThresholds.MaxItems
	}

	tr, cfg, err := s.current()
	if err != nil {
		log.Printf("📋 Using expert advice for %v: %v", weakAreas, err)
		return expert(FallbackAdvice(weakAreas, limit))
	}

	prompt := AdvicePrompt(weakAreas)
	raw, model, err := s.generate(ctx, tr, cfg, cfg.AdviceModels, inference.Request{Inputs: prompt, Parameters: &adviceParams})
	if err != nil {
		log.Printf("📋 Using expert advice for %v: %v", weakAreas, err)
		return expert(FallbackAdvice(weakAreas, limit))
	}

	items, err := Extract(raw, prompt, s.thresholds)
	if err != nil {
		log.Printf("⚠️ Reply from %s unusable, using expert advice: %v", model, err)
		return expert(FallbackAdvice(weakAreas, limit))
	}
	if len(items) > limit {
		items = items[:limit]
	}

	log.Printf("✅ AI advice from %s: %d items", model, len(items))
	out := make([]models.Advice, len(items))
	for i, it := range items {
		out[i] = models.Advice{Text: it, Source: models.SourceAI}
	}
	return out
}

// QuestionExplanation explains why a question matters. Each phrasing is tried against the
// model list; an unusable reply moves on to the next phrasing, a total transport failure
// goes straight to the expert text.
func (s *Service) QuestionExplanation(ctx context.Context, q models.Question) models.Advice {
	fallback := models.Advice{Text: FallbackExplanation(q.Category), Source: models.SourceExpert}

	tr, cfg, err := s.current()
	if err != nil {
		log.Printf("📋 Using expert explanation for %s: %v", q.Category, err)
		return fallback
	}

	for i, phrasing := range explanationPhrasings {
		prompt := fmt.Sprintf(phrasing, q.Prompt)
		raw, model, err := s.generate(ctx, tr, cfg, cfg.ExplanationModels, inference.Request{Inputs: prompt, Parameters: &explanationParams})
		if err != nil {
			log.Printf("📋 Using expert explanation for %s: %v", q.Category, err)
			return fallback
		}

		text, err := ExtractOne(raw, prompt, s.thresholds, 2)
		if err == nil {
			log.Printf("✅ AI explanation from %s on phrasing %d", model, i+1)
			return models.Advice{Text: text, Source: models.SourceAI}
		}
		log.Printf("⚠️ Phrasing %d gave unusable text from %s", i+1, model)
	}

	log.Printf("📋 Using expert explanation for %s after %d phrasings", q.Category, len(explanationPhrasings))
	return fallback
}

// TestConnection sends one tiny prompt to the first advice model
func (s *Service) TestConnection(ctx context.Context) ConnectionResult {
	start := time.Now()
	tr, cfg, err := s.current()
	if err != nil {
		return finish(ConnectionResult{Mode: ModeDisabled, Message: "❌ " + err.Error()}, start)
	}
	if len(cfg.AdviceModels) == 0 {
		return finish(ConnectionResult{Mode: tr.Mode(), Message: "❌ " + ErrNoCandidates.Error()}, start)
	}

	model := cfg.AdviceModels[0]
	_, _, err = s.generate(ctx, tr, cfg, []string{model}, inference.Request{Inputs: "Test", Parameters: &testParams})
	if err != nil {
		return finish(ConnectionResult{Mode: tr.Mode(), Model: model, Message: fmt.Sprintf("❌ %s failed: %v", tr.Mode(), err)}, start)
	}
	return finish(ConnectionResult{Success: true, Mode: tr.Mode(), Model: model, Message: fmt.Sprintf("✅ %s connection working", tr.Mode())}, start)
}

func finish(r ConnectionResult, start time.Time) ConnectionResult {
	r.Duration = time.Since(start)
	r.TimeMs = r.Duration.Milliseconds()
	log.Printf("🧪 Connection test: %s (%v)", r.Message, r.Duration)
	return r
}

type reply struct {
	raw   json.RawMessage
	model string
}

// generate runs the model cascade, bounding each attempt by the configured timeout
func (s *Service) generate(ctx context.Context, tr Transport, cfg Config, candidates []string, req inference.Request) (json.RawMessage, string, error) {
	r, err := Cascade(ctx, candidates, func(ctx context.Context, model string) (reply, error) {
		actx := ctx
		if cfg.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, cfg.AttemptTimeout)
			defer cancel()
		}

		start := time.Now()
		raw, err := tr.Generate(actx, model, req)
		if err != nil {
			te := newTransportError(model, err)
			log.Printf("❌ %s attempt with %s failed after %v: %v", tr.Mode(), model, time.Since(start), te)
			return reply{}, te
		}
		log.Printf("📡 %s attempt with %s succeeded in %v", tr.Mode(), model, time.Since(start))
		return reply{raw: raw, model: model}, nil
	})
	if err != nil {
		return nil, "", err
	}
	return r.raw, r.model, nil
}

func expert(lines []string) []models.Advice {
	out := make([]models.Advice, len(lines))
	for i, l := range lines {
		out[i] = models.Advice{Text: l, Source: models.SourceExpert}
	}
	return out
}
