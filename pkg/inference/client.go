package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	// DefaultBaseURL is the hosted inference API root; the model name is appended as a path
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
	// UserAgent identifies outbound calls
	UserAgent = "PrivScore/1.0"

	defaultTimeout = 15 * time.Second
	maxLoggedBody  = 200
)

// ErrInvalidModel is returned for model names that cannot be used as a path
var ErrInvalidModel = errors.New("invalid model name")

var modelPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*(/[A-Za-z0-9][A-Za-z0-9._-]*)?$`)

// ValidModel reports whether name looks like "model" or "owner/model"
func ValidModel(name string) bool {
	return modelPattern.MatchString(name) && !strings.Contains(name, "..")
}

// Parameters are the generation knobs sent with a prompt
type Parameters struct {
	MaxLength   int     `json:"max_length,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	DoSample    bool    `json:"do_sample,omitempty"`
}

// Request is the upstream request body
type Request struct {
	Inputs     string      `json:"inputs"`
	Parameters *Parameters `json:"parameters,omitempty"`
	Task       string      `json:"task,omitempty"`
}

// StatusError is a non-success reply from the provider or the proxy
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, truncate(e.Body, maxLoggedBody))
}

// Client talks to the text-generation provider with a bearer credential
type Client struct {
	baseURL string
	apiKey  string
	http    *fasthttp.Client
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying fasthttp client
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client for baseURL authenticated with apiKey
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &fasthttp.Client{
			Name:                UserAgent,
			ReadTimeout:         defaultTimeout,
			WriteTimeout:        defaultTimeout,
			MaxConnsPerHost:     32,
			MaxIdleConnDuration: time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasAPIKey reports whether a credential is configured
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// Forward posts body to the model endpoint and returns the upstream status and body untouched
func (c *Client) Forward(ctx context.Context, model string, body []byte) (int, []byte, error) {
	if !ValidModel(model) {
		return 0, nil, fmt.Errorf("%w: %q", ErrInvalidModel, model)
	}
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/" + model)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.SetUserAgent(UserAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.SetBody(body)

	start := time.Now()
	if err := do(ctx, c.http, req, resp); err != nil {
		log.Printf("❌ Inference call to %s failed after %v: %v", model, time.Since(start), err)
		return 0, nil, fmt.Errorf("call %s: %w", model, err)
	}

	out := append([]byte(nil), resp.Body()...)
	log.Printf("📡 Inference %s -> %d (%v, %d bytes)", model, resp.StatusCode(), time.Since(start), len(out))
	return resp.StatusCode(), out, nil
}

// Generate sends a prompt and returns the provider's raw JSON reply
func (c *Client) Generate(ctx context.Context, model string, r Request) (json.RawMessage, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	status, out, err := c.Forward(ctx, model, body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &StatusError{StatusCode: status, Body: string(out)}
	}
	return json.RawMessage(out), nil
}

// PostJSON posts a JSON payload to an arbitrary URL and returns status and body
func PostJSON(ctx context.Context, hc *fasthttp.Client, url string, payload interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.SetUserAgent(UserAgent)
	req.SetBody(body)

	if err := do(ctx, hc, req, resp); err != nil {
		return 0, nil, err
	}
	return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
}

func do(ctx context.Context, hc *fasthttp.Client, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		return hc.DoDeadline(req, resp, deadline)
	}
	return hc.DoTimeout(req, resp, defaultTimeout)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
