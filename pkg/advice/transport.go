package advice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/valyala/fasthttp"

	"github.com/privscore/privscore/pkg/inference"
)

// Transport sends one prompt to one model and returns the provider-shaped reply
type Transport interface {
	Generate(ctx context.Context, model string, req inference.Request) (json.RawMessage, error)
	Mode() string
}

// Transport modes
const (
	ModeProxy    = "proxy"
	ModeDirect   = "direct"
	ModeDisabled = "disabled"
)

// ProxyRequest is the body accepted by the same-origin proxy endpoint
type ProxyRequest struct {
	Model      string                `json:"model"`
	Inputs     string                `json:"inputs"`
	Parameters *inference.Parameters `json:"parameters,omitempty"`
	Task       string                `json:"task,omitempty"`
}

// ProxyReply is the proxy's success or failure envelope
type ProxyReply struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Model     string          `json:"model,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Error     string          `json:"error,omitempty"`
	Details   string          `json:"details,omitempty"`
	Fallback  bool            `json:"fallback,omitempty"`
}

// ProxyTransport relays prompts through the proxy endpoint, which holds the credential
type ProxyTransport struct {
	url    string
	client *fasthttp.Client
}

// NewProxyTransport creates a proxy transport posting to url
func NewProxyTransport(url string, client *fasthttp.Client) *ProxyTransport {
	if client == nil {
		client = &fasthttp.Client{Name: inference.UserAgent}
	}
	return &ProxyTransport{url: url, client: client}
}

func (t *ProxyTransport) Mode() string { return ModeProxy }

// Generate posts {model, inputs, parameters} and unwraps the data field
func (t *ProxyTransport) Generate(ctx context.Context, model string, req inference.Request) (json.RawMessage, error) {
	status, body, err := inference.PostJSON(ctx, t.client, t.url, ProxyRequest{
		Model:      model,
		Inputs:     req.Inputs,
		Parameters: req.Parameters,
		Task:       req.Task,
	})
	if err != nil {
		return nil, fmt.Errorf("proxy call: %w", err)
	}

	var reply ProxyReply
	if err := json.Unmarshal(body, &reply); err != nil {
		if status < 200 || status >= 300 {
			return nil, &inference.StatusError{StatusCode: status, Body: string(body)}
		}
		return nil, fmt.Errorf("decode proxy reply: %w", err)
	}

	if status < 200 || status >= 300 || !reply.Success {
		msg := reply.Error
		if msg == "" {
			msg = "proxy call failed"
		}
		return nil, &inference.StatusError{StatusCode: status, Body: msg}
	}
	if len(reply.Data) == 0 {
		return nil, errors.New("proxy reply without data")
	}
	return reply.Data, nil
}

// DirectTransport calls the provider with a client-held credential
type DirectTransport struct {
	client *inference.Client
}

// NewDirectTransport wraps an inference client
func NewDirectTransport(client *inference.Client) *DirectTransport {
	return &DirectTransport{client: client}
}

func (t *DirectTransport) Mode() string { return ModeDirect }

func (t *DirectTransport) Generate(ctx context.Context, model string, req inference.Request) (json.RawMessage, error) {
	return t.client.Generate(ctx, model, req)
}
