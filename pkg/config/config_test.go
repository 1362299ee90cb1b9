package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_ADDR", "REDIS_ADDR", "SESSION_TTL", "AI_FEATURES_ENABLED", "HUGGING_FACE_API_KEY", "AI_USE_PROXY", "AI_ADVICE_MODELS", "AI_PROXY_URL", "AI_RUNTIME_CONFIG_TOKEN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 1<<20, cfg.MaxRequestBodyBytes)
	assert.True(t, cfg.Advice.Enabled)
	assert.True(t, cfg.Advice.UseProxy)
	assert.Empty(t, cfg.Advice.APIKey)
	assert.Equal(t, 12*time.Second, cfg.Advice.AttemptTimeout)
	assert.Equal(t, []string{"gpt2", "microsoft/DialoGPT-small", "distilgpt2"}, cfg.Advice.AdviceModels)
	assert.Equal(t, "http://localhost:8080/api/ai-proxy", cfg.Advice.ProxyURL)
	assert.Empty(t, cfg.AdviceConfigToken)
}

func TestProxyURLFollowsServerAddr(t *testing.T) {
	t.Setenv("AI_PROXY_URL", "")
	t.Setenv("SERVER_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9090/api/ai-proxy", cfg.Advice.ProxyURL)

	t.Setenv("AI_PROXY_URL", "http://proxy.internal/api/ai-proxy")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "http://proxy.internal/api/ai-proxy", cfg.Advice.ProxyURL)
}

func TestLocalProxyURL(t *testing.T) {
	testCases := []struct {
		addr string
		want string
	}{
		{":8080", "http://localhost:8080/api/ai-proxy"},
		{"0.0.0.0:9090", "http://localhost:9090/api/ai-proxy"},
		{"[::]:7000", "http://localhost:7000/api/ai-proxy"},
		{"127.0.0.1:8081", "http://127.0.0.1:8081/api/ai-proxy"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, LocalProxyURL(tc.addr), tc.addr)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("AI_FEATURES_ENABLED", "false")
	t.Setenv("HUGGING_FACE_API_KEY", "hf_abc")
	t.Setenv("AI_USE_PROXY", "0")
	t.Setenv("AI_ADVICE_MODELS", " gpt2 , ,distilgpt2 ")
	t.Setenv("AI_ATTEMPT_TIMEOUT", "not-a-duration")
	t.Setenv("AI_RUNTIME_CONFIG_TOKEN", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ServerAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.Advice.Enabled)
	assert.False(t, cfg.Advice.UseProxy)
	assert.Equal(t, "hf_abc", cfg.Advice.APIKey)
	assert.Equal(t, []string{"gpt2", "distilgpt2"}, cfg.Advice.AdviceModels)
	assert.Equal(t, 12*time.Second, cfg.Advice.AttemptTimeout)
	assert.Equal(t, "s3cret", cfg.AdviceConfigToken)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "negative ttl", env: map[string]string{"SESSION_TTL": "-1s"}, wantErr: "SESSION_TTL"},
		{name: "zero body cap", env: map[string]string{"MAX_REQUEST_BODY_BYTES": "0"}, wantErr: "MAX_REQUEST_BODY_BYTES"},
		{name: "bad model", env: map[string]string{"AI_EXPLANATION_MODELS": "../etc"}, wantErr: "invalid model"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
