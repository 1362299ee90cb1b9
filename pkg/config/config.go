package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/privscore/privscore/pkg/advice"
	"github.com/privscore/privscore/pkg/inference"
)

// Config holds the server settings read from the environment
type Config struct {
	ServerAddr          string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	SessionTTL          time.Duration
	MaxRequestBodyBytes int
	QuestionsFile       string
	AllowedOrigins      []string
	// AdviceConfigToken unlocks POST /api/advice/config; empty disables the endpoint
	AdviceConfigToken   string
	Advice              advice.Config
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	serverAddr := getEnv("SERVER_ADDR", ":8080")
	cfg := &Config{
		ServerAddr:          serverAddr,
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		SessionTTL:          getEnvDuration("SESSION_TTL", 2*time.Hour),
		MaxRequestBodyBytes: getEnvInt("MAX_REQUEST_BODY_BYTES", 1<<20),
		QuestionsFile:       getEnv("QUESTIONS_FILE", ""),
		AllowedOrigins:      getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		AdviceConfigToken:   getEnv("AI_RUNTIME_CONFIG_TOKEN", ""),
		Advice: advice.Config{
			Enabled:           getEnvBool("AI_FEATURES_ENABLED", true),
			APIKey:            getEnv("HUGGING_FACE_API_KEY", ""),
			UseProxy:          getEnvBool("AI_USE_PROXY", true),
			ProxyURL:          getEnv("AI_PROXY_URL", LocalProxyURL(serverAddr)),
			BaseURL:           getEnv("AI_BASE_URL", inference.DefaultBaseURL),
			AttemptTimeout:    getEnvDuration("AI_ATTEMPT_TIMEOUT", 12*time.Second),
			AdviceModels:      getEnvList("AI_ADVICE_MODELS", []string{"gpt2", "microsoft/DialoGPT-small", "distilgpt2"}),
			ExplanationModels: getEnvList("AI_EXPLANATION_MODELS", []string{"gpt2", "distilgpt2"}),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return errors.New("SERVER_ADDR must not be empty")
	}
	if c.RedisAddr == "" {
		return errors.New("REDIS_ADDR must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %v", c.SessionTTL)
	}
	if c.MaxRequestBodyBytes <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_BYTES must be positive, got %d", c.MaxRequestBodyBytes)
	}
	if c.Advice.AttemptTimeout <= 0 {
		return fmt.Errorf("AI_ATTEMPT_TIMEOUT must be positive, got %v", c.Advice.AttemptTimeout)
	}
	for _, m := range append(append([]string(nil), c.Advice.AdviceModels...), c.Advice.ExplanationModels...) {
		if !inference.ValidModel(m) {
			return fmt.Errorf("invalid model name %q", m)
		}
	}
	return nil
}

// LocalProxyURL is the proxy endpoint of this server when it listens on addr
func LocalProxyURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost:8080/api/ai-proxy"
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/api/ai-proxy"
}

// getEnv retrieves a string environment variable with fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable with fallback
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable with fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration such as "12s" or "2h" with fallback
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
