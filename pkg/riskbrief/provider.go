package riskbrief

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMissingAPIKey is returned when the selected provider has no key.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrSchemaViolation is returned when a 2xx risk brief body is not a brief.
	ErrSchemaViolation = errors.New("risk brief response does not match schema")
)

// Config controls which LLM answers and how.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
	Proxy    string
}

// Provider sends one system + user prompt pair and returns the raw text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// UpstreamError is a non-2xx answer from the model provider. Body holds the
// provider's response text as-is.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if strings.TrimSpace(e.Body) != "" {
		return e.Body
	}
	return fmt.Sprintf("%s request failed", e.Provider)
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	defaultProvider  = ProviderOpenAI
	defaultTimeout   = 60 * time.Second
	defaultMaxTokens = 4096
)

// NewProvider builds the provider named in cfg.
func NewProvider(cfg Config) (Provider, error) {
	cfg.Provider = strings.TrimSpace(strings.ToLower(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = defaultProvider
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAIProvider(cfg)
	case ProviderAnthropic:
		return newAnthropicProvider(cfg)
	case ProviderGemini:
		return newGeminiProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// KeyEnv names the environment variable that holds a provider's key.
func KeyEnv(provider string) string {
	switch strings.TrimSpace(strings.ToLower(provider)) {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

func missingKey(provider string) error {
	return fmt.Errorf("%w: set %s", ErrMissingAPIKey, KeyEnv(provider))
}
