// Package llm generates article and keyword text through a hosted language
// model. Two providers are supported: xAI's OpenAI-compatible chat API and
// Anthropic's Messages API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderXAI       = "xai"
	ProviderAnthropic = "anthropic"
)

// ErrEmptyCompletion is returned when the provider answers without text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Generator produces text from a system and user prompt.
type Generator interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider  string        `env:"LLM_PROVIDER"   yaml:"provider"`
	APIKey    string        `env:"LLM_API_KEY"    yaml:"api_key"`
	Model     string        `env:"LLM_MODEL"      yaml:"model"`
	BaseURL   string        `env:"LLM_BASE_URL"   yaml:"base_url"`
	MaxTokens int           `env:"LLM_MAX_TOKENS" yaml:"max_tokens"`
	Timeout   time.Duration `env:"LLM_TIMEOUT"    yaml:"timeout"`
}

// Enabled reports whether a provider is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Provider) != "" && c.APIKey != ""
}

// New builds the configured provider. It returns a nil Generator and no
// error when no provider is configured.
func New(cfg Config) (Generator, error) {
	if !cfg.Enabled() {
		return nil, nil //nolint:nilnil // absent provider is a valid configuration
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderXAI:
		return NewXAIClient(cfg), nil
	case ProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
