// Package llm talks to the external structured-extraction service.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

// Service performs exactly one call to a language model and returns its raw
// text response. Implementations wrap transient failures in
// models.ErrServiceUnavailable so callers can decide whether to retry.
type Service interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, system, user string) (string, error)

func (f ServiceFunc) Generate(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config selects and tunes the backing model.
type Config struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	CallTimeout time.Duration `yaml:"call_timeout"`
}

// DefaultConfig returns a low-temperature, high-output configuration.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderOpenAI,
		Model:       "gpt-4o-mini",
		Temperature: 0.1,
		MaxTokens:   16000,
		CallTimeout: 2 * time.Minute,
	}
}

// NewService builds the Service for cfg.Provider.
func NewService(cfg Config) (Service, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI, "":
		return NewOpenAI(cfg)
	case ProviderOllama:
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// unavailable wraps err so that errors.Is(err, models.ErrServiceUnavailable)
// holds while the original message is kept.
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", models.ErrServiceUnavailable, err)
}

func isTransientStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504, 529:
		return true
	}
	return false
}

func isNetTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
