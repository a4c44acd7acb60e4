package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
)

const defaultOllamaURL = "http://localhost:11434"

// Ollama is a Service backed by a local Ollama server through langchaingo.
type Ollama struct {
	llm llms.Model
	cfg Config
}

func NewOllama(cfg Config) (*Ollama, error) {
	if cfg.Model == "" {
		cfg.Model = "llama3.1"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOllamaURL
	}
	llm, err := ollama.New(
		ollama.WithModel(cfg.Model),
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithFormat("json"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama: %w", err)
	}
	return &Ollama{llm: llm, cfg: cfg}, nil
}

func (o *Ollama) Generate(ctx context.Context, system, user string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	}
	resp, err := o.llm.GenerateContent(ctx, content,
		llms.WithTemperature(o.cfg.Temperature),
		llms.WithMaxTokens(o.cfg.MaxTokens),
	)
	if err != nil {
		return "", classifyOllama(err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", errors.New("ollama returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// langchaingo does not export the ollama status error, so transient
// failures are recognised by message.
func classifyOllama(err error) error {
	if isNetTimeout(err) {
		return unavailable(err)
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"503", "502", "504", "service unavailable", "connection refused", "overloaded", "server busy"} {
		if strings.Contains(msg, s) {
			return unavailable(err)
		}
	}
	return fmt.Errorf("ollama: %w", err)
}
