// Package service assembles the menu pipeline from configuration.
package service

import (
	"context"
	"fmt"

	"github.com/zubenkoruslan/hospitalitai-sub007/config"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/agent"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/agent/document/ocr"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/agent/document/pdf"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/chunker"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/density"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/llm"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/service/menu"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

type options struct {
	backend llm.Service
	menu    []menu.Option
}

type Option func(*options)

// WithBackend replaces the configured language model backend.
func WithBackend(svc llm.Service) Option {
	return func(o *options) { o.backend = svc }
}

// WithMenuOptions passes extra options to the menu service.
func WithMenuOptions(opts ...menu.Option) Option {
	return func(o *options) { o.menu = append(o.menu, opts...) }
}

// GetService builds the menu service and the text extractor it reads
// documents with. The caller closes the returned factory.
func GetService(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*menu.MenuService, *agent.ProcessorFactory, error) {
	if log == nil {
		log = logger.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	backend := o.backend
	if backend == nil {
		svc, err := llm.NewService(cfg.LLM)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize llm: %w", err)
		}
		backend = svc
	}
	client := llm.NewClient(backend, log.Named("llm"),
		llm.WithPolicies(cfg.Retry.Single, cfg.Retry.Chunked),
		llm.WithCallTimeout(cfg.LLM.CallTimeout),
		llm.WithPrompts(cfg.Prompts),
	)

	var engine pdf.OCR
	if cfg.OCR.Enabled {
		textract, err := ocr.NewTextractProcessor(ctx, &cfg.OCR.TextractConfig, log.Named("ocr"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize ocr: %w", err)
		}
		engine = textract
	}
	factory := agent.NewProcessorFactory(log, engine)

	menuOpts := append([]menu.Option{
		menu.WithAnalyzer(density.NewAnalyzer(cfg.Density)),
		menu.WithChunker(chunker.New(cfg.Chunker)),
	}, o.menu...)
	return menu.NewService(factory, client, log, cfg.Pipeline, menuOpts...), factory, nil
}
