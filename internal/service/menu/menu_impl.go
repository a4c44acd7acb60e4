package menu

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/agent"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/chunker"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/dedupe"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/density"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/enrich"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/llm"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/repair"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/textnorm"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

// ProgressFunc receives the number of finished extraction calls and the
// number planned.
type ProgressFunc func(done, total int)

type MenuService struct {
	extractor TextExtractor
	client    *llm.Client
	analyzer  *density.Analyzer
	chunker   *chunker.Chunker
	enricher  *enrich.Orchestrator
	config    Config
	logger    logger.Logger
	progress  ProgressFunc
}

type Option func(*MenuService)

func WithAnalyzer(a *density.Analyzer) Option {
	return func(s *MenuService) { s.analyzer = a }
}

func WithChunker(c *chunker.Chunker) Option {
	return func(s *MenuService) { s.chunker = c }
}

func WithProgress(fn ProgressFunc) Option {
	return func(s *MenuService) { s.progress = fn }
}

func NewService(extractor TextExtractor, client *llm.Client, log logger.Logger, cfg Config, opts ...Option) *MenuService {
	if log == nil {
		log = logger.NewNop()
	}
	prompts := client.Prompts()
	s := &MenuService{
		extractor: extractor,
		client:    client,
		analyzer:  density.NewAnalyzer(density.DefaultConfig()),
		chunker:   chunker.New(chunker.DefaultConfig()),
		enricher: enrich.NewOrchestrator(client,
			enrich.Prompts{Wine: prompts.Wine, Food: prompts.Food, Beverage: prompts.Beverage},
			cfg.Enrichment, log),
		config:   cfg,
		logger:   log.Named("menu"),
		progress: func(int, int) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// pipelineState accumulates one strategy's outcome. Every with* method
// returns a new value.
type pipelineState struct {
	menuName string
	items    []models.CleanMenuItem
	notes    []string
	errs     []error
}

func (p pipelineState) withNote(format string, args ...any) pipelineState {
	p.notes = append(slices.Clip(p.notes), fmt.Sprintf(format, args...))
	return p
}

func (p pipelineState) withError(err error) pipelineState {
	p.errs = append(slices.Clip(p.errs), err)
	return p
}

func (p pipelineState) withNotes(notes ...string) pipelineState {
	p.notes = append(slices.Clip(p.notes), notes...)
	return p
}

func (p pipelineState) withItems(name string, items []models.CleanMenuItem) pipelineState {
	if p.menuName == "" {
		p.menuName = name
	}
	p.items = append(slices.Clip(p.items), items...)
	return p
}

// ParseMenu runs the whole pipeline over one document. It fails only when
// the document cannot be read or no item survives; partial failures become
// processing notes.
func (s *MenuService) ParseMenu(ctx context.Context, doc models.RawDocument) (*models.ParsedMenuData, error) {
	log := logger.FromContext(ctx, s.logger).With(logger.String("filename", doc.Filename))

	raw, err := s.extractor.ExtractText(ctx, doc)
	if err != nil {
		log.Error("text extraction failed", logger.Error(err))
		return nil, err
	}
	text := textnorm.Normalize(raw)
	if len(text) < agent.MinTextLength {
		return nil, fmt.Errorf("%w: %q after normalization", models.ErrEmptyContent, doc.Filename)
	}

	report := s.analyzer.Analyze(text)
	chars := utf8.RuneCountInString(text)
	forced := chars > s.config.LengthThreshold
	log.Info("menu text ready",
		logger.Int("chars", chars),
		logger.Float64("wineScore", report.WineScore),
		logger.Float64("foodScore", report.FoodScore),
		logger.Float64("beverageScore", report.BeverageScore),
		logger.Bool("forced", forced),
	)

	var state pipelineState
	switch {
	case forced || report.Dense():
		chunked := s.runChunked(ctx, log, text, report)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		state = s.choose(ctx, log, text, forced, chunked)
	default:
		state = s.runSingle(ctx, log, text, 1)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := dedupe.Items(state.items)
	if n := len(state.items) - len(items); n > 0 {
		state = state.withNote("removed %d duplicate items", n)
	}
	if len(items) == 0 {
		log.Warn("no menu items extracted", logger.Int("errors", len(state.errs)))
		return nil, errors.Join(append(slices.Clip(state.errs), models.ErrNoItems)...)
	}

	items, notes := s.enricher.Run(ctx, items)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state = state.withNotes(notes...).withNotes(errorNotes(state.errs)...)

	name := strings.TrimSpace(state.menuName)
	if name == "" {
		name = doc.Stem()
	}
	out := &models.ParsedMenuData{
		MenuName:        name,
		Items:           items,
		TotalItems:      len(items),
		ProcessingNotes: append([]string{}, state.notes...),
	}
	log.Info("menu parsed", logger.Int("items", out.TotalItems), logger.Int("notes", len(out.ProcessingNotes)))
	return out, nil
}

// choose applies the chunk preference rule: the chunked run stands when
// the length threshold forced it or its counts reach the thresholds.
// Otherwise a single pass is tried and wins unless it comes back empty
// while the chunked run did not. Failures of a discarded run are not
// reported.
func (s *MenuService) choose(ctx context.Context, log logger.Logger, text string, forced bool, chunked pipelineState) pipelineState {
	if forced || s.config.PreferChunked.Met(chunked.items) {
		return chunked
	}
	single := s.runSingle(ctx, log, text, 0)
	if len(single.items) == 0 && len(chunked.items) > 0 {
		return chunked.withNote("single-pass extraction returned no items; kept chunked result")
	}
	if len(single.items) == 0 {
		// Neither run produced anything; every failure explains the result.
		single.errs = append(slices.Clip(chunked.errs), single.errs...)
	} else if len(chunked.errs) > 0 {
		log.Debug("discarding errors of the unused chunked run", logger.Int("errors", len(chunked.errs)))
	}
	return single.withNote("chunked extraction found %d items, below preference thresholds; used single pass", len(chunked.items))
}

func (s *MenuService) runChunked(ctx context.Context, log logger.Logger, text string, report density.Report) pipelineState {
	chunks := s.chunker.Chunk(text, report.FoodHeavy())
	state := pipelineState{}.withNote("processed in %d chunks", len(chunks))
	log.Info("chunked extraction", logger.Int("chunks", len(chunks)), logger.Bool("foodHeavy", report.FoodHeavy()))

	limiter := rate.NewLimiter(rate.Every(s.config.ChunkDelay), 1)
	for i, chunk := range chunks {
		if err := limiter.Wait(ctx); err != nil {
			return state.withError(err)
		}
		label := fmt.Sprintf("chunk %d/%d", i+1, len(chunks))
		raw, err := s.client.Extract(ctx, llm.Request{Text: chunk.Text, Label: label, Chunked: true})
		if err != nil {
			if ctx.Err() != nil {
				return state.withError(err)
			}
			log.Warn("chunk extraction failed", logger.String("chunk", label), logger.Error(err))
			state = state.withError(fmt.Errorf("%s: %w", label, err))
		} else {
			state = s.absorb(log, state, label, raw)
		}
		s.progress(i+1, len(chunks))
	}
	return state
}

// runSingle extracts the whole text in one call. total > 0 also reports
// progress as a single step.
func (s *MenuService) runSingle(ctx context.Context, log logger.Logger, text string, total int) pipelineState {
	const label = "full document"
	state := pipelineState{}
	raw, err := s.client.Extract(ctx, llm.Request{Text: text, Label: label})
	if err != nil {
		log.Warn("extraction failed", logger.Error(err))
		state = state.withError(fmt.Errorf("%s: %w", label, err))
	} else {
		state = s.absorb(log, state, label, raw)
	}
	if total > 0 {
		s.progress(1, total)
	}
	return state
}

// absorb repairs and validates one response and folds it into state.
func (s *MenuService) absorb(log logger.Logger, state pipelineState, label, raw string) pipelineState {
	res := repair.Parse(raw)
	items, rejected := s.config.Items.ValidateItems(res.Data.Items)

	notes := make([]string, 0, len(res.Data.ProcessingNotes)+1)
	for _, note := range res.Data.ProcessingNotes {
		if note = strings.TrimSpace(note); note != "" {
			notes = append(notes, label+": "+note)
		}
	}
	if len(res.Data.Items) == 0 && len(notes) == 0 {
		notes = append(notes, label+": no items found")
	}

	log.Debug("response parsed",
		logger.String("chunk", label),
		logger.Int("items", len(items)),
		logger.Int("rejected", rejected),
		logger.Int("discarded", res.Discarded),
		logger.Bool("truncated", res.Truncated),
		logger.Bool("repaired", res.Repaired),
	)
	return state.withItems(res.Data.MenuName, items).withNotes(notes...)
}

func errorNotes(errs []error) []string {
	notes := make([]string, 0, len(errs))
	for _, err := range errs {
		notes = append(notes, err.Error())
	}
	return notes
}
