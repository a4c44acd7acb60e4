// Package enrich adds derived domain attributes to validated menu items in
// batch passes over the extraction service.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

const DefaultBatchSize = 15

// Completer runs one instruction against the extraction service.
type Completer interface {
	Complete(ctx context.Context, label, system, user string) (string, error)
}

// Enhancer is one enrichment pass. Enhance returns a new slice; on error the
// input is returned unchanged.
type Enhancer interface {
	Name() string
	Enhance(ctx context.Context, items []models.CleanMenuItem) ([]models.CleanMenuItem, error)
}

// Config toggles passes and sizes batches.
type Config struct {
	Wine      bool `yaml:"wine"`
	Food      bool `yaml:"food"`
	Beverage  bool `yaml:"beverage"`
	BatchSize int  `yaml:"batch_size"`
}

func DefaultConfig() Config {
	return Config{Wine: true, Food: true, Beverage: true, BatchSize: DefaultBatchSize}
}

// Orchestrator runs the enabled passes in a fixed order.
type Orchestrator struct {
	passes []Enhancer
	log    logger.Logger
}

// NewOrchestrator wires the wine, food and beverage passes in that order.
func NewOrchestrator(c Completer, system Prompts, cfg Config, log logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	size := cfg.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	var passes []Enhancer
	if cfg.Wine {
		passes = append(passes, NewWineEnhancer(c, system.Wine, size))
	}
	if cfg.Food {
		passes = append(passes, NewFoodEnhancer(c, system.Food, size))
	}
	if cfg.Beverage {
		passes = append(passes, NewBeverageEnhancer(c, system.Beverage, size))
	}
	return &Orchestrator{passes: passes, log: log.Named("enrich")}
}

// NewOrchestratorWith runs exactly the given passes, in order.
func NewOrchestratorWith(log logger.Logger, passes ...Enhancer) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Orchestrator{passes: passes, log: log}
}

// Prompts are the system instructions of the three passes.
type Prompts struct {
	Wine     string
	Food     string
	Beverage string
}

// Run applies every pass. A failed pass leaves its items un-enriched and
// adds a processing note; it never aborts the remaining passes.
func (o *Orchestrator) Run(ctx context.Context, items []models.CleanMenuItem) ([]models.CleanMenuItem, []string) {
	var notes []string
	for _, p := range o.passes {
		if err := ctx.Err(); err != nil {
			notes = append(notes, fmt.Sprintf("enrichment stopped before %s pass: %v", p.Name(), err))
			break
		}
		out, err := p.Enhance(ctx, items)
		if err != nil {
			o.log.Warn("enrichment pass failed", logger.String("pass", p.Name()), logger.Error(err))
			notes = append(notes, fmt.Sprintf("%s enrichment skipped: %v", p.Name(), err))
			continue
		}
		items = out
	}
	return items, notes
}

// runBatches sends the items selected by idx in batches and lets merge fold
// each response into a copy of items.
func runBatches(
	ctx context.Context,
	c Completer,
	name, system string,
	batchSize int,
	items []models.CleanMenuItem,
	idx []int,
	request func(models.CleanMenuItem) any,
	merge func(raw string, out []models.CleanMenuItem, batch []int) error,
) ([]models.CleanMenuItem, error) {
	if len(idx) == 0 {
		return items, nil
	}
	out := append([]models.CleanMenuItem(nil), items...)
	total := (len(idx) + batchSize - 1) / batchSize
	for n, start := 0, 0; start < len(idx); n, start = n+1, start+batchSize {
		batch := idx[start:min(start+batchSize, len(idx))]
		reqs := make([]any, 0, len(batch))
		for _, i := range batch {
			reqs = append(reqs, request(items[i]))
		}
		payload, err := json.Marshal(reqs)
		if err != nil {
			return items, fmt.Errorf("%w: %w", models.ErrEnrichmentFailed, err)
		}
		label := fmt.Sprintf("%s batch %d/%d", name, n+1, total)
		raw, err := c.Complete(ctx, label, system, string(payload))
		if err != nil {
			return items, fmt.Errorf("%w: %s: %w", models.ErrEnrichmentFailed, label, err)
		}
		if err := merge(raw, out, batch); err != nil {
			return items, fmt.Errorf("%w: %s: %w", models.ErrEnrichmentFailed, label, err)
		}
	}
	return out, nil
}

func selectIndexes(items []models.CleanMenuItem, keep func(models.CleanMenuItem) bool) []int {
	var idx []int
	for i, item := range items {
		if keep(item) {
			idx = append(idx, i)
		}
	}
	return idx
}

func nameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var errEmptyResult = errors.New("response contained no results")
