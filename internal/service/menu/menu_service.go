package menu

import (
	"context"
	"time"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/enrich"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/utils/validator"
)

// MenuParser turns an uploaded document into structured menu data.
type MenuParser interface {
	ParseMenu(ctx context.Context, doc models.RawDocument) (*models.ParsedMenuData, error)
}

// TextExtractor converts a raw document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, doc models.RawDocument) (string, error)
}

// Thresholds are the per-type counts at which a chunked run is kept without
// trying a single pass. Any one of them is enough.
type Thresholds struct {
	Wine     int `yaml:"wine"`
	Food     int `yaml:"food"`
	Beverage int `yaml:"beverage"`
	Total    int `yaml:"total"`
}

// Met reports whether items reach any of the thresholds.
func (t Thresholds) Met(items []models.CleanMenuItem) bool {
	var wine, food, beverage int
	for _, item := range items {
		switch item.ItemType {
		case models.ItemWine:
			wine++
		case models.ItemFood:
			food++
		case models.ItemBeverage:
			beverage++
		}
	}
	return wine >= t.Wine || food >= t.Food || beverage >= t.Beverage || len(items) >= t.Total
}

type Config struct {
	// LengthThreshold forces chunking for texts with more characters.
	LengthThreshold int                 `yaml:"length_threshold"`
	ChunkDelay      time.Duration       `yaml:"chunk_delay"`
	PreferChunked   Thresholds          `yaml:"prefer_chunked"`
	Enrichment      enrich.Config       `yaml:"enrichment"`
	Items           validator.ItemRules `yaml:"items"`
}

func DefaultConfig() Config {
	return Config{
		LengthThreshold: 12000,
		ChunkDelay:      time.Second,
		PreferChunked:   Thresholds{Wine: 28, Food: 25, Beverage: 20, Total: 40},
		Enrichment:      enrich.DefaultConfig(),
		Items:           validator.DefaultItemRules(),
	}
}
