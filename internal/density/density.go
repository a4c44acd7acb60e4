// Package density estimates how much wine, food and beverage content a menu
// text carries, to decide whether it must be extracted in chunks.
package density

import (
	"math"
	"regexp"
	"strings"
)

// Weights holds the tunable weights of one domain scorer.
type Weights struct {
	Header   float64 `yaml:"header"`
	Specific float64 `yaml:"specific"`
	Region   float64 `yaml:"region"`
	Term     float64 `yaml:"term"`
}

// Config holds every weight and cutoff used by the scorers.
type Config struct {
	Wine     Weights `yaml:"wine"`
	Food     Weights `yaml:"food"`
	Beverage Weights `yaml:"beverage"`

	// VintageWeight is added per vintage year found, up to VintageCap in total.
	VintageWeight float64 `yaml:"vintage_weight"`
	VintageCap    float64 `yaml:"vintage_cap"`

	// PriceBonus is added to every scorer once more than PriceThreshold price tokens are seen.
	PriceThreshold int     `yaml:"price_threshold"`
	PriceBonus     float64 `yaml:"price_bonus"`

	WineCutoff     float64 `yaml:"wine_cutoff"`
	FoodCutoff     float64 `yaml:"food_cutoff"`
	BeverageCutoff float64 `yaml:"beverage_cutoff"`
}

// DefaultConfig returns the tuned production weights.
func DefaultConfig() Config {
	return Config{
		Wine:           Weights{Header: 2, Specific: 1, Region: 0.5, Term: 0.3},
		Food:           Weights{Header: 2, Specific: 0.5, Region: 0.5, Term: 0.3},
		Beverage:       Weights{Header: 2, Specific: 0.5, Region: 0.5, Term: 0.3},
		VintageWeight:  0.5,
		VintageCap:     10,
		PriceThreshold: 20,
		PriceBonus:     3,
		WineCutoff:     15,
		FoodCutoff:     8,
		BeverageCutoff: 6,
	}
}

// Report is the outcome of analysing one text.
type Report struct {
	WineScore     float64 `json:"wineScore"`
	FoodScore     float64 `json:"foodScore"`
	BeverageScore float64 `json:"beverageScore"`
	VintageCount  int     `json:"vintageCount"`
	PriceCount    int     `json:"priceCount"`

	ExtensiveWine     bool `json:"extensiveWine"`
	ExtensiveFood     bool `json:"extensiveFood"`
	ExtensiveBeverage bool `json:"extensiveBeverage"`
}

// Dense reports whether any domain crossed its cutoff.
func (r Report) Dense() bool {
	return r.ExtensiveWine || r.ExtensiveFood || r.ExtensiveBeverage
}

// FoodHeavy reports a food-dominated document, which gets smaller chunks to
// bound the size of the structured output.
func (r Report) FoodHeavy() bool {
	return r.ExtensiveFood && !r.ExtensiveWine
}

var (
	vintagePattern = regexp.MustCompile(`\b(?:19[5-9]\d|20[0-4]\d)\b`)
	pricePattern   = regexp.MustCompile(`[£$€]\s?\d+(?:[.,]\d{1,2})?|\b\d+\.\d{2}\b`)
)

// Analyzer scores texts with a fixed configuration.
type Analyzer struct {
	cfg      Config
	wine     scorer
	food     scorer
	beverage scorer
}

// NewAnalyzer compiles the term lists once.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		wine:     newScorer(cfg.Wine, wineHeaders, wineGrapes, wineRegions, wineTerms),
		food:     newScorer(cfg.Food, foodHeaders, foodIngredients, foodMethods, foodTerms),
		beverage: newScorer(cfg.Beverage, beverageHeaders, beverageSpirits, beverageStyles, beverageTerms),
	}
}

// Analyze scores text for all three domains.
func (a *Analyzer) Analyze(text string) Report {
	lower := strings.ToLower(text)

	vintages := len(vintagePattern.FindAllStringIndex(lower, -1))
	prices := len(pricePattern.FindAllStringIndex(lower, -1))

	priceBonus := 0.0
	if prices > a.cfg.PriceThreshold {
		priceBonus = a.cfg.PriceBonus
	}

	r := Report{
		VintageCount: vintages,
		PriceCount:   prices,
	}
	r.WineScore = a.wine.score(lower) + math.Min(float64(vintages)*a.cfg.VintageWeight, a.cfg.VintageCap) + priceBonus
	r.FoodScore = a.food.score(lower) + priceBonus
	r.BeverageScore = a.beverage.score(lower) + priceBonus

	r.ExtensiveWine = r.WineScore > a.cfg.WineCutoff
	r.ExtensiveFood = r.FoodScore > a.cfg.FoodCutoff
	r.ExtensiveBeverage = r.BeverageScore > a.cfg.BeverageCutoff
	return r
}

// scorer is a weighted sum over four term groups.
type scorer struct {
	w        Weights
	header   *regexp.Regexp
	specific *regexp.Regexp
	region   *regexp.Regexp
	term     *regexp.Regexp
}

func newScorer(w Weights, header, specific, region, term []string) scorer {
	return scorer{
		w:        w,
		header:   wordAlternation(header),
		specific: wordAlternation(specific),
		region:   wordAlternation(region),
		term:     wordAlternation(term),
	}
}

func (s scorer) score(lower string) float64 {
	return float64(count(s.header, lower))*s.w.Header +
		float64(count(s.specific, lower))*s.w.Specific +
		float64(count(s.region, lower))*s.w.Region +
		float64(count(s.term, lower))*s.w.Term
}

func count(re *regexp.Regexp, s string) int {
	if re == nil {
		return 0
	}
	return len(re.FindAllStringIndex(s, -1))
}

// wordAlternation builds a case-insensitive whole-word alternation. Terms
// ending in a non-word character (e.g. "(v)") skip the trailing boundary.
func wordAlternation(terms []string) *regexp.Regexp {
	if len(terms) == 0 {
		return nil
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		p := regexp.QuoteMeta(t)
		if isWordByte(t[0]) {
			p = `\b` + p
		}
		if isWordByte(t[len(t)-1]) {
			p += `\b`
		}
		parts = append(parts, p)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(parts, "|") + `)`)
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
