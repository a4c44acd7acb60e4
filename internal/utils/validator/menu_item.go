package validator

import (
    "math"
    "regexp"
    "strconv"
    "strings"
    "unicode/utf8"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

// ItemRules decides which extracted items are kept.
type ItemRules struct {
    MinConfidence     int `yaml:"min_confidence"`
    DefaultConfidence int `yaml:"default_confidence"` // used when the service sent none
}

func DefaultItemRules() ItemRules {
    return ItemRules{MinConfidence: 30, DefaultConfidence: 50}
}

// ValidateItems validates every raw item, keeping order, and reports how
// many were rejected.
func (r ItemRules) ValidateItems(raws []models.RawExtractionItem) ([]models.CleanMenuItem, int) {
    out := make([]models.CleanMenuItem, 0, len(raws))
    for _, raw := range raws {
        if item, ok := r.Validate(raw); ok {
            out = append(out, item)
        }
    }
    return out, len(raws) - len(out)
}

// Validate turns a raw item into a canonical one, or reports false when the
// item must be dropped.
func (r ItemRules) Validate(raw models.RawExtractionItem) (models.CleanMenuItem, bool) {
    name := raw.Name.String()
    if utf8.RuneCountInString(name) < 2 {
        return models.CleanMenuItem{}, false
    }
    category := raw.Category.String()
    if category == "" {
        return models.CleanMenuItem{}, false
    }
    itemType := models.ItemType(strings.ToLower(raw.ItemType.String()))
    if !itemType.Valid() {
        return models.CleanMenuItem{}, false
    }
    confidence := r.confidence(raw.Confidence)
    if confidence < float64(r.MinConfidence) {
        return models.CleanMenuItem{}, false
    }

    item := models.CleanMenuItem{
        Name:           name,
        Description:    raw.Description.String(),
        Price:          ParsePrice(raw.Price),
        Category:       category,
        ItemType:       itemType,
        Ingredients:    cleanList(raw.Ingredients),
        Confidence:     int(math.Round(confidence)),
        OriginalText:   raw.OriginalText.String(),
        ServingOptions: servingOptions(raw.ServingOptions),
        IsVegan:        raw.IsVegan.Bool(),
        IsVegetarian:   raw.IsVegetarian.Bool() || raw.IsVegan.Bool(),
        IsGlutenFree:   raw.IsGlutenFree.Bool(),
    }

    if itemType == models.ItemWine {
        item.Vintage = ParseVintage(raw.Vintage)
        item.Producer = raw.Producer.String()
        item.Region = raw.Region.String()
        item.GrapeVariety = cleanList(raw.GrapeVariety)

        text := strings.Join([]string{name, item.Description, category, item.Region}, " ")
        item.WineStyle = WineStyle(raw.WineStyle.String(), text)
        item.WineColor = WineColor(raw.WineColor.String(), item.WineStyle,
            text+" "+strings.Join(item.GrapeVariety, " "))
    }
    return item, true
}

// confidence is clamped to [0, 100] but not rounded, so the cutoff sees the
// value the model gave.
func (r ItemRules) confidence(v models.FlexValue) float64 {
    c, ok := v.Float()
    if !ok || math.IsNaN(c) {
        return float64(r.DefaultConfidence)
    }
    // some models answer on a 0-1 scale
    if c > 0 && c < 1 {
        c *= 100
    }
    return math.Max(0, math.Min(100, c))
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParsePrice coerces a price to a finite non-negative number, or nil.
func ParsePrice(v models.FlexValue) *float64 {
    var p float64
    switch val := v.V.(type) {
    case float64:
        p = val
    case string:
        m := numberPattern.FindString(strings.ReplaceAll(val, ",", ""))
        if m == "" {
            return nil
        }
        n, err := strconv.ParseFloat(m, 64)
        if err != nil {
            return nil
        }
        p = n
    default:
        return nil
    }
    if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
        return nil
    }
    return &p
}

var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// ParseVintage returns a four digit 19xx/20xx year, or nil.
func ParseVintage(v models.FlexValue) *int {
    var year int
    switch val := v.V.(type) {
    case float64:
        if val != math.Trunc(val) {
            return nil
        }
        year = int(val)
    case string:
        m := yearPattern.FindString(val)
        if m == "" {
            return nil
        }
        year, _ = strconv.Atoi(m)
    default:
        return nil
    }
    if year < 1900 || year > 2099 {
        return nil
    }
    return &year
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

func servingOptions(in models.FlexServingOptions) []models.ServingOption {
    var out []models.ServingOption
    for _, o := range in {
        opt := models.ServingOption{Size: o.Size.String(), Price: ParsePrice(o.Price)}
        if opt.Size == "" && opt.Price == nil {
            continue
        }
        out = append(out, opt)
    }
    return out
}
