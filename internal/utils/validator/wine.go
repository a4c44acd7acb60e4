package validator

import (
    "regexp"
    "strings"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

var (
    champagneWords = keywords("champagne")
    sparklingWords = keywords("sparkling", "prosecco", "cava", "crémant", "cremant", "spumante",
        "franciacorta", "sekt", "pét-nat", "pet nat", "fizz", "brut", "blanc de blancs", "blanc de noirs")
    fortifiedWords = keywords("port", "tawny", "ruby port", "lbv", "sherry", "fino", "manzanilla",
        "amontillado", "oloroso", "madeira", "marsala", "vermouth", "fortified")
    dessertWords = keywords("dessert", "sweet", "sauternes", "tokaji", "tokay", "ice wine", "icewine",
        "late harvest", "vendange tardive", "passito", "vin santo", "botrytis", "noble rot", "moscato d'asti")
    stillWords = keywords("still", "red", "white", "rosé", "rose", "table wine")

    roseWords = keywords("rosé", "rose", "rosato", "rosado", "chiaretto", "provence", "pink", "blush",
        "vin gris")
    orangeWords     = keywords("orange wine", "skin contact", "skin-contact", "amber wine", "ramato")
    explicitOrange  = keywords("orange", "amber", "skin contact", "skin-contact", "ramato")
    explicitSparkle = keywords("sparkling", "fizz", "bubbles")
    whiteWords      = keywords("white", "blanc", "bianco", "blanco", "branco", "weiss", "chardonnay",
        "sauvignon blanc", "riesling", "pinot grigio", "pinot gris", "albariño", "albarino", "chenin",
        "viognier", "gewurztraminer", "grüner", "gruner", "vermentino", "sancerre", "chablis",
        "muscadet", "soave", "gavi", "picpoul", "semillon", "sémillon", "verdejo", "godello",
        "torrontés", "torrontes", "fiano", "greco", "vinho verde", "pouilly-fumé", "pouilly-fuissé",
        "marsanne", "roussanne", "assyrtiko", "furmint", "trebbiano", "garganega", "moscato", "muscat")
    redWords = keywords("red", "rouge", "rosso", "tinto", "cabernet", "merlot", "pinot noir", "syrah",
        "shiraz", "malbec", "tempranillo", "sangiovese", "grenache", "garnacha", "nebbiolo",
        "zinfandel", "primitivo", "gamay", "rioja", "barolo", "barbaresco", "chianti", "beaujolais",
        "amarone", "valpolicella", "châteauneuf", "chateauneuf", "montepulciano", "barbera",
        "carménère", "carmenere", "pinotage", "mourvèdre", "mourvedre", "ribera del duero", "priorat",
        "médoc", "medoc", "margaux", "pauillac", "saint-émilion", "pomerol", "claret", "côte-rôtie",
        "hermitage", "brunello", "touriga", "dolcetto", "aglianico", "nero d'avola", "cinsault")
)

// WineStyle maps a free-text style to the closed vocabulary. The explicit
// value wins; otherwise the item's own text is searched.
func WineStyle(explicit, text string) string {
    if s, ok := matchStyle(explicit); ok {
        return s
    }
    if s, ok := matchStyle(text); ok && s != models.WineStill {
        return s
    }
    return models.WineStill
}

func matchStyle(s string) (string, bool) {
    s = strings.ToLower(strings.TrimSpace(s))
    if s == "" {
        return "", false
    }
    switch {
    case champagneWords.MatchString(s):
        return models.WineChampagne, true
    case sparklingWords.MatchString(s):
        return models.WineSparkling, true
    case fortifiedWords.MatchString(s):
        return models.WineFortified, true
    case dessertWords.MatchString(s):
        return models.WineDessert, true
    case stillWords.MatchString(s):
        return models.WineStill, true
    }
    return "", false
}

// WineColor maps a free-text color to the closed vocabulary, inferring it
// from the item's text when the explicit value is missing or unknown.
func WineColor(explicit, style, text string) string {
    if c, ok := matchExplicitColor(explicit); ok {
        return c
    }
    s := strings.ToLower(text)
    switch {
    case roseWords.MatchString(s):
        return models.ColorRose
    case orangeWords.MatchString(s):
        return models.ColorOrange
    case style == models.WineSparkling || style == models.WineChampagne:
        return models.ColorSparkling
    case whiteWords.MatchString(s):
        return models.ColorWhite
    case redWords.MatchString(s):
        return models.ColorRed
    }
    return models.ColorOther
}

func matchExplicitColor(s string) (string, bool) {
    s = strings.ToLower(strings.TrimSpace(s))
    if s == "" {
        return "", false
    }
    switch {
    case roseWords.MatchString(s):
        return models.ColorRose, true
    case explicitOrange.MatchString(s):
        return models.ColorOrange, true
    case explicitSparkle.MatchString(s):
        return models.ColorSparkling, true
    case whiteWords.MatchString(s):
        return models.ColorWhite, true
    case redWords.MatchString(s):
        return models.ColorRed, true
    case s == models.ColorOther:
        return models.ColorOther, true
    }
    return "", false
}

// keywords builds a case-insensitive whole-word alternation. Word boundaries
// are only asserted next to ASCII word characters, since RE2's \b does not
// treat accented letters as word characters.
func keywords(words ...string) *regexp.Regexp {
    parts := make([]string, 0, len(words))
    for _, w := range words {
        p := regexp.QuoteMeta(w)
        if isWordByte(w[0]) {
            p = `\b` + p
        }
        if isWordByte(w[len(w)-1]) {
            p += `\b`
        }
        parts = append(parts, p)
    }
    return regexp.MustCompile(`(?i)(?:` + strings.Join(parts, "|") + `)`)
}

func isWordByte(b byte) bool {
    return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
