package models

// ItemType is the closed set of menu item kinds.
type ItemType string

const (
	ItemFood     ItemType = "food"
	ItemBeverage ItemType = "beverage"
	ItemWine     ItemType = "wine"
)

// Valid reports whether t is one of the three known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemFood, ItemBeverage, ItemWine:
		return true
	}
	return false
}

// Wine styles.
const (
	WineStill     = "still"
	WineSparkling = "sparkling"
	WineChampagne = "champagne"
	WineDessert   = "dessert"
	WineFortified = "fortified"
)

// Wine colors.
const (
	ColorRed       = "red"
	ColorWhite     = "white"
	ColorRose      = "rosé"
	ColorSparkling = "sparkling"
	ColorOrange    = "orange"
	ColorOther     = "other"
)

// RawServingOption is a size/price pair as proposed by the extraction service.
type RawServingOption struct {
	Size  FlexString `json:"size"`
	Price FlexValue  `json:"price"`
}

// RawExtractionItem is one item proposed by the extraction service. Nothing
// about it is trusted until the validator has seen it.
type RawExtractionItem struct {
	Name           FlexString         `json:"name"`
	Description    FlexString         `json:"description"`
	Price          FlexValue          `json:"price"`
	Category       FlexString         `json:"category"`
	ItemType       FlexString         `json:"itemType"`
	Ingredients    FlexStrings        `json:"ingredients"`
	Vintage        FlexValue          `json:"vintage"`
	Producer       FlexString         `json:"producer"`
	Region         FlexString         `json:"region"`
	GrapeVariety   FlexStrings        `json:"grapeVariety"`
	WineStyle      FlexString         `json:"wineStyle"`
	WineColor      FlexString         `json:"wineColor"`
	ServingOptions FlexServingOptions `json:"servingOptions"`
	IsVegetarian   FlexValue          `json:"isVegetarian"`
	IsVegan        FlexValue          `json:"isVegan"`
	IsGlutenFree   FlexValue          `json:"isGlutenFree"`
	Confidence     FlexValue          `json:"confidence"`
	OriginalText   FlexString         `json:"originalText"`
}

// RawExtractionData is the parsed form of one extraction response.
type RawExtractionData struct {
	MenuName        string              `json:"menuName"`
	Items           []RawExtractionItem `json:"items"`
	TotalItemsFound int                 `json:"totalItemsFound"`
	ProcessingNotes []string            `json:"processingNotes"`
}

// ServingOption is a validated size/price pair.
type ServingOption struct {
	Size  string   `json:"size"`
	Price *float64 `json:"price,omitempty"`
}

// CleanMenuItem is a validated, canonical menu item.
type CleanMenuItem struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          *float64        `json:"price,omitempty"`
	Category       string          `json:"category"`
	ItemType       ItemType        `json:"itemType"`
	Ingredients    []string        `json:"ingredients,omitempty"`
	Confidence     int             `json:"confidence"`
	OriginalText   string          `json:"originalText,omitempty"`
	ServingOptions []ServingOption `json:"servingOptions,omitempty"`

	IsVegetarian bool `json:"isVegetarian"`
	IsVegan      bool `json:"isVegan"`
	IsGlutenFree bool `json:"isGlutenFree"`
	IsDairyFree  bool `json:"isDairyFree"`

	// wine
	Vintage         *int     `json:"vintage,omitempty"`
	Producer        string   `json:"producer,omitempty"`
	Region          string   `json:"region,omitempty"`
	GrapeVariety    []string `json:"grapeVariety,omitempty"`
	GrapeConfidence int      `json:"grapeConfidence,omitempty"`
	WineStyle       string   `json:"wineStyle,omitempty"`
	WineColor       string   `json:"wineColor,omitempty"`

	// food enrichment
	CookingMethods []string `json:"cookingMethods,omitempty"`
	Allergens      []string `json:"allergens,omitempty"`

	// beverage enrichment
	SpiritType          string   `json:"spiritType,omitempty"`
	BeerStyle           string   `json:"beerStyle,omitempty"`
	CocktailIngredients []string `json:"cocktailIngredients,omitempty"`
	ABV                 *float64 `json:"abv,omitempty"`
	ServingStyle        string   `json:"servingStyle,omitempty"`
	Temperature         string   `json:"temperature,omitempty"`
	IsNonAlcoholic      bool     `json:"isNonAlcoholic"`
}

// ParsedMenuData is the terminal output of the pipeline.
type ParsedMenuData struct {
	MenuName        string          `json:"menuName"`
	Items           []CleanMenuItem `json:"items"`
	TotalItems      int             `json:"totalItems"`
	ProcessingNotes []string        `json:"processingNotes"`
}

// WineEnrichment is what grape identification returns for one wine.
type WineEnrichment struct {
	Name           string      `json:"name"`
	OriginalText   string      `json:"originalText"`
	GrapeVarieties FlexStrings `json:"grapeVarieties"`
	Confidence     FlexValue   `json:"confidence"`
}

// FoodEnrichment is what food analysis returns for one dish.
type FoodEnrichment struct {
	Name           string      `json:"name"`
	Ingredients    FlexStrings `json:"ingredients"`
	CookingMethods FlexStrings `json:"cookingMethods"`
	Allergens      FlexStrings `json:"allergens"`
	IsVegetarian   FlexValue   `json:"isVegetarian"`
	IsVegan        FlexValue   `json:"isVegan"`
	IsGlutenFree   FlexValue   `json:"isGlutenFree"`
	IsDairyFree    FlexValue   `json:"isDairyFree"`
}

// BeverageEnrichment is what beverage analysis returns for one drink.
type BeverageEnrichment struct {
	Name                string      `json:"name"`
	SpiritType          FlexString  `json:"spiritType"`
	BeerStyle           FlexString  `json:"beerStyle"`
	CocktailIngredients FlexStrings `json:"cocktailIngredients"`
	ABV                 FlexValue   `json:"abv"`
	ServingStyle        FlexString  `json:"servingStyle"`
	Temperature         FlexString  `json:"temperature"`
	IsNonAlcoholic      FlexValue   `json:"isNonAlcoholic"`
}
