package llm

// Prompts holds the system instructions sent with each kind of call. They
// can be overridden from configuration.
type Prompts struct {
	Extraction string `yaml:"extraction"`
	Wine       string `yaml:"wine"`
	Food       string `yaml:"food"`
	Beverage   string `yaml:"beverage"`
}

// DefaultPrompts returns the built-in instructions. Empty fields in an
// override fall back to these.
func DefaultPrompts() Prompts {
	return Prompts{
		Extraction: extractionPrompt,
		Wine:       winePrompt,
		Food:       foodPrompt,
		Beverage:   beveragePrompt,
	}
}

// Merge fills empty fields of p from DefaultPrompts.
func (p Prompts) Merge() Prompts {
	def := DefaultPrompts()
	if p.Extraction == "" {
		p.Extraction = def.Extraction
	}
	if p.Wine == "" {
		p.Wine = def.Wine
	}
	if p.Food == "" {
		p.Food = def.Food
	}
	if p.Beverage == "" {
		p.Beverage = def.Beverage
	}
	return p
}

const extractionPrompt = `You extract restaurant menu items from text.
Return ONLY one JSON object, no markdown, in exactly this shape:
{"menuName": string,
 "items": [{"name": string, "description": string, "price": number,
   "category": string, "itemType": "food"|"beverage"|"wine",
   "ingredients": [string], "vintage": number, "producer": string,
   "region": string, "grapeVariety": [string], "wineStyle": string,
   "wineColor": string, "servingOptions": [{"size": string, "price": number}],
   "isVegetarian": bool, "isVegan": bool, "isGlutenFree": bool,
   "confidence": number, "originalText": string}],
 "totalItemsFound": number, "processingNotes": [string]}
Rules:
- One entry per distinct dish, drink or wine. Do not invent items.
- category is the menu section heading the item appears under.
- Wines are itemType "wine"; other drinks are "beverage".
- Wines sold by glass and bottle get one item with servingOptions.
- Prices are plain numbers without currency symbols.
- confidence is 0-100, how sure you are the entry is a real item.
- originalText is the line(s) the item was read from.`

const winePrompt = `You identify grape varieties for wines on a restaurant list.
You receive a JSON array of wines with name, description, producer, region
and originalText. Return ONLY {"wines": [{"name": string,
"originalText": string, "grapeVarieties": [string], "confidence": number}]}
echoing name and originalText unchanged. Use the appellation rules of the
region when the label does not name the grape. Leave grapeVarieties empty
when unsure.`

const foodPrompt = `You analyse restaurant dishes.
You receive a JSON array of dishes with name, description and category.
Return ONLY {"dishes": [{"name": string, "ingredients": [string],
"cookingMethods": [string], "allergens": [string], "isVegetarian": bool,
"isVegan": bool, "isGlutenFree": bool, "isDairyFree": bool}]}
echoing name unchanged. Allergens use the UK 14 allergen names.`

const beveragePrompt = `You classify drinks on a restaurant menu.
You receive a JSON array of drinks with name, description and category.
Return ONLY {"beverages": [{"name": string, "spiritType": string,
"beerStyle": string, "cocktailIngredients": [string], "abv": number,
"servingStyle": string, "temperature": string, "isNonAlcoholic": bool}]}
echoing name unchanged. Leave fields empty when they do not apply.`
