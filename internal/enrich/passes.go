package enrich

import (
	"context"
	"math"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/repair"
)

// WineEnhancer identifies grape varieties for wines that have none.
type WineEnhancer struct {
	c      Completer
	system string
	batch  int
}

func NewWineEnhancer(c Completer, system string, batch int) *WineEnhancer {
	return &WineEnhancer{c: c, system: system, batch: max(batch, 1)}
}

func (e *WineEnhancer) Name() string { return "wine" }

type wineRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Producer     string `json:"producer,omitempty"`
	Region       string `json:"region,omitempty"`
	OriginalText string `json:"originalText,omitempty"`
}

func (e *WineEnhancer) Enhance(ctx context.Context, items []models.CleanMenuItem) ([]models.CleanMenuItem, error) {
	idx := selectIndexes(items, func(it models.CleanMenuItem) bool {
		return it.ItemType == models.ItemWine && len(it.GrapeVariety) == 0
	})
	request := func(it models.CleanMenuItem) any {
		return wineRequest{Name: it.Name, Description: it.Description, Producer: it.Producer,
			Region: it.Region, OriginalText: it.OriginalText}
	}
	return runBatches(ctx, e.c, e.Name(), e.system, e.batch, items, idx, request, mergeWine)
}

func mergeWine(raw string, out []models.CleanMenuItem, batch []int) error {
	var resp struct {
		Wines []models.WineEnrichment `json:"wines"`
	}
	if err := repair.DecodeObject(raw, &resp); err != nil {
		return err
	}
	if len(resp.Wines) == 0 {
		return errEmptyResult
	}
	exact := make(map[[2]string]models.WineEnrichment, len(resp.Wines))
	byName := make(map[string]models.WineEnrichment, len(resp.Wines))
	for _, w := range resp.Wines {
		exact[[2]string{nameKey(w.Name), w.OriginalText}] = w
		if _, ok := byName[nameKey(w.Name)]; !ok {
			byName[nameKey(w.Name)] = w
		}
	}
	for _, i := range batch {
		w, ok := exact[[2]string{nameKey(out[i].Name), out[i].OriginalText}]
		if !ok {
			w, ok = byName[nameKey(out[i].Name)]
		}
		if !ok {
			continue
		}
		grapes := cleanList(w.GrapeVarieties)
		if len(grapes) == 0 {
			continue
		}
		out[i].GrapeVariety = grapes
		if c, ok := w.Confidence.Float(); ok {
			out[i].GrapeConfidence = int(math.Round(math.Max(0, math.Min(100, c))))
		}
	}
	return nil
}

// FoodEnhancer analyses dishes missing ingredients or cooking methods.
type FoodEnhancer struct {
	c      Completer
	system string
	batch  int
}

func NewFoodEnhancer(c Completer, system string, batch int) *FoodEnhancer {
	return &FoodEnhancer{c: c, system: system, batch: max(batch, 1)}
}

func (e *FoodEnhancer) Name() string { return "food" }

type dishRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

func (e *FoodEnhancer) Enhance(ctx context.Context, items []models.CleanMenuItem) ([]models.CleanMenuItem, error) {
	idx := selectIndexes(items, func(it models.CleanMenuItem) bool {
		return it.ItemType == models.ItemFood && (len(it.Ingredients) == 0 || len(it.CookingMethods) == 0)
	})
	request := func(it models.CleanMenuItem) any {
		return dishRequest{Name: it.Name, Description: it.Description, Category: it.Category}
	}
	return runBatches(ctx, e.c, e.Name(), e.system, e.batch, items, idx, request, mergeFood)
}

func mergeFood(raw string, out []models.CleanMenuItem, batch []int) error {
	var resp struct {
		Dishes []models.FoodEnrichment `json:"dishes"`
	}
	if err := repair.DecodeObject(raw, &resp); err != nil {
		return err
	}
	if len(resp.Dishes) == 0 {
		return errEmptyResult
	}
	byName := make(map[string]models.FoodEnrichment, len(resp.Dishes))
	for _, d := range resp.Dishes {
		byName[nameKey(d.Name)] = d
	}
	for _, i := range batch {
		d, ok := byName[nameKey(out[i].Name)]
		if !ok {
			continue
		}
		it := &out[i]
		if len(it.Ingredients) == 0 {
			it.Ingredients = cleanList(d.Ingredients)
		}
		if len(it.CookingMethods) == 0 {
			it.CookingMethods = cleanList(d.CookingMethods)
		}
		if len(it.Allergens) == 0 {
			it.Allergens = cleanList(d.Allergens)
		}
		it.IsVegan = it.IsVegan || d.IsVegan.Bool()
		it.IsVegetarian = it.IsVegetarian || it.IsVegan || d.IsVegetarian.Bool()
		it.IsGlutenFree = it.IsGlutenFree || d.IsGlutenFree.Bool()
		it.IsDairyFree = it.IsDairyFree || d.IsDairyFree.Bool()
	}
	return nil
}

// BeverageEnhancer classifies drinks that have no spirit, beer or cocktail
// classification yet.
type BeverageEnhancer struct {
	c      Completer
	system string
	batch  int
}

func NewBeverageEnhancer(c Completer, system string, batch int) *BeverageEnhancer {
	return &BeverageEnhancer{c: c, system: system, batch: max(batch, 1)}
}

func (e *BeverageEnhancer) Name() string { return "beverage" }

func (e *BeverageEnhancer) Enhance(ctx context.Context, items []models.CleanMenuItem) ([]models.CleanMenuItem, error) {
	idx := selectIndexes(items, func(it models.CleanMenuItem) bool {
		return it.ItemType == models.ItemBeverage && it.SpiritType == "" && it.BeerStyle == "" &&
			len(it.CocktailIngredients) == 0
	})
	request := func(it models.CleanMenuItem) any {
		return dishRequest{Name: it.Name, Description: it.Description, Category: it.Category}
	}
	return runBatches(ctx, e.c, e.Name(), e.system, e.batch, items, idx, request, mergeBeverage)
}

func mergeBeverage(raw string, out []models.CleanMenuItem, batch []int) error {
	var resp struct {
		Beverages []models.BeverageEnrichment `json:"beverages"`
	}
	if err := repair.DecodeObject(raw, &resp); err != nil {
		return err
	}
	if len(resp.Beverages) == 0 {
		return errEmptyResult
	}
	byName := make(map[string]models.BeverageEnrichment, len(resp.Beverages))
	for _, b := range resp.Beverages {
		byName[nameKey(b.Name)] = b
	}
	for _, i := range batch {
		b, ok := byName[nameKey(out[i].Name)]
		if !ok {
			continue
		}
		it := &out[i]
		it.SpiritType = b.SpiritType.String()
		it.BeerStyle = b.BeerStyle.String()
		it.CocktailIngredients = cleanList(b.CocktailIngredients)
		if abv, ok := b.ABV.Float(); ok && abv >= 0 && abv <= 100 && !math.IsNaN(abv) {
			it.ABV = &abv
		}
		it.ServingStyle = b.ServingStyle.String()
		it.Temperature = b.Temperature.String()
		it.IsNonAlcoholic = b.IsNonAlcoholic.Bool()
	}
	return nil
}
