package density

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeEmpty(t *testing.T) {
	r := NewAnalyzer(DefaultConfig()).Analyze("")
	assert.Zero(t, r.WineScore)
	assert.Zero(t, r.FoodScore)
	assert.Zero(t, r.BeverageScore)
	assert.False(t, r.Dense())
}

func TestAnalyzeExtensiveWineList(t *testing.T) {
	var b strings.Builder
	b.WriteString("WINE LIST\n\n")
	for i := 0; i < 10; i++ {
		b.WriteString("2015 Château Margaux, Bordeaux, Cabernet Sauvignon £120 bottle\n")
	}

	r := NewAnalyzer(DefaultConfig()).Analyze(b.String())
	assert.True(t, r.ExtensiveWine, "score %.1f", r.WineScore)
	assert.Equal(t, 10, r.VintageCount)
	assert.Equal(t, 10, r.PriceCount)
	assert.False(t, r.FoodHeavy())
}

func TestAnalyzeShortFoodMenuIsNotDense(t *testing.T) {
	text := "Starters\nCaesar Salad £9.50\nSoup of the day £6.00"
	r := NewAnalyzer(DefaultConfig()).Analyze(text)
	assert.False(t, r.Dense())
	assert.Greater(t, r.FoodScore, 0.0)
}

func TestAnalyzeFoodHeavy(t *testing.T) {
	text := strings.Repeat("Mains\nGrilled chicken with roasted potatoes and garlic butter £18.00 (gf)\n", 3)
	r := NewAnalyzer(DefaultConfig()).Analyze(text)
	assert.True(t, r.ExtensiveFood, "score %.1f", r.FoodScore)
	assert.True(t, r.FoodHeavy())
}

func TestAnalyzeBeverage(t *testing.T) {
	text := "Cocktails\nNegroni - gin, campari, vermouth 12.00\nMojito - rum, lime, soda 11.00\nBeers\nLager pint 6.00"
	r := NewAnalyzer(DefaultConfig()).Analyze(text)
	assert.True(t, r.ExtensiveBeverage, "score %.1f", r.BeverageScore)
}

func TestVintageContributionIsCapped(t *testing.T) {
	cfg := DefaultConfig()
	r := NewAnalyzer(cfg).Analyze(strings.Repeat("2019 ", 100))
	assert.Equal(t, 100, r.VintageCount)
	assert.InDelta(t, cfg.VintageCap, r.WineScore, 0.0001)
}

func TestPriceBonusAppliesAboveThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PriceThreshold = 2
	text := "£1 £2 £3"
	r := NewAnalyzer(cfg).Analyze(text)
	assert.Equal(t, 3, r.PriceCount)
	assert.InDelta(t, cfg.PriceBonus, r.FoodScore, 0.0001)
	assert.InDelta(t, cfg.PriceBonus, r.BeverageScore, 0.0001)
}

func TestCutoffsAreConfigurable(t *testing.T) {
	text := strings.Repeat("Wine list Merlot Rioja 2018\n", 10)

	def := NewAnalyzer(DefaultConfig()).Analyze(text)
	assert.True(t, def.ExtensiveWine)

	cfg := DefaultConfig()
	cfg.WineCutoff = 1000
	strict := NewAnalyzer(cfg).Analyze(text)
	assert.Equal(t, def.WineScore, strict.WineScore)
	assert.False(t, strict.ExtensiveWine)
}
