package repair

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

const fullResponse = `{"menuName": "Spring Menu", "items": [
 {"name": "Caesar Salad", "price": 9.5, "category": "Starters", "itemType": "food", "confidence": 90, "originalText": "Caesar Salad 9.50"},
 {"name": "Negroni {classic}", "price": "11.00", "category": "Cocktails", "itemType": "beverage", "confidence": 85, "originalText": "Negroni \"house\" 11"},
 {"name": "Sancerre", "price": 48, "category": "White Wines", "itemType": "wine", "vintage": 2021, "servingOptions": [{"size": "175ml", "price": 12}], "confidence": 80, "originalText": "Sancerre 2021"}
], "totalItemsFound": 3, "processingNotes": ["ok"]}`

func TestParseValid(t *testing.T) {
	res := Parse(fullResponse)
	assert.False(t, res.Truncated)
	assert.Equal(t, "Spring Menu", res.Data.MenuName)
	require.Len(t, res.Data.Items, 3)
	assert.Equal(t, 3, res.Recovered)
	assert.Equal(t, 3, res.Data.TotalItemsFound)
	assert.Equal(t, "Negroni {classic}", res.Data.Items[1].Name.String())
	assert.Equal(t, []string{"ok"}, res.Data.ProcessingNotes)
}

func TestParseStripsFencesAndProse(t *testing.T) {
	raw := "Here is the menu:\n```json\n" + fullResponse + "\n```\nLet me know!"
	res := Parse(raw)
	assert.Len(t, res.Data.Items, 3)
}

func TestParseRepairsTrailingCommasAndRawNewlines(t *testing.T) {
	raw := "{\"menuName\": \"Bar\", \"items\": [{\"name\": \"Old\nFashioned\", \"category\": \"Cocktails\", \"itemType\": \"beverage\", \"confidence\": 70,},], }"
	res := Parse(raw)
	assert.True(t, res.Repaired)
	require.Len(t, res.Data.Items, 1)
	assert.Equal(t, "Old Fashioned", res.Data.Items[0].Name.String())
}

func TestParseTruncatedMidThirdItem(t *testing.T) {
	cut := strings.Index(fullResponse, `"vintage": 2021`)
	require.Positive(t, cut)

	res := Parse(fullResponse[:cut])
	assert.True(t, res.Truncated)
	require.Len(t, res.Data.Items, 2)
	assert.Equal(t, "Caesar Salad", res.Data.Items[0].Name.String())
	assert.Equal(t, "Negroni {classic}", res.Data.Items[1].Name.String())
	assert.Equal(t, "Spring Menu", res.Data.MenuName)
	require.NotEmpty(t, res.Data.ProcessingNotes)
	assert.Contains(t, res.Data.ProcessingNotes[0], "truncated")
	assert.Equal(t, 1, res.Discarded)
}

func TestParseTruncatedInsideNestedArray(t *testing.T) {
	cut := strings.Index(fullResponse, `"price": 12}`)
	res := Parse(fullResponse[:cut])
	assert.Len(t, res.Data.Items, 2)
}

func TestParseGarbageYieldsNote(t *testing.T) {
	for _, raw := range []string{"", "sorry, I cannot help", `{"menuName": "x", "items": [`, "{{{{"} {
		res := Parse(raw)
		assert.Empty(t, res.Data.Items, raw)
		assert.NotEmpty(t, res.Data.ProcessingNotes, raw)
	}
}

func TestParseDiscardsMalformedItems(t *testing.T) {
	raw := `{"menuName": "M", "items": [{"name": "Soup", "category": "Starters", "itemType": "food"}, "not an item", 42]}`
	res := Parse(raw)
	assert.Len(t, res.Data.Items, 1)
	assert.Equal(t, 2, res.Discarded)
	assert.Contains(t, res.Data.ProcessingNotes[len(res.Data.ProcessingNotes)-1], "discarded 2")
}

func TestParseTolerantFieldTypes(t *testing.T) {
	raw := `{"menuName": 7, "items": [{"name": "Chips", "price": "£4.50", "category": "Sides", "itemType": "food", "ingredients": "potato, salt", "isVegan": "yes", "confidence": "75"}]}`
	res := Parse(raw)
	require.Len(t, res.Data.Items, 1)
	item := res.Data.Items[0]
	assert.Equal(t, "7", res.Data.MenuName)
	assert.Equal(t, models.FlexStrings{"potato", " salt"}, item.Ingredients)
	assert.True(t, item.IsVegan.Bool())
	c, ok := item.Confidence.Float()
	assert.True(t, ok)
	assert.Equal(t, 75.0, c)
}

func TestDecodeObject(t *testing.T) {
	var v struct {
		Wines []struct {
			Name string `json:"name"`
		} `json:"wines"`
	}
	require.NoError(t, DecodeObject("```json\n{\"wines\": [{\"name\": \"Rioja\"},]}\n```", &v))
	require.Len(t, v.Wines, 1)
	assert.Equal(t, "Rioja", v.Wines[0].Name)

	err := DecodeObject("no json here", &v)
	assert.ErrorIs(t, err, models.ErrMalformedResponse)
}

func buildResponse(n int) string {
	items := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]any{
			"name":           fmt.Sprintf("Item \"%d\" {x}", i),
			"price":          float64(i) + 0.5,
			"category":       "Mains",
			"itemType":       "food",
			"ingredients":    []string{"a", "b]"},
			"servingOptions": []map[string]any{{"size": "large", "price": 3}},
			"confidence":     80,
		})
	}
	b, _ := json.Marshal(map[string]any{"menuName": "Fuzz", "items": items, "totalItemsFound": n})
	return string(b)
}

func FuzzParseTruncated(f *testing.F) {
	full := buildResponse(5)
	f.Add(len(full) / 2)
	f.Add(len(full) - 1)
	f.Add(0)
	f.Fuzz(func(t *testing.T, cut int) {
		if cut < 0 || cut > len(full) {
			t.Skip()
		}
		res := Parse(full[:cut])
		assert.LessOrEqual(t, len(res.Data.Items), 5)
		if len(res.Data.Items) < 5 {
			assert.NotEmpty(t, res.Data.ProcessingNotes)
		}
		for i, item := range res.Data.Items {
			assert.Equal(t, fmt.Sprintf("Item \"%d\" {x}", i), item.Name.String())
		}
	})
}
