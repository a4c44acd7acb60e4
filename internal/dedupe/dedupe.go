// Package dedupe merges item lists recovered from overlapping chunks.
package dedupe

import (
	"fmt"
	"strings"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

// Key is the identity of a menu item: lowercased trimmed name, item type and
// price (0 when absent).
func Key(item models.CleanMenuItem) string {
	price := 0.0
	if item.Price != nil {
		price = *item.Price
	}
	return fmt.Sprintf("%s|%s|%.2f", strings.ToLower(strings.TrimSpace(item.Name)), item.ItemType, price)
}

// Items returns the first occurrence of every key, in input order.
func Items(items []models.CleanMenuItem) []models.CleanMenuItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.CleanMenuItem, 0, len(items))
	for _, item := range items {
		k := Key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}
