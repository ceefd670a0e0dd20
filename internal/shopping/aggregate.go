package shopping

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ShoppingItem is one merged entry of a shopping list
type ShoppingItem struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	Unit        string   `json:"unit,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unmerged    []string `json:"unmerged,omitempty"`
}

// Aggregate parses every line and merges lines sharing a name. Quantities are
// summed while units agree; everything else is kept as unmerged raw text.
// Items come back in the order their names were first seen.
func Aggregate(lines []string) []ShoppingItem {
	items := make([]ShoppingItem, 0, len(lines))
	index := make(map[string]int, len(lines))

	for _, line := range lines {
		parsed := Parse(line)
		if strings.TrimSpace(parsed.Key) == "" {
			continue
		}

		i, seen := index[parsed.Key]
		if !seen {
			item := ShoppingItem{
				Key:         parsed.Key,
				DisplayName: parsed.Key,
				Unit:        parsed.Unit,
			}
			if parsed.HasQuantity() {
				qty := *parsed.Quantity
				item.Quantity = &qty
			} else {
				item.Unmerged = []string{parsed.Raw}
			}
			index[parsed.Key] = len(items)
			items = append(items, item)
			continue
		}

		item := &items[i]
		if parsed.HasQuantity() && (item.Unit == "" || item.Unit == parsed.Unit) {
			total := *parsed.Quantity
			if item.Quantity != nil {
				total += *item.Quantity
			}
			item.Quantity = &total
			if item.Unit == "" {
				item.Unit = parsed.Unit
			}
			continue
		}
		item.Unmerged = append(item.Unmerged, parsed.Raw)
	}

	for i := range items {
		items[i].DisplayName = capitalize(items[i].DisplayName)
	}
	return items
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
