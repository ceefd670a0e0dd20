package models

import "github.com/foxxcyber/recipepad/internal/shopping"

// ShoppingListRequest selects the ingredient lines to aggregate
type ShoppingListRequest struct {
	RecipeIDs []string `json:"recipe_ids"`
	Lines     []string `json:"lines"`
	Personal  bool     `json:"personal"` // Read recipes from the caller's personal store
}

// ShoppingListEntry is an aggregated item with its display text
type ShoppingListEntry struct {
	shopping.ShoppingItem
	Text string `json:"text"`
}

// ShoppingListResponse is the aggregated shopping list
type ShoppingListResponse struct {
	Items          []ShoppingListEntry `json:"items"`
	Text           string              `json:"text"` // Plain-text export, one bullet per item
	RecipeTitles   []string            `json:"recipe_titles"`
	MissingRecipes []string            `json:"missing_recipes,omitempty"`
	LineCount      int                 `json:"line_count"`
}

// NewShoppingListResponse aggregates lines and renders every item.
func NewShoppingListResponse(lines []string) *ShoppingListResponse {
	items := shopping.Aggregate(lines)
	entries := make([]ShoppingListEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, ShoppingListEntry{ShoppingItem: item, Text: shopping.Format(item)})
	}
	return &ShoppingListResponse{
		Items:        entries,
		Text:         shopping.FormatList(items),
		RecipeTitles: []string{},
		LineCount:    len(lines),
	}
}

// ScanResult is the outcome of reading ingredient lines from an image
type ScanResult struct {
	Text  string                    `json:"text"`
	Lines []shopping.IngredientLine `json:"lines"`
	List  *ShoppingListResponse     `json:"shopping_list"`
}
