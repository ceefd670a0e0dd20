package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipe_Normalize(t *testing.T) {
	r := &Recipe{
		ID:          " r1 ",
		Title:       "  Блины ",
		Ingredients: []string{" 200 г муки ", "", "  "},
		Steps:       []string{"Смешать", " "},
		Categories:  []string{"Завтрак", " Завтрак ", ""},
		Parts:       []RecipePart{{Title: " Соус ", Ingredients: []string{" сметана", ""}}},
	}
	r.Normalize()

	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, "Блины", r.Title)
	assert.Equal(t, []string{"200 г муки"}, r.Ingredients)
	assert.Equal(t, []string{"Смешать"}, r.Steps)
	assert.Equal(t, []string{"Завтрак"}, r.Categories)
	assert.Equal(t, "Соус", r.Parts[0].Title)
	assert.Equal(t, []string{"сметана"}, r.Parts[0].Ingredients)
}

func TestRecipe_EnsureDefaults(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	r := &Recipe{Parts: []RecipePart{{}}}
	r.EnsureDefaults(now)

	assert.NotEmpty(t, r.ID)
	assert.NotEmpty(t, r.Parts[0].ID)
	assert.Equal(t, int64(1700000000000), r.CreatedAt)

	r.CreatedAt = 5
	id := r.ID
	r.EnsureDefaults(now)
	assert.Equal(t, int64(5), r.CreatedAt)
	assert.Equal(t, id, r.ID)
}

func TestRecipe_Validate(t *testing.T) {
	valid := &Recipe{Title: "Суп", Ingredients: []string{"вода"}, Steps: []string{"Варить"}}
	assert.NoError(t, valid.Validate())

	// Ingredients and steps may live in parts only
	parts := &Recipe{Title: "Пирог", Parts: []RecipePart{{Ingredients: []string{"мука"}, Steps: []string{"Печь"}}}}
	assert.NoError(t, parts.Validate())

	multi := &Recipe{Title: "Пирог", Parts: []RecipePart{
		{Title: "Тесто", Ingredients: []string{"мука"}, Steps: []string{"Месить"}},
		{Ingredients: []string{"яблоки"}},
	}}
	err := multi.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"parts[1].title": "part title is required"}, verr.Fields)
}

func TestRecipe_AllIngredientsDoesNotAlias(t *testing.T) {
	r := &Recipe{Ingredients: make([]string, 1, 4), Parts: []RecipePart{{Ingredients: []string{"b"}}}}
	r.Ingredients[0] = "a"

	all := r.AllIngredients()
	all[0] = "changed"

	assert.Equal(t, []string{"changed", "b"}, all)
	assert.Equal(t, "a", r.Ingredients[0])
}

func TestRecipe_PreviewLines(t *testing.T) {
	r := &Recipe{Ingredients: []string{"мука", "яйца"}, Steps: []string{"Смешать", "Жарить"}}

	assert.Equal(t, []string{"• мука", "• яйца", "1. Смешать"}, r.PreviewLines(3))
	assert.Equal(t, []string{"• мука", "• яйца", "1. Смешать", "2. Жарить"}, r.PreviewLines(10))
	assert.Nil(t, r.PreviewLines(0))

	card := r.Card(DefaultPreviewLines)
	assert.False(t, card.Truncated)
	assert.True(t, r.Card(2).Truncated)
}

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("title", "first")
	verr.Add("title", "second")
	verr.Add("steps", "missing")

	assert.Equal(t, "validation failed: steps: missing; title: first", verr.Error())
	assert.Error(t, verr.OrNil())
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusSent, OrderStatusFailed, OrderStatusSkipped, OrderStatusDone} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("lost").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestNewShoppingListResponse(t *testing.T) {
	resp := NewShoppingListResponse([]string{"200 г муки", "300 г муки"})

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Муки: 500г", resp.Items[0].Text)
	assert.Equal(t, "• Муки: 500г", resp.Text)
	assert.Equal(t, 2, resp.LineCount)
	assert.NotNil(t, resp.RecipeTitles)
}

func TestOwner(t *testing.T) {
	assert.True(t, Owner{}.Anonymous())
	assert.False(t, Owner{ID: "a"}.IsAdmin())
	assert.True(t, Owner{ID: "a", Role: RoleAdmin}.IsAdmin())
}
