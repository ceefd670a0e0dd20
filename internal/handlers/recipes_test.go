package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/recipepad/internal/models"
)

func pancakes() *models.Recipe {
	return &models.Recipe{
		ID:          "pancakes",
		Title:       "Блины",
		Categories:  []string{"Завтрак"},
		Ingredients: []string{"200 г муки", "2 яйца", "500 мл молока"},
		Steps:       []string{"Смешать", "Жарить"},
	}
}

func TestListRecipes_ReturnsCards(t *testing.T) {
	store := newFakeStore()
	store.add("", pancakes())
	app := newTestApp(store)

	resp := call(t, app, "GET", "/api/recipes", "", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)

	env := resp.envelope(t)
	assert.True(t, env.Success)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Total)
	assert.Equal(t, 50, env.Meta.Limit)

	var cards []models.RecipeCard
	resp.decodeData(t, &cards)
	require.Len(t, cards, 1)
	assert.Equal(t, []string{"• 200 г муки", "• 2 яйца", "• 500 мл молока", "1. Смешать"}, cards[0].Preview)
	assert.True(t, cards[0].Truncated)
}

func TestListRecipes_BadFlag(t *testing.T) {
	resp := call(t, newTestApp(newFakeStore()), "GET", "/api/recipes?favorite=sometimes", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "favorite must be true or false", resp.envelope(t).Error)
}

func TestGetRecipe_NotFound(t *testing.T) {
	resp := call(t, newTestApp(newFakeStore()), "GET", "/api/recipes/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
	assert.False(t, resp.envelope(t).Success)
}

func TestPutRecipe_Shared(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	body := models.PutRecipeRequest{Recipe: *pancakes()}
	body.Recipe.ID = "ignored"

	// Anonymous callers cannot write the shared feed
	resp := call(t, app, "PUT", "/api/recipes/pancakes", "", body)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)

	resp = call(t, app, "PUT", "/api/recipes/pancakes", "device-1", body)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), `"ok":true`)

	saved, ok := store.recipes[""]["pancakes"]
	require.True(t, ok)
	assert.Equal(t, "Блины", saved.Title)
	assert.NotZero(t, saved.CreatedAt)
}

func TestPutRecipe_Validation(t *testing.T) {
	app := newTestApp(newFakeStore())

	resp := call(t, app, "PUT", "/api/local/recipes/x", "device-1", models.PutRecipeRequest{
		Recipe: models.Recipe{Title: "  ", Ingredients: []string{" "}},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.Status)

	var fields map[string]string
	resp.decodeData(t, &fields)
	assert.Equal(t, map[string]string{
		"title":       "title is required",
		"ingredients": "add at least one ingredient",
		"steps":       "add at least one step",
	}, fields)
}

func TestDeleteRecipe(t *testing.T) {
	store := newFakeStore()
	store.add("device-1", pancakes())
	app := newTestApp(store)

	resp := call(t, app, "DELETE", "/api/local/recipes/pancakes", "device-1", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.Status)

	resp = call(t, app, "DELETE", "/api/local/recipes/pancakes", "device-1", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}

func TestPersonalStoreIsScopedToOwner(t *testing.T) {
	store := newFakeStore()
	store.add("alice", pancakes())
	app := newTestApp(store)

	resp := call(t, app, "GET", "/api/local/recipes/pancakes", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)

	resp = call(t, app, "GET", "/api/local/recipes/pancakes", "bob", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)

	resp = call(t, app, "GET", "/api/local/recipes/pancakes", "alice", nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
}

func TestToggles(t *testing.T) {
	store := newFakeStore()
	store.add("alice", pancakes())
	app := newTestApp(store)

	resp := call(t, app, "POST", "/api/local/recipes/pancakes/favorite", "alice", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	var fav map[string]bool
	resp.decodeData(t, &fav)
	assert.True(t, fav["favorite"])

	resp = call(t, app, "POST", "/api/local/recipes/pancakes/done", "alice", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.True(t, store.recipes["alice"]["pancakes"].Done)

	resp = call(t, app, "POST", "/api/local/recipes/ghost/done", "alice", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}

func TestCategoriesAndStats(t *testing.T) {
	store := newFakeStore()
	store.add("alice", pancakes())
	app := newTestApp(store)

	resp := call(t, app, "GET", "/api/local/categories", "alice", nil)
	var categories []models.CategoryCount
	resp.decodeData(t, &categories)
	assert.Equal(t, []models.CategoryCount{{Name: "Завтрак", Count: 1}}, categories)

	resp = call(t, app, "GET", "/api/local/stats", "alice", nil)
	var stats models.RecipeStats
	resp.decodeData(t, &stats)
	assert.Equal(t, models.RecipeStats{Total: 1, Latest: "Блины"}, stats)
}

func TestBulkUpload(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store)

	good := *pancakes()
	bad := models.Recipe{ID: "bad"}
	resp := call(t, app, "POST", "/api/local/recipes/bulk", "alice", models.BulkRecipesRequest{
		Recipes: []models.Recipe{good, bad},
	})
	require.Equal(t, fiber.StatusOK, resp.Status)

	var result models.BulkRecipesResponse
	resp.decodeData(t, &result)
	assert.Equal(t, 1, result.Saved)
	assert.Len(t, result.Errors, 1)
}

func TestBulkUpload_Limit(t *testing.T) {
	app := newTestApp(newFakeStore())
	recipes := []models.Recipe{*pancakes(), *pancakes(), *pancakes(), *pancakes()}

	resp := call(t, app, "POST", "/api/local/recipes/bulk", "alice", models.BulkRecipesRequest{Recipes: recipes})
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.Status)

	resp = call(t, app, "POST", "/api/local/recipes/bulk", "alice", models.BulkRecipesRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
}
