package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/recipepad/internal/models"
)

func TestBuildShoppingList_Lines(t *testing.T) {
	app := newTestApp(newFakeStore())

	resp := call(t, app, "POST", "/api/shopping-list", "", models.ShoppingListRequest{
		Lines: []string{"200 г муки", "300 г муки", "2 кг муки", "соль"},
	})
	require.Equal(t, fiber.StatusOK, resp.Status)

	var list models.ShoppingListResponse
	resp.decodeData(t, &list)
	assert.Equal(t, "• Муки: 500г (2 кг муки)\n• Соль", list.Text)
	assert.Equal(t, 4, list.LineCount)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Муки: 500г (2 кг муки)", list.Items[0].Text)
}

func TestBuildShoppingList_Recipes(t *testing.T) {
	store := newFakeStore()
	store.add("", pancakes())
	store.add("", &models.Recipe{ID: "pie", Title: "Пирог", Parts: []models.RecipePart{
		{Title: "Тесто", Ingredients: []string{"300 г муки"}},
	}})
	app := newTestApp(store)

	resp := call(t, app, "POST", "/api/shopping-list", "", models.ShoppingListRequest{
		RecipeIDs: []string{"pancakes", "pie", "ghost"},
	})
	require.Equal(t, fiber.StatusOK, resp.Status)

	var list models.ShoppingListResponse
	resp.decodeData(t, &list)
	assert.Equal(t, []string{"Блины", "Пирог"}, list.RecipeTitles)
	assert.Equal(t, []string{"ghost"}, list.MissingRecipes)
	assert.Equal(t, "• Муки: 500г\n• Яйца (2 яйца)\n• Молока: 500мл", list.Text)
}

func TestBuildShoppingList_PersonalNeedsOwner(t *testing.T) {
	app := newTestApp(newFakeStore())

	resp := call(t, app, "POST", "/api/shopping-list", "", models.ShoppingListRequest{Personal: true})
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
}

func TestBuildShoppingList_Empty(t *testing.T) {
	resp := call(t, newTestApp(newFakeStore()), "POST", "/api/shopping-list", "", models.ShoppingListRequest{})
	require.Equal(t, fiber.StatusOK, resp.Status)

	var list models.ShoppingListResponse
	resp.decodeData(t, &list)
	assert.Empty(t, list.Items)
	assert.Equal(t, "", list.Text)
}

func TestBuildShoppingList_BadBody(t *testing.T) {
	resp := call(t, newTestApp(newFakeStore()), "POST", "/api/shopping-list", "", "{")
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
}
