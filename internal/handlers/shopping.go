package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/foxxcyber/recipepad/internal/middleware"
	"github.com/foxxcyber/recipepad/internal/models"
)

// BuildShoppingList aggregates the ingredients of the selected recipes and
// any extra lines into one shopping list
// POST /api/shopping-list
func (h *Handler) BuildShoppingList(c *fiber.Ctx) error {
	var req models.ShoppingListRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	ownerID := ""
	if req.Personal {
		ownerID = middleware.GetOwnerID(c)
		if ownerID == "" {
			return Error(c, fiber.StatusUnauthorized, "owner id required")
		}
	}

	var (
		lines   []string
		recipes []*models.Recipe
		missing []string
	)
	if len(req.RecipeIDs) > 0 {
		var err error
		recipes, missing, err = h.store.GetRecipesByIDs(c.Context(), ownerID, req.RecipeIDs)
		if err != nil {
			return h.internalError(c, err, "failed to load recipes")
		}
		for _, r := range recipes {
			lines = append(lines, r.AllIngredients()...)
		}
	}
	lines = append(lines, req.Lines...)

	resp := models.NewShoppingListResponse(lines)
	resp.RecipeTitles = lo.Map(recipes, func(r *models.Recipe, _ int) string { return r.Title })
	resp.MissingRecipes = missing

	return Success(c, resp)
}
