package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/foxxcyber/recipepad/internal/database"
	"github.com/foxxcyber/recipepad/internal/middleware"
	"github.com/foxxcyber/recipepad/internal/models"
)

// Scope picks whose recipes a route works on
type Scope func(c *fiber.Ctx) string

// SharedScope is the shared feed everyone reads
func SharedScope(*fiber.Ctx) string { return "" }

// PersonalScope is the caller's own store
func PersonalScope(c *fiber.Ctx) string { return middleware.GetOwnerID(c) }

// optionalBool reads a "true"/"false" query flag, nil when absent
func optionalBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &v, nil
}

// ListRecipes returns recipe cards, newest first
func (h *Handler) ListRecipes(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset := pagination(c, 50, 100)
		params := &models.ListRecipeParams{
			Limit:    limit,
			Offset:   offset,
			OwnerID:  scope(c),
			Query:    c.Query("q"),
			Category: c.Query("category"),
		}

		var err error
		if params.Favorite, err = optionalBool(c, "favorite"); err != nil {
			return Error(c, fiber.StatusBadRequest, err.Error())
		}
		if params.Done, err = optionalBool(c, "done"); err != nil {
			return Error(c, fiber.StatusBadRequest, err.Error())
		}

		recipes, total, err := h.store.ListRecipes(c.Context(), params)
		if err != nil {
			return h.internalError(c, err, "failed to list recipes")
		}

		cards := lo.Map(recipes, func(r *models.Recipe, _ int) models.RecipeCard {
			return r.Card(models.DefaultPreviewLines)
		})
		return SuccessWithMeta(c, cards, total, params.Limit, params.Offset)
	}
}

// GetRecipe returns a single recipe
func (h *Handler) GetRecipe(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipe, err := h.store.GetRecipe(c.Context(), scope(c), c.Params("id"))
		if err != nil {
			if errors.Is(err, database.ErrRecipeNotFound) {
				return Error(c, fiber.StatusNotFound, "recipe not found")
			}
			return h.internalError(c, err, "failed to get recipe")
		}

		return Success(c, recipe)
	}
}

// PutRecipe creates or replaces a recipe. The body is {"recipe": {...}} and
// the id in the path wins over the one in the body.
func (h *Handler) PutRecipe(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.PutRecipeRequest
		if err := c.BodyParser(&req); err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid request body")
		}

		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return Error(c, fiber.StatusBadRequest, "recipe id is required")
		}
		req.Recipe.ID = id

		saved, err := h.store.UpsertRecipe(c.Context(), scope(c), &req.Recipe)
		if err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				return validationError(c, verr)
			}
			return h.internalError(c, err, "failed to save recipe")
		}

		return c.JSON(fiber.Map{
			"ok":      true,
			"success": true,
			"data":    saved,
		})
	}
}

// DeleteRecipe removes a recipe
func (h *Handler) DeleteRecipe(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := h.store.DeleteRecipe(c.Context(), scope(c), c.Params("id"))
		if err != nil {
			if errors.Is(err, database.ErrRecipeNotFound) {
				return Error(c, fiber.StatusNotFound, "recipe not found")
			}
			return h.internalError(c, err, "failed to delete recipe")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ToggleFavorite flips the favorite flag
func (h *Handler) ToggleFavorite(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		favorite, err := h.store.ToggleFavorite(c.Context(), scope(c), c.Params("id"))
		if err != nil {
			if errors.Is(err, database.ErrRecipeNotFound) {
				return Error(c, fiber.StatusNotFound, "recipe not found")
			}
			return h.internalError(c, err, "failed to update recipe")
		}

		return Success(c, fiber.Map{"favorite": favorite})
	}
}

// ToggleDone flips the "cooked it" flag
func (h *Handler) ToggleDone(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		done, err := h.store.ToggleDone(c.Context(), scope(c), c.Params("id"))
		if err != nil {
			if errors.Is(err, database.ErrRecipeNotFound) {
				return Error(c, fiber.StatusNotFound, "recipe not found")
			}
			return h.internalError(c, err, "failed to update recipe")
		}

		return Success(c, fiber.Map{"done": done})
	}
}

// ListCategories returns categories with recipe counts
func (h *Handler) ListCategories(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := h.store.ListCategories(c.Context(), scope(c))
		if err != nil {
			return h.internalError(c, err, "failed to list categories")
		}
		return Success(c, categories)
	}
}

// GetStats returns recipe counters for the profile page
func (h *Handler) GetStats(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := h.store.GetRecipeStats(c.Context(), scope(c))
		if err != nil {
			return h.internalError(c, err, "failed to get stats")
		}
		return Success(c, stats)
	}
}

// BulkUpload saves many personal recipes at once
func (h *Handler) BulkUpload(c *fiber.Ctx) error {
	var req models.BulkRecipesRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	return h.saveMany(c, req.Recipes)
}

// saveMany enforces the bulk limit and upserts recipes into the caller's store
func (h *Handler) saveMany(c *fiber.Ctx, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return Error(c, fiber.StatusBadRequest, "no recipes given")
	}
	if len(recipes) > h.cfg.BulkLimit {
		return Error(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("at most %d recipes per request", h.cfg.BulkLimit))
	}

	ownerID := middleware.GetOwnerID(c)
	resp, err := h.store.BulkUpsertRecipes(c.Context(), ownerID, recipes)
	if err != nil {
		return h.internalError(c, err, "failed to save recipes")
	}

	h.log.WithField("owner_id", ownerID).
		WithField("saved", resp.Saved).
		WithField("rejected", len(resp.Errors)).
		Info("Recipes saved in bulk")

	return Success(c, resp)
}
