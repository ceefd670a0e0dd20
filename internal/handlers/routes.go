package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recipepad/internal/middleware"
)

// RegisterRoutes mounts the API on app
func (h *Handler) RegisterRoutes(app *fiber.App) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", middleware.OwnerOptional(h.cfg))
	owner := middleware.OwnerRequired()

	// Shared feed, readable by anyone, writable by identified owners
	recipes := api.Group("/recipes")
	recipes.Get("/", h.ListRecipes(SharedScope))
	recipes.Get("/:id", h.GetRecipe(SharedScope))
	recipes.Put("/:id", owner, h.PutRecipe(SharedScope))
	recipes.Delete("/:id", owner, h.DeleteRecipe(SharedScope))
	recipes.Post("/:id/favorite", owner, h.ToggleFavorite(SharedScope))
	recipes.Post("/:id/done", owner, h.ToggleDone(SharedScope))

	api.Get("/categories", h.ListCategories(SharedScope))
	api.Get("/stats", h.GetStats(SharedScope))

	// Personal store
	local := api.Group("/local", owner)
	local.Get("/recipes", h.ListRecipes(PersonalScope))
	local.Post("/recipes/bulk", h.BulkUpload)
	local.Get("/recipes/:id", h.GetRecipe(PersonalScope))
	local.Put("/recipes/:id", h.PutRecipe(PersonalScope))
	local.Delete("/recipes/:id", h.DeleteRecipe(PersonalScope))
	local.Post("/recipes/:id/favorite", h.ToggleFavorite(PersonalScope))
	local.Post("/recipes/:id/done", h.ToggleDone(PersonalScope))
	local.Get("/categories", h.ListCategories(PersonalScope))
	local.Get("/stats", h.GetStats(PersonalScope))

	api.Post("/shopping-list", h.BuildShoppingList)
	api.Post("/orders", h.PlaceOrder)

	api.Get("/export", owner, h.ExportRecipes)
	api.Post("/import", owner, h.ImportRecipes)

	api.Post("/scan/ingredients", h.ScanIngredients)

	admin := api.Group("/admin", middleware.AdminRequired())
	admin.Get("/orders", h.AdminListOrders)
	admin.Get("/orders/:id", h.AdminGetOrder)
	admin.Put("/orders/:id/status", h.AdminUpdateOrderStatus)

	admin.Get("/settings", h.GetAllSettings)
	admin.Get("/settings/:category", h.GetSettingsByCategory)
	admin.Put("/settings", h.UpdateSettings)

	admin.Get("/backups", h.ListBackups)
	admin.Post("/backups", h.CreateBackup)
	admin.Get("/backups/link", h.GetBackupLink)
	admin.Delete("/backups", h.DeleteBackup)
}
