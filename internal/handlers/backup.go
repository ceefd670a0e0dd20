package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recipepad/internal/middleware"
	"github.com/foxxcyber/recipepad/internal/models"
	"github.com/foxxcyber/recipepad/internal/services"
)

// ExportRecipes downloads the caller's recipes as a JSON array that
// ImportRecipes accepts back
// GET /api/export
func (h *Handler) ExportRecipes(c *fiber.Ctx) error {
	recipes, err := h.store.ExportRecipes(c.Context(), middleware.GetOwnerID(c))
	if err != nil {
		return h.internalError(c, err, "failed to export recipes")
	}

	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="recipes-%s.json"`, time.Now().Format("2006-01-02")))
	return c.JSON(recipes)
}

// ImportRecipes reads an exported JSON array into the caller's store
// POST /api/import
func (h *Handler) ImportRecipes(c *fiber.Ctx) error {
	var recipes []models.Recipe
	if err := json.Unmarshal(c.Body(), &recipes); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid export file")
	}

	return h.saveMany(c, recipes)
}

// CreateBackup stores an export of every recipe in object storage
// POST /api/admin/backups
func (h *Handler) CreateBackup(c *fiber.Ctx) error {
	if h.backups == nil {
		return Error(c, fiber.StatusServiceUnavailable, "backups are not configured")
	}

	backup, err := h.backups.Create(c.Context())
	if err != nil {
		return h.internalError(c, err, "failed to create backup")
	}

	return Created(c, backup)
}

// ListBackups lists stored backups
// GET /api/admin/backups
func (h *Handler) ListBackups(c *fiber.Ctx) error {
	if h.backups == nil {
		return Error(c, fiber.StatusServiceUnavailable, "backups are not configured")
	}

	backups, err := h.backups.List(c.Context())
	if err != nil {
		return h.internalError(c, err, "failed to list backups")
	}

	return Success(c, backups)
}

// GetBackupLink returns a download link for a backup
// GET /api/admin/backups/link?key=
func (h *Handler) GetBackupLink(c *fiber.Ctx) error {
	if h.backups == nil {
		return Error(c, fiber.StatusServiceUnavailable, "backups are not configured")
	}

	url, err := h.backups.Link(c.Context(), c.Query("key"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidBackupKey) {
			return Error(c, fiber.StatusBadRequest, "invalid backup key")
		}
		return h.internalError(c, err, "failed to create backup link")
	}

	return Success(c, fiber.Map{"url": url})
}

// DeleteBackup removes a stored backup
// DELETE /api/admin/backups?key=
func (h *Handler) DeleteBackup(c *fiber.Ctx) error {
	if h.backups == nil {
		return Error(c, fiber.StatusServiceUnavailable, "backups are not configured")
	}

	if err := h.backups.Delete(c.Context(), c.Query("key")); err != nil {
		if errors.Is(err, services.ErrInvalidBackupKey) {
			return Error(c, fiber.StatusBadRequest, "invalid backup key")
		}
		return h.internalError(c, err, "failed to delete backup")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
