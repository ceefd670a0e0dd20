package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recipepad/internal/database"
)

// GetAllSettings returns all settings grouped by category
// GET /api/admin/settings
func (h *Handler) GetAllSettings(c *fiber.Ctx) error {
	settings, err := h.store.GetAllSettings(c.Context(), h.encryptionKey)
	if err != nil {
		return h.internalError(c, err, "failed to get settings")
	}

	return Success(c, settings)
}

// GetSettingsByCategory returns all settings for a given category
// GET /api/admin/settings/:category
func (h *Handler) GetSettingsByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	if category == "" {
		return Error(c, fiber.StatusBadRequest, "category is required")
	}

	settings, err := h.store.GetSettingsByCategory(c.Context(), category, h.encryptionKey)
	if err != nil {
		return h.internalError(c, err, "failed to get settings")
	}
	if settings == nil {
		settings = []database.SystemSetting{}
	}

	return Success(c, settings)
}

// UpdateSettingsRequest is the request body for updating settings
type UpdateSettingsRequest struct {
	Settings map[string]interface{} `json:"settings"`
}

// UpdateSettings updates multiple settings at once
// PUT /api/admin/settings
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Settings) == 0 {
		return Error(c, fiber.StatusBadRequest, "settings are required")
	}

	if err := h.store.SetSettings(c.Context(), settingStrings(req.Settings), h.encryptionKey); err != nil {
		switch {
		case errors.Is(err, database.ErrSettingNotFound):
			return Error(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, database.ErrInvalidSettingValue):
			return Error(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err, "failed to update settings")
	}

	h.log.WithField("keys", len(req.Settings)).Info("Settings updated")
	return Success(c, fiber.Map{"updated": len(req.Settings)})
}

// settingStrings converts JSON values to their stored string form
func settingStrings(in map[string]interface{}) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		switch v := value.(type) {
		case string:
			out[key] = v
		case float64:
			out[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[key] = strconv.FormatBool(v)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
