package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/foxxcyber/recipepad/internal/models"
	"github.com/foxxcyber/recipepad/internal/shopping"
)

var supportedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/tiff", "image/bmp"}

// ScanIngredients reads a photo of an ingredient note and returns the parsed
// lines with their shopping list. The image is not stored.
// POST /api/scan/ingredients
func (h *Handler) ScanIngredients(c *fiber.Ctx) error {
	if h.scanner == nil {
		return Error(c, fiber.StatusServiceUnavailable, "scanning is not available")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}

	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	if !lo.Contains(supportedImageTypes, contentType) {
		return Error(c, fiber.StatusBadRequest, "invalid image type. Supported: JPEG, PNG, WebP, TIFF, BMP")
	}
	if file.Size > int64(h.cfg.MaxUploadBytes()) {
		return Error(c, fiber.StatusRequestEntityTooLarge, "file too large")
	}

	f, err := file.Open()
	if err != nil {
		return h.internalError(c, err, "failed to read image")
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		return h.internalError(c, err, "failed to read image")
	}
	if len(image) == 0 {
		return Error(c, fiber.StatusBadRequest, "image is empty")
	}

	text, err := h.scanner.ReadText(image)
	if err != nil {
		return h.internalError(c, err, "failed to read text from image")
	}

	lines := shopping.SplitNoteLines(text)
	return Success(c, models.ScanResult{
		Text:  text,
		Lines: lo.Map(lines, func(l string, _ int) shopping.IngredientLine { return shopping.Parse(l) }),
		List:  models.NewShoppingListResponse(lines),
	})
}
