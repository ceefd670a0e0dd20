package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/recipepad/internal/config"
	"github.com/foxxcyber/recipepad/internal/database"
	"github.com/foxxcyber/recipepad/internal/models"
	"github.com/foxxcyber/recipepad/internal/services"
)

// RecipeStore is the recipe persistence the handlers use
type RecipeStore interface {
	ListRecipes(ctx context.Context, params *models.ListRecipeParams) ([]*models.Recipe, int, error)
	GetRecipe(ctx context.Context, ownerID, id string) (*models.Recipe, error)
	GetRecipesByIDs(ctx context.Context, ownerID string, ids []string) ([]*models.Recipe, []string, error)
	UpsertRecipe(ctx context.Context, ownerID string, r *models.Recipe) (*models.Recipe, error)
	BulkUpsertRecipes(ctx context.Context, ownerID string, recipes []models.Recipe) (*models.BulkRecipesResponse, error)
	DeleteRecipe(ctx context.Context, ownerID, id string) error
	ToggleFavorite(ctx context.Context, ownerID, id string) (bool, error)
	ToggleDone(ctx context.Context, ownerID, id string) (bool, error)
	ListCategories(ctx context.Context, ownerID string) ([]models.CategoryCount, error)
	GetRecipeStats(ctx context.Context, ownerID string) (*models.RecipeStats, error)
	ExportRecipes(ctx context.Context, ownerID string) ([]*models.Recipe, error)
}

// OrderStore is the order persistence the admin handlers use
type OrderStore interface {
	ListOrders(ctx context.Context, params *models.ListOrderParams) ([]*models.Order, int, error)
	GetOrder(ctx context.Context, id int) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) (*models.Order, error)
}

// SettingsStore is the settings persistence the admin handlers use
type SettingsStore interface {
	GetAllSettings(ctx context.Context, encryptionKey []byte) (map[string][]database.SystemSetting, error)
	GetSettingsByCategory(ctx context.Context, category string, encryptionKey []byte) ([]database.SystemSetting, error)
	SetSettings(ctx context.Context, settings map[string]string, encryptionKey []byte) error
}

// Store is everything the handlers persist. *database.DB implements it.
type Store interface {
	RecipeStore
	OrderStore
	SettingsStore
}

// OrderPlacer places orders
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, ownerID string, req *models.CreateOrderRequest) (*services.PlacedOrder, error)
}

// Backups manages stored exports
type Backups interface {
	Create(ctx context.Context) (*services.Backup, error)
	List(ctx context.Context) ([]services.Backup, error)
	Link(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Scanner reads text from an image. *ocr.Service implements it.
type Scanner interface {
	ReadText(image []byte) (string, error)
}

// Handler holds all handler dependencies
type Handler struct {
	store         Store
	cfg           *config.Config
	log           logrus.FieldLogger
	encryptionKey []byte
	orders        OrderPlacer
	backups       Backups // nil when S3 is not configured
	scanner       Scanner // nil when OCR is unavailable
}

// Option configures optional handler dependencies
type Option func(*Handler)

// WithOrders enables order placement
func WithOrders(o OrderPlacer) Option {
	return func(h *Handler) { h.orders = o }
}

// WithBackups enables the backup endpoints
func WithBackups(b Backups) Option {
	return func(h *Handler) { h.backups = b }
}

// WithScanner enables ingredient scanning
func WithScanner(s Scanner) Option {
	return func(h *Handler) { h.scanner = s }
}

// New creates a new Handler instance
func New(store Store, cfg *config.Config, log logrus.FieldLogger, opts ...Option) *Handler {
	h := &Handler{
		store:         store,
		cfg:           cfg,
		log:           log,
		encryptionKey: services.DeriveEncryptionKey(cfg.EncryptionSecret()),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ErrorHandler returns a Fiber error handler that answers in the API envelope
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// Default to 500
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		// Check if it's a Fiber error
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		} else {
			log.WithError(err).WithField("path", c.Path()).Error("Unhandled error")
		}

		return Error(c, code, message)
	}
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Created returns a 201 response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with pagination
func SuccessWithMeta(c *fiber.Ctx, data interface{}, total, limit, offset int) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// validationError answers 400 with the per-field messages as data
func validationError(c *fiber.Ctx, verr *models.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
		Success: false,
		Error:   verr.Error(),
		Data:    verr.Fields,
	})
}

// internalError logs err and answers 500 with message
func (h *Handler) internalError(c *fiber.Ctx, err error, message string) error {
	h.log.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error(message)
	return Error(c, fiber.StatusInternalServerError, message)
}

// pagination reads limit and offset, clamping them the way every listing does
func pagination(c *fiber.Ctx, defaultLimit, maxLimit int) (int, int) {
	limit := c.QueryInt("limit", defaultLimit)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
