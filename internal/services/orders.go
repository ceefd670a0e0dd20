package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/recipepad/internal/database"
	"github.com/foxxcyber/recipepad/internal/models"
	"github.com/foxxcyber/recipepad/internal/shopping"
)

var (
	ErrOrdersDisabled = errors.New("orders are disabled")
	ErrEmptyOrder     = errors.New("order has no items")
)

// OrderStore is the persistence an order needs
type OrderStore interface {
	OrdersEnabled(ctx context.Context) bool
	GetTelegramConfig(ctx context.Context, encryptionKey []byte) (*database.TelegramConfig, error)
	GetRecipesByIDs(ctx context.Context, ownerID string, ids []string) ([]*models.Recipe, []string, error)
	CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error)
	MarkOrderNotified(ctx context.Context, id int, status models.OrderStatus, notifyErr error) error
}

// Notifier delivers a message to a chat
type Notifier interface {
	SendMessage(ctx context.Context, botToken, chatID, text string) error
}

// OrderService turns selected recipes into an order and relays it to the admin
type OrderService struct {
	store         OrderStore
	notifier      Notifier
	encryptionKey []byte
	log           logrus.FieldLogger
}

// PlacedOrder is the outcome of PlaceOrder
type PlacedOrder struct {
	Order          *models.Order `json:"order"`
	MissingRecipes []string      `json:"missing_recipes,omitempty"`
}

// NewOrderService creates an order service
func NewOrderService(store OrderStore, notifier Notifier, encryptionKey []byte, log logrus.FieldLogger) *OrderService {
	return &OrderService{
		store:         store,
		notifier:      notifier,
		encryptionKey: encryptionKey,
		log:           log,
	}
}

// PlaceOrder aggregates the ingredients of the requested recipes plus any
// extra lines, stores the order and notifies the admin. A failed
// notification does not fail the order, it is recorded on it instead.
func (s *OrderService) PlaceOrder(ctx context.Context, ownerID string, req *models.CreateOrderRequest) (*PlacedOrder, error) {
	if !s.store.OrdersEnabled(ctx) {
		return nil, ErrOrdersDisabled
	}

	recipeOwner := ""
	if req.Personal {
		recipeOwner = ownerID
	}

	recipes, missing, err := s.store.GetRecipesByIDs(ctx, recipeOwner, req.RecipeIDs)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, r := range recipes {
		lines = append(lines, r.AllIngredients()...)
	}
	lines = append(lines, req.Lines...)

	items := lo.Map(shopping.Aggregate(lines), func(item shopping.ShoppingItem, _ int) string {
		return shopping.Format(item)
	})
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	order, err := s.store.CreateOrder(ctx, &models.Order{
		OwnerID:   ownerID,
		RecipeIDs: lo.Map(recipes, func(r *models.Recipe, _ int) string { return r.ID }),
		Items:     items,
		Comment:   strings.TrimSpace(req.Comment),
		Contact:   strings.TrimSpace(req.Contact),
	})
	if err != nil {
		return nil, err
	}

	status, notifyErr := s.notify(ctx, order, recipes)
	if err := s.store.MarkOrderNotified(ctx, order.ID, status, notifyErr); err != nil {
		return nil, fmt.Errorf("failed to record notification: %w", err)
	}
	order.Status = status
	if notifyErr != nil {
		msg := notifyErr.Error()
		order.Error = &msg
	}

	return &PlacedOrder{Order: order, MissingRecipes: missing}, nil
}

func (s *OrderService) notify(ctx context.Context, order *models.Order, recipes []*models.Recipe) (models.OrderStatus, error) {
	log := s.log.WithField("order_id", order.ID)

	tg, err := s.store.GetTelegramConfig(ctx, s.encryptionKey)
	if err != nil {
		log.WithError(err).Error("Failed to load telegram settings")
		return models.OrderStatusFailed, err
	}
	if !tg.Configured() {
		log.Warn("Telegram is not configured, order not relayed")
		return models.OrderStatusSkipped, nil
	}

	if err := s.notifier.SendMessage(ctx, tg.BotToken, tg.ChatID, RenderOrderMessage(order, recipes)); err != nil {
		log.WithError(err).Error("Failed to send order notification")
		return models.OrderStatusFailed, err
	}

	log.Info("Order relayed to telegram")
	return models.OrderStatusSent, nil
}
