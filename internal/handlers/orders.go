package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/recipepad/internal/database"
	"github.com/foxxcyber/recipepad/internal/middleware"
	"github.com/foxxcyber/recipepad/internal/models"
	"github.com/foxxcyber/recipepad/internal/services"
)

// PlaceOrder relays a shopping list to the admin
// POST /api/orders
func (h *Handler) PlaceOrder(c *fiber.Ctx) error {
	if h.orders == nil {
		return Error(c, fiber.StatusServiceUnavailable, "orders are not available")
	}

	var req models.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	ownerID := middleware.GetOwnerID(c)
	if req.Personal && ownerID == "" {
		return Error(c, fiber.StatusUnauthorized, "owner id required")
	}

	placed, err := h.orders.PlaceOrder(c.Context(), ownerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrdersDisabled):
			return Error(c, fiber.StatusForbidden, "orders are disabled")
		case errors.Is(err, services.ErrEmptyOrder):
			return Error(c, fiber.StatusBadRequest, "order has no items")
		}
		return h.internalError(c, err, "failed to place order")
	}

	return Created(c, placed)
}

// AdminListOrders lists orders, optionally filtered by status or owner
// GET /api/admin/orders
func (h *Handler) AdminListOrders(c *fiber.Ctx) error {
	limit, offset := pagination(c, 50, 100)
	params := &models.ListOrderParams{
		Limit:   limit,
		Offset:  offset,
		Status:  models.OrderStatus(c.Query("status")),
		OwnerID: c.Query("owner_id"),
	}
	if params.Status != "" && !params.Status.Valid() {
		return Error(c, fiber.StatusBadRequest, "invalid status")
	}

	orders, total, err := h.store.ListOrders(c.Context(), params)
	if err != nil {
		return h.internalError(c, err, "failed to list orders")
	}

	return SuccessWithMeta(c, orders, total, params.Limit, params.Offset)
}

// AdminGetOrder returns a single order
// GET /api/admin/orders/:id
func (h *Handler) AdminGetOrder(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid order id")
	}

	order, err := h.store.GetOrder(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrOrderNotFound) {
			return Error(c, fiber.StatusNotFound, "order not found")
		}
		return h.internalError(c, err, "failed to get order")
	}

	return Success(c, order)
}

// AdminUpdateOrderStatus changes an order's status
// PUT /api/admin/orders/:id/status
func (h *Handler) AdminUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid order id")
	}

	var req models.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.store.UpdateOrderStatus(c.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrInvalidOrderState):
			return Error(c, fiber.StatusBadRequest, "invalid status")
		case errors.Is(err, database.ErrOrderNotFound):
			return Error(c, fiber.StatusNotFound, "order not found")
		}
		return h.internalError(c, err, "failed to update order")
	}

	return Success(c, order)
}
