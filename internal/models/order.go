package models

import (
	"time"
)

// OrderStatus represents the delivery state of an order
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusSent    OrderStatus = "sent"
	OrderStatusFailed  OrderStatus = "failed"
	OrderStatusSkipped OrderStatus = "skipped" // Notification channel not configured
	OrderStatusDone    OrderStatus = "done"    // Handled by the admin
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusSent, OrderStatusFailed, OrderStatusSkipped, OrderStatusDone:
		return true
	}
	return false
}

// Order is a shopping list relayed to the admin
type Order struct {
	ID         int         `json:"id"`
	OwnerID    string      `json:"owner_id"`
	RecipeIDs  []string    `json:"recipe_ids"`
	Items      []string    `json:"items"`
	Comment    string      `json:"comment,omitempty"`
	Contact    string      `json:"contact,omitempty"`
	Status     OrderStatus `json:"status"`
	Error      *string     `json:"error,omitempty"`
	NotifiedAt *time.Time  `json:"notified_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Request types

// CreateOrderRequest is the request body for placing an order
type CreateOrderRequest struct {
	RecipeIDs []string `json:"recipe_ids"`
	Lines     []string `json:"lines"`
	Comment   string   `json:"comment"`
	Contact   string   `json:"contact"`
	Personal  bool     `json:"personal"`
}

// UpdateOrderStatusRequest is the request body for changing an order's status
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// ListOrderParams contains parameters for listing orders
type ListOrderParams struct {
	Limit   int
	Offset  int
	Status  OrderStatus // Optional
	OwnerID string      // Optional
}
