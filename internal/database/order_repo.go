package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/recipepad/internal/models"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidOrderState = errors.New("invalid order status")
)

const orderColumns = `id, owner_id, recipe_ids, items, comment, contact, status, error, notified_at, created_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	o := &models.Order{}
	err := row.Scan(
		&o.ID, &o.OwnerID, &o.RecipeIDs, &o.Items, &o.Comment, &o.Contact,
		&o.Status, &o.Error, &o.NotifiedAt, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// CreateOrder stores a new pending order
func (db *DB) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	created, err := scanOrder(db.Pool.QueryRow(ctx, `
		INSERT INTO orders (owner_id, recipe_ids, items, comment, contact, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+orderColumns,
		o.OwnerID, textArray(o.RecipeIDs), textArray(o.Items), o.Comment, o.Contact, models.OrderStatusPending,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return created, nil
}

// ListOrders returns orders, newest first
func (db *DB) ListOrders(ctx context.Context, params *models.ListOrderParams) ([]*models.Order, int, error) {
	where := " WHERE ($1 = '' OR status = $1) AND ($2 = '' OR owner_id = $2)"
	args := []any{string(params.Status), params.OwnerID}

	var total int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders`+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// GetOrder retrieves a single order
func (db *DB) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	o, err := scanOrder(db.Pool.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// UpdateOrderStatus sets the order status, used by the admin to mark orders done
func (db *DB) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderState
	}

	o, err := scanOrder(db.Pool.QueryRow(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1
		RETURNING `+orderColumns,
		id, status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// MarkOrderNotified records the outcome of the notification attempt. A nil
// notifyErr with status sent also stamps notified_at.
func (db *DB) MarkOrderNotified(ctx context.Context, id int, status models.OrderStatus, notifyErr error) error {
	var errText *string
	if notifyErr != nil {
		s := notifyErr.Error()
		errText = &s
	}

	result, err := db.Pool.Exec(ctx, `
		UPDATE orders
		SET status = $2,
		    error = $3,
		    notified_at = CASE WHEN $2 = 'sent' THEN NOW() ELSE notified_at END
		WHERE id = $1
	`, id, status, errText)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}
