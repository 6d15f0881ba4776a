package store

import (
	"context"
	"fmt"

	"github.com/msrikanth38/90s-jar/internal/models"
)

var orderColumns = []string{
	"id", "order_id", "customer_name", "customer_phone", "customer_email",
	"customer_address", "items", "subtotal", "discount", "total", "deadline",
	"notes", "status", "created_at", "delivered_at",
}

const orderFields = `id, COALESCE(order_id, '') AS order_id, customer_name,
	COALESCE(customer_phone, '') AS customer_phone, COALESCE(customer_email, '') AS customer_email,
	COALESCE(customer_address, '') AS customer_address, items,
	COALESCE(subtotal, 0) AS subtotal, COALESCE(discount, 0) AS discount, COALESCE(total, 0) AS total,
	deadline, COALESCE(notes, '') AS notes, COALESCE(status, '') AS status,
	COALESCE(created_at, '') AS created_at, delivered_at`

var (
	// placing an order again under the same id refreshes the priced content
	// and status; the customer snapshot and number stay as first recorded
	upsertOrderSQL = insertQuery("orders", orderColumns, conflictUpdate,
		"order_id", "customer_name", "customer_phone", "customer_email", "customer_address",
		"deadline", "created_at", "delivered_at")
	restoreOrderSQL  = insertQuery("orders", orderColumns, conflictUpdate)
	upsertHistorySQL = insertQuery("order_history", orderColumns, conflictUpdate)
)

// ListOrders returns open orders, newest first
func (q *Queries) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := q.selectAll(ctx, &orders, "SELECT "+orderFields+" FROM orders ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns the open order or nil when it does not exist
func (q *Queries) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	found, err := q.getOptional(ctx, &o, "SELECT "+orderFields+" FROM orders WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &o, nil
}

// UpsertOrder inserts the order, or refreshes an existing one with the same id
func (q *Queries) UpsertOrder(ctx context.Context, o *models.Order) error {
	if err := q.namedExec(ctx, upsertOrderSQL, o); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// RestoreOrder writes every column as given
func (q *Queries) RestoreOrder(ctx context.Context, o *models.Order) error {
	if err := q.namedExec(ctx, restoreOrderSQL, o); err != nil {
		return fmt.Errorf("failed to restore order: %w", err)
	}
	return nil
}

// UpdateOrderFields replaces the mutable content of an order. The id, number,
// status and created_at are untouched. Unknown ids update nothing.
func (q *Queries) UpdateOrderFields(ctx context.Context, o *models.Order) error {
	_, err := q.exec(ctx, `UPDATE orders SET customer_name = ?, customer_phone = ?, customer_email = ?,
		customer_address = ?, items = ?, subtotal = ?, discount = ?, total = ?, deadline = ?, notes = ?
		WHERE id = ?`,
		o.CustomerName, o.CustomerPhone, o.CustomerEmail, o.CustomerAddress, o.Items,
		o.Subtotal, o.Discount, o.Total, o.Deadline, o.Notes, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// UpdateOrderStatus sets the status field only and reports whether the
// order exists
func (q *Queries) UpdateOrderStatus(ctx context.Context, id, status string) (bool, error) {
	res, err := q.exec(ctx, "UPDATE orders SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	return affected(res, "update order status")
}

// DeleteOrder removes an open order and reports whether it existed; absent
// ids are not an error
func (q *Queries) DeleteOrder(ctx context.Context, id string) (bool, error) {
	res, err := q.exec(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete order: %w", err)
	}
	return affected(res, "delete order")
}

// CountOrdersCreatedOn counts open orders whose created_at starts with date
func (q *Queries) CountOrdersCreatedOn(ctx context.Context, date string) (int, error) {
	n, err := q.count(ctx, "SELECT COUNT(*) FROM orders WHERE created_at LIKE ?", date+"%")
	if err != nil {
		return 0, fmt.Errorf("failed to count today's orders: %w", err)
	}
	return n, nil
}

// CountOrdersNotInStatus counts open orders whose status differs from status
func (q *Queries) CountOrdersNotInStatus(ctx context.Context, status string) (int, error) {
	n, err := q.count(ctx, "SELECT COUNT(*) FROM orders WHERE status <> ?", status)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending orders: %w", err)
	}
	return n, nil
}

// ListHistory returns delivered orders, most recently delivered first
func (q *Queries) ListHistory(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := q.selectAll(ctx, &orders, "SELECT "+orderFields+" FROM order_history ORDER BY delivered_at DESC"); err != nil {
		return nil, fmt.Errorf("failed to list order history: %w", err)
	}
	return orders, nil
}

// GetHistoryOrder returns the delivered order or nil when it does not exist
func (q *Queries) GetHistoryOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	found, err := q.getOptional(ctx, &o, "SELECT "+orderFields+" FROM order_history WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get history order: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &o, nil
}

// UpsertHistory writes a delivered order, replacing any row with the same id
func (q *Queries) UpsertHistory(ctx context.Context, o *models.Order) error {
	if err := q.namedExec(ctx, upsertHistorySQL, o); err != nil {
		return fmt.Errorf("failed to save order history: %w", err)
	}
	return nil
}

// DeleteHistory removes a delivered order; absent ids are not an error
func (q *Queries) DeleteHistory(ctx context.Context, id string) error {
	if _, err := q.exec(ctx, "DELETE FROM order_history WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete order history: %w", err)
	}
	return nil
}
