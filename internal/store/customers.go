package store

import (
	"context"
	"fmt"

	"github.com/msrikanth38/90s-jar/internal/models"

	"github.com/shopspring/decimal"
)

var customerColumns = []string{
	"id", "name", "phone", "email", "address", "notes",
	"total_orders", "total_spent", "created_at", "last_order",
}

const selectCustomers = `SELECT id, name,
	COALESCE(phone, '') AS phone, COALESCE(email, '') AS email,
	COALESCE(address, '') AS address, COALESCE(notes, '') AS notes,
	COALESCE(total_orders, 0) AS total_orders, COALESCE(total_spent, 0) AS total_spent,
	COALESCE(created_at, '') AS created_at, last_order
	FROM customers`

var (
	// order aggregates belong to the order workflow and survive a profile edit
	upsertCustomerSQL = insertQuery("customers", customerColumns, conflictUpdate,
		"total_orders", "total_spent", "created_at", "last_order")
	restoreCustomerSQL = insertQuery("customers", customerColumns, conflictUpdate)
)

// ListCustomers returns customers, biggest spenders first
func (q *Queries) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	if err := q.selectAll(ctx, &customers, selectCustomers+" ORDER BY total_spent DESC"); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// FindCustomerByName matches case-insensitively and returns nil when absent
func (q *Queries) FindCustomerByName(ctx context.Context, name string) (*models.Customer, error) {
	var c models.Customer
	found, err := q.getOptional(ctx, &c, selectCustomers+" WHERE LOWER(name) = LOWER(?) ORDER BY created_at LIMIT 1", name)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &c, nil
}

// CountCustomers returns the number of customer rows
func (q *Queries) CountCustomers(ctx context.Context) (int, error) {
	n, err := q.count(ctx, "SELECT COUNT(*) FROM customers")
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

// UpsertCustomer creates the customer or replaces the profile fields
func (q *Queries) UpsertCustomer(ctx context.Context, c *models.Customer) error {
	if err := q.namedExec(ctx, upsertCustomerSQL, c); err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

// RestoreCustomer writes every column as given
func (q *Queries) RestoreCustomer(ctx context.Context, c *models.Customer) error {
	if err := q.namedExec(ctx, restoreCustomerSQL, c); err != nil {
		return fmt.Errorf("failed to restore customer: %w", err)
	}
	return nil
}

// DeleteCustomer removes the customer; absent ids are not an error
func (q *Queries) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := q.exec(ctx, "DELETE FROM customers WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// CustomerOrder is what an order contributes to its customer's record
type CustomerOrder struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Total   decimal.Decimal
	At      string
}

// RecordCustomerOrder adds the order to every customer whose name matches
// case-insensitively. Contact fields are only filled where the stored value
// is blank. It reports whether any customer matched.
func (q *Queries) RecordCustomerOrder(ctx context.Context, o CustomerOrder) (bool, error) {
	res, err := q.exec(ctx, `UPDATE customers SET
		total_orders = COALESCE(total_orders, 0) + 1,
		total_spent = COALESCE(total_spent, 0) + ?,
		last_order = ?,
		phone = COALESCE(NULLIF(phone, ''), NULLIF(?, ''), phone),
		email = COALESCE(NULLIF(email, ''), NULLIF(?, ''), email),
		address = COALESCE(NULLIF(address, ''), NULLIF(?, ''), address)
		WHERE LOWER(name) = LOWER(?)`,
		o.Total.InexactFloat64(), o.At, o.Phone, o.Email, o.Address, o.Name)
	if err != nil {
		return false, fmt.Errorf("failed to update customer totals: %w", err)
	}
	return affected(res, "update customer totals")
}
