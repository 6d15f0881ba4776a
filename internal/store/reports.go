package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ResourceTables lists the tables covered by export and import, in export order.
var ResourceTables = []string{
	"inventory", "customers", "orders", "order_history",
	"combos", "recipes", "transactions", "offers",
}

// SumOrderTotals totals open orders, optionally only those created on date
// (empty date means all).
func (q *Queries) SumOrderTotals(ctx context.Context, date string) (decimal.Decimal, error) {
	query := "SELECT COALESCE(SUM(total), 0) FROM orders"
	var args []interface{}
	if date != "" {
		query += " WHERE created_at LIKE ?"
		args = append(args, date+"%")
	}

	var sum decimal.Decimal
	if err := q.get(ctx, &sum, query, args...); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum order totals: %w", err)
	}
	return sum, nil
}

// SumHistoryTotals totals every delivered order
func (q *Queries) SumHistoryTotals(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := q.get(ctx, &sum, "SELECT COALESCE(SUM(total), 0) FROM order_history"); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum history totals: %w", err)
	}
	return sum, nil
}

// ClearResources empties every export/import table. Settings are kept.
func (q *Queries) ClearResources(ctx context.Context) error {
	for _, table := range ResourceTables {
		// table names come from the fixed list above
		if _, err := q.exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
