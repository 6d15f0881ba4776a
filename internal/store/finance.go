package store

import (
	"context"
	"fmt"

	"github.com/msrikanth38/90s-jar/internal/models"

	"github.com/shopspring/decimal"
)

var transactionColumns = []string{
	"id", "type", "category", "amount", "date", "description", "created_at",
}

const selectTransactions = `SELECT id, type, COALESCE(category, '') AS category, amount,
	COALESCE(date, '') AS date, COALESCE(description, '') AS description,
	COALESCE(created_at, '') AS created_at
	FROM transactions`

var offerColumns = []string{
	"id", "name", "type", "value", "start_date", "end_date", "active", "created_at",
}

const selectOffers = `SELECT id, name, COALESCE(type, '') AS type, COALESCE(value, 0) AS value,
	start_date, end_date, COALESCE(active, 1) AS active, COALESCE(created_at, '') AS created_at
	FROM offers`

var (
	upsertTransactionSQL  = insertQuery("transactions", transactionColumns, conflictUpdate, "created_at")
	restoreTransactionSQL = insertQuery("transactions", transactionColumns, conflictUpdate)
	upsertOfferSQL        = insertQuery("offers", offerColumns, conflictUpdate, "created_at")
	restoreOfferSQL       = insertQuery("offers", offerColumns, conflictUpdate)
)

// offerRow stores active as the integer flag the column holds
type offerRow struct {
	*models.Offer
	Active int `db:"active"`
}

func toOfferRow(o *models.Offer) offerRow {
	row := offerRow{Offer: o}
	if o.Active {
		row.Active = 1
	}
	return row
}

// ListTransactions returns entries, latest date first
func (q *Queries) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	txns := []models.Transaction{}
	if err := q.selectAll(ctx, &txns, selectTransactions+" ORDER BY date DESC"); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// UpsertTransaction creates the entry or replaces it, keeping created_at
func (q *Queries) UpsertTransaction(ctx context.Context, t *models.Transaction) error {
	if err := q.namedExec(ctx, upsertTransactionSQL, t); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// RestoreTransaction writes every column as given
func (q *Queries) RestoreTransaction(ctx context.Context, t *models.Transaction) error {
	if err := q.namedExec(ctx, restoreTransactionSQL, t); err != nil {
		return fmt.Errorf("failed to restore transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes the entry; absent ids are not an error
func (q *Queries) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := q.exec(ctx, "DELETE FROM transactions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// SumTransactions totals the amounts of one transaction type
func (q *Queries) SumTransactions(ctx context.Context, txnType string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := q.get(ctx, &sum, "SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = ?", txnType); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return sum, nil
}

// ListOffers returns offers, newest first
func (q *Queries) ListOffers(ctx context.Context) ([]models.Offer, error) {
	offers := []models.Offer{}
	if err := q.selectAll(ctx, &offers, selectOffers+" ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}

// UpsertOffer creates the offer or replaces it, keeping created_at
func (q *Queries) UpsertOffer(ctx context.Context, o *models.Offer) error {
	if err := q.namedExec(ctx, upsertOfferSQL, toOfferRow(o)); err != nil {
		return fmt.Errorf("failed to save offer: %w", err)
	}
	return nil
}

// RestoreOffer writes every column as given
func (q *Queries) RestoreOffer(ctx context.Context, o *models.Offer) error {
	if err := q.namedExec(ctx, restoreOfferSQL, toOfferRow(o)); err != nil {
		return fmt.Errorf("failed to restore offer: %w", err)
	}
	return nil
}

// DeleteOffer removes the offer; absent ids are not an error
func (q *Queries) DeleteOffer(ctx context.Context, id string) error {
	if _, err := q.exec(ctx, "DELETE FROM offers WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	return nil
}
