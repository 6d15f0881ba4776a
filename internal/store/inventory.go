package store

import (
	"context"
	"fmt"

	"github.com/msrikanth38/90s-jar/internal/models"
)

var inventoryColumns = []string{
	"id", "name", "category", "cost_price", "selling_price", "stock",
	"unit", "description", "shelf_life", "created_at",
}

const selectInventory = `SELECT id, name, category, cost_price, selling_price, stock,
	COALESCE(unit, '') AS unit, COALESCE(description, '') AS description,
	shelf_life, COALESCE(created_at, '') AS created_at
	FROM inventory`

var (
	upsertInventorySQL  = insertQuery("inventory", inventoryColumns, conflictUpdate, "created_at")
	restoreInventorySQL = insertQuery("inventory", inventoryColumns, conflictUpdate)
	seedInventorySQL    = insertQuery("inventory", inventoryColumns, conflictIgnore)
)

// ListInventory returns every item ordered by name
func (q *Queries) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	items := []models.InventoryItem{}
	if err := q.selectAll(ctx, &items, selectInventory+" ORDER BY name"); err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// GetInventoryItem returns the item or nil when it does not exist
func (q *Queries) GetInventoryItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	found, err := q.getOptional(ctx, &item, selectInventory+" WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &item, nil
}

// CountInventory returns the number of inventory rows
func (q *Queries) CountInventory(ctx context.Context) (int, error) {
	n, err := q.count(ctx, "SELECT COUNT(*) FROM inventory")
	if err != nil {
		return 0, fmt.Errorf("failed to count inventory: %w", err)
	}
	return n, nil
}

// UpsertInventoryItem creates the item or replaces it, keeping created_at
func (q *Queries) UpsertInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	if err := q.namedExec(ctx, upsertInventorySQL, item); err != nil {
		return fmt.Errorf("failed to save inventory item: %w", err)
	}
	return nil
}

// RestoreInventoryItem writes every column as given
func (q *Queries) RestoreInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	if err := q.namedExec(ctx, restoreInventorySQL, item); err != nil {
		return fmt.Errorf("failed to restore inventory item: %w", err)
	}
	return nil
}

func (q *Queries) insertInventoryIfAbsent(ctx context.Context, item *models.InventoryItem) error {
	return q.namedExec(ctx, seedInventorySQL, item)
}

// DeleteInventoryItem removes the item; absent ids are not an error
func (q *Queries) DeleteInventoryItem(ctx context.Context, id string) error {
	if _, err := q.exec(ctx, "DELETE FROM inventory WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return nil
}

// AdjustStock adds delta to the item's stock. There is no floor, and an
// unknown id updates nothing.
func (q *Queries) AdjustStock(ctx context.Context, id string, delta int) error {
	if _, err := q.exec(ctx, "UPDATE inventory SET stock = stock + ? WHERE id = ?", delta, id); err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	return nil
}

// CountLowStock counts items at or below the threshold
func (q *Queries) CountLowStock(ctx context.Context, threshold int) (int, error) {
	n, err := q.count(ctx, "SELECT COUNT(*) FROM inventory WHERE stock <= ?", threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to count low stock: %w", err)
	}
	return n, nil
}
