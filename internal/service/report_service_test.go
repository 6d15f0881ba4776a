package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/msrikanth38/90s-jar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	st := newTestStore(t)
	orders := NewOrderService(st, nil, nil)
	finance := NewFinanceService(st)
	finance.now = clock
	reports := NewReportService(st)
	reports.now = clock
	ctx := context.Background()

	orders.now = func() time.Time { return fixedNow.Add(-24 * time.Hour) }
	_, err := orders.PlaceOrder(ctx, pickleOrder("Ravi", 2), "")
	require.NoError(t, err)

	orders.now = clock
	delivered, err := orders.PlaceOrder(ctx, pickleOrder("Asha", 3), "")
	require.NoError(t, err)
	_, err = orders.PlaceOrder(ctx, pickleOrder("ravi", 1), "")
	require.NoError(t, err)
	require.NoError(t, orders.SetStatus(ctx, delivered.ID, models.StatusDelivered))

	require.NoError(t, st.AdjustStock(ctx, "pickle6", -4))

	_, err = finance.SaveTransaction(ctx, &TransactionRequest{Type: models.TransactionExpense, Amount: decPtr("7.5")})
	require.NoError(t, err)
	_, err = finance.SaveTransaction(ctx, &TransactionRequest{Type: models.TransactionExpense, Amount: decPtr("2.5")})
	require.NoError(t, err)
	_, err = finance.SaveTransaction(ctx, &TransactionRequest{Type: models.TransactionIncome, Amount: decPtr("100")})
	require.NoError(t, err)

	stats, err := reports.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TodayOrders)
	assert.Equal(t, 2, stats.PendingOrders)
	assert.True(t, stats.TodayRevenue.Equal(dec("5")), stats.TodayRevenue.String())
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 2, stats.TotalCustomers)
	assert.True(t, stats.TotalRevenue.Equal(dec("30")), stats.TotalRevenue.String())
	assert.True(t, stats.TotalExpenses.Equal(dec("10")), stats.TotalExpenses.String())
}

func TestStatsEmptyDatabase(t *testing.T) {
	reports := NewReportService(newTestStore(t))
	stats, err := reports.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TodayOrders)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.True(t, stats.TotalExpenses.IsZero())
}

// seedActivity fills every resource table with at least one row
func seedActivity(t *testing.T, reports *ReportService) {
	t.Helper()
	st := reports.store
	ctx := context.Background()

	orders := NewOrderService(st, nil, nil)
	orders.now = clock
	catalog := NewCatalogService(st)
	finance := NewFinanceService(st)

	delivered, err := orders.PlaceOrder(ctx, pickleOrder("Asha", 3), "")
	require.NoError(t, err)
	require.NoError(t, orders.SetStatus(ctx, delivered.ID, models.StatusDelivered))
	_, err = orders.PlaceOrder(ctx, pickleOrder("Ravi", 1), "")
	require.NoError(t, err)

	_, err = catalog.SaveRecipe(ctx, &RecipeRequest{Name: "Avakaya", Steps: models.Steps{"Cut", "Mix"}, Ingredients: models.Ingredients{{Name: "Mango", Quantity: "2kg", Cost: dec("6")}}})
	require.NoError(t, err)
	_, err = finance.SaveTransaction(ctx, &TransactionRequest{Type: models.TransactionExpense, Amount: decPtr("12")})
	require.NoError(t, err)
	inactive := false
	_, err = finance.SaveOffer(ctx, &OfferRequest{Name: "Paused", Value: dec("5"), Active: &inactive})
	require.NoError(t, err)
}

func exportPayload(t *testing.T, snap *models.Snapshot) SnapshotPayload {
	t.Helper()
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	var payload SnapshotPayload
	require.NoError(t, json.Unmarshal(b, &payload))
	return payload
}

func TestExportImportRoundTrip(t *testing.T) {
	source := NewReportService(newTestStore(t))
	seedActivity(t, source)
	ctx := context.Background()

	snap, err := source.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Inventory, 14)
	assert.Len(t, snap.Customers, 2)
	assert.Len(t, snap.Orders, 1)
	assert.Len(t, snap.OrderHistory, 1)
	assert.Len(t, snap.Combos, 2)
	assert.Len(t, snap.Recipes, 1)
	assert.Len(t, snap.Transactions, 1)
	assert.Len(t, snap.Offers, 1)

	target := NewReportService(newTestStore(t))
	counts, err := target.Import(ctx, exportPayload(t, snap), "")
	require.NoError(t, err)
	assert.Equal(t, 14, counts["inventory"])
	assert.Equal(t, 1, counts["order_history"])

	restored, err := target.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, restored)
}

func TestImportInventoryScopeClearsEverythingElse(t *testing.T) {
	reports := NewReportService(newTestStore(t))
	seedActivity(t, reports)
	ctx := context.Background()

	require.NoError(t, reports.store.PutSetting(ctx, "shopName", "90's Jar"))

	payload := SnapshotPayload{
		"inventory": json.RawMessage(`[
			{"id": "jar1", "name": "Garlic Pickle", "category": "pickles", "costPrice": 2, "sellingPrice": "4.50", "stock": "7", "shelfLife": 90, "createdAt": "2024-01-01T00:00:00.000000"},
			{"name": "Karam Podi", "category": "powders", "cost_price": 1.25, "selling_price": 3, "stock": 11, "unit": "pack", "shelf_life": null}
		]`),
		"customers": json.RawMessage(`[{"id": "ignored", "name": "Not restored"}]`),
	}
	counts, err := reports.Import(ctx, payload, ImportScopeInventory)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["inventory"])
	assert.Equal(t, 0, counts["customers"])

	snap, err := reports.Export(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Inventory, 2)
	assert.Empty(t, snap.Customers)
	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.OrderHistory)
	assert.Empty(t, snap.Combos)
	assert.Empty(t, snap.Recipes)
	assert.Empty(t, snap.Transactions)
	assert.Empty(t, snap.Offers)

	garlic := snap.Inventory[0]
	assert.Equal(t, "jar1", garlic.ID)
	assert.True(t, garlic.SellingPrice.Equal(dec("4.5")))
	assert.Equal(t, 7, garlic.Stock)
	assert.Equal(t, 90, *garlic.ShelfLife)
	assert.Equal(t, "2024-01-01T00:00:00.000000", garlic.CreatedAt)

	podi := snap.Inventory[1]
	assert.Len(t, podi.ID, 12)
	assert.Equal(t, "pack", podi.Unit)
	assert.Nil(t, podi.ShelfLife)

	settings, err := reports.store.ListSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, 1)
}

func TestImportAcceptsEncodedNestedFields(t *testing.T) {
	reports := NewReportService(newTestStore(t))
	ctx := context.Background()

	payload := SnapshotPayload{
		"orders": json.RawMessage(`[{
			"id": "o1", "orderId": "ORD-090000", "customerName": "Asha",
			"items": "[{\"itemId\":\"pickle1\",\"name\":\"Mango Pickle (Avakaya)\",\"price\":5,\"quantity\":3,\"total\":15,\"isCombo\":false}]",
			"total": 15, "status": "pending", "created_at": "2024-05-05T09:00:00.000000"
		}]`),
		"recipes":    json.RawMessage(`[{"id": "r1", "name": "Avakaya", "steps": "[\"Cut\",\"Mix\"]", "ingredients": []}]`),
		"offers":     json.RawMessage(`[{"id": "f1", "name": "Old", "active": 0}, {"id": "f2", "name": "New"}]`),
		"exportedAt": json.RawMessage(`"2024-05-05"`),
	}
	_, err := reports.Import(ctx, payload, ImportScopeAll)
	require.NoError(t, err)

	snap, err := reports.Export(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "ORD-090000", snap.Orders[0].OrderNumber)
	require.Len(t, snap.Orders[0].Items, 1)
	assert.Equal(t, 3, snap.Orders[0].Items[0].Quantity)
	assert.Equal(t, models.Steps{"Cut", "Mix"}, snap.Recipes[0].Steps)
	assert.Empty(t, snap.Inventory)

	active := map[string]bool{}
	for _, o := range snap.Offers {
		active[o.ID] = o.Active
	}
	assert.False(t, active["f1"])
	assert.True(t, active["f2"])
}

func TestImportRejectsBadPayload(t *testing.T) {
	reports := NewReportService(newTestStore(t))
	ctx := context.Background()

	_, err := reports.Import(ctx, SnapshotPayload{"inventory": json.RawMessage(`{"id": 1}`)}, "")
	assert.True(t, errors.Is(err, ErrInvalidSnapshot))

	_, err = reports.Import(ctx, SnapshotPayload{"inventory": json.RawMessage(`[{"name": "x", "stock": "many"}]`)}, "")
	assert.True(t, errors.Is(err, ErrInvalidSnapshot))

	_, err = reports.Import(ctx, SnapshotPayload{"inventory": json.RawMessage(`[{"name": "x", "stock": 2.7}]`)}, "")
	assert.True(t, errors.Is(err, ErrInvalidSnapshot))

	_, err = reports.Import(ctx, SnapshotPayload{}, "everything")
	assert.True(t, errors.Is(err, ErrInvalidSnapshot))

	// nothing was cleared
	n, err := reports.store.CountInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 14, n)
}

func TestImportAcceptsWholeFloats(t *testing.T) {
	reports := NewReportService(newTestStore(t))
	ctx := context.Background()

	counts, err := reports.Import(ctx, SnapshotPayload{
		"inventory": json.RawMessage(`[{"id": "jar1", "name": "Lime", "stock": 3.0, "shelfLife": "30"}]`),
	}, ImportScopeInventory)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["inventory"])

	item, err := reports.store.GetInventoryItem(ctx, "jar1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 3, item.Stock)
	require.NotNil(t, item.ShelfLife)
	assert.Equal(t, 30, *item.ShelfLife)
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "costPrice", camelCase("cost_price"))
	assert.Equal(t, "totalIngredientCost", camelCase("total_ingredient_cost"))
	assert.Equal(t, "orderId", camelCase("order_id"))
	assert.Equal(t, "name", camelCase("name"))
}
