package service

import (
	"context"
	"fmt"
	"time"

	"github.com/msrikanth38/90s-jar/internal/models"
	"github.com/msrikanth38/90s-jar/internal/store"
	"github.com/msrikanth38/90s-jar/internal/util"

	"go.uber.org/zap"
)

// Import scopes
const (
	ImportScopeAll       = "all"
	ImportScopeInventory = "inventory"
)

// ReportService computes dashboard figures and moves whole-database
// snapshots in and out
type ReportService struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewReportService creates a new report service
func NewReportService(store *store.Store) *ReportService {
	return &ReportService{
		store:  store,
		logger: util.GetLogger(),
		now:    time.Now,
	}
}

// Stats computes the dashboard aggregate on demand
func (s *ReportService) Stats(ctx context.Context) (*models.Stats, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Stats")
	defer span.End()

	today := util.Date(s.now())
	stats := &models.Stats{}
	var err error

	if stats.TodayOrders, err = s.store.CountOrdersCreatedOn(ctx, today); err != nil {
		return nil, err
	}
	if stats.PendingOrders, err = s.store.CountOrdersNotInStatus(ctx, models.StatusDelivered); err != nil {
		return nil, err
	}
	if stats.TodayRevenue, err = s.store.SumOrderTotals(ctx, today); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.store.CountLowStock(ctx, models.LowStockThreshold); err != nil {
		return nil, err
	}
	if stats.TotalCustomers, err = s.store.CountCustomers(ctx); err != nil {
		return nil, err
	}

	openRevenue, err := s.store.SumOrderTotals(ctx, "")
	if err != nil {
		return nil, err
	}
	deliveredRevenue, err := s.store.SumHistoryTotals(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = openRevenue.Add(deliveredRevenue)

	if stats.TotalExpenses, err = s.store.SumTransactions(ctx, models.TransactionExpense); err != nil {
		return nil, err
	}
	return stats, nil
}

// Export reads all eight resource tables in one transaction
func (s *ReportService) Export(ctx context.Context) (*models.Snapshot, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Export")
	defer span.End()

	snap := &models.Snapshot{}
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		var err error
		if snap.Inventory, err = q.ListInventory(ctx); err != nil {
			return err
		}
		if snap.Customers, err = q.ListCustomers(ctx); err != nil {
			return err
		}
		if snap.Orders, err = q.ListOrders(ctx); err != nil {
			return err
		}
		if snap.OrderHistory, err = q.ListHistory(ctx); err != nil {
			return err
		}
		if snap.Combos, err = q.ListCombos(ctx); err != nil {
			return err
		}
		if snap.Recipes, err = q.ListRecipes(ctx); err != nil {
			return err
		}
		if snap.Transactions, err = q.ListTransactions(ctx); err != nil {
			return err
		}
		snap.Offers, err = q.ListOffers(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export: %w", err)
	}
	return snap, nil
}

// Import replaces the database contents with payload in one transaction.
// All eight resource tables are cleared; scope decides which of them are
// refilled from the payload. Settings are not touched.
func (s *ReportService) Import(ctx context.Context, payload SnapshotPayload, scope string) (map[string]int, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Import")
	defer span.End()

	var tables []string
	switch scope {
	case "", ImportScopeAll:
		scope = ImportScopeAll
		tables = store.ResourceTables
	case ImportScopeInventory:
		tables = []string{"inventory"}
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", ErrInvalidSnapshot, scope)
	}

	snap, err := decodeSnapshot(payload, tables)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(q *store.Queries) error {
		if err := q.ClearResources(ctx); err != nil {
			return err
		}
		return restoreSnapshot(ctx, q, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import: %w", err)
	}

	counts := map[string]int{
		"inventory":     len(snap.Inventory),
		"customers":     len(snap.Customers),
		"orders":        len(snap.Orders),
		"order_history": len(snap.OrderHistory),
		"combos":        len(snap.Combos),
		"recipes":       len(snap.Recipes),
		"transactions":  len(snap.Transactions),
		"offers":        len(snap.Offers),
	}
	util.ImportsTotal.WithLabelValues(scope).Inc()
	s.logger.Info("Snapshot imported", zap.String("scope", scope), zap.Any("rows", counts))
	return counts, nil
}

func restoreSnapshot(ctx context.Context, q *store.Queries, snap *models.Snapshot) error {
	for i := range snap.Inventory {
		if err := q.RestoreInventoryItem(ctx, &snap.Inventory[i]); err != nil {
			return err
		}
	}
	for i := range snap.Customers {
		if err := q.RestoreCustomer(ctx, &snap.Customers[i]); err != nil {
			return err
		}
	}
	for i := range snap.Orders {
		if err := q.RestoreOrder(ctx, &snap.Orders[i]); err != nil {
			return err
		}
	}
	for i := range snap.OrderHistory {
		if err := q.UpsertHistory(ctx, &snap.OrderHistory[i]); err != nil {
			return err
		}
	}
	for i := range snap.Combos {
		if err := q.RestoreCombo(ctx, &snap.Combos[i]); err != nil {
			return err
		}
	}
	for i := range snap.Recipes {
		if err := q.RestoreRecipe(ctx, &snap.Recipes[i]); err != nil {
			return err
		}
	}
	for i := range snap.Transactions {
		if err := q.RestoreTransaction(ctx, &snap.Transactions[i]); err != nil {
			return err
		}
	}
	for i := range snap.Offers {
		if err := q.RestoreOffer(ctx, &snap.Offers[i]); err != nil {
			return err
		}
	}
	return nil
}
