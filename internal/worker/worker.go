package worker

import (
	"context"
	"fmt"

	"github.com/msrikanth38/90s-jar/internal/broker"
	"github.com/msrikanth38/90s-jar/internal/models"
	"github.com/msrikanth38/90s-jar/internal/store"
	"github.com/msrikanth38/90s-jar/internal/util"

	"go.uber.org/zap"
)

// StockAlertWorker watches placed orders and flags the inventory they
// drained to the low-stock threshold or below
type StockAlertWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	logger       *zap.Logger
}

// NewStockAlertWorker creates a new stock alert worker. consumer may be nil
// when events are fed to HandleOrderPlaced directly.
func NewStockAlertWorker(consumer *broker.Consumer, store *store.Store) *StockAlertWorker {
	w := &StockAlertWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		store:        store,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnOrderPlaced(func(ctx context.Context, event *models.OrderPlacedEvent) error {
		_, err := w.HandleOrderPlaced(ctx, event)
		return err
	})
	return w
}

// Start consumes order events until ctx is cancelled
func (w *StockAlertWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting stock alert worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockAlertWorker) Stop() error {
	w.logger.Info("Stopping stock alert worker")
	return w.consumer.Close()
}

// HandleOrderPlaced re-reads every item the order consumed and returns the
// ones now at or below the threshold. The low-stock gauge is set for those
// and cleared for the rest.
func (w *StockAlertWorker) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) ([]models.InventoryItem, error) {
	ctx, span := util.StartSpan(ctx, "StockAlertWorker.HandleOrderPlaced")
	defer span.End()

	var low []models.InventoryItem
	seen := make(map[string]bool, len(event.Items))
	for _, line := range event.Items {
		if seen[line.ItemID] {
			continue
		}
		seen[line.ItemID] = true

		item, err := w.store.GetInventoryItem(ctx, line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to check stock for %s: %w", line.ItemID, err)
		}
		if item == nil {
			util.LowStockItems.DeleteLabelValues(line.ItemID)
			continue
		}

		if item.Stock > models.LowStockThreshold {
			util.LowStockItems.DeleteLabelValues(item.ID)
			continue
		}

		util.LowStockItems.WithLabelValues(item.ID).Set(float64(item.Stock))
		w.logger.Warn("Low stock",
			zap.String("item_id", item.ID),
			zap.String("name", item.Name),
			zap.Int("stock", item.Stock),
			zap.String("order_id", event.OrderID))
		low = append(low, *item)
	}
	return low, nil
}
