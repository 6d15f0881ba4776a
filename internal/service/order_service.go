package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/msrikanth38/90s-jar/internal/broker"
	"github.com/msrikanth38/90s-jar/internal/models"
	"github.com/msrikanth38/90s-jar/internal/store"
	"github.com/msrikanth38/90s-jar/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrOrderDelivered is returned when a placement reuses the id of an order
// that has already moved to history
var ErrOrderDelivered = errors.New("order already delivered")

// IdempotencyStore remembers placement responses by client-supplied key
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) ([]byte, bool, error)
	Remember(ctx context.Context, key string, payload []byte) error
}

// OrderService handles the order lifecycle: placement, edits, delivery and
// deletion.
type OrderService struct {
	store       *store.Store
	idempotency IdempotencyStore
	events      *broker.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewOrderService creates a new order service. idempotency may be nil, which
// disables replay of retried placements; events may be nil, which disables
// publishing.
func NewOrderService(store *store.Store, idempotency IdempotencyStore, events *broker.EventPublisher) *OrderService {
	if events == nil {
		events = broker.NewEventPublisher(broker.NewNoopProducer())
	}
	return &OrderService{
		store:       store,
		idempotency: idempotency,
		events:      events,
		logger:      util.GetLogger(),
		now:         time.Now,
	}
}

// OrderRequest is the body of order placement and order edits
type OrderRequest struct {
	ID              string           `json:"id"`
	OrderNumber     string           `json:"orderId"`
	CustomerName    string           `json:"customerName" binding:"required"`
	CustomerPhone   string           `json:"customerPhone"`
	CustomerEmail   string           `json:"customerEmail"`
	CustomerAddress string           `json:"customerAddress"`
	Items           models.LineItems `json:"items"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	Discount        decimal.Decimal  `json:"discount"`
	Total           decimal.Decimal  `json:"total"`
	Deadline        *string          `json:"deadline"`
	Notes           string           `json:"notes"`
	Status          string           `json:"status"`
}

// PlaceOrderResult is returned after a placement, and replayed verbatim for
// retries carrying the same idempotency key
type PlaceOrderResult struct {
	Success     bool   `json:"success"`
	ID          string `json:"id"`
	OrderNumber string `json:"orderId"`
}

// PlaceOrder records the order, decrements stock for inventory lines and
// credits the customer, all in one transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, req *OrderRequest, idempotencyKey string) (*PlaceOrderResult, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if result := s.replay(ctx, idempotencyKey); result != nil {
		return result, nil
	}

	start := time.Now()
	defer func() {
		util.OrderPlacementLatency.Observe(time.Since(start).Seconds())
	}()

	now := s.now()
	order := &models.Order{
		ID:              req.ID,
		OrderNumber:     req.OrderNumber,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		Items:           req.Items,
		Subtotal:        req.Subtotal,
		Discount:        req.Discount,
		Total:           req.Total,
		Deadline:        req.Deadline,
		Notes:           req.Notes,
		Status:          req.Status,
		CreatedAt:       util.Timestamp(now),
	}
	if order.ID == "" {
		order.ID = util.NewID()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = util.OrderNumber(now)
	}
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	if order.Items == nil {
		order.Items = models.LineItems{}
	}

	var stockLines []models.OrderItemData
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		// an id lives in orders or order_history, never both
		delivered, err := q.GetHistoryOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if delivered != nil {
			return fmt.Errorf("%w: %s", ErrOrderDelivered, order.ID)
		}

		if err := q.UpsertOrder(ctx, order); err != nil {
			return err
		}

		for _, item := range order.Items {
			if !item.ConsumesStock() {
				continue
			}
			if err := q.AdjustStock(ctx, item.ItemID, -item.Quantity); err != nil {
				return err
			}
			stockLines = append(stockLines, models.OrderItemData{ItemID: item.ItemID, Quantity: item.Quantity})
		}

		return s.creditCustomer(ctx, q, order, now)
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("place").Inc()
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	util.StockAdjustmentsTotal.WithLabelValues("order").Add(float64(len(stockLines)))
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("customer", order.CustomerName),
		zap.Int("stock_lines", len(stockLines)))

	event := &models.OrderPlacedEvent{
		BaseEvent:    s.newBaseEvent(models.EventTypeOrderPlaced, now),
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		Total:        order.Total,
		Items:        stockLines,
	}
	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.String("order_id", order.ID), zap.Error(err))
	}

	result := &PlaceOrderResult{Success: true, ID: order.ID, OrderNumber: order.OrderNumber}
	s.remember(ctx, idempotencyKey, result)
	return result, nil
}

// creditCustomer adds the order to the customer matched by name, or creates
// the customer on their first order.
func (s *OrderService) creditCustomer(ctx context.Context, q *store.Queries, order *models.Order, now time.Time) error {
	at := util.Timestamp(now)
	matched, err := q.RecordCustomerOrder(ctx, store.CustomerOrder{
		Name:    order.CustomerName,
		Phone:   order.CustomerPhone,
		Email:   order.CustomerEmail,
		Address: order.CustomerAddress,
		Total:   order.Total,
		At:      at,
	})
	if err != nil || matched {
		return err
	}

	return q.UpsertCustomer(ctx, &models.Customer{
		ID:          util.NewID(),
		Name:        order.CustomerName,
		Phone:       order.CustomerPhone,
		Email:       order.CustomerEmail,
		Address:     order.CustomerAddress,
		TotalOrders: 1,
		TotalSpent:  order.Total,
		CreatedAt:   at,
		LastOrder:   &at,
	})
}

func (s *OrderService) replay(ctx context.Context, key string) *PlaceOrderResult {
	if key == "" || s.idempotency == nil {
		return nil
	}

	payload, found, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn("Idempotency lookup failed, placing order", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}

	var result PlaceOrderResult
	if err := json.Unmarshal(payload, &result); err != nil {
		s.logger.Warn("Discarding unreadable idempotency entry", zap.String("key", key), zap.Error(err))
		return nil
	}

	util.OrderReplaysTotal.Inc()
	s.logger.Info("Duplicate order request detected",
		zap.String("idempotency_key", key),
		zap.String("order_id", result.ID))
	return &result
}

func (s *OrderService) remember(ctx context.Context, key string, result *PlaceOrderResult) {
	if key == "" || s.idempotency == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.idempotency.Remember(ctx, key, payload); err != nil {
		s.logger.Warn("Failed to store idempotency entry", zap.String("key", key), zap.Error(err))
	}
}

// UpdateOrder replaces the customer snapshot, items, pricing, deadline and
// notes of an open order. Unknown ids are a no-op.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, req *OrderRequest) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrder")
	defer span.End()

	items := req.Items
	if items == nil {
		items = models.LineItems{}
	}
	order := &models.Order{
		ID:              id,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		Items:           items,
		Subtotal:        req.Subtotal,
		Discount:        req.Discount,
		Total:           req.Total,
		Deadline:        req.Deadline,
		Notes:           req.Notes,
	}
	return s.store.UpdateOrderFields(ctx, order)
}

// SetStatus updates the status of an open order. Setting it to delivered
// moves the order into history instead; a missing order is left alone.
func (s *OrderService) SetStatus(ctx context.Context, id, status string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.SetStatus")
	defer span.End()

	if status == models.StatusDelivered {
		return s.deliver(ctx, id)
	}

	found, err := s.store.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !found {
		s.logger.Debug("Status change requested for unknown order", zap.String("order_id", id))
		return nil
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent: s.newBaseEvent(models.EventTypeOrderStatusChanged, s.now()),
		OrderID:   id,
		Status:    status,
	}
	if err := s.events.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.String("order_id", id), zap.Error(err))
	}
	return nil
}

// deliver copies the order into history and removes it from the open orders
// in one transaction
func (s *OrderService) deliver(ctx context.Context, id string) error {
	now := s.now()
	var delivered *models.Order

	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		order, err := q.GetOrder(ctx, id)
		if err != nil || order == nil {
			return err
		}

		deliveredAt := util.Timestamp(now)
		order.Status = models.StatusDelivered
		order.DeliveredAt = &deliveredAt
		if err := q.UpsertHistory(ctx, order); err != nil {
			return err
		}
		if _, err := q.DeleteOrder(ctx, id); err != nil {
			return err
		}
		delivered = order
		return nil
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("deliver").Inc()
		return fmt.Errorf("failed to deliver order: %w", err)
	}
	if delivered == nil {
		s.logger.Debug("Delivery requested for unknown order", zap.String("order_id", id))
		return nil
	}

	util.OrdersDeliveredTotal.Inc()
	s.logger.Info("Order delivered", zap.String("order_id", id), zap.String("order_number", delivered.OrderNumber))

	event := &models.OrderDeliveredEvent{
		BaseEvent:   s.newBaseEvent(models.EventTypeOrderDelivered, now),
		OrderID:     delivered.ID,
		OrderNumber: delivered.OrderNumber,
		Total:       delivered.Total,
		DeliveredAt: *delivered.DeliveredAt,
	}
	if err := s.events.PublishOrderDelivered(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderDelivered event", zap.String("order_id", id), zap.Error(err))
	}
	return nil
}

// DeleteOrder cancels an open order. Stock and customer totals are not
// restored.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.DeleteOrder")
	defer span.End()

	deleted, err := s.store.DeleteOrder(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		s.logger.Debug("Delete requested for unknown order", zap.String("order_id", id))
		return nil
	}
	util.OrdersDeletedTotal.Inc()

	event := &models.OrderDeletedEvent{
		BaseEvent: s.newBaseEvent(models.EventTypeOrderDeleted, s.now()),
		OrderID:   id,
	}
	if err := s.events.PublishOrderDeleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderDeleted event", zap.String("order_id", id), zap.Error(err))
	}
	return nil
}

// ListOrders returns open orders, newest first
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	return s.store.ListOrders(ctx)
}

// ListHistory returns delivered orders, most recent first
func (s *OrderService) ListHistory(ctx context.Context) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListHistory")
	defer span.End()

	return s.store.ListHistory(ctx)
}

// DeleteHistory removes a delivered order
func (s *OrderService) DeleteHistory(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.DeleteHistory")
	defer span.End()

	return s.store.DeleteHistory(ctx, id)
}

func (s *OrderService) newBaseEvent(eventType string, at time.Time) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: at,
	}
}
