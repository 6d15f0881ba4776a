package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeOrderDelivered     = "ORDER_DELIVERED"
	EventTypeOrderDeleted       = "ORDER_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published after an order placement commits
type OrderPlacedEvent struct {
	BaseEvent
	OrderID      string          `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	Items        []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published for non-delivery status updates
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// OrderDeliveredEvent published when an order moves to history
type OrderDeliveredEvent struct {
	BaseEvent
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
	DeliveredAt string          `json:"delivered_at"`
}

// OrderDeletedEvent published when an open order is removed
type OrderDeletedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
}

// OrderItemData represents a stock-consuming line in events
type OrderItemData struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}
