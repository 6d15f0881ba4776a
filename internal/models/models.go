package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// money is emitted as JSON numbers, the way the front-end expects it
	decimal.MarshalJSONWithoutQuotes = true
}

// LowStockThreshold is the stock level at or below which an item counts as low.
const LowStockThreshold = 5

// Order statuses. The set is open; only StatusDelivered has workflow meaning.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
)

// Transaction types
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// InventoryItem is a sellable jar or snack packet
type InventoryItem struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Category     string          `db:"category" json:"category"`
	CostPrice    decimal.Decimal `db:"cost_price" json:"cost_price"`
	SellingPrice decimal.Decimal `db:"selling_price" json:"selling_price"`
	Stock        int             `db:"stock" json:"stock"`
	Unit         string          `db:"unit" json:"unit"`
	Description  string          `db:"description" json:"description"`
	ShelfLife    *int            `db:"shelf_life" json:"shelf_life"`
	CreatedAt    string          `db:"created_at" json:"created_at"`
}

// Customer is matched case-insensitively by name when orders are placed
type Customer struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Phone       string          `db:"phone" json:"phone"`
	Email       string          `db:"email" json:"email"`
	Address     string          `db:"address" json:"address"`
	Notes       string          `db:"notes" json:"notes"`
	TotalOrders int             `db:"total_orders" json:"total_orders"`
	TotalSpent  decimal.Decimal `db:"total_spent" json:"total_spent"`
	CreatedAt   string          `db:"created_at" json:"created_at"`
	LastOrder   *string         `db:"last_order" json:"last_order"`
}

// Order is an open customer order. The customer fields are a snapshot taken
// when the order is placed, not a reference to the customers table.
// Delivered orders live in order_history with the same shape.
type Order struct {
	ID              string          `db:"id" json:"id"`
	OrderNumber     string          `db:"order_id" json:"order_id"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	CustomerPhone   string          `db:"customer_phone" json:"customer_phone"`
	CustomerEmail   string          `db:"customer_email" json:"customer_email"`
	CustomerAddress string          `db:"customer_address" json:"customer_address"`
	Items           LineItems       `db:"items" json:"items"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	Discount        decimal.Decimal `db:"discount" json:"discount"`
	Total           decimal.Decimal `db:"total" json:"total"`
	Deadline        *string         `db:"deadline" json:"deadline"`
	Notes           string          `db:"notes" json:"notes"`
	Status          string          `db:"status" json:"status"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
	DeliveredAt     *string         `db:"delivered_at" json:"delivered_at"`
}

// Combo is a bundle sold at a fixed price
type Combo struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Description  string          `db:"description" json:"description"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Items        ComboItems      `db:"items" json:"items"`
	RegularTotal decimal.Decimal `db:"regular_total" json:"regular_total"`
	Savings      decimal.Decimal `db:"savings" json:"savings"`
	CreatedAt    string          `db:"created_at" json:"created_at"`
}

// Recipe describes how one batch of a product is made
type Recipe struct {
	ID                  string          `db:"id" json:"id"`
	Name                string          `db:"name" json:"name"`
	Category            string          `db:"category" json:"category"`
	BatchSize           string          `db:"batch_size" json:"batch_size"`
	TotalTime           string          `db:"total_time" json:"total_time"`
	Ingredients         Ingredients     `db:"ingredients" json:"ingredients"`
	Steps               Steps           `db:"steps" json:"steps"`
	Notes               string          `db:"notes" json:"notes"`
	TotalIngredientCost decimal.Decimal `db:"total_ingredient_cost" json:"total_ingredient_cost"`
	CreatedAt           string          `db:"created_at" json:"created_at"`
}

// Transaction is a bookkeeping entry
type Transaction struct {
	ID          string          `db:"id" json:"id"`
	Type        string          `db:"type" json:"type"`
	Category    string          `db:"category" json:"category"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Date        string          `db:"date" json:"date"`
	Description string          `db:"description" json:"description"`
	CreatedAt   string          `db:"created_at" json:"created_at"`
}

// Offer is a promotional discount
type Offer struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Type      string          `db:"type" json:"type"`
	Value     decimal.Decimal `db:"value" json:"value"`
	StartDate *string         `db:"start_date" json:"start_date"`
	EndDate   *string         `db:"end_date" json:"end_date"`
	Active    bool            `db:"active" json:"active"`
	CreatedAt string          `db:"created_at" json:"created_at"`
}

// Setting is one business preference stored as text
type Setting struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}

// Stats is the dashboard aggregate
type Stats struct {
	TodayOrders    int             `json:"todayOrders"`
	PendingOrders  int             `json:"pendingOrders"`
	TodayRevenue   decimal.Decimal `json:"todayRevenue"`
	LowStockCount  int             `json:"lowStockCount"`
	TotalCustomers int             `json:"totalCustomers"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
}

// Snapshot is a full copy of the eight resource tables
type Snapshot struct {
	Inventory    []InventoryItem `json:"inventory"`
	Customers    []Customer      `json:"customers"`
	Orders       []Order         `json:"orders"`
	OrderHistory []Order         `json:"order_history"`
	Combos       []Combo         `json:"combos"`
	Recipes      []Recipe        `json:"recipes"`
	Transactions []Transaction   `json:"transactions"`
	Offers       []Offer         `json:"offers"`
}
