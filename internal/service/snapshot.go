package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/msrikanth38/90s-jar/internal/models"

	"github.com/shopspring/decimal"
)

// ErrInvalidSnapshot marks import payloads that cannot be decoded
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// record is one imported row. Every value may be keyed by its column name
// (cost_price) or its API name (costPrice).
type record map[string]json.RawMessage

// camelCase turns a column name into the matching API field name
func camelCase(column string) string {
	parts := strings.Split(column, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// raw returns the first non-null value stored under the column or API name
func (r record) raw(column string) (json.RawMessage, bool) {
	for _, key := range []string{column, camelCase(column)} {
		v, ok := r[key]
		if ok && len(v) > 0 && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

type recordDecoder struct {
	table string
	index int
	err   error
}

func (d *recordDecoder) fail(column string, err error) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s[%d].%s: %v", ErrInvalidSnapshot, d.table, d.index, column, err)
	}
}

func (d *recordDecoder) str(r record, column string) string {
	v, ok := r.raw(column)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	// numbers and booleans keep their literal text
	if v[0] == '{' || v[0] == '[' {
		d.fail(column, errors.New("expected text"))
		return ""
	}
	return string(v)
}

func (d *recordDecoder) strPtr(r record, column string) *string {
	if _, ok := r.raw(column); !ok {
		return nil
	}
	s := d.str(r, column)
	return &s
}

func (d *recordDecoder) money(r record, column string) decimal.Decimal {
	v, ok := r.raw(column)
	if !ok {
		return decimal.Zero
	}
	var m decimal.Decimal
	if err := m.UnmarshalJSON(v); err != nil {
		d.fail(column, err)
	}
	return m
}

func (d *recordDecoder) intPtr(r record, column string) *int {
	v, ok := r.raw(column)
	if !ok {
		return nil
	}
	text := strings.Trim(string(v), `"`)
	if text == "" {
		return nil
	}
	if n, err := strconv.Atoi(text); err == nil {
		return &n
	}
	// whole numbers written as 3.0 are accepted, 2.7 is not
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) {
		d.fail(column, errors.New("expected an integer"))
		return nil
	}
	n := int(f)
	return &n
}

func (d *recordDecoder) integer(r record, column string) int {
	if n := d.intPtr(r, column); n != nil {
		return *n
	}
	return 0
}

func (d *recordDecoder) boolean(r record, column string, def bool) bool {
	v, ok := r.raw(column)
	if !ok {
		return def
	}
	switch strings.Trim(string(v), `"`) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	d.fail(column, errors.New("expected a boolean"))
	return def
}

func decodeList[T any](d *recordDecoder, r record, column string) models.JSONList[T] {
	list := models.JSONList[T]{}
	v, ok := r.raw(column)
	if !ok {
		return list
	}
	if err := list.UnmarshalJSON(v); err != nil {
		d.fail(column, err)
	}
	return list
}

func (d *recordDecoder) id(r record) string {
	return idOrNew(d.str(r, "id"))
}

func decodeRecords[T any](table string, rows []record, decode func(d *recordDecoder, r record) T) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, r := range rows {
		d := &recordDecoder{table: table, index: i}
		v := decode(d, r)
		if d.err != nil {
			return nil, d.err
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeInventory(d *recordDecoder, r record) models.InventoryItem {
	return models.InventoryItem{
		ID:           d.id(r),
		Name:         d.str(r, "name"),
		Category:     d.str(r, "category"),
		CostPrice:    d.money(r, "cost_price"),
		SellingPrice: d.money(r, "selling_price"),
		Stock:        d.integer(r, "stock"),
		Unit:         d.str(r, "unit"),
		Description:  d.str(r, "description"),
		ShelfLife:    d.intPtr(r, "shelf_life"),
		CreatedAt:    d.str(r, "created_at"),
	}
}

func decodeCustomer(d *recordDecoder, r record) models.Customer {
	return models.Customer{
		ID:          d.id(r),
		Name:        d.str(r, "name"),
		Phone:       d.str(r, "phone"),
		Email:       d.str(r, "email"),
		Address:     d.str(r, "address"),
		Notes:       d.str(r, "notes"),
		TotalOrders: d.integer(r, "total_orders"),
		TotalSpent:  d.money(r, "total_spent"),
		CreatedAt:   d.str(r, "created_at"),
		LastOrder:   d.strPtr(r, "last_order"),
	}
}

func decodeOrder(d *recordDecoder, r record) models.Order {
	return models.Order{
		ID:              d.id(r),
		OrderNumber:     d.str(r, "order_id"),
		CustomerName:    d.str(r, "customer_name"),
		CustomerPhone:   d.str(r, "customer_phone"),
		CustomerEmail:   d.str(r, "customer_email"),
		CustomerAddress: d.str(r, "customer_address"),
		Items:           decodeList[models.LineItem](d, r, "items"),
		Subtotal:        d.money(r, "subtotal"),
		Discount:        d.money(r, "discount"),
		Total:           d.money(r, "total"),
		Deadline:        d.strPtr(r, "deadline"),
		Notes:           d.str(r, "notes"),
		Status:          d.str(r, "status"),
		CreatedAt:       d.str(r, "created_at"),
		DeliveredAt:     d.strPtr(r, "delivered_at"),
	}
}

func decodeCombo(d *recordDecoder, r record) models.Combo {
	return models.Combo{
		ID:           d.id(r),
		Name:         d.str(r, "name"),
		Description:  d.str(r, "description"),
		Price:        d.money(r, "price"),
		Items:        decodeList[models.ComboItem](d, r, "items"),
		RegularTotal: d.money(r, "regular_total"),
		Savings:      d.money(r, "savings"),
		CreatedAt:    d.str(r, "created_at"),
	}
}

func decodeRecipe(d *recordDecoder, r record) models.Recipe {
	return models.Recipe{
		ID:                  d.id(r),
		Name:                d.str(r, "name"),
		Category:            d.str(r, "category"),
		BatchSize:           d.str(r, "batch_size"),
		TotalTime:           d.str(r, "total_time"),
		Ingredients:         decodeList[models.Ingredient](d, r, "ingredients"),
		Steps:               decodeList[string](d, r, "steps"),
		Notes:               d.str(r, "notes"),
		TotalIngredientCost: d.money(r, "total_ingredient_cost"),
		CreatedAt:           d.str(r, "created_at"),
	}
}

func decodeTransaction(d *recordDecoder, r record) models.Transaction {
	return models.Transaction{
		ID:          d.id(r),
		Type:        d.str(r, "type"),
		Category:    d.str(r, "category"),
		Amount:      d.money(r, "amount"),
		Date:        d.str(r, "date"),
		Description: d.str(r, "description"),
		CreatedAt:   d.str(r, "created_at"),
	}
}

func decodeOffer(d *recordDecoder, r record) models.Offer {
	return models.Offer{
		ID:        d.id(r),
		Name:      d.str(r, "name"),
		Type:      d.str(r, "type"),
		Value:     d.money(r, "value"),
		StartDate: d.strPtr(r, "start_date"),
		EndDate:   d.strPtr(r, "end_date"),
		Active:    d.boolean(r, "active", true),
		CreatedAt: d.str(r, "created_at"),
	}
}

// SnapshotPayload is the body of an import: table name to rows. Keys other
// than the resource tables are ignored.
type SnapshotPayload map[string]json.RawMessage

// decodeSnapshot converts the payload tables named in tables into typed rows
func decodeSnapshot(payload SnapshotPayload, tables []string) (*models.Snapshot, error) {
	snap := &models.Snapshot{}
	var err error
	for _, table := range tables {
		var rows []record
		if raw, ok := payload[table]; ok {
			if err := json.Unmarshal(raw, &rows); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, table, err)
			}
		}
		switch table {
		case "inventory":
			snap.Inventory, err = decodeRecords(table, rows, decodeInventory)
		case "customers":
			snap.Customers, err = decodeRecords(table, rows, decodeCustomer)
		case "orders":
			snap.Orders, err = decodeRecords(table, rows, decodeOrder)
		case "order_history":
			snap.OrderHistory, err = decodeRecords(table, rows, decodeOrder)
		case "combos":
			snap.Combos, err = decodeRecords(table, rows, decodeCombo)
		case "recipes":
			snap.Recipes, err = decodeRecords(table, rows, decodeRecipe)
		case "transactions":
			snap.Transactions, err = decodeRecords(table, rows, decodeTransaction)
		case "offers":
			snap.Offers, err = decodeRecords(table, rows, decodeOffer)
		}
		if err != nil {
			return nil, err
		}
	}
	return snap, nil
}
