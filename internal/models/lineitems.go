package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// JSONList is an ordered list stored as JSON text in a single column.
type JSONList[T any] []T

// Value implements driver.Valuer
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner. NULL and empty text decode to an empty list.
func (l *JSONList[T]) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into list", src)
	}
	return l.decode(raw)
}

// MarshalJSON keeps empty lists as [] rather than null.
func (l JSONList[T]) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(l))
}

// UnmarshalJSON accepts a JSON array, null, or a string holding an encoded
// array (the form raw table exports carry).
func (l *JSONList[T]) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return l.decode([]byte(text))
	}
	return l.decode(data)
}

func (l *JSONList[T]) decode(raw []byte) error {
	list := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		*l = list
		return nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("failed to decode list: %w", err)
	}
	*l = list
	return nil
}

// LineKind tells how a line item relates to inventory.
type LineKind string

const (
	// KindInventory lines reference an inventory item and consume its stock.
	KindInventory LineKind = "inventory"
	// KindCombo lines sell a combo; the chosen items are informational.
	KindCombo LineKind = "combo"
	// KindManual lines are free-text charges with an explicit price.
	KindManual LineKind = "manual"
)

// LineItem is one entry of an order. Keys the front-end sends beyond the
// modelled fields are kept in Extra and written back unchanged.
type LineItem struct {
	ItemID           string           `json:"itemId"`
	Name             string           `json:"name"`
	Price            decimal.Decimal  `json:"price"`
	Quantity         int              `json:"quantity"`
	Total            decimal.Decimal  `json:"total"`
	IsCombo          bool             `json:"isCombo"`
	IsManual         bool             `json:"isManual"`
	ComboItems       []ComboSelection `json:"comboItems,omitempty"`
	ComboDescription string           `json:"comboDescription,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type lineItemFields LineItem

var lineItemKeys = map[string]bool{
	"itemId": true, "name": true, "price": true, "quantity": true, "total": true,
	"isCombo": true, "isManual": true, "comboItems": true, "comboDescription": true,
}

// UnmarshalJSON decodes the modelled fields and keeps the rest in Extra.
func (li *LineItem) UnmarshalJSON(b []byte) error {
	var fields lineItemFields
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for k := range all {
		if lineItemKeys[k] {
			delete(all, k)
		}
	}
	if len(all) == 0 {
		all = nil
	}
	*li = LineItem(fields)
	li.Extra = all
	return nil
}

// MarshalJSON writes the modelled fields plus any extra keys.
func (li LineItem) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(lineItemFields(li))
	if err != nil || len(li.Extra) == 0 {
		return b, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	for k, v := range li.Extra {
		if !lineItemKeys[k] {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// Kind returns the variant of the line. Combo wins over manual when both
// flags are set; neither flag makes it an inventory line.
func (li LineItem) Kind() LineKind {
	switch {
	case li.IsCombo:
		return KindCombo
	case li.IsManual:
		return KindManual
	default:
		return KindInventory
	}
}

// ConsumesStock reports whether placing this line decrements inventory.
func (li LineItem) ConsumesStock() bool {
	return li.Kind() == KindInventory
}

// ComboSelection is an item picked for a combo line.
type ComboSelection struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ComboItem is an inventory item bundled into a combo.
type ComboItem struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// Ingredient is one recipe input. Quantity is free text such as "500g".
type Ingredient struct {
	Name     string          `json:"name"`
	Quantity string          `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

type (
	LineItems   = JSONList[LineItem]
	ComboItems  = JSONList[ComboItem]
	Ingredients = JSONList[Ingredient]
	Steps       = JSONList[string]
)
