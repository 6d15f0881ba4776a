package store

import (
	"context"
	"fmt"
	"time"

	"github.com/msrikanth38/90s-jar/internal/models"
	"github.com/msrikanth38/90s-jar/internal/util"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// baseline catalog written into an empty database
var seedInventory = []models.InventoryItem{
	{ID: "pickle1", Name: "Mango Pickle (Avakaya)", Category: "pickles", CostPrice: price("2.50"), SellingPrice: price("5.00"), Stock: 20, Unit: "90g jar", Description: "Traditional Telugu style mango pickle", ShelfLife: intPtr(180)},
	{ID: "pickle2", Name: "Lemon Pickle", Category: "pickles", CostPrice: price("2.50"), SellingPrice: price("5.00"), Stock: 15, Unit: "90g jar", Description: "Tangy homemade lemon pickle", ShelfLife: intPtr(180)},
	{ID: "pickle3", Name: "Gongura Pickle", Category: "pickles", CostPrice: price("2.50"), SellingPrice: price("5.00"), Stock: 15, Unit: "90g jar", Description: "Authentic Andhra gongura pickle", ShelfLife: intPtr(180)},
	{ID: "pickle4", Name: "Prawns Pickle", Category: "pickles", CostPrice: price("3.00"), SellingPrice: price("5.00"), Stock: 10, Unit: "90g jar", Description: "Spicy prawns pickle", ShelfLife: intPtr(90)},
	{ID: "pickle5", Name: "Chicken Pickle", Category: "pickles", CostPrice: price("3.00"), SellingPrice: price("5.00"), Stock: 10, Unit: "90g jar", Description: "Delicious chicken pickle", ShelfLife: intPtr(90)},
	{ID: "pickle6", Name: "Mutton Pickle", Category: "pickles", CostPrice: price("3.50"), SellingPrice: price("5.00"), Stock: 8, Unit: "90g jar", Description: "Rich mutton pickle", ShelfLife: intPtr(90)},
	{ID: "snack1", Name: "Chakkalu", Category: "snacks", CostPrice: price("3.00"), SellingPrice: price("6.00"), Stock: 25, Unit: "packet", Description: "Crispy rice flour chakralu", ShelfLife: intPtr(30)},
	{ID: "snack2", Name: "Janthikalu", Category: "snacks", CostPrice: price("3.00"), SellingPrice: price("6.00"), Stock: 25, Unit: "packet", Description: "Traditional janthikalu snack", ShelfLife: intPtr(30)},
	{ID: "snack3", Name: "Boondi", Category: "snacks", CostPrice: price("2.50"), SellingPrice: price("5.00"), Stock: 20, Unit: "packet", Description: "Crispy gram flour boondi", ShelfLife: intPtr(30)},
	{ID: "snack4", Name: "Gavvalu", Category: "snacks", CostPrice: price("3.00"), SellingPrice: price("6.00"), Stock: 20, Unit: "packet", Description: "Shell shaped sweet snack", ShelfLife: intPtr(30)},
	{ID: "snack5", Name: "Gulabilu", Category: "snacks", CostPrice: price("3.50"), SellingPrice: price("7.00"), Stock: 15, Unit: "packet", Description: "Rose shaped sweet gulabilu", ShelfLife: intPtr(30)},
	{ID: "snack6", Name: "Kobbari Laddu", Category: "snacks", CostPrice: price("4.00"), SellingPrice: price("8.00"), Stock: 15, Unit: "packet", Description: "Coconut laddu", ShelfLife: intPtr(15)},
	{ID: "snack7", Name: "Ravva Laddu", Category: "snacks", CostPrice: price("3.50"), SellingPrice: price("7.00"), Stock: 15, Unit: "packet", Description: "Semolina laddu", ShelfLife: intPtr(15)},
	{ID: "snack8", Name: "Kajjikayalu", Category: "snacks", CostPrice: price("4.00"), SellingPrice: price("8.00"), Stock: 15, Unit: "packet", Description: "Sweet stuffed kajjikayalu", ShelfLife: intPtr(15)},
}

var seedCombos = []models.Combo{
	{ID: "combo1", Name: "Any 4 Items Combo", Description: "Choose any 4 items from our snacks collection!", Price: price("22.00"), Items: models.ComboItems{}, RegularTotal: price("24.00"), Savings: price("2.00")},
	{ID: "combo2", Name: "Any 2 Items Combo", Description: "Choose any 2 items from our snacks collection!", Price: price("15.00"), Items: models.ComboItems{}, RegularTotal: price("12.00"), Savings: price("0.00")},
}

// seed writes the baseline catalog when inventory is empty. Rows that already
// exist are left untouched.
func (s *Store) seed(ctx context.Context) error {
	n, err := s.CountInventory(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := util.Timestamp(time.Now())
	return s.WithTx(ctx, func(q *Queries) error {
		for _, item := range seedInventory {
			item.CreatedAt = now
			if err := q.insertInventoryIfAbsent(ctx, &item); err != nil {
				return fmt.Errorf("failed to seed inventory: %w", err)
			}
		}
		for _, combo := range seedCombos {
			combo.CreatedAt = now
			if err := q.insertComboIfAbsent(ctx, &combo); err != nil {
				return fmt.Errorf("failed to seed combos: %w", err)
			}
		}
		return nil
	})
}
