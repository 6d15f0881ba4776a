package service

import (
	"context"
	"time"

	"github.com/msrikanth38/90s-jar/internal/models"
	"github.com/msrikanth38/90s-jar/internal/store"
	"github.com/msrikanth38/90s-jar/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Defaults applied to catalog requests that leave a field out
const (
	DefaultUnit           = "pcs"
	DefaultRecipeCategory = "pickles"
)

// CatalogService manages what the business sells and makes: inventory,
// combos and recipes
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
		now:    time.Now,
	}
}

// InventoryRequest is the body of an inventory create or replace
type InventoryRequest struct {
	ID           string           `json:"id"`
	Name         string           `json:"name" binding:"required"`
	Category     string           `json:"category" binding:"required"`
	CostPrice    *decimal.Decimal `json:"costPrice" binding:"required"`
	SellingPrice *decimal.Decimal `json:"sellingPrice" binding:"required"`
	Stock        *int             `json:"stock" binding:"required"`
	Unit         string           `json:"unit"`
	Description  string           `json:"description"`
	ShelfLife    *int             `json:"shelfLife"`
}

// StockRequest is the body of a stock adjustment
type StockRequest struct {
	Change *int `json:"change" binding:"required"`
}

// ComboRequest is the body of a combo create or replace
type ComboRequest struct {
	ID           string            `json:"id"`
	Name         string            `json:"name" binding:"required"`
	Description  string            `json:"description"`
	Price        *decimal.Decimal  `json:"price" binding:"required"`
	Items        models.ComboItems `json:"items"`
	RegularTotal decimal.Decimal   `json:"regularTotal"`
	Savings      decimal.Decimal   `json:"savings"`
}

// RecipeRequest is the body of a recipe create or replace
type RecipeRequest struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name" binding:"required"`
	Category            string             `json:"category"`
	BatchSize           string             `json:"batchSize"`
	TotalTime           string             `json:"totalTime"`
	Ingredients         models.Ingredients `json:"ingredients"`
	Steps               models.Steps       `json:"steps"`
	Notes               string             `json:"notes"`
	TotalIngredientCost decimal.Decimal    `json:"totalIngredientCost"`
}

// ListInventory returns every item ordered by name
func (s *CatalogService) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListInventory")
	defer span.End()

	return s.store.ListInventory(ctx)
}

// SaveInventoryItem creates or replaces an item and returns its id
func (s *CatalogService) SaveInventoryItem(ctx context.Context, req *InventoryRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SaveInventoryItem")
	defer span.End()

	item := &models.InventoryItem{
		ID:           idOrNew(req.ID),
		Name:         req.Name,
		Category:     req.Category,
		CostPrice:    *req.CostPrice,
		SellingPrice: *req.SellingPrice,
		Stock:        *req.Stock,
		Unit:         orDefault(req.Unit, DefaultUnit),
		Description:  req.Description,
		ShelfLife:    req.ShelfLife,
		CreatedAt:    util.Timestamp(s.now()),
	}
	if err := s.store.UpsertInventoryItem(ctx, item); err != nil {
		return "", err
	}
	return item.ID, nil
}

// DeleteInventoryItem removes an item
func (s *CatalogService) DeleteInventoryItem(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteInventoryItem")
	defer span.End()

	return s.store.DeleteInventoryItem(ctx, id)
}

// AdjustStock adds change (which may be negative) to an item's stock
func (s *CatalogService) AdjustStock(ctx context.Context, id string, change int) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.AdjustStock")
	defer span.End()

	if err := s.store.AdjustStock(ctx, id, change); err != nil {
		return err
	}
	util.StockAdjustmentsTotal.WithLabelValues("manual").Inc()
	s.logger.Debug("Stock adjusted", zap.String("item_id", id), zap.Int("change", change))
	return nil
}

// ListCombos returns combos ordered by name
func (s *CatalogService) ListCombos(ctx context.Context) ([]models.Combo, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListCombos")
	defer span.End()

	return s.store.ListCombos(ctx)
}

// SaveCombo creates or replaces a combo and returns its id
func (s *CatalogService) SaveCombo(ctx context.Context, req *ComboRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SaveCombo")
	defer span.End()

	combo := &models.Combo{
		ID:           idOrNew(req.ID),
		Name:         req.Name,
		Description:  req.Description,
		Price:        *req.Price,
		Items:        req.Items,
		RegularTotal: req.RegularTotal,
		Savings:      req.Savings,
		CreatedAt:    util.Timestamp(s.now()),
	}
	if err := s.store.UpsertCombo(ctx, combo); err != nil {
		return "", err
	}
	return combo.ID, nil
}

// DeleteCombo removes a combo
func (s *CatalogService) DeleteCombo(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteCombo")
	defer span.End()

	return s.store.DeleteCombo(ctx, id)
}

// ListRecipes returns recipes ordered by name
func (s *CatalogService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListRecipes")
	defer span.End()

	return s.store.ListRecipes(ctx)
}

// SaveRecipe creates or replaces a recipe and returns its id
func (s *CatalogService) SaveRecipe(ctx context.Context, req *RecipeRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SaveRecipe")
	defer span.End()

	recipe := &models.Recipe{
		ID:                  idOrNew(req.ID),
		Name:                req.Name,
		Category:            orDefault(req.Category, DefaultRecipeCategory),
		BatchSize:           req.BatchSize,
		TotalTime:           req.TotalTime,
		Ingredients:         req.Ingredients,
		Steps:               req.Steps,
		Notes:               req.Notes,
		TotalIngredientCost: req.TotalIngredientCost,
		CreatedAt:           util.Timestamp(s.now()),
	}
	if err := s.store.UpsertRecipe(ctx, recipe); err != nil {
		return "", err
	}
	return recipe.ID, nil
}

// DeleteRecipe removes a recipe
func (s *CatalogService) DeleteRecipe(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteRecipe")
	defer span.End()

	return s.store.DeleteRecipe(ctx, id)
}

func idOrNew(id string) string {
	if id == "" {
		return util.NewID()
	}
	return id
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
