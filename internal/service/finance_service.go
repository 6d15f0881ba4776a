package service

import (
	"context"
	"time"

	"github.com/msrikanth38/90s-jar/internal/models"
	"github.com/msrikanth38/90s-jar/internal/store"
	"github.com/msrikanth38/90s-jar/internal/util"

	"github.com/shopspring/decimal"
)

// Defaults applied to finance requests that leave a field out
const (
	DefaultTransactionCategory = "other"
	DefaultOfferType           = "percentage"
)

// FinanceService manages bookkeeping entries and promotional offers
type FinanceService struct {
	store *store.Store
	now   func() time.Time
}

// NewFinanceService creates a new finance service
func NewFinanceService(store *store.Store) *FinanceService {
	return &FinanceService{store: store, now: time.Now}
}

// TransactionRequest is the body of a transaction create or replace
type TransactionRequest struct {
	ID          string           `json:"id"`
	Type        string           `json:"type" binding:"required,oneof=income expense"`
	Category    string           `json:"category"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
}

// OfferRequest is the body of an offer create or replace
type OfferRequest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name" binding:"required"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	StartDate *string         `json:"startDate"`
	EndDate   *string         `json:"endDate"`
	Active    *bool           `json:"active"`
}

// ListTransactions returns entries, latest date first
func (s *FinanceService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	ctx, span := util.StartSpan(ctx, "FinanceService.ListTransactions")
	defer span.End()

	return s.store.ListTransactions(ctx)
}

// SaveTransaction records an entry and returns its id. The date defaults to
// today.
func (s *FinanceService) SaveTransaction(ctx context.Context, req *TransactionRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "FinanceService.SaveTransaction")
	defer span.End()

	now := s.now()
	txn := &models.Transaction{
		ID:          idOrNew(req.ID),
		Type:        req.Type,
		Category:    orDefault(req.Category, DefaultTransactionCategory),
		Amount:      *req.Amount,
		Date:        orDefault(req.Date, util.Date(now)),
		Description: req.Description,
		CreatedAt:   util.Timestamp(now),
	}
	if err := s.store.UpsertTransaction(ctx, txn); err != nil {
		return "", err
	}
	return txn.ID, nil
}

// DeleteTransaction removes an entry
func (s *FinanceService) DeleteTransaction(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "FinanceService.DeleteTransaction")
	defer span.End()

	return s.store.DeleteTransaction(ctx, id)
}

// ListOffers returns offers, newest first
func (s *FinanceService) ListOffers(ctx context.Context) ([]models.Offer, error) {
	ctx, span := util.StartSpan(ctx, "FinanceService.ListOffers")
	defer span.End()

	return s.store.ListOffers(ctx)
}

// SaveOffer creates or replaces an offer and returns its id. Offers are
// active unless the request says otherwise.
func (s *FinanceService) SaveOffer(ctx context.Context, req *OfferRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "FinanceService.SaveOffer")
	defer span.End()

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	offer := &models.Offer{
		ID:        idOrNew(req.ID),
		Name:      req.Name,
		Type:      orDefault(req.Type, DefaultOfferType),
		Value:     req.Value,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Active:    active,
		CreatedAt: util.Timestamp(s.now()),
	}
	if err := s.store.UpsertOffer(ctx, offer); err != nil {
		return "", err
	}
	return offer.ID, nil
}

// DeleteOffer removes an offer
func (s *FinanceService) DeleteOffer(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "FinanceService.DeleteOffer")
	defer span.End()

	return s.store.DeleteOffer(ctx, id)
}
