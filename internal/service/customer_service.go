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

// CustomerService manages customer records edited directly through the API.
// Order placement maintains the aggregates separately.
type CustomerService struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewCustomerService creates a new customer service
func NewCustomerService(store *store.Store) *CustomerService {
	return &CustomerService{
		store:  store,
		logger: util.GetLogger(),
		now:    time.Now,
	}
}

// CustomerRequest is the body of a customer create or replace. The totals
// only take effect when the customer is new.
type CustomerRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" binding:"required"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Address     string          `json:"address"`
	Notes       string          `json:"notes"`
	TotalOrders int             `json:"totalOrders"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	LastOrder   *string         `json:"lastOrder"`
}

// ListCustomers returns customers, biggest spenders first
func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "CustomerService.ListCustomers")
	defer span.End()

	return s.store.ListCustomers(ctx)
}

// SaveCustomer creates or replaces a customer and returns its id
func (s *CustomerService) SaveCustomer(ctx context.Context, req *CustomerRequest) (string, error) {
	ctx, span := util.StartSpan(ctx, "CustomerService.SaveCustomer")
	defer span.End()

	c := &models.Customer{
		ID:          idOrNew(req.ID),
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Notes:       req.Notes,
		TotalOrders: req.TotalOrders,
		TotalSpent:  req.TotalSpent,
		CreatedAt:   util.Timestamp(s.now()),
		LastOrder:   req.LastOrder,
	}
	if err := s.store.UpsertCustomer(ctx, c); err != nil {
		return "", err
	}
	s.logger.Debug("Customer saved", zap.String("customer_id", c.ID), zap.String("name", c.Name))
	return c.ID, nil
}

// DeleteCustomer removes a customer. Their orders keep their snapshot.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CustomerService.DeleteCustomer")
	defer span.End()

	return s.store.DeleteCustomer(ctx, id)
}
