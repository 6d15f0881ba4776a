package service

import (
	"context"
	"testing"

	"github.com/msrikanth38/90s-jar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTransactionDefaults(t *testing.T) {
	svc := NewFinanceService(newTestStore(t))
	svc.now = clock
	ctx := context.Background()

	id, err := svc.SaveTransaction(ctx, &TransactionRequest{Type: models.TransactionExpense, Amount: decPtr("18.40")})
	require.NoError(t, err)

	_, err = svc.SaveTransaction(ctx, &TransactionRequest{Type: models.TransactionIncome, Category: "sales", Amount: decPtr("40"), Date: "2024-04-30"})
	require.NoError(t, err)

	txns, err := svc.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, id, txns[0].ID)
	assert.Equal(t, "2024-05-05", txns[0].Date)
	assert.Equal(t, DefaultTransactionCategory, txns[0].Category)
	assert.True(t, txns[0].Amount.Equal(dec("18.4")))

	require.NoError(t, svc.DeleteTransaction(ctx, id))
	txns, err = svc.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestSaveOfferDefaults(t *testing.T) {
	svc := NewFinanceService(newTestStore(t))
	svc.now = clock
	ctx := context.Background()

	inactive := false
	_, err := svc.SaveOffer(ctx, &OfferRequest{Name: "Festival", Value: dec("10"), StartDate: strPtr("2024-10-01")})
	require.NoError(t, err)
	paused, err := svc.SaveOffer(ctx, &OfferRequest{Name: "Paused", Type: "fixed", Value: dec("2"), Active: &inactive})
	require.NoError(t, err)

	offers, err := svc.ListOffers(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 2)

	byName := map[string]models.Offer{}
	for _, o := range offers {
		byName[o.Name] = o
	}
	assert.Equal(t, DefaultOfferType, byName["Festival"].Type)
	assert.True(t, byName["Festival"].Active)
	assert.Nil(t, byName["Festival"].EndDate)
	assert.False(t, byName["Paused"].Active)

	require.NoError(t, svc.DeleteOffer(ctx, paused))
	offers, err = svc.ListOffers(ctx)
	require.NoError(t, err)
	assert.Len(t, offers, 1)
}
