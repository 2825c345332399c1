package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
)

func newTestService(carts *MockCartStore, catalog *MockPriceFetcher, orders *MockOrderWriter, pub *MockPublisher) *Service {
	return NewService(carts, catalog, orders, pub, zap.NewNop())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCheckout_EmptySession(t *testing.T) {
	svc := newTestService(&MockCartStore{}, &MockPriceFetcher{}, &MockOrderWriter{}, &MockPublisher{})

	_, err := svc.Checkout(context.Background(), Request{SessionID: ""})
	assert.ErrorIs(t, err, ErrEmptySession)
}

func TestCheckout_EmptyCart(t *testing.T) {
	carts := &MockCartStore{Entries: nil}
	svc := newTestService(carts, &MockPriceFetcher{}, &MockOrderWriter{}, &MockPublisher{})

	_, err := svc.Checkout(context.Background(), Request{SessionID: "s1"})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, carts.Cleared, "failed checkout must not touch the cart")
}

func TestCheckout_Success(t *testing.T) {
	carts := &MockCartStore{Entries: []domain.CartEntry{{CarID: 1, Quantity: 2}}}
	catalog := &MockPriceFetcher{Prices: map[int64]decimal.Decimal{1: dec("19.99")}}
	orders := &MockOrderWriter{OrderID: 77}
	pub := &MockPublisher{}
	svc := newTestService(carts, catalog, orders, pub)

	orderID, err := svc.Checkout(context.Background(), Request{
		SessionID:     "s1",
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), orderID)

	// One ledger write with snapshotted prices.
	require.NotNil(t, orders.CreatedOrder)
	assert.True(t, orders.CreatedOrder.Total.Equal(dec("39.98")), "total = %s", orders.CreatedOrder.Total)
	require.Len(t, orders.CreatedItems, 1)
	assert.Equal(t, int64(1), orders.CreatedItems[0].CarID)
	assert.Equal(t, 2, orders.CreatedItems[0].Quantity)
	assert.True(t, orders.CreatedItems[0].Price.Equal(dec("19.99")))

	// One event attempted, then the cart cleared.
	require.Len(t, pub.Published, 1)
	assert.Equal(t, int64(77), pub.Published[0].OrderID)
	assert.Equal(t, "s1", pub.Published[0].SessionID)
	assert.True(t, pub.Published[0].Total.Equal(dec("39.98")))
	assert.Equal(t, []string{"s1"}, carts.Cleared)
}

func TestCheckout_MissingCatalogItemPricedZero(t *testing.T) {
	carts := &MockCartStore{Entries: []domain.CartEntry{
		{CarID: 1, Quantity: 1},
		{CarID: 999, Quantity: 3}, // not in catalog
	}}
	catalog := &MockPriceFetcher{Prices: map[int64]decimal.Decimal{1: dec("10.00")}}
	orders := &MockOrderWriter{OrderID: 1}
	svc := newTestService(carts, catalog, orders, &MockPublisher{})

	_, err := svc.Checkout(context.Background(), Request{SessionID: "s1"})
	require.NoError(t, err)

	// Documented leniency: the orphaned entry contributes zero to the total
	// and is persisted with a zero price snapshot.
	assert.True(t, orders.CreatedOrder.Total.Equal(dec("10.00")))
	require.Len(t, orders.CreatedItems, 2)
	assert.True(t, orders.CreatedItems[1].Price.IsZero())
}

func TestCheckout_PersistenceErrorLeavesCartIntact(t *testing.T) {
	carts := &MockCartStore{Entries: []domain.CartEntry{{CarID: 1, Quantity: 1}}}
	catalog := &MockPriceFetcher{Prices: map[int64]decimal.Decimal{1: dec("5.00")}}
	orders := &MockOrderWriter{Err: errors.New("connection reset")}
	pub := &MockPublisher{}
	svc := newTestService(carts, catalog, orders, pub)

	_, err := svc.Checkout(context.Background(), Request{SessionID: "s1"})

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorContains(t, perr.Err, "connection reset")
	assert.Empty(t, carts.Cleared, "cart must survive a failed transaction")
	assert.Empty(t, pub.Published, "no event for an order that was never committed")
}

func TestCheckout_PublishFailureIsSwallowed(t *testing.T) {
	carts := &MockCartStore{Entries: []domain.CartEntry{{CarID: 1, Quantity: 1}}}
	catalog := &MockPriceFetcher{Prices: map[int64]decimal.Decimal{1: dec("5.00")}}
	orders := &MockOrderWriter{OrderID: 5}
	pub := &MockPublisher{Err: errors.New("broker unreachable")}
	svc := newTestService(carts, catalog, orders, pub)

	orderID, err := svc.Checkout(context.Background(), Request{SessionID: "s1"})
	require.NoError(t, err, "publish failure must never fail the checkout")
	assert.Equal(t, int64(5), orderID)
	assert.Equal(t, []string{"s1"}, carts.Cleared, "cart clears even when publish fails")
}

func TestCheckout_CartGetError(t *testing.T) {
	carts := &MockCartStore{GetErr: errors.New("redis down")}
	svc := newTestService(carts, &MockPriceFetcher{}, &MockOrderWriter{}, &MockPublisher{})

	_, err := svc.Checkout(context.Background(), Request{SessionID: "s1"})
	require.ErrorContains(t, err, "reading cart")
	assert.NotErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_FetchPricesBatchesDistinctIDs(t *testing.T) {
	carts := &MockCartStore{Entries: []domain.CartEntry{
		{CarID: 3, Quantity: 1},
		{CarID: 8, Quantity: 2},
	}}
	catalog := &MockPriceFetcher{Prices: map[int64]decimal.Decimal{
		3: dec("1.50"),
		8: dec("2.25"),
	}}
	orders := &MockOrderWriter{OrderID: 2}
	svc := newTestService(carts, catalog, orders, &MockPublisher{})

	_, err := svc.Checkout(context.Background(), Request{SessionID: "s1"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{3, 8}, catalog.GotIDs)
	assert.True(t, orders.CreatedOrder.Total.Equal(dec("6.00")))
}
