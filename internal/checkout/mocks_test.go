package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
)

// MockCartStore implements CartStore for testing
type MockCartStore struct {
	Entries  []domain.CartEntry
	GetErr   error
	ClearErr error
	Cleared  []string // session ids passed to Clear
}

func (m *MockCartStore) Get(_ context.Context, _ string) ([]domain.CartEntry, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Entries, nil
}

func (m *MockCartStore) Clear(_ context.Context, sessionID string) error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Cleared = append(m.Cleared, sessionID)
	return nil
}

// MockPriceFetcher implements PriceFetcher for testing
type MockPriceFetcher struct {
	Prices map[int64]decimal.Decimal
	Err    error
	GotIDs []int64
}

func (m *MockPriceFetcher) FetchPrices(_ context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	m.GotIDs = ids
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Prices, nil
}

// MockOrderWriter implements OrderWriter for testing
type MockOrderWriter struct {
	OrderID      int64
	Err          error
	CreatedOrder *domain.Order
	CreatedItems []domain.OrderItem
}

func (m *MockOrderWriter) Create(_ context.Context, order *domain.Order, items []domain.OrderItem) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.CreatedOrder = order
	m.CreatedItems = items
	return m.OrderID, nil
}

// MockPublisher implements EventPublisher for testing
type MockPublisher struct {
	Err       error
	Published []domain.OrderCreatedEvent
}

func (m *MockPublisher) PublishOrderCreated(_ context.Context, event domain.OrderCreatedEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.Published = append(m.Published, event)
	return nil
}
