package api

import (
	"context"
	"errors"

	"github.com/shaydevops2024/e-commerce-car-store/internal/checkout"
	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
	"github.com/shaydevops2024/e-commerce-car-store/internal/orders"
)

type mockCatalog struct {
	cars []domain.Car
	err  error
}

func (m *mockCatalog) List(ctx context.Context) ([]domain.Car, error) {
	return m.cars, m.err
}

type mockCartStore struct {
	entries map[string][]domain.CartEntry
	err     error
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{entries: make(map[string][]domain.CartEntry)}
}

func (m *mockCartStore) Get(ctx context.Context, sessionID string) ([]domain.CartEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	items, ok := m.entries[sessionID]
	if !ok {
		return []domain.CartEntry{}, nil
	}
	return items, nil
}

func (m *mockCartStore) Add(ctx context.Context, sessionID string, carID int64, quantity int) ([]domain.CartEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	items := m.entries[sessionID]
	for i := range items {
		if items[i].CarID == carID {
			items[i].Quantity += quantity
			m.entries[sessionID] = items
			return items, nil
		}
	}
	items = append(items, domain.CartEntry{CarID: carID, Quantity: quantity})
	m.entries[sessionID] = items
	return items, nil
}

func (m *mockCartStore) Clear(ctx context.Context, sessionID string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.entries, sessionID)
	return nil
}

type mockCheckout struct {
	orderID int64
	err     error
	gotReq  checkout.Request
	calls   int
}

func (m *mockCheckout) Checkout(ctx context.Context, req checkout.Request) (int64, error) {
	m.calls++
	m.gotReq = req
	if m.err != nil {
		return 0, m.err
	}
	return m.orderID, nil
}

type mockOrderReader struct {
	order *domain.Order
	items []domain.OrderItem
	err   error
}

func (m *mockOrderReader) GetByID(ctx context.Context, id int64) (*domain.Order, []domain.OrderItem, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	if m.order == nil || m.order.ID != id {
		return nil, nil, orders.ErrOrderNotFound
	}
	return m.order, m.items, nil
}

var errBoom = errors.New("boom")
