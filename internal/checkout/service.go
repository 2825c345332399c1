package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
	"github.com/shaydevops2024/e-commerce-car-store/internal/metrics"
)

// CartStore is the slice of the cart store checkout needs.
type CartStore interface {
	Get(ctx context.Context, sessionID string) ([]domain.CartEntry, error)
	Clear(ctx context.Context, sessionID string) error
}

type PriceFetcher interface {
	FetchPrices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error)
}

type OrderWriter interface {
	Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error)
}

// EventPublisher hands the order-created event to the notification channel.
// Checkout treats publishing as best-effort.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error
}

type Request struct {
	SessionID     string
	CustomerName  string
	CustomerEmail string
}

type Service struct {
	carts     CartStore
	catalog   PriceFetcher
	orders    OrderWriter
	publisher EventPublisher
	logger    *zap.Logger
}

func NewService(carts CartStore, catalog PriceFetcher, orders OrderWriter, publisher EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		carts:     carts,
		catalog:   catalog,
		orders:    orders,
		publisher: publisher,
		logger:    logger,
	}
}

// Checkout turns the session cart into a persisted order. The ledger write
// is the only transactional step; the event publish and the cart clear run
// after commit and never undo it.
func (s *Service) Checkout(ctx context.Context, req Request) (int64, error) {
	if req.SessionID == "" {
		return 0, ErrEmptySession
	}

	entries, err := s.carts.Get(ctx, req.SessionID)
	if err != nil {
		return 0, fmt.Errorf("reading cart: %w", err)
	}
	if len(entries) == 0 {
		return 0, ErrEmptyCart
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.CarID)
	}
	prices, err := s.catalog.FetchPrices(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("fetching prices: %w", err)
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, 0, len(entries))
	for _, e := range entries {
		price, ok := prices[e.CarID]
		if !ok {
			// Deliberate leniency: a cart entry whose car vanished from the
			// catalog is priced at zero rather than failing the checkout.
			price = decimal.Zero
			metrics.UnpricedItems.Inc()
			s.logger.Warn("cart entry not found in catalog, priced at zero",
				zap.Int64("car_id", e.CarID),
				zap.String("session_id", req.SessionID),
			)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(e.Quantity))))
		items = append(items, domain.OrderItem{
			CarID:    e.CarID,
			Quantity: e.Quantity,
			Price:    price,
		})
	}

	order := &domain.Order{
		Total:         total,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}
	orderID, err := s.orders.Create(ctx, order, items)
	if err != nil {
		return 0, &PersistenceError{Err: err}
	}

	// The order is durably committed from here on: publish and cart clear
	// failures are logged and swallowed.
	event := domain.OrderCreatedEvent{
		OrderID:       orderID,
		SessionID:     req.SessionID,
		Items:         entries,
		Total:         total,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("order created event publish failed",
			zap.Error(err),
			zap.Int64("order_id", orderID),
		)
	} else {
		metrics.OrdersPublished.Inc()
	}

	if err := s.carts.Clear(ctx, req.SessionID); err != nil {
		s.logger.Error("failed to clear cart after checkout",
			zap.Error(err),
			zap.String("session_id", req.SessionID),
		)
	}

	s.logger.Info("order created",
		zap.Int64("order_id", orderID),
		zap.String("total", total.String()),
		zap.Int("items", len(items)),
	)
	return orderID, nil
}
