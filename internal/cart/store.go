package cart

import (
	"context"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
)

// Store holds each session's pending cart entries. A missing or expired
// cart reads as empty; only Clear and TTL expiry remove one.
// Consumers define this interface, not the Redis implementation.
type Store interface {
	Get(ctx context.Context, sessionID string) ([]domain.CartEntry, error)
	Add(ctx context.Context, sessionID string, carID int64, quantity int) ([]domain.CartEntry, error)
	Clear(ctx context.Context, sessionID string) error
}
