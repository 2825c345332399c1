package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
)

// TTL is the absolute cart lifetime. Every write resets the full window;
// reads do not extend it.
const TTL = 24 * time.Hour

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    TTL,
	}
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]domain.CartEntry, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.CartEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var entries []domain.CartEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return entries, nil
}

// Add merges the quantity into an existing entry for the car or appends a
// new one, then persists with a fresh 24h TTL. There is no compare-and-swap:
// two concurrent Adds for one session are last-write-wins.
func (s *RedisStore) Add(ctx context.Context, sessionID string, carID int64, quantity int) ([]domain.CartEntry, error) {
	entries, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range entries {
		if entries[i].CarID == carID {
			entries[i].Quantity += quantity
			found = true
		}
	}
	if !found {
		entries = append(entries, domain.CartEntry{CarID: carID, Quantity: quantity})
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("redis set failed: %w", err)
	}
	return entries, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
