package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
)

// Ledger is the slice of the order store the worker needs.
type Ledger interface {
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
	// BaseBackoff doubles per consecutive connection failure up to
	// MaxBackoff, with jitter. Defaults: 5s base, 1m cap.
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// Consumer drains the orders topic one message at a time and marks the
// referenced orders processed. It reconnects forever; nothing it reads can
// crash the process.
type Consumer struct {
	logger *zap.Logger
	ledger Ledger
	cfg    Config
}

func NewConsumer(logger *zap.Logger, ledger Ledger, cfg Config) *Consumer {
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 5 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = time.Minute
	}
	return &Consumer{
		logger: logger,
		ledger: ledger,
		cfg:    cfg,
	}
}

// Run blocks until ctx is cancelled. Connection-level errors tear down the
// reader and retry after a backoff; they are never fatal.
func (c *Consumer) Run(ctx context.Context) error {
	attempt := 0
	for {
		reader := c.newReader()
		c.logger.Info("consuming orders topic",
			zap.String("topic", c.cfg.Topic),
			zap.String("group_id", c.cfg.GroupID),
		)

		processed, err := c.consume(ctx, reader)
		if cerr := reader.Close(); cerr != nil {
			c.logger.Warn("closing kafka reader", zap.Error(cerr))
		}
		if ctx.Err() != nil {
			c.logger.Info("consumer stopped")
			return nil
		}
		if processed > 0 {
			attempt = 0
		}
		attempt++

		backoff := c.backoff(attempt)
		c.logger.Error("consumer disconnected, reconnecting",
			zap.Error(err),
			zap.Duration("backoff", backoff),
		)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
	}
}

func (c *Consumer) newReader() *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		GroupID:  c.cfg.GroupID,
		Topic:    c.cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		// One in-flight message: strict sequential processing.
		QueueCapacity: 1,
	})
}

// consume fetches and processes messages until a connection-level error.
// The commit (ack) always follows processing, success or not.
func (c *Consumer) consume(ctx context.Context, reader *kafka.Reader) (int, error) {
	processed := 0
	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			return processed, err
		}

		c.processMessage(ctx, m.Value)
		processed++

		if err := reader.CommitMessages(ctx, m); err != nil {
			return processed, fmt.Errorf("commit offset: %w", err)
		}
	}
}

// processMessage applies one delivery. Malformed payloads are dropped, and a
// failed ledger update is logged but not retried: the message is acked
// either way, trading redelivery storms for at-most-once processing.
func (c *Consumer) processMessage(ctx context.Context, value []byte) {
	var payload map[string]any
	if err := json.Unmarshal(value, &payload); err != nil {
		c.logger.Error("dropping non-JSON message", zap.Error(err))
		return
	}

	raw, ok := payload["order_id"]
	if !ok || raw == nil {
		c.logger.Error("dropping message without order_id")
		return
	}
	orderID, err := parseOrderID(raw)
	if err != nil {
		c.logger.Error("dropping message with invalid order_id",
			zap.Any("order_id", raw),
			zap.Error(err),
		)
		return
	}

	if err := c.ledger.UpdateStatus(ctx, orderID, domain.OrderStatusProcessed); err != nil {
		c.logger.Error("failed to mark order processed",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("order marked processed", zap.Int64("order_id", orderID))
}

// parseOrderID accepts a JSON number or a string of digits.
func parseOrderID(raw any) (int64, error) {
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("order_id %q is not an integer", v)
		}
		return id, nil
	default:
		return 0, errors.New("order_id is not a number or string")
	}
}

func (c *Consumer) backoff(attempt int) time.Duration {
	d := c.cfg.BaseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= c.cfg.MaxBackoff {
			d = c.cfg.MaxBackoff
			break
		}
	}
	// Jitter up to 10% so a fleet of workers does not reconnect in lockstep.
	jitter := time.Duration(rand.Int63n(int64(d)/10 + 1))
	return d + jitter
}
