package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/domain"
)

// Publisher writes order-created events to the orders topic. Messages are
// keyed by order id so events for one order stay ordered.
type Publisher struct {
	logger *zap.Logger
	writer *kafka.Writer
	topic  string
}

func NewPublisher(logger *zap.Logger, brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Publisher{
		logger: logger,
		writer: writer,
		topic:  topic,
	}
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order created event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order created event: %w", err)
	}

	p.logger.Info("order created event published",
		zap.String("topic", p.topic),
		zap.Int64("order_id", event.OrderID),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
