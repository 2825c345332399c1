package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/config"
	"github.com/shaydevops2024/e-commerce-car-store/internal/fulfillment"
	"github.com/shaydevops2024/e-commerce-car-store/internal/logging"
	"github.com/shaydevops2024/e-commerce-car-store/internal/orders"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New("fulfillment", cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logging.Sync(logger)

	repo, err := orders.NewRepository(&orders.Credentials{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
	})
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := fulfillment.NewConsumer(logger, repo, fulfillment.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		GroupID: cfg.KafkaGroupID,
	})

	logger.Info("fulfillment worker starting",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic))

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
	logger.Info("fulfillment worker stopped")
}
