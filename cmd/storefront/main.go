package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docker/docker/client"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shaydevops2024/e-commerce-car-store/internal/api"
	"github.com/shaydevops2024/e-commerce-car-store/internal/cart"
	"github.com/shaydevops2024/e-commerce-car-store/internal/catalog"
	"github.com/shaydevops2024/e-commerce-car-store/internal/checkout"
	"github.com/shaydevops2024/e-commerce-car-store/internal/config"
	"github.com/shaydevops2024/e-commerce-car-store/internal/event"
	"github.com/shaydevops2024/e-commerce-car-store/internal/logging"
	"github.com/shaydevops2024/e-commerce-car-store/internal/ops"
	"github.com/shaydevops2024/e-commerce-car-store/internal/orders"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New("storefront", cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logging.Sync(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("storefront exited", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	cred := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsPath,
	}

	repo, err := orders.NewRepository(cred)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.RunMigrations(cred); err != nil {
		return err
	}
	logger.Info("migrations applied")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable at startup, carts unavailable until it returns", zap.Error(err))
	}

	publisher := event.NewPublisher(logger, cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return err
	}
	defer dockerClient.Close()

	cartStore := cart.NewRedisStore(redisClient)
	catalogReader := catalog.NewReader(repo.DB())
	checkoutService := checkout.NewService(cartStore, catalogReader, repo, publisher, logger)
	controller := ops.NewController(logger, dockerClient, redisClient, cfg.KafkaBrokers, cfg.KafkaTopic, map[string]string{
		ops.ServiceRedis:    cfg.RedisContainer,
		ops.ServiceKafka:    cfg.KafkaContainer,
		ops.ServicePostgres: cfg.PostgresContainer,
	})

	router := api.NewRouter(api.Handlers{
		Cars:     api.NewCarHandler(catalogReader, logger, cfg.RequestTimeout),
		Cart:     api.NewCartHandler(cartStore, logger, cfg.RequestTimeout),
		Checkout: api.NewCheckoutHandler(checkoutService, logger, cfg.RequestTimeout),
		Orders:   api.NewOrdersHandler(repo, logger, cfg.RequestTimeout),
		Ops:      api.NewOpsHandler(controller, repo, logger, cfg.RequestTimeout),
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
