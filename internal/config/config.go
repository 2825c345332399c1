package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything both binaries need. All values come from the
// environment with local-development defaults; a .env file is honoured if
// present.
type Config struct {
	HTTPAddr string

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	MigrationsPath   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// Container names for the service dashboard.
	RedisContainer    string
	KafkaContainer    string
	PostgresContainer string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string
}

func Load() (Config, error) {
	_ = godotenv.Load() // load .env if it exists

	cfg := Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8000"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresUser:     getEnv("POSTGRES_USER", "caruser"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "carpass"),
		PostgresDB:       getEnv("POSTGRES_DB", "carstore"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./internal/orders/migrations"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "orders"),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "fulfillment"),

		RedisContainer:    getEnv("REDIS_CONTAINER", "carstore-redis"),
		KafkaContainer:    getEnv("KAFKA_CONTAINER", "carstore-kafka"),
		PostgresContainer: getEnv("POSTGRES_CONTAINER", "carstore-postgres"),

		RequestTimeout:  15 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid POSTGRES_PORT: %w", err)
	}
	cfg.PostgresPort = pgPort

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
