package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/storefront-api/internal/domains/notifications/adapters/smtp"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	"github.com/Apurer/storefront-api/internal/platform/kafka"
	platformobservability "github.com/Apurer/storefront-api/internal/platform/observability"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	KafkaBrokers      []string
	KafkaOrderTopic   string
	SMTP              smtp.Config
	Brand             string
	Currency          string
	PricingPolicy     ordersapp.PricingPolicy
	ReceiptWorkers    int
	ReceiptQueueSize  int
	ShutdownTimeout   time.Duration

	// RegistrationWebhookURL receives every new account; empty disables it.
	RegistrationWebhookURL string

	Environment  string
	LogLevel     slog.Level
	OTLPEndpoint string
	OTLPInsecure bool
}

// Observability returns the logging and tracing settings for one binary.
func (c Config) Observability(serviceName string) platformobservability.Settings {
	return platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  c.Environment,
		LogLevel:     c.LogLevel,
		OTLPEndpoint: c.OTLPEndpoint,
		OTLPInsecure: c.OTLPInsecure,
	}
}

// LoadEnvFile loads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "5000"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaBrokers:      kafka.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic:   envDefault("KAFKA_ORDER_TOPIC", "storefront.orders"),
		Brand:             envDefault("STORE_BRAND", "Storefront"),
		Currency:          envDefault("STORE_CURRENCY", "RUB"),
		SMTP: smtp.Config{
			Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
			Username: strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     strings.TrimSpace(os.Getenv("SMTP_FROM")),
			Timeout:  10 * time.Second,
		},
		ShutdownTimeout:        10 * time.Second,
		RegistrationWebhookURL: strings.TrimSpace(os.Getenv("REGISTRATION_WEBHOOK_URL")),
		Environment:            envDefault("ENVIRONMENT", "local"),
		OTLPEndpoint:           strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:           strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")) != "0",
	}
	var err error
	if cfg.SMTP.Port, err = positiveInt("SMTP_PORT", 587); err != nil {
		return Config{}, err
	}
	if cfg.ReceiptWorkers, err = positiveInt("RECEIPT_WORKERS", 2); err != nil {
		return Config{}, err
	}
	if cfg.ReceiptQueueSize, err = positiveInt("RECEIPT_QUEUE_SIZE", 64); err != nil {
		return Config{}, err
	}
	if cfg.PricingPolicy, err = ordersapp.ParsePricingPolicy(os.Getenv("PRICING_POLICY")); err != nil {
		return Config{}, fmt.Errorf("PRICING_POLICY: %w", err)
	}
	if cfg.LogLevel, err = parseLogLevel(os.Getenv("LOG_LEVEL")); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// parseLogLevel accepts slog level names, offsets like "warn+2", and
// "warning". Empty means info.
func parseLogLevel(raw string) (slog.Level, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return slog.LevelInfo, nil
	case "warning":
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, err
	}
	return level, nil
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
