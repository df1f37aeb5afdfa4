// Package config reads process configuration from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	KafkaBrokers  []string
	NotifyTopic   string
	NotifyGroupID string
	OrdersURL     string
	JWTSecret     string
	JWTTTL        time.Duration

	Rates          pricing.Rates
	RealMarketRate decimal.Decimal

	OrderCacheTTL      time.Duration
	RateLimitPerMinute int
	LogLevel           string
}

// Load reads the environment. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c := &Config{
		Port:          getEnv("APP_PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		NotifyTopic:   getEnv("NOTIFY_TOPIC", "order.status_changed"),
		NotifyGroupID: getEnv("NOTIFY_GROUP_ID", "dalin-notifier"),
		OrdersURL:     os.Getenv("ORDERS_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if c.JWTTTL, err = durationEnv("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if c.OrderCacheTTL, err = durationEnv("ORDER_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if c.RateLimitPerMinute, err = intEnv("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}

	r := pricing.Rates{}
	if r.MarketRate, err = decimalEnv("MARKET_RATE", "1450"); err != nil {
		return nil, err
	}
	if r.ServiceRate, err = decimalEnv("SERVICE_RATE", "1200"); err != nil {
		return nil, err
	}
	if r.ShippingFee, err = iqdEnv("SHIPPING_FEE_IQD", "5000"); err != nil {
		return nil, err
	}
	if r.PointValue, err = iqdEnv("POINT_VALUE_IQD", "25"); err != nil {
		return nil, err
	}
	if r.PointEarnRate, err = iqdEnv("POINT_EARN_RATE", "1000"); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	c.Rates = r

	if c.RealMarketRate, err = decimalEnv("REAL_MARKET_RATE", r.MarketRate.String()); err != nil {
		return nil, err
	}
	return c, nil
}

// RequireAPI checks the settings only the API process needs.
func (c *Config) RequireAPI() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// Logger builds the process logger. LOG_LEVEL=debug switches to the
// development encoder.
func (c *Config) Logger() (*zap.Logger, error) {
	if strings.EqualFold(c.LogLevel, "debug") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.Level = level
	return cfg.Build()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func decimalEnv(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", key, err)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func iqdEnv(key, fallback string) (pricing.IQD, error) {
	d, err := decimalEnv(key, fallback)
	if err != nil {
		return pricing.IQD{}, err
	}
	return pricing.NewIQD(d), nil
}
