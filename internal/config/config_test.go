package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "MARKET_RATE", "SERVICE_RATE", "SHIPPING_FEE_IQD",
		"POINT_VALUE_IQD", "POINT_EARN_RATE", "REAL_MARKET_RATE", "JWT_TTL", "KAFKA_BROKERS",
		"ORDER_CACHE_TTL", "RATE_LIMIT_PER_MINUTE", "DATABASE_URL", "JWT_SECRET", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "1450", c.Rates.MarketRate.String())
	assert.Equal(t, "1200", c.Rates.ServiceRate.String())
	assert.Equal(t, "5000", c.Rates.ShippingFee.String())
	assert.Equal(t, "25", c.Rates.PointValue.String())
	assert.Equal(t, "1000", c.Rates.PointEarnRate.String())
	assert.Equal(t, "1450", c.RealMarketRate.String())
	assert.Equal(t, 24*time.Hour, c.JWTTTL)
	assert.Equal(t, 5*time.Minute, c.OrderCacheTTL)
	assert.Equal(t, 120, c.RateLimitPerMinute)
	assert.Empty(t, c.KafkaBrokers)
	assert.Error(t, c.RequireAPI())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVICE_RATE", "1310.5")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("DATABASE_URL", "postgres://localhost/dalin")
	t.Setenv("JWT_SECRET", "s3cret")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "1310.5", c.Rates.ServiceRate.String())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.KafkaBrokers)
	assert.Equal(t, 2*time.Hour, c.JWTTTL)
	assert.NoError(t, c.RequireAPI())
}

func TestLoad_RejectsBadRates(t *testing.T) {
	tests := map[string]string{
		"SERVICE_RATE":     "0",
		"MARKET_RATE":      "-1450",
		"POINT_VALUE_IQD":  "abc",
		"SHIPPING_FEE_IQD": "-5",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLogger(t *testing.T) {
	c := &Config{LogLevel: "warn"}
	log, err := c.Logger()
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))

	c.LogLevel = "loud"
	_, err = c.Logger()
	assert.Error(t, err)
}
