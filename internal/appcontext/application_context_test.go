package appcontext

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/config"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository/memory"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		ModuleName:            "shop-test",
		ServerPort:            "0",
		StoreDriver:           "memory",
		PayPalBaseURL:         "http://127.0.0.1:1",
		PayPalTimeout:         time.Second,
		RateLimitCapacity:     5,
		RateLimitRefillPerSec: 1,
	}
}

func TestNewApplicationContext_Memory(t *testing.T) {
	app, err := NewApplicationContext(memoryConfig(), nil)
	require.NoError(t, err)

	require.IsType(t, &memory.Store{}, app.Store)
	require.IsType(t, &service.DirectNotifier{}, app.Notifier)
	require.Nil(t, app.NotificationConsumer)
	require.Nil(t, app.RedisClient)
	require.NotNil(t, app.PaymentService)
	require.NotNil(t, app.WishlistService)
	require.NotNil(t, app.PaymentLimiter)
	require.Empty(t, app.HealthChecks())

	require.True(t, app.PaymentLimiter.Allow(context.Background(), "127.0.0.1"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, app.Shutdown(ctx))
}

func TestNewApplicationContext_NilConfig(t *testing.T) {
	_, err := NewApplicationContext(nil, nil)
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", "json", "shop", &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"module":"shop"`)
	require.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger = NewLogger("bogus", "json", "shop", &buf)
	logger.Info().Msg("default level is info")
	require.Contains(t, buf.String(), "default level is info")
}
