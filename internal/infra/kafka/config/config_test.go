package config

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "no brokers", mutate: func(c *Config) { c.Brokers = nil }, wantErr: true},
		{name: "blank broker", mutate: func(c *Config) { c.Brokers = []string{""} }, wantErr: true},
		{name: "no topic", mutate: func(c *Config) { c.Topic = "" }, wantErr: true},
		{name: "negative retry", mutate: func(c *Config) { c.RetryAttempts = -1 }, wantErr: true},
		{name: "factor below one", mutate: func(c *Config) { c.RetryBackoffFactor = 0.5 }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Brokers = []string{"localhost:9092"}
			cfg.Topic = "shop.payment.succeeded"
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGetBalancer(t *testing.T) {
	cfg := DefaultConfig()
	require.IsType(t, &kafka.Hash{}, cfg.GetBalancer())

	cfg.Balancer = &kafka.LeastBytes{}
	require.IsType(t, &kafka.LeastBytes{}, cfg.GetBalancer())
}
