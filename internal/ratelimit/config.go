package ratelimit

import (
	"context"
	"time"
)

// Limiter 以 key 區分的限流器
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

type Config struct {
	Capacity     int
	RefillPerSec float64 // tokens/秒
	// IdleTTL 超過此時間沒有請求的 bucket 會被清掉 (local) 或過期 (redis)
	IdleTTL time.Duration
}

func GetDefaultConfig() Config {
	return Config{
		Capacity:     20,
		RefillPerSec: 1,
		IdleTTL:      10 * time.Minute,
	}
}

func (c Config) normalize() Config {
	def := GetDefaultConfig()
	if c.Capacity <= 0 {
		c.Capacity = def.Capacity
	}
	if c.RefillPerSec <= 0 {
		c.RefillPerSec = def.RefillPerSec
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = def.IdleTTL
	}
	return c
}
