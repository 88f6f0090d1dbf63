package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss key 不存在或已過期
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	// 基本操作
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
