package ratelimit

import (
	"context"
	"math"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/constants"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisClient 介面定義
type RedisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

const tokenBucketScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local currentTokens = tonumber(bucket[1])
	local lastRefill = tonumber(bucket[2])

	-- 第一次使用，裝滿
	if currentTokens == nil then
		currentTokens = capacity
		lastRefill = now
	end

	local elapsedSeconds = math.max(0, now - lastRefill) / 1000000000
	currentTokens = math.min(capacity, currentTokens + elapsedSeconds * rate)

	local allowed = 0
	if currentTokens >= 1 then
		currentTokens = currentTokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', currentTokens, 'last_refill', now)
	redis.call('PEXPIRE', key, ttl)
	return allowed
`

/*
RedisTokenBucket 多個 instance 共用的 token bucket
Redis 無法使用時放行 (fail open)，限流不能讓付款確認整個停擺
*/
type RedisTokenBucket struct {
	client RedisClient
	cfg    Config
	logger *zerolog.Logger
	now    func() time.Time
}

func NewRedisTokenBucket(client RedisClient, cfg Config, logger *zerolog.Logger) *RedisTokenBucket {
	if client == nil {
		panic("redisClient cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RedisTokenBucket{
		client: client,
		cfg:    cfg.normalize(),
		logger: logger,
		now:    time.Now,
	}
}

func (r *RedisTokenBucket) Allow(ctx context.Context, key string) bool {
	// bucket 從空到滿所需時間，之後 key 就可以過期
	fill := time.Duration(math.Ceil(float64(r.cfg.Capacity)/r.cfg.RefillPerSec)) * time.Second
	ttl := max(fill, r.cfg.IdleTTL)

	result, err := r.client.Eval(
		ctx,
		tokenBucketScript,
		[]string{constants.CachePrefixRateLimit + ":" + key},
		r.cfg.Capacity,
		r.cfg.RefillPerSec,
		r.now().UnixNano(),
		ttl.Milliseconds(),
	).Int64()
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
		return true
	}
	return result == 1
}

var _ Limiter = (*RedisTokenBucket)(nil)
