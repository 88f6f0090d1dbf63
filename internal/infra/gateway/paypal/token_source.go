package paypal

import (
	"context"
	"errors"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/constants"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const tokenCacheKey = "access_token"

type tokenFetcher interface {
	FetchAccessToken(ctx context.Context) (*AccessToken, error)
}

// CachedTokenSource token 快取在 cache (redis 或 in-process)，
// 有效期 = expires_in - skew；同一時間只會有一個 request 去換 token
type CachedTokenSource struct {
	fetcher tokenFetcher
	cache   cache.Cache
	skew    time.Duration
	group   singleflight.Group
	logger  *zerolog.Logger

	fetchTimeout time.Duration
}

func NewCachedTokenSource(fetcher tokenFetcher, c cache.Cache, skew time.Duration, logger *zerolog.Logger) *CachedTokenSource {
	if fetcher == nil {
		panic("token fetcher cannot be nil")
	}
	if c == nil {
		c = cache.NewMemoryCache()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &CachedTokenSource{
		fetcher: fetcher,
		cache:   c,
		skew:    skew,
		logger:  logger,

		fetchTimeout: constants.DefaultGatewayTimeout,
	}
}

func (s *CachedTokenSource) Token(ctx context.Context) (string, error) {
	v, err := s.cache.Get(ctx, tokenCacheKey)
	if err == nil && v != "" {
		return v, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		// cache 故障不影響付款確認，直接去換 token
		s.logger.Warn().Err(err).Msg("paypal token cache read failed")
	}

	// 換 token 不跟隨第一個呼叫者的 cancel，等待中的呼叫者共用同一次結果
	ch := s.group.DoChan(tokenCacheKey, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		token, err := s.fetcher.FetchAccessToken(fctx)
		if err != nil {
			return "", err
		}
		ttl := token.ExpiresIn - s.skew
		if ttl > 0 {
			if err := s.cache.Set(fctx, tokenCacheKey, token.Value, ttl); err != nil {
				s.logger.Warn().Err(err).Msg("paypal token cache write failed")
			}
		}
		return token.Value, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Invalidate 金流商回 401 時清掉快取的 token
func (s *CachedTokenSource) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, tokenCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("paypal token cache delete failed")
	}
}
