package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TokenBucketTestSuite struct {
	suite.Suite
	current time.Time
	limiter *TokenBucket
}

func TestTokenBucketSuite(t *testing.T) {
	suite.Run(t, new(TokenBucketTestSuite))
}

func (s *TokenBucketTestSuite) SetupTest() {
	s.current = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.limiter = NewTokenBucket(Config{Capacity: 5, RefillPerSec: 2, IdleTTL: time.Hour})
	s.limiter.now = func() time.Time { return s.current }
}

func (s *TokenBucketTestSuite) TearDownTest() {
	s.limiter.Stop()
}

func (s *TokenBucketTestSuite) TestCapacityAndRefill() {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.True(s.T(), s.limiter.Allow(ctx, "1.1.1.1"), "應該允許第 %d 次請求", i+1)
	}
	require.False(s.T(), s.limiter.Allow(ctx, "1.1.1.1"), "超過容量限制應該被拒絕")

	// 半秒補一個 token
	s.current = s.current.Add(500 * time.Millisecond)
	require.True(s.T(), s.limiter.Allow(ctx, "1.1.1.1"))
	require.False(s.T(), s.limiter.Allow(ctx, "1.1.1.1"))

	// 補滿後不會超過容量
	s.current = s.current.Add(time.Minute)
	for i := 0; i < 5; i++ {
		require.True(s.T(), s.limiter.Allow(ctx, "1.1.1.1"))
	}
	require.False(s.T(), s.limiter.Allow(ctx, "1.1.1.1"))
}

func (s *TokenBucketTestSuite) TestKeysAreIndependent() {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.True(s.T(), s.limiter.Allow(ctx, "a"))
	}
	require.False(s.T(), s.limiter.Allow(ctx, "a"))
	require.True(s.T(), s.limiter.Allow(ctx, "b"))
}

func (s *TokenBucketTestSuite) TestConcurrentAllow() {
	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.limiter.Allow(context.Background(), "burst") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(s.T(), int32(5), allowed.Load())
}

func (s *TokenBucketTestSuite) TestEvictIdle() {
	ctx := context.Background()
	s.limiter.Allow(ctx, "old")
	s.current = s.current.Add(2 * time.Hour)
	s.limiter.Allow(ctx, "new")

	s.limiter.evictIdle()
	require.Equal(s.T(), 1, s.limiter.size())
	_, ok := s.limiter.buckets.Load("new")
	require.True(s.T(), ok)
}

func TestTokenBucket_StopIsIdempotent(t *testing.T) {
	l := NewTokenBucket(Config{})
	l.Stop()
	l.Stop()
	require.Equal(t, GetDefaultConfig(), l.cfg)
}
