package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type bucket struct {
	current      atomic.Int64
	lastRefilled atomic.Int64 // unix nano
	lastSeen     atomic.Int64
}

func newBucket(capacity int, now int64) *bucket {
	b := &bucket{}
	b.current.Store(int64(capacity))
	b.lastRefilled.Store(now)
	b.lastSeen.Store(now)
	return b
}

// refill 搶到 lastRefilled 的人負責補 token，補進去的時間只推進到整數 token 對應的時間點
func (b *bucket) refill(now int64, capacity int64, ratePS float64) {
	for {
		last := b.lastRefilled.Load()
		elapsed := time.Duration(now - last)
		add := int64(elapsed.Seconds() * ratePS)
		if add <= 0 {
			return
		}
		used := int64(float64(add) / ratePS * float64(time.Second))
		if !b.lastRefilled.CompareAndSwap(last, last+used) {
			continue
		}
		for {
			current := b.current.Load()
			next := min(current+add, capacity)
			if b.current.CompareAndSwap(current, next) {
				return
			}
		}
	}
}

func (b *bucket) take() bool {
	for {
		current := b.current.Load()
		if current <= 0 {
			return false
		}
		if b.current.CompareAndSwap(current, current-1) {
			return true
		}
	}
}

/*
TokenBucket 單一 process 內的限流器，每個 key 一個 bucket
請使用 defer 呼叫 Stop()
*/
type TokenBucket struct {
	cfg     Config
	buckets sync.Map // key -> *bucket
	now     func() time.Time
	cancel  chan struct{}
	once    sync.Once
}

func NewTokenBucket(cfg Config) *TokenBucket {
	t := &TokenBucket{
		cfg:    cfg.normalize(),
		now:    time.Now,
		cancel: make(chan struct{}),
	}
	go t.janitor()
	return t
}

func (t *TokenBucket) Allow(ctx context.Context, key string) bool {
	now := t.now().UnixNano()
	v, ok := t.buckets.Load(key)
	if !ok {
		v, _ = t.buckets.LoadOrStore(key, newBucket(t.cfg.Capacity, now))
	}
	b := v.(*bucket)
	b.lastSeen.Store(now)
	b.refill(now, int64(t.cfg.Capacity), t.cfg.RefillPerSec)
	return b.take()
}

// janitor 定期移除閒置的 bucket
func (t *TokenBucket) janitor() {
	ticker := time.NewTicker(max(t.cfg.IdleTTL/2, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-t.cancel:
			return
		case <-ticker.C:
			t.evictIdle()
		}
	}
}

func (t *TokenBucket) evictIdle() {
	deadline := t.now().Add(-t.cfg.IdleTTL).UnixNano()
	t.buckets.Range(func(key, value any) bool {
		if value.(*bucket).lastSeen.Load() < deadline {
			t.buckets.Delete(key)
		}
		return true
	})
}

func (t *TokenBucket) size() int {
	n := 0
	t.buckets.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (t *TokenBucket) Stop() {
	t.once.Do(func() {
		close(t.cancel)
	})
}

var _ Limiter = (*TokenBucket)(nil)
