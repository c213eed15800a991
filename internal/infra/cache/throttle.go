package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisThrottle grants each key once per window with SET NX PX, so every
// API instance shares the same window.
type RedisThrottle struct {
	rdb *redis.Client
}

func NewRedisThrottle(c *Client) *RedisThrottle {
	return &RedisThrottle{rdb: c.Raw()}
}

func (t *RedisThrottle) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	return t.rdb.SetNX(ctx, keyPrefix+"throttle:"+key, "1", window).Result()
}

// MemoryThrottle is the single-process fallback used when no redis is
// configured.
type MemoryThrottle struct {
	mu      sync.Mutex
	now     func() time.Time
	expires map[string]time.Time
	calls   int
}

func NewMemoryThrottle() *MemoryThrottle {
	return &MemoryThrottle{now: time.Now, expires: map[string]time.Time{}}
}

// WithClock swaps the time source.
func (t *MemoryThrottle) WithClock(now func() time.Time) *MemoryThrottle {
	t.now = now
	return t
}

func (t *MemoryThrottle) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.calls++
	if t.calls%256 == 0 {
		t.sweep(now)
	}
	if exp, ok := t.expires[key]; ok && now.Before(exp) {
		return false, nil
	}
	t.expires[key] = now.Add(window)
	return true, nil
}

func (t *MemoryThrottle) sweep(now time.Time) {
	for k, exp := range t.expires {
		if !now.Before(exp) {
			delete(t.expires, k)
		}
	}
}

func (t *MemoryThrottle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.expires)
}
