package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPriceTTL        = time.Minute
	defaultCleanupInterval = 30 * time.Second
)

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e *cacheEntry[T]) isExpiredAt(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryPriceCache is a process-local TTL cache of unit prices
type InMemoryPriceCache struct {
	prices  sync.Map // map[string]*cacheEntry[decimal.Decimal]
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// InMemoryPriceCacheOption is a functional option for configuring the cache
type InMemoryPriceCacheOption func(*InMemoryPriceCache)

// WithTTL sets how long a price stays cached
func WithTTL(ttl time.Duration) InMemoryPriceCacheOption {
	return func(c *InMemoryPriceCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger for the cache
func WithLogger(logger *zap.Logger) InMemoryPriceCacheOption {
	return func(c *InMemoryPriceCache) {
		c.logger = logger
	}
}

// withClock replaces time.Now in tests
func withClock(now func() time.Time) InMemoryPriceCacheOption {
	return func(c *InMemoryPriceCache) {
		c.now = now
	}
}

// NewInMemoryPriceCache creates the cache and starts its cleanup loop
func NewInMemoryPriceCache(opts ...InMemoryPriceCacheOption) *InMemoryPriceCache {
	c := &InMemoryPriceCache{
		ttl:    defaultPriceTTL,
		now:    time.Now,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.cleanupExpired()
	return c
}

// Get returns a live cached price
func (c *InMemoryPriceCache) Get(_ context.Context, actionType string) (decimal.Decimal, bool) {
	v, ok := c.prices.Load(actionType)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return decimal.Zero, false
	}
	entry := v.(*cacheEntry[decimal.Decimal])
	if entry.isExpiredAt(c.now()) {
		c.prices.Delete(actionType)
		atomic.AddInt64(&c.misses, 1)
		return decimal.Zero, false
	}
	atomic.AddInt64(&c.hits, 1)
	return entry.value, true
}

// Set caches a price for the configured TTL
func (c *InMemoryPriceCache) Set(_ context.Context, actionType string, price decimal.Decimal) {
	c.prices.Store(actionType, &cacheEntry[decimal.Decimal]{
		value:     price,
		expiresAt: c.now().Add(c.ttl),
	})
}

// Invalidate drops one price, or all prices when actionType is empty
func (c *InMemoryPriceCache) Invalidate(_ context.Context, actionType string) {
	if actionType != "" {
		c.prices.Delete(actionType)
		return
	}
	c.prices.Range(func(key, _ any) bool {
		c.prices.Delete(key)
		return true
	})
}

// Stats returns hit and miss counters
func (c *InMemoryPriceCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the cleanup loop. It is safe to call more than once.
func (c *InMemoryPriceCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *InMemoryPriceCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			now := c.now()
			removed := 0
			c.prices.Range(func(key, value any) bool {
				if value.(*cacheEntry[decimal.Decimal]).isExpiredAt(now) {
					c.prices.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("Evicted expired prices", zap.Int("count", removed))
			}
		}
	}
}
