package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultKeyPrefix    = "haccp:price:"
	defaultChannel      = "haccp:price:invalidate"
	invalidateAllSignal = "*"
	defaultCloseTimeout = 5 * time.Second
)

// RedisPriceCache is a two-tier price cache. Reads go to a local L1 first and
// then to Redis; invalidations are broadcast over Pub/Sub so every instance
// drops its L1 copy.
type RedisPriceCache struct {
	client     *redis.Client
	ownsClient bool
	local      *InMemoryPriceCache
	prefix     string
	channel    string
	ttl        time.Duration
	logger     *zap.Logger

	mu       sync.Mutex
	cancelFn context.CancelFunc
	doneCh   chan struct{}
}

// RedisPriceCacheOption is a functional option for configuring the cache
type RedisPriceCacheOption func(*RedisPriceCache)

// WithRedisTTL sets the lifetime of cached prices in both tiers
func WithRedisTTL(ttl time.Duration) RedisPriceCacheOption {
	return func(c *RedisPriceCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRedisLogger sets the logger
func WithRedisLogger(logger *zap.Logger) RedisPriceCacheOption {
	return func(c *RedisPriceCache) {
		c.logger = logger
	}
}

// NewRedisPriceCache connects to Redis and verifies the connection
func NewRedisPriceCache(addr, password string, db int, opts ...RedisPriceCacheOption) (*RedisPriceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisPriceCacheWithClient(client, opts...)
	c.ownsClient = true
	return c, nil
}

// NewRedisPriceCacheWithClient wraps an existing client; the caller keeps ownership of it
func NewRedisPriceCacheWithClient(client *redis.Client, opts ...RedisPriceCacheOption) *RedisPriceCache {
	c := &RedisPriceCache{
		client:  client,
		prefix:  defaultKeyPrefix,
		channel: defaultChannel,
		ttl:     defaultPriceTTL,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.local = NewInMemoryPriceCache(WithTTL(c.ttl), WithLogger(c.logger))
	return c
}

func (c *RedisPriceCache) key(actionType string) string {
	return c.prefix + actionType
}

// Get reads L1, then Redis. Redis errors are treated as misses.
func (c *RedisPriceCache) Get(ctx context.Context, actionType string) (decimal.Decimal, bool) {
	if price, ok := c.local.Get(ctx, actionType); ok {
		return price, true
	}

	raw, err := c.client.Get(ctx, c.key(actionType)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Redis price lookup failed", zap.String("action_type", actionType), zap.Error(err))
		}
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		c.logger.Warn("Discarding malformed cached price", zap.String("action_type", actionType), zap.String("value", raw))
		_ = c.client.Del(ctx, c.key(actionType)).Err()
		return decimal.Zero, false
	}
	c.local.Set(ctx, actionType, price)
	return price, true
}

// Set writes both tiers
func (c *RedisPriceCache) Set(ctx context.Context, actionType string, price decimal.Decimal) {
	c.local.Set(ctx, actionType, price)
	if err := c.client.Set(ctx, c.key(actionType), price.String(), c.ttl).Err(); err != nil {
		c.logger.Warn("Redis price write failed", zap.String("action_type", actionType), zap.Error(err))
	}
}

// Invalidate removes the price from both tiers and tells other instances to drop theirs
func (c *RedisPriceCache) Invalidate(ctx context.Context, actionType string) {
	c.local.Invalidate(ctx, actionType)

	signal := actionType
	if actionType == "" {
		signal = invalidateAllSignal
		c.deleteAll(ctx)
	} else if err := c.client.Del(ctx, c.key(actionType)).Err(); err != nil {
		c.logger.Warn("Redis price delete failed", zap.String("action_type", actionType), zap.Error(err))
	}

	if err := c.client.Publish(ctx, c.channel, signal).Err(); err != nil {
		c.logger.Warn("Failed to publish price invalidation", zap.String("channel", c.channel), zap.Error(err))
	}
}

func (c *RedisPriceCache) deleteAll(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("Redis price scan failed", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.logger.Warn("Redis price delete failed", zap.Error(err))
		}
	}
}

// Subscribe listens for invalidations from other instances until ctx is cancelled or Close is called.
// It blocks and is meant to run in its own goroutine.
func (c *RedisPriceCache) Subscribe(ctx context.Context) error {
	c.mu.Lock()
	if c.doneCh != nil {
		c.mu.Unlock()
		return fmt.Errorf("price invalidation subscription already running")
	}
	subCtx, cancel := context.WithCancel(ctx)
	c.cancelFn = cancel
	c.doneCh = make(chan struct{})
	done := c.doneCh
	c.mu.Unlock()
	defer close(done)

	pubsub := c.client.Subscribe(subCtx, c.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.channel, err)
	}
	c.logger.Info("Subscribed to price invalidations", zap.String("channel", c.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			actionType := msg.Payload
			if actionType == invalidateAllSignal {
				actionType = ""
			}
			c.local.Invalidate(subCtx, actionType)
			c.logger.Debug("Applied price invalidation", zap.String("payload", msg.Payload))
		}
	}
}

// Close stops the subscription and releases the client if this cache created it
func (c *RedisPriceCache) Close() error {
	c.mu.Lock()
	cancel, done := c.cancelFn, c.doneCh
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-time.After(defaultCloseTimeout):
			c.logger.Warn("Timed out waiting for price subscription to stop")
		}
	}
	_ = c.local.Close()
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
