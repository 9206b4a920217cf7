package cache

import (
	"context"
	"io"

	"github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Backend names accepted in pricing.cache_backend
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

type priceCacheCloser interface {
	metering.PriceCache
	io.Closer
}

// NewPriceCache builds the price cache selected by configuration.
// It returns a nil cache when caching is disabled. A redis backend that cannot
// be reached falls back to the in-memory cache with a warning.
func NewPriceCache(ctx context.Context, pricing config.PricingConfig, redisCfg config.RedisConfig, logger *zap.Logger) (metering.PriceCache, io.Closer) {
	if !pricing.CacheEnabled {
		logger.Info("Price cache disabled")
		return nil, noopCloser{}
	}

	var c priceCacheCloser
	if pricing.CacheBackend == BackendRedis {
		rc, err := NewRedisPriceCache(redisCfg.Addr(), redisCfg.Password, redisCfg.DB,
			WithRedisTTL(pricing.CacheTTL),
			WithRedisLogger(logger),
		)
		if err == nil {
			go func() {
				if err := rc.Subscribe(ctx); err != nil {
					logger.Error("Price invalidation subscription stopped", zap.Error(err))
				}
			}()
			logger.Info("Using Redis price cache", zap.String("addr", redisCfg.Addr()))
			return rc, rc
		}
		logger.Warn("Redis unavailable, falling back to in-memory price cache. "+
			"Price changes made on other instances are visible only after the TTL expires.",
			zap.Error(err))
	}

	c = NewInMemoryPriceCache(WithTTL(pricing.CacheTTL), WithLogger(logger))
	logger.Info("Using in-memory price cache", zap.Duration("ttl", pricing.CacheTTL))
	return c, c
}
