package metering

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/aihaccp/backend/internal/infrastructure/logger"
	"github.com/aihaccp/backend/internal/infrastructure/pricing"
	"github.com/aihaccp/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricingResolver resolves unit prices from the configuration store, seeding
// the store from the default table the first time no price is found.
type PricingResolver struct {
	configRepo domainMetering.ConfigurationRepository
	defaults   DefaultsLoader
	cache      domainMetering.PriceCache
	metrics    MeteringMetrics
	logger     *zap.Logger

	// seeded short-circuits EnsureSeeded once prices are known to exist
	seeded atomic.Bool
}

// PricingResolverOption is a functional option for configuring the resolver
type PricingResolverOption func(*PricingResolver)

// WithPriceCache enables caching of resolved prices
func WithPriceCache(cache domainMetering.PriceCache) PricingResolverOption {
	return func(r *PricingResolver) {
		r.cache = cache
	}
}

// WithResolverMetrics sets the metrics sink
func WithResolverMetrics(metrics MeteringMetrics) PricingResolverOption {
	return func(r *PricingResolver) {
		if metrics != nil {
			r.metrics = metrics
		}
	}
}

// WithResolverLogger sets the logger
func WithResolverLogger(l *zap.Logger) PricingResolverOption {
	return func(r *PricingResolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewPricingResolver creates a resolver. defaults may be nil, in which case
// nothing is ever seeded and unconfigured actions use the fallback price.
func NewPricingResolver(configRepo domainMetering.ConfigurationRepository, defaults DefaultsLoader, opts ...PricingResolverOption) *PricingResolver {
	r := &PricingResolver{
		configRepo: configRepo,
		defaults:   defaults,
		metrics:    noopMetrics{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnsureSeeded inserts the default price table when the pricing namespace is empty.
// Existing keys are never overwritten, so concurrent callers are safe.
// A missing or malformed defaults file is logged and ignored.
func (r *PricingResolver) EnsureSeeded(ctx context.Context) error {
	if r.seeded.Load() {
		return nil
	}
	log := logger.Enrich(ctx, r.logger)

	exists, err := r.configRepo.ExistsWithPrefix(ctx, domainMetering.NamespacePrefix(domainMetering.PricingNamespace))
	if err != nil {
		return fmt.Errorf("failed to check pricing configuration: %w", err)
	}
	if exists {
		r.seeded.Store(true)
		return nil
	}

	if r.defaults == nil {
		log.Debug("No pricing defaults configured, skipping seed")
		return nil
	}
	defaults, err := r.defaults.Load(ctx)
	if err != nil {
		if errors.Is(err, pricing.ErrDefaultsUnavailable) {
			log.Debug("Pricing defaults file not found, skipping seed", zap.Error(err))
		} else {
			log.Warn("Pricing defaults file is unusable, skipping seed", zap.Error(err))
		}
		return nil
	}

	entries := defaults.PriceEntries()
	if len(entries) == 0 {
		log.Debug("Pricing defaults file has no prices")
		return nil
	}

	inserted, err := r.configRepo.InsertIfAbsent(ctx, entries)
	if err != nil {
		return fmt.Errorf("failed to seed pricing configuration: %w", err)
	}
	r.seeded.Store(true)
	log.Info("Seeded pricing configuration",
		zap.Int("entries", len(entries)),
		zap.Int64("inserted", inserted),
	)
	return nil
}

// GetPrice returns the unit price of an action type. Any failure along the way
// yields FallbackPrice; the error is logged, never returned.
func (r *PricingResolver) GetPrice(ctx context.Context, actionType string) (price decimal.Decimal) {
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("pricing_resolver.get_price",
		map[string]string{telemetry.ProfilingLabelAction: actionType}), func(ctx context.Context) {
		price = r.lookupPrice(ctx, actionType)
	})
	return price
}

func (r *PricingResolver) lookupPrice(ctx context.Context, actionType string) decimal.Decimal {
	if r.cache != nil {
		if price, ok := r.cache.Get(ctx, actionType); ok {
			r.metrics.RecordPriceLookup(ctx, actionType, domainMetering.PriceSourceCache)
			return price
		}
	}

	log := logger.Enrich(ctx, r.logger).With(zap.String("action_type", actionType))

	if err := r.EnsureSeeded(ctx); err != nil {
		log.Warn("Pricing seed failed", zap.Error(err))
	}

	entry, err := r.configRepo.FindByParameter(ctx, domainMetering.PriceParameter(actionType))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			log.Warn("Price lookup failed, using fallback", zap.Error(err))
		}
		return r.fallback(ctx, actionType)
	}

	price, err := domainMetering.ParsePrice(entry.Value)
	if err != nil {
		log.Warn("Stored price is not a non-negative decimal, using fallback", zap.String("value", entry.Value))
		return r.fallback(ctx, actionType)
	}

	if r.cache != nil {
		r.cache.Set(ctx, actionType, price)
	}
	r.metrics.RecordPriceLookup(ctx, actionType, domainMetering.PriceSourceConfigured)
	return price
}

// InvalidatePrice drops a cached price; an empty action type drops all
func (r *PricingResolver) InvalidatePrice(ctx context.Context, actionType string) {
	if r.cache != nil {
		r.cache.Invalidate(ctx, actionType)
	}
}

func (r *PricingResolver) fallback(ctx context.Context, actionType string) decimal.Decimal {
	r.metrics.RecordPriceLookup(ctx, actionType, domainMetering.PriceSourceFallback)
	return domainMetering.FallbackPrice
}

var _ PriceResolver = (*PricingResolver)(nil)
