package metering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/aihaccp/backend/internal/domain/compliance"
	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/infrastructure/logger"
	"github.com/aihaccp/backend/internal/infrastructure/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TemperatureRangeService resolves storage zone limits from the configuration
// store, seeded the same way as prices.
type TemperatureRangeService struct {
	repo     domainMetering.ConfigurationRepository
	defaults DefaultsLoader
	logger   *zap.Logger
	seeded   atomic.Bool
}

// NewTemperatureRangeService creates the service; defaults may be nil
func NewTemperatureRangeService(repo domainMetering.ConfigurationRepository, defaults DefaultsLoader, logger *zap.Logger) *TemperatureRangeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemperatureRangeService{repo: repo, defaults: defaults, logger: logger}
}

// EnsureSeeded inserts the default ranges when the temperature namespace is empty
func (s *TemperatureRangeService) EnsureSeeded(ctx context.Context) error {
	if s.seeded.Load() {
		return nil
	}
	log := logger.Enrich(ctx, s.logger)

	exists, err := s.repo.ExistsWithPrefix(ctx, domainMetering.NamespacePrefix(domainMetering.TemperatureNamespace))
	if err != nil {
		return fmt.Errorf("failed to check temperature configuration: %w", err)
	}
	if exists {
		s.seeded.Store(true)
		return nil
	}
	if s.defaults == nil {
		return nil
	}

	defaults, err := s.defaults.Load(ctx)
	if err != nil {
		if errors.Is(err, pricing.ErrDefaultsUnavailable) {
			log.Debug("Temperature defaults file not found, skipping seed", zap.Error(err))
		} else {
			log.Warn("Temperature defaults file is unusable, skipping seed", zap.Error(err))
		}
		return nil
	}
	entries := defaults.TemperatureEntries()
	if len(entries) == 0 {
		return nil
	}
	inserted, err := s.repo.InsertIfAbsent(ctx, entries)
	if err != nil {
		return fmt.Errorf("failed to seed temperature configuration: %w", err)
	}
	s.seeded.Store(true)
	log.Info("Seeded temperature ranges", zap.Int64("inserted", inserted))
	return nil
}

// Ranges returns the limits of every known zone. A zone whose stored bounds are
// missing or unparseable keeps its built-in range.
func (s *TemperatureRangeService) Ranges(ctx context.Context) compliance.TemperatureRanges {
	log := logger.Enrich(ctx, s.logger)
	ranges := compliance.DefaultTemperatureRanges()

	if err := s.EnsureSeeded(ctx); err != nil {
		log.Warn("Temperature range seed failed", zap.Error(err))
	}

	prefix := domainMetering.NamespacePrefix(domainMetering.TemperatureNamespace)
	entries, err := s.repo.ListByPrefix(ctx, prefix)
	if err != nil {
		log.Warn("Temperature range lookup failed, using built-in ranges", zap.Error(err))
		return ranges
	}

	values := make(map[string]decimal.Decimal, len(entries))
	for _, e := range entries {
		v, err := decimal.NewFromString(strings.TrimSpace(e.Value))
		if err != nil {
			log.Warn("Ignoring unparseable temperature bound", zap.String("parameter", e.Parameter))
			continue
		}
		values[strings.TrimPrefix(e.Parameter, prefix)] = v
	}

	for _, zone := range compliance.Zones {
		lo, okMin := values[compliance.RangeParameterName(zone, "min")]
		hi, okMax := values[compliance.RangeParameterName(zone, "max")]
		if !okMin || !okMax || lo.GreaterThan(hi) {
			continue
		}
		ranges[zone] = compliance.TemperatureRange{Min: lo, Max: hi}
	}
	return ranges
}
