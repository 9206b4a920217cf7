package metering

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aihaccp/backend/internal/domain/compliance"
	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/infrastructure/persistence"
	"github.com/aihaccp/backend/internal/infrastructure/persistence/models"
	"github.com/aihaccp/backend/internal/infrastructure/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newConfigRepo(t *testing.T) *persistence.GormConfigurationRepository {
	t.Helper()
	return persistence.NewGormConfigurationRepository(setupTestDB(t))
}

// stubDefaults serves a fixed defaults document
type stubDefaults struct {
	defaults *pricing.Defaults
	err      error
	calls    atomic.Int32
}

func (s *stubDefaults) Load(_ context.Context) (*pricing.Defaults, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.defaults, nil
}

func defaultsWithPrices(prices map[string]string) *stubDefaults {
	d := &pricing.Defaults{
		Prices:            make(map[string]decimal.Decimal, len(prices)),
		TemperatureRanges: compliance.TemperatureRanges{},
	}
	for action, price := range prices {
		d.Prices[action] = decimal.RequireFromString(price)
	}
	return &stubDefaults{defaults: d}
}

// mapCache is a minimal PriceCache without expiry
type mapCache struct {
	mu          sync.Mutex
	prices      map[string]decimal.Decimal
	invalidated []string
}

func newMapCache() *mapCache {
	return &mapCache{prices: make(map[string]decimal.Decimal)}
}

func (c *mapCache) Get(_ context.Context, actionType string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.prices[actionType]
	return p, ok
}

func (c *mapCache) Set(_ context.Context, actionType string, price decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[actionType] = price
}

func (c *mapCache) Invalidate(_ context.Context, actionType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, actionType)
	if actionType == "" {
		c.prices = make(map[string]decimal.Decimal)
		return
	}
	delete(c.prices, actionType)
}

// mockConfigRepo is a mock implementation of metering.ConfigurationRepository
type mockConfigRepo struct {
	mock.Mock
}

func (m *mockConfigRepo) FindByParameter(ctx context.Context, parameter string) (*domainMetering.ConfigurationEntry, error) {
	args := m.Called(ctx, parameter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainMetering.ConfigurationEntry), args.Error(1)
}

func (m *mockConfigRepo) ListByPrefix(ctx context.Context, prefix string) ([]*domainMetering.ConfigurationEntry, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domainMetering.ConfigurationEntry), args.Error(1)
}

func (m *mockConfigRepo) ExistsWithPrefix(ctx context.Context, prefix string) (bool, error) {
	args := m.Called(ctx, prefix)
	return args.Bool(0), args.Error(1)
}

func (m *mockConfigRepo) InsertIfAbsent(ctx context.Context, entries []*domainMetering.ConfigurationEntry) (int64, error) {
	args := m.Called(ctx, entries)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockConfigRepo) Upsert(ctx context.Context, entry *domainMetering.ConfigurationEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// mockPriceResolver is a mock implementation of PriceResolver
type mockPriceResolver struct {
	mock.Mock
}

func (m *mockPriceResolver) GetPrice(ctx context.Context, actionType string) decimal.Decimal {
	args := m.Called(ctx, actionType)
	return args.Get(0).(decimal.Decimal)
}

// fixedPrices resolves from a static table, falling back like the real resolver
type fixedPrices map[string]string

func (p fixedPrices) GetPrice(_ context.Context, actionType string) decimal.Decimal {
	if v, ok := p[actionType]; ok {
		return decimal.RequireFromString(v)
	}
	return domainMetering.FallbackPrice
}

// recordingMetrics counts metric calls per source
type recordingMetrics struct {
	mu      sync.Mutex
	usage   int
	sources []domainMetering.PriceSource
}

func (r *recordingMetrics) RecordUsage(_ context.Context, _ string, _ decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage++
}

func (r *recordingMetrics) RecordPriceLookup(_ context.Context, _ string, source domainMetering.PriceSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
