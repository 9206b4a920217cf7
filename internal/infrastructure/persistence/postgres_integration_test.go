//go:build integration

package persistence

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/aihaccp/backend/internal/domain/identity"
	"github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/infrastructure/migration"
	"github.com/aihaccp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

// setupPostgres starts a throwaway PostgreSQL container with the schema migrated
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("haccp_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)

	m, err := migration.New(sqlDB, migrationsDir(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func TestPostgres_ConcurrentSeedingProducesOneRowPerKey(t *testing.T) {
	db := setupPostgres(t)
	repo := NewGormConfigurationRepository(db)
	ctx := context.Background()

	entries := make([]*metering.ConfigurationEntry, 0, len(metering.KnownActionTypes()))
	for _, action := range metering.KnownActionTypes() {
		e, err := metering.NewConfigurationEntry(metering.PriceParameter(action), "0.001", metering.PricingNamespace)
		require.NoError(t, err)
		entries = append(entries, e)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int64
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := repo.InsertIfAbsent(ctx, entries)
			assert.NoError(t, err)
			mu.Lock()
			inserted += n
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(len(entries)), inserted)

	var count int64
	require.NoError(t, db.Model(&models.ConfigurationModel{}).Count(&count).Error)
	assert.Equal(t, int64(len(entries)), count)
}

func TestPostgres_UsageAggregates(t *testing.T) {
	db := setupPostgres(t)
	orgs := NewGormOrganizationRepository(db)
	usage := NewGormUsageRecordRepository(db)
	ctx := context.Background()

	org, err := identity.NewOrganization("Bistro Central", identity.OrganizationTypeRestaurant)
	require.NoError(t, err)
	require.NoError(t, orgs.Create(ctx, org))

	now := time.Now().UTC()
	for _, c := range []struct {
		action string
		cost   string
		at     time.Time
	}{
		{metering.ActionLogin, "0.001", now.AddDate(0, 0, -45)},
		{metering.ActionTemperatureLog, "0.002", now.AddDate(0, 0, -1)},
		{metering.ActionTemperatureLog, "0.002", now},
	} {
		r, err := metering.NewUsageRecord(org.ID, uuid.New(), c.action, decimal.RequireFromString(c.cost), c.at)
		require.NoError(t, err)
		require.NoError(t, usage.Create(ctx, r))
	}

	total, err := usage.SumCost(ctx, org.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "0.005", total.String())

	since := now.AddDate(0, 0, -30)
	window, err := usage.SumCost(ctx, org.ID, &since)
	require.NoError(t, err)
	assert.Equal(t, "0.004", window.String())

	byAction, err := usage.SumByAction(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, byAction, 2)
	assert.Equal(t, int64(2), byAction[1].Count)
}

func TestPostgres_UsageCostKeepsFullPrecision(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	org, err := identity.NewOrganization("Harbour Catering", identity.OrganizationTypeRestaurant)
	require.NoError(t, err)
	require.NoError(t, NewGormOrganizationRepository(db).Create(ctx, org))

	usage := NewGormUsageRecordRepository(db)
	r, err := metering.NewUsageRecord(org.ID, uuid.New(), "bulk_import", decimal.RequireFromString("2500000.12345678"), time.Now())
	require.NoError(t, err)
	require.NoError(t, usage.Create(ctx, r))

	total, err := usage.SumCost(ctx, org.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "2500000.12345678", total.String())
}
