package compliance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aihaccp/backend/internal/application/metering"
	"github.com/aihaccp/backend/internal/domain/compliance"
	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/partner"
	"github.com/aihaccp/backend/internal/infrastructure/persistence"
	"github.com/aihaccp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createSupplier(t *testing.T, db *gorm.DB, orgID uuid.UUID) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(orgID, "Fresh Farms")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormSupplierRepository(db).Create(context.Background(), s))
	return s
}

type usageCall struct {
	action        string
	executionTime *decimal.Decimal
	metadata      domainMetering.Metadata
}

type recordingUsage struct {
	mu    sync.Mutex
	calls []usageCall
	err   error
}

func (r *recordingUsage) Record(_ context.Context, in metering.RecordUsageInput) (*domainMetering.UsageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.calls = append(r.calls, usageCall{action: in.ActionType, executionTime: in.ExecutionTime, metadata: in.Metadata})
	return domainMetering.NewUsageRecord(in.OrganizationID, in.UserID, in.ActionType, decimal.Zero, time.Now())
}

func (r *recordingUsage) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.action
	}
	return out
}

type fixedRanges struct {
	ranges compliance.TemperatureRanges
	calls  int
}

func (f *fixedRanges) Ranges(context.Context) compliance.TemperatureRanges {
	f.calls++
	return f.ranges
}

type stubAnalyzer struct {
	err error
}

func (s stubAnalyzer) Analyze(_ context.Context, image []byte) (*compliance.ImageAnalysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &compliance.ImageAnalysis{
		Success:     true,
		Confidence:  0.9,
		Extracted:   map[string]any{"product_name": "Milk"},
		Duration:    1500 * time.Millisecond,
		ContentType: "image/png",
	}, nil
}

type memoryStorage struct {
	saved map[string][]byte
	err   error
}

func (m *memoryStorage) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[key] = data
	return "mem://" + key, nil
}

var errBoom = errors.New("boom")
