package metering

import (
	"context"
	"errors"
	"runtime/pprof"
	"testing"
	"time"

	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/aihaccp/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockUsageRepo is a mock implementation of metering.UsageRecordRepository
type mockUsageRepo struct {
	mock.Mock
}

func (m *mockUsageRepo) Create(ctx context.Context, record *domainMetering.UsageRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockUsageRepo) SumCost(ctx context.Context, organizationID uuid.UUID, since *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockUsageRepo) SumByAction(ctx context.Context, organizationID uuid.UUID) ([]domainMetering.ActionCost, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domainMetering.ActionCost), args.Error(1)
}

func (m *mockUsageRepo) FindByOrganization(ctx context.Context, organizationID uuid.UUID, filter domainMetering.UsageRecordFilter) ([]*domainMetering.UsageRecord, int64, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domainMetering.UsageRecord), args.Get(1).(int64), args.Error(2)
}

func newSQLiteLedger(t *testing.T, resolver PriceResolver, opts ...UsageLedgerOption) *UsageLedger {
	t.Helper()
	return NewUsageLedger(persistence.NewGormUsageRecordRepository(setupTestDB(t)), resolver, opts...)
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestUsageLedger_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit cost and execution time add up", func(t *testing.T) {
		ledger := newSQLiteLedger(t, fixedPrices{domainMetering.ActionAIImageAnalysis: "0.01"})
		orgID := uuid.New()

		_, err := ledger.Record(ctx, RecordUsageInput{
			OrganizationID: orgID,
			UserID:         uuid.New(),
			ActionType:     domainMetering.ActionAIImageAnalysis,
			Cost:           ptr(dec("5.0")),
		})
		require.NoError(t, err)

		total, err := ledger.TotalCost(ctx, orgID)
		require.NoError(t, err)
		assert.True(t, total.Equal(dec("5")), "got %s", total)

		record, err := ledger.Record(ctx, RecordUsageInput{
			OrganizationID: orgID,
			UserID:         uuid.New(),
			ActionType:     domainMetering.ActionAIImageAnalysis,
			ExecutionTime:  ptr(dec("2.0")),
		})
		require.NoError(t, err)
		assert.True(t, record.Cost.Equal(dec("0.02")), "got %s", record.Cost)
		require.NotNil(t, record.ExecutionTime)
		assert.True(t, record.ExecutionTime.Equal(dec("2")))

		total, err = ledger.TotalCost(ctx, orgID)
		require.NoError(t, err)
		assert.True(t, total.Equal(dec("5.02")), "got %s", total)
	})

	t.Run("explicit cost is stored verbatim", func(t *testing.T) {
		ledger := newSQLiteLedger(t, fixedPrices{})
		orgID := uuid.New()

		record, err := ledger.Record(ctx, RecordUsageInput{
			OrganizationID: orgID,
			ActionType:     "bulk_import",
			Cost:           ptr(dec("1234567.1234567")),
		})
		require.NoError(t, err)
		assert.Equal(t, "1234567.1234567", record.Cost.String())

		total, err := ledger.TotalCost(ctx, orgID)
		require.NoError(t, err)
		assert.True(t, total.Equal(dec("1234567.1234567")), "got %s", total)
	})

	t.Run("explicit cost skips price resolution", func(t *testing.T) {
		resolver := new(mockPriceResolver)
		repo := new(mockUsageRepo)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*metering.UsageRecord")).Return(nil)

		record, err := NewUsageLedger(repo, resolver).Record(ctx, RecordUsageInput{
			OrganizationID: uuid.New(),
			ActionType:     domainMetering.ActionLogin,
			Cost:           ptr(dec("0")),
		})
		require.NoError(t, err)
		assert.True(t, record.Cost.IsZero())
		resolver.AssertNotCalled(t, "GetPrice", mock.Anything, mock.Anything)
	})

	t.Run("no cost charges the unit price", func(t *testing.T) {
		resolver := new(mockPriceResolver)
		resolver.On("GetPrice", mock.Anything, domainMetering.ActionTemperatureLog).Return(dec("0.002")).Once()
		repo := new(mockUsageRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		metrics := &recordingMetrics{}
		record, err := NewUsageLedger(repo, resolver, WithLedgerMetrics(metrics)).Record(ctx, RecordUsageInput{
			OrganizationID: uuid.New(),
			UserID:         uuid.New(),
			ActionType:     domainMetering.ActionTemperatureLog,
			Metadata:       domainMetering.Metadata{"location": "walk-in"},
		})
		require.NoError(t, err)
		assert.True(t, record.Cost.Equal(dec("0.002")))
		assert.Nil(t, record.ExecutionTime)
		assert.Equal(t, "walk-in", record.Metadata["location"])
		assert.Equal(t, 1, metrics.usage)
		resolver.AssertExpectations(t)
	})

	t.Run("stamps records with the ledger clock", func(t *testing.T) {
		at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		repo := new(mockUsageRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		record, err := NewUsageLedger(repo, fixedPrices{}, WithClock(func() time.Time { return at })).
			Record(ctx, RecordUsageInput{OrganizationID: uuid.New(), ActionType: "custom"})
		require.NoError(t, err)
		assert.Equal(t, at, record.CreatedAt)
		assert.True(t, record.Cost.Equal(domainMetering.FallbackPrice))
	})

	t.Run("rejects invalid input without writing", func(t *testing.T) {
		repo := new(mockUsageRepo)
		ledger := NewUsageLedger(repo, fixedPrices{})
		orgID := uuid.New()

		cases := map[string]RecordUsageInput{
			"missing organization":    {ActionType: domainMetering.ActionLogin},
			"blank action":            {OrganizationID: orgID, ActionType: "  "},
			"negative cost":           {OrganizationID: orgID, ActionType: domainMetering.ActionLogin, Cost: ptr(dec("-0.1"))},
			"negative execution time": {OrganizationID: orgID, ActionType: domainMetering.ActionLogin, ExecutionTime: ptr(dec("-1"))},
		}
		for name, input := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := ledger.Record(ctx, input)
				assert.ErrorIs(t, err, shared.ErrInvalidInput)
			})
		}
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("propagates persistence errors", func(t *testing.T) {
		dbErr := errors.New("insert failed")
		repo := new(mockUsageRepo)
		repo.On("Create", mock.Anything, mock.Anything).Return(dbErr)

		_, err := NewUsageLedger(repo, fixedPrices{}).Record(ctx, RecordUsageInput{
			OrganizationID: uuid.New(),
			ActionType:     domainMetering.ActionLogin,
		})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestUsageLedger_Aggregates(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	prices := fixedPrices{
		domainMetering.ActionTemperatureLog: "0.002",
		domainMetering.ActionLogin:          "0.001",
	}

	t.Run("windowed cost respects the window", func(t *testing.T) {
		clock := now
		ledger := newSQLiteLedger(t, prices, WithClock(func() time.Time { return clock }))
		orgID := uuid.New()

		clock = now.AddDate(0, 0, -40)
		_, err := ledger.Record(ctx, RecordUsageInput{OrganizationID: orgID, ActionType: domainMetering.ActionLogin, Cost: ptr(dec("1"))})
		require.NoError(t, err)
		clock = now.AddDate(0, 0, -1)
		_, err = ledger.Record(ctx, RecordUsageInput{OrganizationID: orgID, ActionType: domainMetering.ActionLogin, Cost: ptr(dec("2"))})
		require.NoError(t, err)
		clock = now

		windowed, err := ledger.WindowedCost(ctx, orgID, now.AddDate(0, 0, -30))
		require.NoError(t, err)
		assert.True(t, windowed.Equal(dec("2")), "got %s", windowed)

		report, err := ledger.Report(ctx, orgID)
		require.NoError(t, err)
		assert.True(t, report.TotalCost.Equal(dec("3")))
		assert.True(t, report.WindowCost.Equal(dec("2")))
		assert.Equal(t, now.Add(-DefaultReportWindow), report.WindowStart)
		assert.Equal(t, now, report.GeneratedAt)
	})

	t.Run("breakdown per action", func(t *testing.T) {
		ledger := newSQLiteLedger(t, prices)
		orgID := uuid.New()
		for i := 0; i < 3; i++ {
			_, err := ledger.Record(ctx, RecordUsageInput{OrganizationID: orgID, ActionType: domainMetering.ActionTemperatureLog})
			require.NoError(t, err)
		}
		_, err := ledger.Record(ctx, RecordUsageInput{OrganizationID: orgID, ActionType: domainMetering.ActionLogin})
		require.NoError(t, err)

		breakdown, err := ledger.CostByAction(ctx, orgID)
		require.NoError(t, err)
		require.Len(t, breakdown, 2)

		assert.Equal(t, domainMetering.ActionLogin, breakdown[0].ActionType)
		assert.True(t, breakdown[0].TotalCost.Equal(dec("0.001")), "got %s", breakdown[0].TotalCost)
		assert.Equal(t, int64(1), breakdown[0].Count)

		assert.Equal(t, domainMetering.ActionTemperatureLog, breakdown[1].ActionType)
		assert.True(t, breakdown[1].TotalCost.Equal(dec("0.006")), "got %s", breakdown[1].TotalCost)
		assert.Equal(t, int64(3), breakdown[1].Count)
	})

	t.Run("organizations are isolated", func(t *testing.T) {
		ledger := newSQLiteLedger(t, prices)
		orgA, orgB := uuid.New(), uuid.New()

		_, err := ledger.Record(ctx, RecordUsageInput{OrganizationID: orgA, ActionType: domainMetering.ActionLogin, Cost: ptr(dec("1.5"))})
		require.NoError(t, err)
		_, err = ledger.Record(ctx, RecordUsageInput{OrganizationID: orgB, ActionType: domainMetering.ActionTemperatureLog, Cost: ptr(dec("7"))})
		require.NoError(t, err)

		totalA, err := ledger.TotalCost(ctx, orgA)
		require.NoError(t, err)
		assert.True(t, totalA.Equal(dec("1.5")))

		breakdownA, err := ledger.CostByAction(ctx, orgA)
		require.NoError(t, err)
		require.Len(t, breakdownA, 1)
		assert.Equal(t, domainMetering.ActionLogin, breakdownA[0].ActionType)
	})

	t.Run("empty organization totals zero", func(t *testing.T) {
		ledger := newSQLiteLedger(t, prices)
		orgID := uuid.New()

		total, err := ledger.TotalCost(ctx, orgID)
		require.NoError(t, err)
		assert.True(t, total.IsZero())

		breakdown, err := ledger.CostByAction(ctx, orgID)
		require.NoError(t, err)
		assert.NotNil(t, breakdown)
		assert.Empty(t, breakdown)
	})

	t.Run("read errors are wrapped", func(t *testing.T) {
		dbErr := errors.New("timeout")
		repo := new(mockUsageRepo)
		repo.On("SumCost", mock.Anything, mock.Anything, mock.Anything).Return(decimal.Zero, dbErr)

		_, err := NewUsageLedger(repo, prices).TotalCost(ctx, uuid.New())
		assert.ErrorIs(t, err, dbErr)

		_, err = NewUsageLedger(repo, prices).Report(ctx, uuid.New())
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestUsageLedger_List(t *testing.T) {
	ctx := context.Background()
	ledger := newSQLiteLedger(t, fixedPrices{})
	orgID := uuid.New()
	for i := 0; i < 5; i++ {
		_, err := ledger.Record(ctx, RecordUsageInput{OrganizationID: orgID, ActionType: domainMetering.ActionDataQuery})
		require.NoError(t, err)
	}

	page, err := ledger.List(ctx, orgID, domainMetering.UsageRecordFilter{Filter: shared.Filter{Page: 2, PageSize: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalPages)

	page, err = ledger.List(ctx, orgID, domainMetering.UsageRecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Len(t, page.Items, 5)
}

func TestUsageLedger_RecordCarriesProfilingLabels(t *testing.T) {
	repo := new(mockUsageRepo)
	repo.On("Create", mock.MatchedBy(func(ctx context.Context) bool {
		op, _ := pprof.Label(ctx, "operation")
		action, _ := pprof.Label(ctx, "action_type")
		return op == "usage_ledger.record" && action == domainMetering.ActionProductCreate
	}), mock.Anything).Return(nil).Once()

	ledger := NewUsageLedger(repo, fixedPrices{domainMetering.ActionProductCreate: "0.01"})
	record, err := ledger.Record(context.Background(), RecordUsageInput{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		ActionType:     domainMetering.ActionProductCreate,
	})
	require.NoError(t, err)
	assert.True(t, record.Cost.Equal(dec("0.01")))
	repo.AssertExpectations(t)
}
