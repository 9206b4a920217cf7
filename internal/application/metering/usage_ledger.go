package metering

import (
	"context"
	"fmt"
	"time"

	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/aihaccp/backend/internal/infrastructure/logger"
	"github.com/aihaccp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultReportWindow is the trailing window of the "monthly" report figure
const DefaultReportWindow = 30 * 24 * time.Hour

// RecordUsageInput describes one billable action
type RecordUsageInput struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	ActionType     string
	// Cost, when set, is charged verbatim and no price is resolved
	Cost *decimal.Decimal
	// ExecutionTime, when set and Cost is nil, is multiplied by the unit price
	ExecutionTime *decimal.Decimal
	Metadata      domainMetering.Metadata
}

// UsageLedger records usage charges and answers cost aggregates
type UsageLedger struct {
	repo     domainMetering.UsageRecordRepository
	resolver PriceResolver
	metrics  MeteringMetrics
	logger   *zap.Logger
	now      func() time.Time
	window   time.Duration
}

// UsageLedgerOption is a functional option for configuring the ledger
type UsageLedgerOption func(*UsageLedger)

// WithLedgerMetrics sets the metrics sink
func WithLedgerMetrics(metrics MeteringMetrics) UsageLedgerOption {
	return func(l *UsageLedger) {
		if metrics != nil {
			l.metrics = metrics
		}
	}
}

// WithLedgerLogger sets the logger
func WithLedgerLogger(log *zap.Logger) UsageLedgerOption {
	return func(l *UsageLedger) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithClock overrides the clock used to stamp records and compute report windows
func WithClock(now func() time.Time) UsageLedgerOption {
	return func(l *UsageLedger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithReportWindow sets the trailing window used by Report
func WithReportWindow(window time.Duration) UsageLedgerOption {
	return func(l *UsageLedger) {
		if window > 0 {
			l.window = window
		}
	}
}

// NewUsageLedger creates a ledger
func NewUsageLedger(repo domainMetering.UsageRecordRepository, resolver PriceResolver, opts ...UsageLedgerOption) *UsageLedger {
	l := &UsageLedger{
		repo:     repo,
		resolver: resolver,
		metrics:  noopMetrics{},
		logger:   zap.NewNop(),
		now:      time.Now,
		window:   DefaultReportWindow,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record computes the cost of an action and appends one usage record
func (l *UsageLedger) Record(ctx context.Context, input RecordUsageInput) (record *domainMetering.UsageRecord, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "usage_ledger", "record",
		telemetry.WithAttribute("action_type", input.ActionType))
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("usage_ledger.record",
		map[string]string{telemetry.ProfilingLabelAction: input.ActionType}), func(ctx context.Context) {
		record, err = l.record(ctx, input)
	})
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, "cost", record.Cost.String())
	return record, nil
}

func (l *UsageLedger) record(ctx context.Context, input RecordUsageInput) (*domainMetering.UsageRecord, error) {
	if input.OrganizationID == uuid.Nil {
		return nil, domainMetering.ErrInvalidOrganization
	}
	if err := domainMetering.ValidateActionType(input.ActionType); err != nil {
		return nil, err
	}
	if input.ExecutionTime != nil && input.ExecutionTime.IsNegative() {
		return nil, domainMetering.ErrNegativeDuration
	}

	var cost decimal.Decimal
	switch {
	case input.Cost != nil:
		cost = *input.Cost
	case input.ExecutionTime != nil:
		cost = input.ExecutionTime.Mul(l.resolver.GetPrice(ctx, input.ActionType))
	default:
		cost = l.resolver.GetPrice(ctx, input.ActionType)
	}

	record, err := domainMetering.NewUsageRecord(input.OrganizationID, input.UserID, input.ActionType, cost, l.now())
	if err != nil {
		return nil, err
	}
	if input.ExecutionTime != nil {
		if _, err := record.WithExecutionTime(*input.ExecutionTime); err != nil {
			return nil, err
		}
	}
	for k, v := range input.Metadata {
		record.WithMetadata(k, v)
	}

	if err := l.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record usage: %w", err)
	}

	l.metrics.RecordUsage(ctx, record.ActionType, record.Cost)
	logger.Enrich(ctx, l.logger).Debug("Usage recorded",
		zap.String("action_type", record.ActionType),
		zap.String("organization_id", record.OrganizationID.String()),
		zap.String("cost", record.Cost.String()),
	)
	return record, nil
}

// TotalCost returns the lifetime cost of an organization
func (l *UsageLedger) TotalCost(ctx context.Context, organizationID uuid.UUID) (decimal.Decimal, error) {
	total, err := l.repo.SumCost(ctx, organizationID, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum usage cost: %w", err)
	}
	return total, nil
}

// WindowedCost returns the cost of records created at or after since
func (l *UsageLedger) WindowedCost(ctx context.Context, organizationID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	since = since.UTC()
	total, err := l.repo.SumCost(ctx, organizationID, &since)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum windowed usage cost: %w", err)
	}
	return total, nil
}

// CostByAction returns one aggregate per action type, ordered by action type
func (l *UsageLedger) CostByAction(ctx context.Context, organizationID uuid.UUID) ([]domainMetering.ActionCost, error) {
	rows, err := l.repo.SumByAction(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate usage by action: %w", err)
	}
	if rows == nil {
		rows = []domainMetering.ActionCost{}
	}
	return rows, nil
}

// Report combines the lifetime total, the trailing window total and the per-action breakdown
func (l *UsageLedger) Report(ctx context.Context, organizationID uuid.UUID) (*domainMetering.UsageReport, error) {
	now := l.now().UTC()
	windowStart := now.Add(-l.window)

	total, err := l.TotalCost(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	windowCost, err := l.WindowedCost(ctx, organizationID, windowStart)
	if err != nil {
		return nil, err
	}
	breakdown, err := l.CostByAction(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	return &domainMetering.UsageReport{
		OrganizationID: organizationID,
		TotalCost:      total,
		WindowCost:     windowCost,
		WindowStart:    windowStart,
		Breakdown:      breakdown,
		GeneratedAt:    now,
	}, nil
}

// List returns one page of an organization's audit trail, newest first
func (l *UsageLedger) List(ctx context.Context, organizationID uuid.UUID, filter domainMetering.UsageRecordFilter) (shared.Paginated[*domainMetering.UsageRecord], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	records, total, err := l.repo.FindByOrganization(ctx, organizationID, filter)
	if err != nil {
		return shared.Paginated[*domainMetering.UsageRecord]{}, fmt.Errorf("failed to list usage records: %w", err)
	}
	return shared.NewPaginated(records, total, filter.Page, filter.PageSize), nil
}

var (
	_ UsageRecorder = (*UsageLedger)(nil)
	_ UsageQuerier  = (*UsageLedger)(nil)
)
