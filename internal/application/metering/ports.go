package metering

import (
	"context"
	"time"

	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/infrastructure/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceResolver maps an action type to its unit price. It never fails.
type PriceResolver interface {
	GetPrice(ctx context.Context, actionType string) decimal.Decimal
}

// UsageRecorder is the write side of the ledger used by billable operations
type UsageRecorder interface {
	Record(ctx context.Context, input RecordUsageInput) (*domainMetering.UsageRecord, error)
}

// UsageQuerier answers organization-scoped aggregate questions
type UsageQuerier interface {
	TotalCost(ctx context.Context, organizationID uuid.UUID) (decimal.Decimal, error)
	WindowedCost(ctx context.Context, organizationID uuid.UUID, since time.Time) (decimal.Decimal, error)
	CostByAction(ctx context.Context, organizationID uuid.UUID) ([]domainMetering.ActionCost, error)
}

// DefaultsLoader supplies the default price table and temperature ranges
type DefaultsLoader interface {
	Load(ctx context.Context) (*pricing.Defaults, error)
}

// MeteringMetrics receives ledger and resolver events. Implementations must not block.
type MeteringMetrics interface {
	RecordUsage(ctx context.Context, actionType string, cost decimal.Decimal)
	RecordPriceLookup(ctx context.Context, actionType string, source domainMetering.PriceSource)
}

type noopMetrics struct{}

func (noopMetrics) RecordUsage(context.Context, string, decimal.Decimal) {}
func (noopMetrics) RecordPriceLookup(context.Context, string, domainMetering.PriceSource) {}
