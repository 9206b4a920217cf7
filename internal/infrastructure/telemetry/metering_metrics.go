package telemetry

import (
	"context"

	"github.com/aihaccp/backend/internal/domain/metering"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// MeteringMetrics counts recorded usage, billed cost and price lookups
type MeteringMetrics struct {
	usageRecords *Counter
	usageCost    *FloatCounter
	priceLookups *Counter
}

// NewMeteringMetrics creates the metering instruments on meter
func NewMeteringMetrics(meter metric.Meter) (*MeteringMetrics, error) {
	usageRecords, err := NewCounter(meter, "haccp_usage_records_total", "Usage records persisted by action type", "{record}")
	if err != nil {
		return nil, err
	}
	usageCost, err := NewFloatCounter(meter, "haccp_usage_cost_total", "Cost billed by action type", "{currency}")
	if err != nil {
		return nil, err
	}
	priceLookups, err := NewCounter(meter, "haccp_price_lookups_total", "Price lookups by action type and source", "{lookup}")
	if err != nil {
		return nil, err
	}
	return &MeteringMetrics{
		usageRecords: usageRecords,
		usageCost:    usageCost,
		priceLookups: priceLookups,
	}, nil
}

// RecordUsage counts one persisted record and its cost
func (m *MeteringMetrics) RecordUsage(ctx context.Context, actionType string, cost decimal.Decimal) {
	m.usageRecords.Inc(ctx, AttrActionType.String(actionType))
	m.usageCost.Add(ctx, cost.InexactFloat64(), AttrActionType.String(actionType))
}

// RecordPriceLookup counts one resolved price by where it came from
func (m *MeteringMetrics) RecordPriceLookup(ctx context.Context, actionType string, source metering.PriceSource) {
	m.priceLookups.Inc(ctx, AttrActionType.String(actionType), AttrPriceSource.String(string(source)))
}
