package metering

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceCache holds resolved unit prices keyed by action type.
// Implementations must be safe for concurrent use.
type PriceCache interface {
	Get(ctx context.Context, actionType string) (decimal.Decimal, bool)
	Set(ctx context.Context, actionType string, price decimal.Decimal)
	// Invalidate drops one action type; an empty action type drops everything
	Invalidate(ctx context.Context, actionType string)
}
