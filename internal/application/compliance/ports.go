package compliance

import (
	"context"

	"github.com/aihaccp/backend/internal/domain/compliance"
)

// RangeProvider supplies the configured safe temperature ranges
type RangeProvider interface {
	Ranges(ctx context.Context) compliance.TemperatureRanges
}
