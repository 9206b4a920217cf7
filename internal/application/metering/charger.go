package metering

import (
	"context"
	"fmt"

	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Charger records one billable operation for a caller at the resolved unit price.
// Failures are logged and returned.
type Charger struct {
	usage  UsageRecorder
	logger *zap.Logger
}

// NewCharger creates a charger over a usage recorder
func NewCharger(usage UsageRecorder, logger *zap.Logger) Charger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Charger{usage: usage, logger: logger}
}

// Charge records action for the caller
func (c Charger) Charge(ctx context.Context, organizationID, userID uuid.UUID, action string, md domainMetering.Metadata) error {
	_, err := c.usage.Record(ctx, RecordUsageInput{
		UserID:         userID,
		OrganizationID: organizationID,
		ActionType:     action,
		Metadata:       md,
	})
	if err != nil {
		logger.Enrich(ctx, c.logger).Error("Failed to record usage",
			zap.String("action_type", action),
			zap.Error(err),
		)
		return fmt.Errorf("failed to record %s usage: %w", action, err)
	}
	return nil
}
