package compliance

import (
	"context"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TemperatureLogRepository defines the interface for temperature log persistence
type TemperatureLogRepository interface {
	Create(ctx context.Context, log *TemperatureLog) error
	// FindRecent returns the newest logs first, at most limit rows
	FindRecent(ctx context.Context, organizationID uuid.UUID, limit int) ([]*TemperatureLog, error)
}

// CleaningPlanRepository defines the interface for cleaning plan persistence
type CleaningPlanRepository interface {
	Create(ctx context.Context, plan *CleaningPlan) error
	FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*CleaningPlan, error)
	FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]*CleaningPlan, int64, error)
}

// RoomCleaningRepository defines the interface for room cleaning persistence
type RoomCleaningRepository interface {
	Create(ctx context.Context, cleaning *RoomCleaning) error
	FindByPlan(ctx context.Context, organizationID, planID uuid.UUID) ([]*RoomCleaning, error)
}

// MaterialReceptionRepository defines the interface for reception persistence
type MaterialReceptionRepository interface {
	Create(ctx context.Context, reception *MaterialReception) error
	FindRecent(ctx context.Context, organizationID uuid.UUID, limit int) ([]*MaterialReception, error)
}
