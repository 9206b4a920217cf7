package compliance

import (
	"context"
	"fmt"

	"github.com/aihaccp/backend/internal/application/metering"
	"github.com/aihaccp/backend/internal/domain/compliance"
	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownStorageZone is returned for zones other than refrigerated, frozen and ambient
var ErrUnknownStorageZone = shared.NewDomainError("INVALID_STORAGE_ZONE", "Storage zone must be refrigerated, frozen or ambient")

// TemperatureLogService records temperature readings
type TemperatureLogService struct {
	repo   compliance.TemperatureLogRepository
	ranges RangeProvider
	meter  metering.Charger
}

// NewTemperatureLogService creates a new TemperatureLogService
func NewTemperatureLogService(
	repo compliance.TemperatureLogRepository,
	ranges RangeProvider,
	usage metering.UsageRecorder,
	logger *zap.Logger,
) *TemperatureLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemperatureLogService{
		repo:   repo,
		ranges: ranges,
		meter:  metering.NewCharger(usage, logger),
	}
}

// Create stores a reading and charges temperature_log. Without an explicit
// verdict the reading is checked against the zone's configured range.
func (s *TemperatureLogService) Create(ctx context.Context, organizationID, userID uuid.UUID, req CreateTemperatureLogRequest) (*TemperatureLogResponse, error) {
	if req.Temperature == nil {
		return nil, shared.NewDomainError("INVALID_TEMPERATURE", "Temperature is required")
	}
	log, err := compliance.NewTemperatureLog(organizationID, userID, req.Location, *req.Temperature)
	if err != nil {
		return nil, err
	}
	log.SetEquipment(req.EquipmentID)
	if req.IsWithinLimits != nil {
		log.SetWithinLimits(*req.IsWithinLimits)
	}
	if req.StorageZone != "" {
		zone, ok := compliance.ParseStorageZone(req.StorageZone)
		if !ok {
			return nil, ErrUnknownStorageZone
		}
		ranges := compliance.DefaultTemperatureRanges()
		if log.IsWithinLimits == nil && s.ranges != nil {
			ranges = s.ranges.Ranges(ctx)
		}
		log.Evaluate(zone, ranges)
	}

	if err := s.repo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create temperature log: %w", err)
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionTemperatureLog, domainMetering.Metadata{
		"temperature_log_id": log.ID.String(),
		"alarm":              log.IsAlarm(),
	}); err != nil {
		return nil, err
	}

	resp := ToTemperatureLogResponse(log)
	return &resp, nil
}

// ListRecent returns the newest readings and charges data_query
func (s *TemperatureLogService) ListRecent(ctx context.Context, organizationID, userID uuid.UUID) ([]TemperatureLogResponse, error) {
	logs, err := s.repo.FindRecent(ctx, organizationID, RecentLimit)
	if err != nil {
		return nil, err
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionDataQuery, domainMetering.Metadata{
		"resource": "temperature_logs",
	}); err != nil {
		return nil, err
	}
	out := make([]TemperatureLogResponse, len(logs))
	for i, l := range logs {
		out[i] = ToTemperatureLogResponse(l)
	}
	return out, nil
}
