package compliance

import (
	"strings"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TemperatureLog is a single reading taken at a storage location
type TemperatureLog struct {
	shared.OrganizationEntity
	Location       string
	Temperature    decimal.Decimal
	EquipmentID    string
	StorageZone    StorageZone
	IsWithinLimits *bool
	RecordedBy     uuid.UUID
}

// NewTemperatureLog records a reading taken by a user
func NewTemperatureLog(organizationID, recordedBy uuid.UUID, location string, temperature decimal.Decimal) (*TemperatureLog, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location cannot be empty")
	}
	if len(location) > 200 {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location cannot exceed 200 characters")
	}
	return &TemperatureLog{
		OrganizationEntity: shared.NewOrganizationEntity(organizationID),
		Location:           location,
		Temperature:        temperature,
		RecordedBy:         recordedBy,
	}, nil
}

// SetEquipment tags the reading with the equipment identifier
func (l *TemperatureLog) SetEquipment(equipmentID string) {
	l.EquipmentID = strings.TrimSpace(equipmentID)
}

// SetWithinLimits records an explicit compliance verdict
func (l *TemperatureLog) SetWithinLimits(ok bool) {
	l.IsWithinLimits = &ok
}

// Evaluate derives the compliance verdict from the zone's range.
// An explicit verdict or an unknown zone leaves the log unchanged.
func (l *TemperatureLog) Evaluate(zone StorageZone, ranges TemperatureRanges) {
	l.StorageZone = zone
	if l.IsWithinLimits != nil {
		return
	}
	r, ok := ranges[zone]
	if !ok {
		return
	}
	within := r.Contains(l.Temperature)
	l.IsWithinLimits = &within
}

// IsAlarm reports a reading known to be outside its limits
func (l *TemperatureLog) IsAlarm() bool {
	return l.IsWithinLimits != nil && !*l.IsWithinLimits
}
