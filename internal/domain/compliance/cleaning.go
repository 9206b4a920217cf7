package compliance

import (
	"strings"
	"time"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CleaningFrequency is how often a plan must be executed
type CleaningFrequency string

const (
	FrequencyDaily   CleaningFrequency = "daily"
	FrequencyWeekly  CleaningFrequency = "weekly"
	FrequencyMonthly CleaningFrequency = "monthly"
)

// IsValid checks the frequency against the supported set
func (f CleaningFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Room is a rectangle on the floor plan drawn by the cleaning plan editor
type Room struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CleaningPlan describes the rooms to clean and how often
type CleaningPlan struct {
	shared.OrganizationEntity
	Name              string
	Description       string
	Rooms             []Room
	Frequency         CleaningFrequency
	EstimatedDuration *int
}

// NewCleaningPlan creates a plan; room names must be non-blank and unique
func NewCleaningPlan(organizationID uuid.UUID, name string, rooms []Room, frequency CleaningFrequency) (*CleaningPlan, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Cleaning plan name cannot be empty")
	}
	frequency = CleaningFrequency(strings.ToLower(string(frequency)))
	if !frequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_FREQUENCY", "Cleaning frequency must be daily, weekly or monthly")
	}
	seen := make(map[string]struct{}, len(rooms))
	for i := range rooms {
		rooms[i].Name = strings.TrimSpace(rooms[i].Name)
		if rooms[i].Name == "" {
			return nil, shared.NewDomainError("INVALID_ROOM", "Room name cannot be empty")
		}
		if _, dup := seen[rooms[i].Name]; dup {
			return nil, shared.NewDomainError("INVALID_ROOM", "Room names must be unique within a plan")
		}
		seen[rooms[i].Name] = struct{}{}
	}
	if rooms == nil {
		rooms = []Room{}
	}
	return &CleaningPlan{
		OrganizationEntity: shared.NewOrganizationEntity(organizationID),
		Name:               name,
		Rooms:              rooms,
		Frequency:          frequency,
	}, nil
}

// SetEstimatedDuration sets the expected duration in minutes
func (p *CleaningPlan) SetEstimatedDuration(minutes int) error {
	if minutes < 0 {
		return shared.NewDomainError("INVALID_DURATION", "Estimated duration cannot be negative")
	}
	p.EstimatedDuration = &minutes
	return nil
}

// HasRoom reports whether the plan contains a room with the given name
func (p *CleaningPlan) HasRoom(name string) bool {
	name = strings.TrimSpace(name)
	for _, r := range p.Rooms {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoomCleaning records that a room of a plan was cleaned
type RoomCleaning struct {
	shared.OrganizationEntity
	CleaningPlanID uuid.UUID
	RoomName       string
	CleanedBy      uuid.UUID
	Notes          string
	CleanedAt      time.Time
}

// MarkRoomCleaned creates a cleaning record for a room of the plan
func (p *CleaningPlan) MarkRoomCleaned(roomName string, cleanedBy uuid.UUID, notes string) (*RoomCleaning, error) {
	roomName = strings.TrimSpace(roomName)
	if !p.HasRoom(roomName) {
		return nil, shared.NewDomainError("UNKNOWN_ROOM", "Room is not part of the cleaning plan")
	}
	entity := shared.NewOrganizationEntity(p.OrganizationID)
	return &RoomCleaning{
		OrganizationEntity: entity,
		CleaningPlanID:     p.ID,
		RoomName:           roomName,
		CleanedBy:          cleanedBy,
		Notes:              strings.TrimSpace(notes),
		CleanedAt:          entity.CreatedAt,
	}, nil
}
