package models

import (
	"encoding/json"
	"time"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// OrganizationScopedModel adds the owning organization to BaseModel
type OrganizationScopedModel struct {
	BaseModel
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// ToDomain converts the model to a domain OrganizationEntity
func (m *OrganizationScopedModel) ToDomain() shared.OrganizationEntity {
	return shared.OrganizationEntity{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrganizationID: m.OrganizationID,
	}
}

// FromDomainOrganizationEntity populates the model from a domain OrganizationEntity
func (m *OrganizationScopedModel) FromDomainOrganizationEntity(e shared.OrganizationEntity) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.OrganizationID = e.OrganizationID
}

// encodeJSON serializes v for a JSON column, falling back to the given empty literal
func encodeJSON(v any, empty string) string {
	if v == nil {
		return empty
	}
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return empty
	}
	return string(b)
}

// decodeJSON deserializes a JSON column; malformed content leaves out untouched
func decodeJSON(raw string, out any) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), out)
}
