package models

import (
	"time"

	"github.com/aihaccp/backend/internal/domain/metering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConfigurationModel is the persistence model for configuration entries.
// The unique index on parameter makes insert-if-absent seeding race free.
type ConfigurationModel struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	Parameter       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_configurations_parameter"`
	Value           string    `gorm:"type:text"`
	ParentParameter string    `gorm:"type:varchar(100);index"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConfigurationModel) TableName() string {
	return "configurations"
}

// ToDomain converts the model to a domain configuration entry
func (m *ConfigurationModel) ToDomain() *metering.ConfigurationEntry {
	return &metering.ConfigurationEntry{
		Parameter:       m.Parameter,
		Value:           m.Value,
		ParentParameter: m.ParentParameter,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ConfigurationModelFromDomain creates a model from a domain configuration entry
func ConfigurationModelFromDomain(e *metering.ConfigurationEntry) *ConfigurationModel {
	return &ConfigurationModel{
		Parameter:       e.Parameter,
		Value:           e.Value,
		ParentParameter: e.ParentParameter,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// UsageRecordModel is the persistence model for usage records.
// Rows are inserted once and never updated, so there is no updated_at column.
type UsageRecordModel struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index:idx_usage_records_org_created,priority:1;index:idx_usage_records_org_action,priority:1"`
	UserID         uuid.UUID        `gorm:"type:uuid;index"`
	ActionType     string           `gorm:"type:varchar(100);not null;index:idx_usage_records_org_action,priority:2"`
	Cost           decimal.Decimal  `gorm:"type:numeric;not null"`
	ExecutionTime  *decimal.Decimal `gorm:"type:numeric"`
	Metadata       string           `gorm:"type:jsonb"`
	CreatedAt      time.Time        `gorm:"not null;index:idx_usage_records_org_created,priority:2"`
}

// TableName returns the table name for GORM
func (UsageRecordModel) TableName() string {
	return "usage_records"
}

// ToDomain converts the model to a domain usage record
func (m *UsageRecordModel) ToDomain() *metering.UsageRecord {
	var metadata metering.Metadata
	decodeJSON(m.Metadata, &metadata)
	return &metering.UsageRecord{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		ActionType:     m.ActionType,
		Cost:           m.Cost,
		ExecutionTime:  m.ExecutionTime,
		Metadata:       metadata,
		CreatedAt:      m.CreatedAt,
	}
}

// UsageRecordModelFromDomain creates a model from a domain usage record
func UsageRecordModelFromDomain(r *metering.UsageRecord) *UsageRecordModel {
	return &UsageRecordModel{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		UserID:         r.UserID,
		ActionType:     r.ActionType,
		Cost:           r.Cost,
		ExecutionTime:  r.ExecutionTime,
		Metadata:       encodeJSON(r.Metadata, "{}"),
		CreatedAt:      r.CreatedAt,
	}
}
