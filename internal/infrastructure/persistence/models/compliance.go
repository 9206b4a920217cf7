package models

import (
	"time"

	"github.com/aihaccp/backend/internal/domain/compliance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TemperatureLogModel is the persistence model for temperature readings
type TemperatureLogModel struct {
	OrganizationScopedModel
	Location       string          `gorm:"type:varchar(200);not null"`
	Temperature    decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	EquipmentID    string          `gorm:"type:varchar(100)"`
	StorageZone    string          `gorm:"type:varchar(20)"`
	IsWithinLimits *bool
	RecordedBy     uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (TemperatureLogModel) TableName() string {
	return "temperature_logs"
}

// ToDomain converts the model to a domain temperature log
func (m *TemperatureLogModel) ToDomain() *compliance.TemperatureLog {
	return &compliance.TemperatureLog{
		OrganizationEntity: m.OrganizationScopedModel.ToDomain(),
		Location:           m.Location,
		Temperature:        m.Temperature,
		EquipmentID:        m.EquipmentID,
		StorageZone:        compliance.StorageZone(m.StorageZone),
		IsWithinLimits:     m.IsWithinLimits,
		RecordedBy:         m.RecordedBy,
	}
}

// TemperatureLogModelFromDomain creates a model from a domain temperature log
func TemperatureLogModelFromDomain(l *compliance.TemperatureLog) *TemperatureLogModel {
	m := &TemperatureLogModel{
		Location:       l.Location,
		Temperature:    l.Temperature,
		EquipmentID:    l.EquipmentID,
		StorageZone:    string(l.StorageZone),
		IsWithinLimits: l.IsWithinLimits,
		RecordedBy:     l.RecordedBy,
	}
	m.FromDomainOrganizationEntity(l.OrganizationEntity)
	return m
}

// CleaningPlanModel is the persistence model for cleaning plans
type CleaningPlanModel struct {
	OrganizationScopedModel
	Name              string `gorm:"type:varchar(200);not null"`
	Description       string `gorm:"type:text"`
	Rooms             string `gorm:"type:jsonb;not null"`
	Frequency         string `gorm:"column:cleaning_frequency;type:varchar(20);not null"`
	EstimatedDuration *int   `gorm:"type:integer"`
}

// TableName returns the table name for GORM
func (CleaningPlanModel) TableName() string {
	return "cleaning_plans"
}

// ToDomain converts the model to a domain cleaning plan
func (m *CleaningPlanModel) ToDomain() *compliance.CleaningPlan {
	rooms := []compliance.Room{}
	decodeJSON(m.Rooms, &rooms)
	return &compliance.CleaningPlan{
		OrganizationEntity: m.OrganizationScopedModel.ToDomain(),
		Name:               m.Name,
		Description:        m.Description,
		Rooms:              rooms,
		Frequency:          compliance.CleaningFrequency(m.Frequency),
		EstimatedDuration:  m.EstimatedDuration,
	}
}

// CleaningPlanModelFromDomain creates a model from a domain cleaning plan
func CleaningPlanModelFromDomain(p *compliance.CleaningPlan) *CleaningPlanModel {
	m := &CleaningPlanModel{
		Name:              p.Name,
		Description:       p.Description,
		Rooms:             encodeJSON(p.Rooms, "[]"),
		Frequency:         string(p.Frequency),
		EstimatedDuration: p.EstimatedDuration,
	}
	m.FromDomainOrganizationEntity(p.OrganizationEntity)
	return m
}

// RoomCleaningModel is the persistence model for room cleaning records
type RoomCleaningModel struct {
	OrganizationScopedModel
	CleaningPlanID uuid.UUID `gorm:"type:uuid;not null;index"`
	RoomName       string    `gorm:"type:varchar(100);not null"`
	CleanedBy      uuid.UUID `gorm:"type:uuid;not null"`
	Notes          string    `gorm:"type:text"`
	CleanedAt      time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (RoomCleaningModel) TableName() string {
	return "room_cleanings"
}

// ToDomain converts the model to a domain room cleaning
func (m *RoomCleaningModel) ToDomain() *compliance.RoomCleaning {
	return &compliance.RoomCleaning{
		OrganizationEntity: m.OrganizationScopedModel.ToDomain(),
		CleaningPlanID:     m.CleaningPlanID,
		RoomName:           m.RoomName,
		CleanedBy:          m.CleanedBy,
		Notes:              m.Notes,
		CleanedAt:          m.CleanedAt,
	}
}

// RoomCleaningModelFromDomain creates a model from a domain room cleaning
func RoomCleaningModelFromDomain(c *compliance.RoomCleaning) *RoomCleaningModel {
	m := &RoomCleaningModel{
		CleaningPlanID: c.CleaningPlanID,
		RoomName:       c.RoomName,
		CleanedBy:      c.CleanedBy,
		Notes:          c.Notes,
		CleanedAt:      c.CleanedAt,
	}
	m.FromDomainOrganizationEntity(c.OrganizationEntity)
	return m
}

// MaterialReceptionModel is the persistence model for material receptions
type MaterialReceptionModel struct {
	OrganizationScopedModel
	SupplierID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName          string           `gorm:"type:varchar(200);not null"`
	Category             string           `gorm:"type:varchar(100);not null"`
	Barcode              string           `gorm:"type:varchar(50)"`
	Quantity             decimal.Decimal  `gorm:"type:numeric(10,3);not null"`
	Unit                 string           `gorm:"type:varchar(20);not null"`
	ExpiryDate           *time.Time       `gorm:"type:date"`
	BatchNumber          string           `gorm:"type:varchar(100)"`
	TemperatureOnArrival *decimal.Decimal `gorm:"type:numeric(5,2)"`
	QualityNotes         string           `gorm:"type:text"`
	ImagePath            string           `gorm:"type:varchar(500)"`
	AIAnalysis           *string          `gorm:"column:ai_analysis;type:jsonb"`
	ReceivedBy           uuid.UUID        `gorm:"type:uuid;not null"`
	ReceivedAt           time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (MaterialReceptionModel) TableName() string {
	return "material_receptions"
}

// ToDomain converts the model to a domain material reception
func (m *MaterialReceptionModel) ToDomain() *compliance.MaterialReception {
	var analysis map[string]any
	if m.AIAnalysis != nil {
		decodeJSON(*m.AIAnalysis, &analysis)
	}
	return &compliance.MaterialReception{
		OrganizationEntity:   m.OrganizationScopedModel.ToDomain(),
		SupplierID:           m.SupplierID,
		ProductName:          m.ProductName,
		Category:             m.Category,
		Barcode:              m.Barcode,
		Quantity:             m.Quantity,
		Unit:                 m.Unit,
		ExpiryDate:           m.ExpiryDate,
		BatchNumber:          m.BatchNumber,
		TemperatureOnArrival: m.TemperatureOnArrival,
		QualityNotes:         m.QualityNotes,
		ImagePath:            m.ImagePath,
		AIAnalysis:           analysis,
		ReceivedBy:           m.ReceivedBy,
		ReceivedAt:           m.ReceivedAt,
	}
}

// MaterialReceptionModelFromDomain creates a model from a domain material reception
func MaterialReceptionModelFromDomain(r *compliance.MaterialReception) *MaterialReceptionModel {
	m := &MaterialReceptionModel{
		SupplierID:           r.SupplierID,
		ProductName:          r.ProductName,
		Category:             r.Category,
		Barcode:              r.Barcode,
		Quantity:             r.Quantity,
		Unit:                 r.Unit,
		ExpiryDate:           r.ExpiryDate,
		BatchNumber:          r.BatchNumber,
		TemperatureOnArrival: r.TemperatureOnArrival,
		QualityNotes:         r.QualityNotes,
		ImagePath:            r.ImagePath,
		ReceivedBy:           r.ReceivedBy,
		ReceivedAt:           r.ReceivedAt,
	}
	if r.AIAnalysis != nil {
		analysis := encodeJSON(r.AIAnalysis, "{}")
		m.AIAnalysis = &analysis
	}
	m.FromDomainOrganizationEntity(r.OrganizationEntity)
	return m
}
