package compliance

import (
	"time"

	"github.com/aihaccp/backend/internal/domain/compliance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecentLimit caps the "latest" listings
const RecentLimit = 100

// CreateTemperatureLogRequest represents a temperature reading
type CreateTemperatureLogRequest struct {
	Location       string           `json:"location" binding:"required,min=1,max=200"`
	Temperature    *decimal.Decimal `json:"temperature" binding:"required"`
	EquipmentID    string           `json:"equipment_id" binding:"max=100"`
	StorageZone    string           `json:"storage_zone" binding:"omitempty,max=50"`
	IsWithinLimits *bool            `json:"is_within_limits"`
}

// TemperatureLogResponse represents a temperature reading in API responses
type TemperatureLogResponse struct {
	ID             uuid.UUID       `json:"id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Location       string          `json:"location"`
	Temperature    decimal.Decimal `json:"temperature"`
	EquipmentID    string          `json:"equipment_id,omitempty"`
	StorageZone    string          `json:"storage_zone,omitempty"`
	IsWithinLimits *bool           `json:"is_within_limits"`
	RecordedBy     uuid.UUID       `json:"recorded_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToTemperatureLogResponse converts a domain temperature log
func ToTemperatureLogResponse(l *compliance.TemperatureLog) TemperatureLogResponse {
	return TemperatureLogResponse{
		ID:             l.ID,
		OrganizationID: l.OrganizationID,
		Location:       l.Location,
		Temperature:    l.Temperature,
		EquipmentID:    l.EquipmentID,
		StorageZone:    string(l.StorageZone),
		IsWithinLimits: l.IsWithinLimits,
		RecordedBy:     l.RecordedBy,
		CreatedAt:      l.CreatedAt,
	}
}

// RoomRequest is a rectangle on the plan's floor map
type RoomRequest struct {
	Name   string  `json:"name" binding:"required,min=1,max=100"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" binding:"gte=0"`
	Height float64 `json:"height" binding:"gte=0"`
}

// CreateCleaningPlanRequest represents a request to create a cleaning plan
type CreateCleaningPlanRequest struct {
	Name              string        `json:"name" binding:"required,min=1,max=200"`
	Description       string        `json:"description" binding:"max=2000"`
	Rooms             []RoomRequest `json:"rooms" binding:"dive"`
	Frequency         string        `json:"frequency" binding:"required,oneof=daily weekly monthly"`
	EstimatedDuration *int          `json:"estimated_duration" binding:"omitempty,min=0"`
}

// CleaningPlanResponse represents a cleaning plan in API responses
type CleaningPlanResponse struct {
	ID                uuid.UUID         `json:"id"`
	OrganizationID    uuid.UUID         `json:"organization_id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Rooms             []compliance.Room `json:"rooms"`
	Frequency         string            `json:"frequency"`
	EstimatedDuration *int              `json:"estimated_duration"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ToCleaningPlanResponse converts a domain cleaning plan
func ToCleaningPlanResponse(p *compliance.CleaningPlan) CleaningPlanResponse {
	return CleaningPlanResponse{
		ID:                p.ID,
		OrganizationID:    p.OrganizationID,
		Name:              p.Name,
		Description:       p.Description,
		Rooms:             p.Rooms,
		Frequency:         string(p.Frequency),
		EstimatedDuration: p.EstimatedDuration,
		CreatedAt:         p.CreatedAt,
	}
}

// CleaningPlanListFilter represents filter options for listing plans
type CleaningPlanListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// MarkRoomCleanedRequest records that a room of a plan was cleaned
type MarkRoomCleanedRequest struct {
	CleaningPlanID uuid.UUID `json:"cleaning_plan_id" binding:"required"`
	RoomName       string    `json:"room_name" binding:"required,min=1,max=100"`
	Notes          string    `json:"notes" binding:"max=2000"`
}

// RoomCleaningResponse represents a room cleaning in API responses
type RoomCleaningResponse struct {
	ID             uuid.UUID `json:"id"`
	CleaningPlanID uuid.UUID `json:"cleaning_plan_id"`
	RoomName       string    `json:"room_name"`
	CleanedBy      uuid.UUID `json:"cleaned_by"`
	Notes          string    `json:"notes"`
	CleanedAt      time.Time `json:"cleaned_at"`
}

// ToRoomCleaningResponse converts a domain room cleaning
func ToRoomCleaningResponse(c *compliance.RoomCleaning) RoomCleaningResponse {
	return RoomCleaningResponse{
		ID:             c.ID,
		CleaningPlanID: c.CleaningPlanID,
		RoomName:       c.RoomName,
		CleanedBy:      c.CleanedBy,
		Notes:          c.Notes,
		CleanedAt:      c.CleanedAt,
	}
}

// CreateMaterialReceptionRequest represents a delivery from a supplier.
// Image is an optional base64 photo of the label, data-URL prefix allowed.
type CreateMaterialReceptionRequest struct {
	SupplierID           uuid.UUID        `json:"supplier_id" binding:"required"`
	ProductName          string           `json:"product_name" binding:"required,min=1,max=200"`
	Category             string           `json:"category" binding:"required,min=1,max=100"`
	Barcode              string           `json:"barcode" binding:"max=50"`
	Quantity             decimal.Decimal  `json:"quantity"`
	Unit                 string           `json:"unit" binding:"required,min=1,max=20"`
	ExpiryDate           string           `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
	BatchNumber          string           `json:"batch_number" binding:"max=100"`
	TemperatureOnArrival *decimal.Decimal `json:"temperature_on_arrival"`
	QualityNotes         string           `json:"quality_notes" binding:"max=2000"`
	Image                string           `json:"image"`
}

// MaterialReceptionResponse represents a reception in API responses
type MaterialReceptionResponse struct {
	ID                   uuid.UUID        `json:"id"`
	OrganizationID       uuid.UUID        `json:"organization_id"`
	SupplierID           uuid.UUID        `json:"supplier_id"`
	ProductName          string           `json:"product_name"`
	Category             string           `json:"category"`
	Barcode              string           `json:"barcode,omitempty"`
	Quantity             decimal.Decimal  `json:"quantity"`
	Unit                 string           `json:"unit"`
	ExpiryDate           *time.Time       `json:"expiry_date"`
	BatchNumber          string           `json:"batch_number,omitempty"`
	TemperatureOnArrival *decimal.Decimal `json:"temperature_on_arrival"`
	QualityNotes         string           `json:"quality_notes,omitempty"`
	ImagePath            string           `json:"image_path,omitempty"`
	AIAnalysis           map[string]any   `json:"ai_analysis,omitempty"`
	ReceivedBy           uuid.UUID        `json:"received_by"`
	ReceivedAt           time.Time        `json:"received_at"`
}

// ToMaterialReceptionResponse converts a domain reception
func ToMaterialReceptionResponse(r *compliance.MaterialReception) MaterialReceptionResponse {
	return MaterialReceptionResponse{
		ID:                   r.ID,
		OrganizationID:       r.OrganizationID,
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
		AIAnalysis:           r.AIAnalysis,
		ReceivedBy:           r.ReceivedBy,
		ReceivedAt:           r.ReceivedAt,
	}
}

// AnalyzeImageRequest carries a base64 label photo
type AnalyzeImageRequest struct {
	Image string `json:"image" binding:"required"`
}
