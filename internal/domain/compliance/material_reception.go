package compliance

import (
	"strings"
	"time"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialReception records goods received from a supplier
type MaterialReception struct {
	shared.OrganizationEntity
	SupplierID           uuid.UUID
	ProductName          string
	Category             string
	Barcode              string
	Quantity             decimal.Decimal
	Unit                 string
	ExpiryDate           *time.Time
	BatchNumber          string
	TemperatureOnArrival *decimal.Decimal
	QualityNotes         string
	ImagePath            string
	AIAnalysis           map[string]any
	ReceivedBy           uuid.UUID
	ReceivedAt           time.Time
}

// NewMaterialReception creates a reception for a supplier delivery
func NewMaterialReception(
	organizationID, supplierID, receivedBy uuid.UUID,
	productName, category string,
	quantity decimal.Decimal,
	unit string,
) (*MaterialReception, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	entity := shared.NewOrganizationEntity(organizationID)
	return &MaterialReception{
		OrganizationEntity: entity,
		SupplierID:         supplierID,
		ProductName:        productName,
		Category:           category,
		Quantity:           quantity,
		Unit:               unit,
		ReceivedBy:         receivedBy,
		ReceivedAt:         entity.CreatedAt,
	}, nil
}

// IsExpiredAt reports whether the goods are past their expiry date at t
func (r *MaterialReception) IsExpiredAt(t time.Time) bool {
	return r.ExpiryDate != nil && r.ExpiryDate.Before(t)
}

// AttachAnalysis stores the image analysis outcome and the stored image location
func (r *MaterialReception) AttachAnalysis(imagePath string, analysis map[string]any) {
	r.ImagePath = imagePath
	r.AIAnalysis = analysis
}
