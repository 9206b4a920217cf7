package partner

import (
	"time"

	"github.com/aihaccp/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Name                string         `json:"name" binding:"required,min=1,max=200"`
	ContactInfo         map[string]any `json:"contact_info"`
	CertificationStatus string         `json:"certification_status" binding:"omitempty,max=50"`
	RiskLevel           *int           `json:"risk_level" binding:"omitempty,min=1,max=5"`
}

// SupplierListFilter represents filter options for listing suppliers
type SupplierListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"max=100"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID                  uuid.UUID      `json:"id"`
	OrganizationID      uuid.UUID      `json:"organization_id"`
	Name                string         `json:"name"`
	ContactInfo         map[string]any `json:"contact_info"`
	CertificationStatus string         `json:"certification_status"`
	RiskLevel           int            `json:"risk_level"`
	HighRisk            bool           `json:"high_risk"`
	CreatedAt           time.Time      `json:"created_at"`
}

// ToSupplierResponse converts a domain supplier
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:                  s.ID,
		OrganizationID:      s.OrganizationID,
		Name:                s.Name,
		ContactInfo:         s.ContactInfo,
		CertificationStatus: string(s.CertificationStatus),
		RiskLevel:           s.RiskLevel,
		HighRisk:            s.IsHighRisk(),
		CreatedAt:           s.CreatedAt,
	}
}
