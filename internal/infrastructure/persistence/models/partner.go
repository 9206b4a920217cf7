package models

import (
	"github.com/aihaccp/backend/internal/domain/partner"
)

// SupplierModel is the persistence model for suppliers
type SupplierModel struct {
	OrganizationScopedModel
	Name                string `gorm:"type:varchar(200);not null"`
	ContactInfo         string `gorm:"type:jsonb"`
	CertificationStatus string `gorm:"type:varchar(50)"`
	RiskLevel           int    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the model to a domain supplier
func (m *SupplierModel) ToDomain() *partner.Supplier {
	contact := map[string]any{}
	decodeJSON(m.ContactInfo, &contact)
	return &partner.Supplier{
		OrganizationEntity:  m.OrganizationScopedModel.ToDomain(),
		Name:                m.Name,
		ContactInfo:         contact,
		CertificationStatus: partner.CertificationStatus(m.CertificationStatus),
		RiskLevel:           m.RiskLevel,
	}
}

// SupplierModelFromDomain creates a model from a domain supplier
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{
		Name:                s.Name,
		ContactInfo:         encodeJSON(s.ContactInfo, "{}"),
		CertificationStatus: string(s.CertificationStatus),
		RiskLevel:           s.RiskLevel,
	}
	m.FromDomainOrganizationEntity(s.OrganizationEntity)
	return m
}
