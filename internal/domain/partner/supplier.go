package partner

import (
	"strings"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Risk levels range from 1 (low) to 5 (critical)
const (
	MinRiskLevel     = 1
	MaxRiskLevel     = 5
	DefaultRiskLevel = MinRiskLevel
)

// CertificationStatus describes a supplier's food safety certification
type CertificationStatus string

const (
	CertificationCertified CertificationStatus = "certified"
	CertificationPending   CertificationStatus = "pending"
	CertificationExpired   CertificationStatus = "expired"
)

// Supplier delivers raw materials to an organization
type Supplier struct {
	shared.OrganizationEntity
	Name                string
	ContactInfo         map[string]any
	CertificationStatus CertificationStatus
	RiskLevel           int
}

// NewSupplier creates a supplier at the default risk level
func NewSupplier(organizationID uuid.UUID, name string) (*Supplier, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	return &Supplier{
		OrganizationEntity: shared.NewOrganizationEntity(organizationID),
		Name:               name,
		ContactInfo:        map[string]any{},
		RiskLevel:          DefaultRiskLevel,
	}, nil
}

// SetRiskLevel sets the risk level within [MinRiskLevel, MaxRiskLevel]
func (s *Supplier) SetRiskLevel(level int) error {
	if level < MinRiskLevel || level > MaxRiskLevel {
		return shared.NewDomainError("INVALID_RISK_LEVEL", "Risk level must be between 1 and 5")
	}
	s.RiskLevel = level
	return nil
}

// SetContactInfo replaces the free-form contact details
func (s *Supplier) SetContactInfo(info map[string]any) {
	if info == nil {
		info = map[string]any{}
	}
	s.ContactInfo = info
}

// SetCertificationStatus records the certification state
func (s *Supplier) SetCertificationStatus(status CertificationStatus) {
	s.CertificationStatus = CertificationStatus(strings.ToLower(strings.TrimSpace(string(status))))
}

// IsHighRisk reports whether deliveries need extra inspection
func (s *Supplier) IsHighRisk() bool {
	return s.RiskLevel >= 4
}
