package identity

import (
	"strings"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/gosimple/slug"
)

// OrganizationType classifies the kind of food business
type OrganizationType string

const (
	OrganizationTypeRestaurant OrganizationType = "restaurant"
	OrganizationTypeFactory    OrganizationType = "factory"
	OrganizationTypeRetail     OrganizationType = "retail"
	OrganizationTypeCatering   OrganizationType = "catering"
)

// Organization is the tenant every record belongs to
type Organization struct {
	shared.BaseEntity
	Name string
	Type OrganizationType
	Slug string
}

// NewOrganization creates an organization and derives its slug from the name
func NewOrganization(name string, orgType OrganizationType) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot exceed 200 characters")
	}
	orgType = OrganizationType(strings.ToLower(strings.TrimSpace(string(orgType))))
	if orgType == "" {
		return nil, shared.NewDomainError("INVALID_TYPE", "Organization type cannot be empty")
	}
	if len(orgType) > 50 {
		return nil, shared.NewDomainError("INVALID_TYPE", "Organization type cannot exceed 50 characters")
	}

	return &Organization{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Type:       orgType,
		Slug:       slug.Make(name),
	}, nil
}

// Rename changes the display name and refreshes the slug
func (o *Organization) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	o.Name = name
	o.Slug = slug.Make(name)
	o.Touch()
	return nil
}
