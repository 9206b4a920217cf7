package catalog

import (
	"strings"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a food item handled by an organization
type Product struct {
	shared.OrganizationEntity
	Name           string
	Category       string
	Allergens      []string
	ShelfLifeDays  *int
	StorageTempMin *decimal.Decimal
	StorageTempMax *decimal.Decimal
}

// NewProduct creates a product with the required name
func NewProduct(organizationID uuid.UUID, name string) (*Product, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return &Product{
		OrganizationEntity: shared.NewOrganizationEntity(organizationID),
		Name:               name,
		Allergens:          []string{},
	}, nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(category string) {
	p.Category = strings.ToLower(strings.TrimSpace(category))
}

// SetAllergens replaces the allergen list, dropping blanks and duplicates
func (p *Product) SetAllergens(allergens []string) {
	seen := make(map[string]struct{}, len(allergens))
	out := make([]string, 0, len(allergens))
	for _, a := range allergens {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	p.Allergens = out
}

// SetShelfLife sets the shelf life in days
func (p *Product) SetShelfLife(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_SHELF_LIFE", "Shelf life cannot be negative")
	}
	p.ShelfLifeDays = &days
	return nil
}

// SetStorageRange sets the storage temperature range; either bound may be nil
func (p *Product) SetStorageRange(minTemp, maxTemp *decimal.Decimal) error {
	if minTemp != nil && maxTemp != nil && minTemp.GreaterThan(*maxTemp) {
		return shared.NewDomainError("INVALID_STORAGE_RANGE", "Minimum storage temperature cannot exceed maximum")
	}
	p.StorageTempMin = minTemp
	p.StorageTempMax = maxTemp
	return nil
}

// HasAllergen reports whether the product declares the allergen
func (p *Product) HasAllergen(allergen string) bool {
	allergen = strings.ToLower(strings.TrimSpace(allergen))
	for _, a := range p.Allergens {
		if a == allergen {
			return true
		}
	}
	return false
}
