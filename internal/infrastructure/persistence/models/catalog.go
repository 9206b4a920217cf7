package models

import (
	"github.com/aihaccp/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for products
type ProductModel struct {
	OrganizationScopedModel
	Name           string           `gorm:"type:varchar(200);not null"`
	Category       string           `gorm:"type:varchar(100)"`
	Allergens      string           `gorm:"type:jsonb"`
	ShelfLifeDays  *int             `gorm:"type:integer"`
	StorageTempMin *decimal.Decimal `gorm:"type:numeric(5,2)"`
	StorageTempMax *decimal.Decimal `gorm:"type:numeric(5,2)"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	allergens := []string{}
	decodeJSON(m.Allergens, &allergens)
	return &catalog.Product{
		OrganizationEntity: m.OrganizationScopedModel.ToDomain(),
		Name:               m.Name,
		Category:           m.Category,
		Allergens:          allergens,
		ShelfLifeDays:      m.ShelfLifeDays,
		StorageTempMin:     m.StorageTempMin,
		StorageTempMax:     m.StorageTempMax,
	}
}

// ProductModelFromDomain creates a model from a domain product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:           p.Name,
		Category:       p.Category,
		Allergens:      encodeJSON(p.Allergens, "[]"),
		ShelfLifeDays:  p.ShelfLifeDays,
		StorageTempMin: p.StorageTempMin,
		StorageTempMax: p.StorageTempMax,
	}
	m.FromDomainOrganizationEntity(p.OrganizationEntity)
	return m
}
