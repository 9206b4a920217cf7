package catalog

import (
	"time"

	"github.com/aihaccp/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Category       string           `json:"category" binding:"max=100"`
	Allergens      []string         `json:"allergens" binding:"omitempty,dive,max=100"`
	ShelfLifeDays  *int             `json:"shelf_life_days" binding:"omitempty,min=0"`
	StorageTempMin *decimal.Decimal `json:"storage_temp_min"`
	StorageTempMax *decimal.Decimal `json:"storage_temp_max"`
}

// ProductListFilter represents filter options for listing products
type ProductListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"max=100"`
	Category string `form:"category" binding:"max=100"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	OrganizationID uuid.UUID        `json:"organization_id"`
	Name           string           `json:"name"`
	Category       string           `json:"category"`
	Allergens      []string         `json:"allergens"`
	ShelfLifeDays  *int             `json:"shelf_life_days"`
	StorageTempMin *decimal.Decimal `json:"storage_temp_min"`
	StorageTempMax *decimal.Decimal `json:"storage_temp_max"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Name:           p.Name,
		Category:       p.Category,
		Allergens:      p.Allergens,
		ShelfLifeDays:  p.ShelfLifeDays,
		StorageTempMin: p.StorageTempMin,
		StorageTempMax: p.StorageTempMax,
		CreatedAt:      p.CreatedAt,
	}
}
