package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/aihaccp/backend/internal/application/metering"
	"github.com/aihaccp/backend/internal/domain/catalog"
	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product operations. Every call is metered.
type ProductService struct {
	productRepo catalog.ProductRepository
	meter       metering.Charger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, usage metering.UsageRecorder, logger *zap.Logger) *ProductService {
	return &ProductService{productRepo: productRepo, meter: metering.NewCharger(usage, logger)}
}

// Create persists a product and charges product_create
func (s *ProductService) Create(ctx context.Context, organizationID, userID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(organizationID, req.Name)
	if err != nil {
		return nil, err
	}
	product.SetCategory(req.Category)
	product.SetAllergens(req.Allergens)
	if req.ShelfLifeDays != nil {
		if err := product.SetShelfLife(*req.ShelfLifeDays); err != nil {
			return nil, err
		}
	}
	if err := product.SetStorageRange(req.StorageTempMin, req.StorageTempMax); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionProductCreate, domainMetering.Metadata{
		"product_id": product.ID.String(),
	}); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns a page of the organization's products and charges data_query
func (s *ProductService) List(ctx context.Context, organizationID, userID uuid.UUID, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.OrderBy = "name"
	f.OrderDir = "asc"
	f.Search = filter.Search
	if filter.Category != "" {
		f.Filters["category"] = strings.ToLower(strings.TrimSpace(filter.Category))
	}

	products, total, err := s.productRepo.FindAllForOrganization(ctx, organizationID, f)
	if err != nil {
		return nil, err
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionDataQuery, domainMetering.Metadata{
		"resource": "products",
	}); err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i, p := range products {
		items[i] = ToProductResponse(p)
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}
