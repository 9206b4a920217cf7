package persistence

import (
	"context"
	"errors"

	"github.com/aihaccp/backend/internal/domain/catalog"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/aihaccp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create persists a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	if err := requireOrganization(product.OrganizationID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(models.ProductModelFromDomain(product)).Error
}

// FindByIDForOrganization finds a product owned by the organization
func (r *GormProductRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*catalog.Product, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	var model models.ProductModel
	err := r.db.WithContext(ctx).Scopes(OrganizationScope(organizationID)).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrganization lists the organization's products
func (r *GormProductRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]*catalog.Product, int64, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, 0, err
	}
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).Scopes(OrganizationScope(organizationID))
	if filter.Search != "" {
		query = query.Where(`name LIKE ? ESCAPE '\'`, "%"+likePrefix(filter.Search))
	}
	if category, ok := filter.Filters["category"].(string); ok && category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, ProductSortFields, "created_at")).
		Scopes(Paginate(filter)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	products := make([]*catalog.Product, len(rows))
	for i := range rows {
		products[i] = rows[i].ToDomain()
	}
	return products, total, nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
