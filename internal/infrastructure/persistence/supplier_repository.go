package persistence

import (
	"context"
	"errors"

	"github.com/aihaccp/backend/internal/domain/partner"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/aihaccp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new supplier repository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// Create persists a new supplier
func (r *GormSupplierRepository) Create(ctx context.Context, supplier *partner.Supplier) error {
	if err := requireOrganization(supplier.OrganizationID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(models.SupplierModelFromDomain(supplier)).Error
}

// FindByIDForOrganization finds a supplier owned by the organization
func (r *GormSupplierRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*partner.Supplier, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	var model models.SupplierModel
	err := r.db.WithContext(ctx).Scopes(OrganizationScope(organizationID)).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrganization lists the organization's suppliers
func (r *GormSupplierRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]*partner.Supplier, int64, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, 0, err
	}
	query := r.db.WithContext(ctx).Model(&models.SupplierModel{}).Scopes(OrganizationScope(organizationID))
	if filter.Search != "" {
		query = query.Where(`name LIKE ? ESCAPE '\'`, "%"+likePrefix(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SupplierModel
	err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, SupplierSortFields, "created_at")).
		Scopes(Paginate(filter)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	suppliers := make([]*partner.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = rows[i].ToDomain()
	}
	return suppliers, total, nil
}

// ExistsForOrganization checks that the supplier belongs to the organization
func (r *GormSupplierRepository) ExistsForOrganization(ctx context.Context, organizationID, id uuid.UUID) (bool, error) {
	if err := requireOrganization(organizationID); err != nil {
		return false, err
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SupplierModel{}).
		Scopes(OrganizationScope(organizationID)).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
