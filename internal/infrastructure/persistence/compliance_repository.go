package persistence

import (
	"context"
	"errors"

	"github.com/aihaccp/backend/internal/domain/compliance"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/aihaccp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxRecentLimit = 500

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}

// GormTemperatureLogRepository implements compliance.TemperatureLogRepository using GORM
type GormTemperatureLogRepository struct {
	db *gorm.DB
}

// NewGormTemperatureLogRepository creates a new temperature log repository
func NewGormTemperatureLogRepository(db *gorm.DB) *GormTemperatureLogRepository {
	return &GormTemperatureLogRepository{db: db}
}

// Create persists a new temperature reading
func (r *GormTemperatureLogRepository) Create(ctx context.Context, log *compliance.TemperatureLog) error {
	if err := requireOrganization(log.OrganizationID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(models.TemperatureLogModelFromDomain(log)).Error
}

// FindRecent returns the organization's newest readings
func (r *GormTemperatureLogRepository) FindRecent(ctx context.Context, organizationID uuid.UUID, limit int) ([]*compliance.TemperatureLog, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	var rows []models.TemperatureLogModel
	err := r.db.WithContext(ctx).
		Scopes(OrganizationScope(organizationID)).
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	logs := make([]*compliance.TemperatureLog, len(rows))
	for i := range rows {
		logs[i] = rows[i].ToDomain()
	}
	return logs, nil
}

// GormCleaningPlanRepository implements compliance.CleaningPlanRepository using GORM
type GormCleaningPlanRepository struct {
	db *gorm.DB
}

// NewGormCleaningPlanRepository creates a new cleaning plan repository
func NewGormCleaningPlanRepository(db *gorm.DB) *GormCleaningPlanRepository {
	return &GormCleaningPlanRepository{db: db}
}

// Create persists a new cleaning plan
func (r *GormCleaningPlanRepository) Create(ctx context.Context, plan *compliance.CleaningPlan) error {
	if err := requireOrganization(plan.OrganizationID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(models.CleaningPlanModelFromDomain(plan)).Error
}

// FindByIDForOrganization finds a plan owned by the organization
func (r *GormCleaningPlanRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*compliance.CleaningPlan, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	var model models.CleaningPlanModel
	err := r.db.WithContext(ctx).Scopes(OrganizationScope(organizationID)).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrganization lists the organization's cleaning plans
func (r *GormCleaningPlanRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]*compliance.CleaningPlan, int64, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, 0, err
	}
	query := r.db.WithContext(ctx).Model(&models.CleaningPlanModel{}).Scopes(OrganizationScope(organizationID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CleaningPlanModel
	err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, CleaningPlanSortFields, "created_at")).
		Scopes(Paginate(filter)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	plans := make([]*compliance.CleaningPlan, len(rows))
	for i := range rows {
		plans[i] = rows[i].ToDomain()
	}
	return plans, total, nil
}

// GormRoomCleaningRepository implements compliance.RoomCleaningRepository using GORM
type GormRoomCleaningRepository struct {
	db *gorm.DB
}

// NewGormRoomCleaningRepository creates a new room cleaning repository
func NewGormRoomCleaningRepository(db *gorm.DB) *GormRoomCleaningRepository {
	return &GormRoomCleaningRepository{db: db}
}

// Create persists a completed room cleaning
func (r *GormRoomCleaningRepository) Create(ctx context.Context, cleaning *compliance.RoomCleaning) error {
	if err := requireOrganization(cleaning.OrganizationID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(models.RoomCleaningModelFromDomain(cleaning)).Error
}

// FindByPlan lists the cleanings recorded against a plan, newest first
func (r *GormRoomCleaningRepository) FindByPlan(ctx context.Context, organizationID, planID uuid.UUID) ([]*compliance.RoomCleaning, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	var rows []models.RoomCleaningModel
	err := r.db.WithContext(ctx).
		Scopes(OrganizationScope(organizationID)).
		Where("cleaning_plan_id = ?", planID).
		Order("cleaned_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	cleanings := make([]*compliance.RoomCleaning, len(rows))
	for i := range rows {
		cleanings[i] = rows[i].ToDomain()
	}
	return cleanings, nil
}

// GormMaterialReceptionRepository implements compliance.MaterialReceptionRepository using GORM
type GormMaterialReceptionRepository struct {
	db *gorm.DB
}

// NewGormMaterialReceptionRepository creates a new material reception repository
func NewGormMaterialReceptionRepository(db *gorm.DB) *GormMaterialReceptionRepository {
	return &GormMaterialReceptionRepository{db: db}
}

// Create persists a new material reception
func (r *GormMaterialReceptionRepository) Create(ctx context.Context, reception *compliance.MaterialReception) error {
	if err := requireOrganization(reception.OrganizationID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(models.MaterialReceptionModelFromDomain(reception)).Error
}

// FindRecent returns the organization's newest receptions
func (r *GormMaterialReceptionRepository) FindRecent(ctx context.Context, organizationID uuid.UUID, limit int) ([]*compliance.MaterialReception, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}
	var rows []models.MaterialReceptionModel
	err := r.db.WithContext(ctx).
		Scopes(OrganizationScope(organizationID)).
		Order("received_at DESC, created_at DESC").
		Limit(clampLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	receptions := make([]*compliance.MaterialReception, len(rows))
	for i := range rows {
		receptions[i] = rows[i].ToDomain()
	}
	return receptions, nil
}

var (
	_ compliance.TemperatureLogRepository    = (*GormTemperatureLogRepository)(nil)
	_ compliance.CleaningPlanRepository      = (*GormCleaningPlanRepository)(nil)
	_ compliance.RoomCleaningRepository      = (*GormRoomCleaningRepository)(nil)
	_ compliance.MaterialReceptionRepository = (*GormMaterialReceptionRepository)(nil)
)
