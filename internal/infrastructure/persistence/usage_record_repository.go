package persistence

import (
	"context"
	"time"

	"github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormUsageRecordRepository implements metering.UsageRecordRepository using GORM.
// It only ever inserts and reads; usage records are immutable.
type GormUsageRecordRepository struct {
	db *gorm.DB
}

// NewGormUsageRecordRepository creates a new usage record repository
func NewGormUsageRecordRepository(db *gorm.DB) *GormUsageRecordRepository {
	return &GormUsageRecordRepository{db: db}
}

// Create persists a new usage record
func (r *GormUsageRecordRepository) Create(ctx context.Context, record *metering.UsageRecord) error {
	if err := requireOrganization(record.OrganizationID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(models.UsageRecordModelFromDomain(record)).Error
}

// SumCost returns the organization's total cost, optionally restricted to created_at >= since
func (r *GormUsageRecordRepository) SumCost(ctx context.Context, organizationID uuid.UUID, since *time.Time) (decimal.Decimal, error) {
	if err := requireOrganization(organizationID); err != nil {
		return decimal.Zero, err
	}

	var result struct {
		Total decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Model(&models.UsageRecordModel{}).
		Select("COALESCE(SUM(cost), 0) AS total").
		Scopes(OrganizationScope(organizationID))
	if since != nil {
		query = query.Where("created_at >= ?", since.UTC())
	}
	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total.Round(metering.AggregateScale), nil
}

// SumByAction groups the organization's records by action type
func (r *GormUsageRecordRepository) SumByAction(ctx context.Context, organizationID uuid.UUID) ([]metering.ActionCost, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, err
	}

	var rows []struct {
		ActionType string
		TotalCost  decimal.Decimal
		Count      int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.UsageRecordModel{}).
		Select("action_type, COALESCE(SUM(cost), 0) AS total_cost, COUNT(*) AS count").
		Scopes(OrganizationScope(organizationID)).
		Group("action_type").
		Order("action_type ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	costs := make([]metering.ActionCost, len(rows))
	for i, row := range rows {
		costs[i] = metering.ActionCost{
			ActionType: row.ActionType,
			TotalCost:  row.TotalCost.Round(metering.AggregateScale),
			Count:      row.Count,
		}
	}
	return costs, nil
}

// FindByOrganization lists the organization's records, newest first
func (r *GormUsageRecordRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID, filter metering.UsageRecordFilter) ([]*metering.UsageRecord, int64, error) {
	if err := requireOrganization(organizationID); err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.UsageRecordModel{}).
		Scopes(OrganizationScope(organizationID))
	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", filter.To.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UsageRecordModel
	if err := query.Order("created_at DESC").Scopes(Paginate(filter.Filter)).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	records := make([]*metering.UsageRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, total, nil
}

var _ metering.UsageRecordRepository = (*GormUsageRecordRepository)(nil)
