package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/aihaccp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConfigurationRepository implements metering.ConfigurationRepository using GORM
type GormConfigurationRepository struct {
	db *gorm.DB
}

// NewGormConfigurationRepository creates a new configuration repository
func NewGormConfigurationRepository(db *gorm.DB) *GormConfigurationRepository {
	return &GormConfigurationRepository{db: db}
}

// FindByParameter returns the entry stored under parameter
func (r *GormConfigurationRepository) FindByParameter(ctx context.Context, parameter string) (*metering.ConfigurationEntry, error) {
	var model models.ConfigurationModel
	err := r.db.WithContext(ctx).Where("parameter = ?", parameter).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByPrefix returns entries whose key starts with prefix, ordered by key
func (r *GormConfigurationRepository) ListByPrefix(ctx context.Context, prefix string) ([]*metering.ConfigurationEntry, error) {
	var rows []models.ConfigurationModel
	query := r.db.WithContext(ctx).Model(&models.ConfigurationModel{})
	if prefix != "" {
		query = query.Where(`parameter LIKE ? ESCAPE '\'`, likePrefix(prefix))
	}
	if err := query.Order("parameter ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]*metering.ConfigurationEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

// ExistsWithPrefix reports whether any key starts with prefix
func (r *GormConfigurationRepository) ExistsWithPrefix(ctx context.Context, prefix string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ConfigurationModel{}).
		Where(`parameter LIKE ? ESCAPE '\'`, likePrefix(prefix)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertIfAbsent writes all entries as one batch inside a transaction.
// Keys that already exist are left untouched, so concurrent seeders cannot
// produce duplicates or overwrite each other.
func (r *GormConfigurationRepository) InsertIfAbsent(ctx context.Context, entries []*metering.ConfigurationEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	rows := make([]*models.ConfigurationModel, len(entries))
	for i, e := range entries {
		rows[i] = models.ConfigurationModelFromDomain(e)
	}

	var inserted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "parameter"}},
			DoNothing: true,
		}).Create(&rows)
		inserted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Upsert creates the entry or replaces value and parent of an existing key
func (r *GormConfigurationRepository) Upsert(ctx context.Context, entry *metering.ConfigurationEntry) error {
	model := models.ConfigurationModelFromDomain(entry)
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = time.Now().UTC()
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = model.UpdatedAt
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "parameter"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "parent_parameter", "updated_at"}),
	}).Create(model).Error
}

var _ metering.ConfigurationRepository = (*GormConfigurationRepository)(nil)
