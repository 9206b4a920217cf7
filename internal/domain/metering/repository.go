package metering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConfigurationRepository persists configuration entries
type ConfigurationRepository interface {
	// FindByParameter returns shared.ErrNotFound when the key does not exist
	FindByParameter(ctx context.Context, parameter string) (*ConfigurationEntry, error)
	// ListByPrefix returns entries whose key starts with prefix, ordered by key
	ListByPrefix(ctx context.Context, prefix string) ([]*ConfigurationEntry, error)
	// ExistsWithPrefix reports whether any key starts with prefix
	ExistsWithPrefix(ctx context.Context, prefix string) (bool, error)
	// InsertIfAbsent writes all entries in one statement, skipping keys that already exist.
	// It returns the number of rows actually inserted.
	InsertIfAbsent(ctx context.Context, entries []*ConfigurationEntry) (int64, error)
	// Upsert creates the entry or replaces value and parent of an existing key
	Upsert(ctx context.Context, entry *ConfigurationEntry) error
}

// UsageRecordRepository is the append-only store of usage records.
// Every method is scoped by organization.
type UsageRecordRepository interface {
	Create(ctx context.Context, record *UsageRecord) error
	// SumCost returns the total cost since the given instant; a nil since sums everything
	SumCost(ctx context.Context, organizationID uuid.UUID, since *time.Time) (decimal.Decimal, error)
	SumByAction(ctx context.Context, organizationID uuid.UUID) ([]ActionCost, error)
	FindByOrganization(ctx context.Context, organizationID uuid.UUID, filter UsageRecordFilter) ([]*UsageRecord, int64, error)
}
