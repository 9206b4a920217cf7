package metering

import (
	"time"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateScale is the number of fractional digits kept on summed costs.
// Individual costs are stored exactly as supplied.
const AggregateScale = 10

// UsageRecord is an immutable charge for a single billable action.
// Records are never updated or deleted; corrections are new records.
type UsageRecord struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	ActionType     string
	Cost           decimal.Decimal
	ExecutionTime  *decimal.Decimal
	Metadata       Metadata
	CreatedAt      time.Time
}

// Metadata holds additional context about a usage record
type Metadata map[string]any

// NewUsageRecord validates and builds a usage record created at the given instant
func NewUsageRecord(
	organizationID uuid.UUID,
	userID uuid.UUID,
	actionType string,
	cost decimal.Decimal,
	createdAt time.Time,
) (*UsageRecord, error) {
	if organizationID == uuid.Nil {
		return nil, ErrInvalidOrganization
	}
	if err := ValidateActionType(actionType); err != nil {
		return nil, err
	}
	if cost.IsNegative() {
		return nil, ErrNegativeCost
	}
	return &UsageRecord{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		UserID:         userID,
		ActionType:     actionType,
		Cost:           cost,
		CreatedAt:      createdAt.UTC(),
	}, nil
}

// WithExecutionTime attaches the measured duration the cost was derived from
func (r *UsageRecord) WithExecutionTime(executionTime decimal.Decimal) (*UsageRecord, error) {
	if executionTime.IsNegative() {
		return nil, ErrNegativeDuration
	}
	r.ExecutionTime = &executionTime
	return r, nil
}

// WithMetadata adds metadata to the usage record
func (r *UsageRecord) WithMetadata(key string, value any) *UsageRecord {
	if r.Metadata == nil {
		r.Metadata = make(Metadata)
	}
	r.Metadata[key] = value
	return r
}

// ActionCost is the aggregated cost of one action type within an organization
type ActionCost struct {
	ActionType string          `json:"action"`
	TotalCost  decimal.Decimal `json:"cost"`
	Count      int64           `json:"count"`
}

// UsageReport summarizes an organization's charges
type UsageReport struct {
	OrganizationID uuid.UUID       `json:"organization_id"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	WindowCost     decimal.Decimal `json:"monthly_cost"`
	WindowStart    time.Time       `json:"window_start"`
	Breakdown      []ActionCost    `json:"usage_breakdown"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// UsageRecordFilter narrows the audit trail listing
type UsageRecordFilter struct {
	shared.Filter
	ActionType string
	From       *time.Time
	To         *time.Time
}
