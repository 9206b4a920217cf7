package partner

import (
	"context"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	Create(ctx context.Context, supplier *Supplier) error
	FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*Supplier, error)
	FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]*Supplier, int64, error)
	ExistsForOrganization(ctx context.Context, organizationID, id uuid.UUID) (bool, error)
}
