package catalog

import (
	"context"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*Product, error)
	FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]*Product, int64, error)
}
