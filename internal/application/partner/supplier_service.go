package partner

import (
	"context"
	"fmt"

	"github.com/aihaccp/backend/internal/application/metering"
	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/partner"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	meter        metering.Charger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, usage metering.UsageRecorder, logger *zap.Logger) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo, meter: metering.NewCharger(usage, logger)}
}

// Create creates a new supplier and charges supplier_create
func (s *SupplierService) Create(ctx context.Context, organizationID, userID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(organizationID, req.Name)
	if err != nil {
		return nil, err
	}
	supplier.SetContactInfo(req.ContactInfo)
	if req.CertificationStatus != "" {
		supplier.SetCertificationStatus(partner.CertificationStatus(req.CertificationStatus))
	}
	if req.RiskLevel != nil {
		if err := supplier.SetRiskLevel(*req.RiskLevel); err != nil {
			return nil, err
		}
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionSupplierCreate, domainMetering.Metadata{
		"supplier_id": supplier.ID.String(),
	}); err != nil {
		return nil, err
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List returns a page of the organization's suppliers and charges data_query
func (s *SupplierService) List(ctx context.Context, organizationID, userID uuid.UUID, filter SupplierListFilter) (*shared.Paginated[SupplierResponse], error) {
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

	suppliers, total, err := s.supplierRepo.FindAllForOrganization(ctx, organizationID, f)
	if err != nil {
		return nil, err
	}
	if err := s.meter.Charge(ctx, organizationID, userID, domainMetering.ActionDataQuery, domainMetering.Metadata{
		"resource": "suppliers",
	}); err != nil {
		return nil, err
	}

	items := make([]SupplierResponse, len(suppliers))
	for i, sup := range suppliers {
		items[i] = ToSupplierResponse(sup)
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}
