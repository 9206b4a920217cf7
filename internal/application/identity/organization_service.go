package identity

import (
	"context"
	"fmt"

	"github.com/aihaccp/backend/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrganizationService manages tenants
type OrganizationService struct {
	orgRepo identity.OrganizationRepository
	logger  *zap.Logger
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo identity.OrganizationRepository, logger *zap.Logger) *OrganizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganizationService{orgRepo: orgRepo, logger: logger}
}

// Create registers a new organization
func (s *OrganizationService) Create(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error) {
	org, err := identity.NewOrganization(req.Name, identity.OrganizationType(req.Type))
	if err != nil {
		return nil, err
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	s.logger.Info("Organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("slug", org.Slug),
	)
	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// GetByID returns an organization
func (s *OrganizationService) GetByID(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrganizationResponse(org)
	return &resp, nil
}
