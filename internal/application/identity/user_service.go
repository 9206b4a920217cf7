package identity

import (
	"context"
	"fmt"

	"github.com/aihaccp/backend/internal/domain/identity"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmailTaken is returned when an email is already registered
var ErrEmailTaken = shared.NewDomainError("ALREADY_EXISTS", "Email already registered")

// UserService manages users
type UserService struct {
	userRepo identity.UserRepository
	orgRepo  identity.OrganizationRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, orgRepo identity.OrganizationRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{userRepo: userRepo, orgRepo: orgRepo, logger: logger}
}

// Create registers a user in an existing organization
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.orgRepo.ExistsByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("NOT_FOUND", "Organization not found")
	}

	taken, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	user, err := identity.NewUser(req.OrganizationID, req.Email, req.Password, req.Name, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("organization_id", user.OrganizationID.String()),
	)
	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID returns a user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ListByOrganization returns the organization's users
func (s *UserService) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]UserResponse, error) {
	users, err := s.userRepo.FindByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = ToUserResponse(u)
	}
	return out, nil
}
