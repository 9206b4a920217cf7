package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aihaccp/backend/internal/application/metering"
	"github.com/aihaccp/backend/internal/domain/identity"
	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/aihaccp/backend/internal/infrastructure/auth"
	"github.com/aihaccp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ErrInvalidCredentials covers unknown email, wrong password and inactive user alike
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService handles authentication
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	revoker    auth.TokenRevoker
	usage      metering.UsageRecorder
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. revoker may be nil,
// in which case logout is a no-op.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	revoker auth.TokenRevoker,
	usage metering.UsageRecorder,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		revoker:    revoker,
		usage:      usage,
		logger:     logger,
	}
}

// Login authenticates a user, issues an access token and meters the login
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := logger.Enrich(ctx, s.logger)

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CanLogin() {
		log.Warn("Login attempt for inactive user", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	if !user.VerifyPassword(req.Password) {
		log.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(auth.GenerateTokenInput{
		OrganizationID: user.OrganizationID,
		UserID:         user.ID,
		Email:          user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	if _, err := s.usage.Record(ctx, metering.RecordUsageInput{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		ActionType:     domainMetering.ActionLogin,
		Metadata:       domainMetering.Metadata{"email": user.Email},
	}); err != nil {
		log.Error("Failed to meter login", zap.Error(err))
		return nil, err
	}

	log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return &LoginResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}

// Logout revokes the token described by claims until it would have expired
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revoker == nil || claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// CurrentUser resolves the authenticated user from token claims
func (s *AuthService) CurrentUser(ctx context.Context, claims *auth.Claims) (*identity.User, error) {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	orgID, err := claims.GetOrganizationUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if user.OrganizationID != orgID || !user.CanLogin() {
		return nil, shared.ErrUnauthorized
	}
	return user, nil
}
