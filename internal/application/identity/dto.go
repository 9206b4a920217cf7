package identity

import (
	"time"

	"github.com/aihaccp/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// CreateOrganizationRequest represents a request to create an organization
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
	Type string `json:"type" binding:"required,min=1,max=50"`
}

// OrganizationResponse represents an organization in API responses
type OrganizationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// ToOrganizationResponse converts a domain organization
func ToOrganizationResponse(o *identity.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Type:      string(o.Type),
		Slug:      o.Slug,
		CreatedAt: o.CreatedAt,
	}
}

// CreateUserRequest represents a request to register a user
type CreateUserRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Email          string    `json:"email" binding:"required,email,max=200"`
	Password       string    `json:"password" binding:"required,min=8,max=72"`
	Name           string    `json:"name" binding:"required,min=1,max=200"`
	Role           string    `json:"role" binding:"omitempty,max=50"`
}

// UserResponse represents a user in API responses; the password hash is never exposed
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           string(u.Role),
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
	}
}

// LoginRequest carries credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}
