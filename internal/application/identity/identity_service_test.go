package identity

import (
	"context"
	"errors"
	"testing"

	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "s3cretpass1"

func TestOrganizationService_Create(t *testing.T) {
	f := newFixture(t)
	svc := NewOrganizationService(f.orgRepo, nil)

	org, err := svc.Create(context.Background(), CreateOrganizationRequest{Name: "Café Müller", Type: "Restaurant"})
	require.NoError(t, err)
	assert.Equal(t, "restaurant", org.Type)
	assert.Equal(t, "cafe-muller", org.Slug)

	got, err := svc.GetByID(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Equal(t, org.Name, got.Name)

	_, err = svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Create(context.Background(), CreateOrganizationRequest{Name: " ", Type: "retail"})
	assert.Error(t, err)
}

func TestUserService_Create(t *testing.T) {
	f := newFixture(t)
	org := f.createOrg(t)
	svc := NewUserService(f.userRepo, f.orgRepo, nil)

	t.Run("lower-cases email and hides hash", func(t *testing.T) {
		user, err := svc.Create(context.Background(), CreateUserRequest{
			OrganizationID: org.ID,
			Email:          "Chef@Example.com",
			Password:       testPassword,
			Name:           "Chef",
		})
		require.NoError(t, err)
		assert.Equal(t, "chef@example.com", user.Email)
		assert.Equal(t, "operator", user.Role)
		assert.True(t, user.IsActive)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateUserRequest{
			OrganizationID: org.ID,
			Email:          "chef@example.com",
			Password:       testPassword,
			Name:           "Other",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown organization", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateUserRequest{
			OrganizationID: uuid.New(),
			Email:          "new@example.com",
			Password:       testPassword,
			Name:           "New",
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateUserRequest{
			OrganizationID: org.ID,
			Email:          "weak@example.com",
			Password:       "onlyletters",
			Name:           "Weak",
		})
		assert.Error(t, err)
	})

	users, err := svc.ListByOrganization(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	org := f.createOrg(t)
	user := f.createUser(t, *org, testPassword)
	svc := NewAuthService(f.userRepo, f.jwt, f.revoker, f.usage, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := f.jwt.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, org.ID.String(), claims.OrganizationID)

	assert.Equal(t, []string{domainMetering.ActionLogin}, f.usage.actions())
	assert.Equal(t, org.ID, f.usage.inputs[0].OrganizationID)
	assert.Equal(t, user.ID, f.usage.inputs[0].UserID)
}

func TestAuthService_LoginRejects(t *testing.T) {
	f := newFixture(t)
	org := f.createOrg(t)
	user := f.createUser(t, *org, testPassword)
	svc := NewAuthService(f.userRepo, f.jwt, f.revoker, f.usage, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: testPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrongpass1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	domainUser, err := f.userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	domainUser.Deactivate()
	require.NoError(t, f.userRepo.Update(context.Background(), domainUser))
	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: testPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Empty(t, f.usage.actions(), "rejected logins are not metered")
}

func TestAuthService_LoginMeteringFailure(t *testing.T) {
	f := newFixture(t)
	org := f.createOrg(t)
	user := f.createUser(t, *org, testPassword)
	f.usage.failErr = errors.New("ledger down")
	svc := NewAuthService(f.userRepo, f.jwt, f.revoker, f.usage, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: testPassword})
	assert.EqualError(t, err, "ledger down")
}

func TestAuthService_LogoutAndCurrentUser(t *testing.T) {
	f := newFixture(t)
	org := f.createOrg(t)
	user := f.createUser(t, *org, testPassword)
	svc := NewAuthService(f.userRepo, f.jwt, f.revoker, f.usage, nil)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: testPassword})
	require.NoError(t, err)
	claims, err := f.jwt.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)

	current, err := svc.CurrentUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)

	require.NoError(t, svc.Logout(ctx, claims))
	revoked, err := f.revoker.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	claims.OrganizationID = uuid.New().String()
	_, err = svc.CurrentUser(ctx, claims)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
