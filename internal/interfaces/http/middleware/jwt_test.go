package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aihaccp/backend/internal/infrastructure/auth"
	"github.com/aihaccp/backend/internal/infrastructure/config"
	"github.com/aihaccp/backend/internal/infrastructure/logger"
	"github.com/aihaccp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-of-32-chars!"

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		AccessTokenExpiration: 10 * time.Minute,
		Issuer:                "haccp-test",
	})
}

type erroringRevoker struct{}

func (erroringRevoker) Revoke(context.Context, string, time.Duration) error { return nil }
func (erroringRevoker) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func newJWTRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddlewareWithConfig(cfg))
	handler := func(c *gin.Context) {
		userID, _ := GetUserID(c)
		orgID, _ := GetOrganizationID(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":         userID.String(),
			"organization_id": orgID.String(),
			"ctx_org":         logger.GetOrganizationID(c.Request.Context()),
			"has_claims":      GetJWTClaims(c) != nil,
		})
	}
	router.GET("/api/v1/products", handler)
	router.GET("/api/v1/users", handler)
	router.POST("/api/v1/users", handler)
	router.GET("/health", handler)
	return router
}

func issue(t *testing.T, svc *auth.JWTService) (string, uuid.UUID, uuid.UUID) {
	t.Helper()
	userID, orgID := uuid.New(), uuid.New()
	token, err := svc.GenerateAccessToken(auth.GenerateTokenInput{UserID: userID, OrganizationID: orgID, Email: "a@b.io"})
	require.NoError(t, err)
	return token.Token, userID, orgID
}

func doGet(router *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(AuthHeaderKey, authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newJWTService()
	router := newJWTRouter(DefaultJWTConfig(svc))
	token, userID, orgID := issue(t, svc)

	w := doGet(router, http.MethodGet, "/api/v1/products", BearerPrefix+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body["user_id"])
	assert.Equal(t, orgID.String(), body["organization_id"])
	assert.Equal(t, orgID.String(), body["ctx_org"])
	assert.Equal(t, true, body["has_claims"])
}

func TestJWTAuthMiddleware_Rejects(t *testing.T) {
	svc := newJWTService()
	router := newJWTRouter(DefaultJWTConfig(svc))
	other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-that-is-32-chars-long"})
	foreign, _, _ := issue(t, other)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeTokenInvalid},
		{"wrong scheme", "Basic abc", dto.ErrCodeTokenInvalid},
		{"empty token", "Bearer ", dto.ErrCodeTokenInvalid},
		{"garbage", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
		{"foreign signature", BearerPrefix + foreign, dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(router, http.MethodGet, "/api/v1/products", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := newJWTRouter(DefaultJWTConfig(newJWTService()))

	assert.Equal(t, http.StatusOK, doGet(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doGet(router, http.MethodPost, "/api/v1/users", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(router, http.MethodGet, "/api/v1/users", "").Code,
		"listing users is not part of the bootstrap surface")
}

func TestJWTAuthMiddleware_Revocation(t *testing.T) {
	svc := newJWTService()
	revoker := auth.NewInMemoryRevocationList()
	cfg := DefaultJWTConfig(svc)
	cfg.Revoker = revoker
	router := newJWTRouter(cfg)

	token, _, _ := issue(t, svc)
	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(router, http.MethodGet, "/api/v1/products", BearerPrefix+token).Code)

	require.NoError(t, revoker.Revoke(context.Background(), claims.ID, time.Minute))
	w := doGet(router, http.MethodGet, "/api/v1/products", BearerPrefix+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
}

func TestJWTAuthMiddleware_RevocationStoreFailureFailsOpen(t *testing.T) {
	svc := newJWTService()
	cfg := DefaultJWTConfig(svc)
	cfg.Revoker = erroringRevoker{}
	router := newJWTRouter(cfg)

	token, _, _ := issue(t, svc)
	assert.Equal(t, http.StatusOK, doGet(router, http.MethodGet, "/api/v1/products", BearerPrefix+token).Code)
}
