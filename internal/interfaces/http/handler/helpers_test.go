package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/aihaccp/backend/internal/application/catalog"
	complianceapp "github.com/aihaccp/backend/internal/application/compliance"
	identityapp "github.com/aihaccp/backend/internal/application/identity"
	"github.com/aihaccp/backend/internal/application/metering"
	partnerapp "github.com/aihaccp/backend/internal/application/partner"
	"github.com/aihaccp/backend/internal/infrastructure/auth"
	"github.com/aihaccp/backend/internal/infrastructure/cache"
	"github.com/aihaccp/backend/internal/infrastructure/config"
	"github.com/aihaccp/backend/internal/infrastructure/persistence"
	"github.com/aihaccp/backend/internal/infrastructure/persistence/models"
	"github.com/aihaccp/backend/internal/infrastructure/pricing"
	"github.com/aihaccp/backend/internal/infrastructure/storage"
	"github.com/aihaccp/backend/internal/infrastructure/vision"
	"github.com/aihaccp/backend/internal/interfaces/http/middleware"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

const defaultsPath = "../../../../configs/pricing_defaults.yaml"

type testServer struct {
	engine  *gin.Engine
	db      *gorm.DB
	revoker *auth.InMemoryRevocationList
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	configRepo := persistence.NewGormConfigurationRepository(db)
	orgRepo := persistence.NewGormOrganizationRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)

	defaults := pricing.NewFileDefaults(defaultsPath)
	priceCache := cache.NewInMemoryPriceCache(cache.WithTTL(time.Minute))
	t.Cleanup(func() { _ = priceCache.Close() })
	resolver := metering.NewPricingResolver(configRepo, defaults, metering.WithPriceCache(priceCache))
	require.NoError(t, resolver.EnsureSeeded(ctx))
	ranges := metering.NewTemperatureRangeService(configRepo, defaults, nil)
	require.NoError(t, ranges.EnsureSeeded(ctx))
	ledger := metering.NewUsageLedger(persistence.NewGormUsageRecordRepository(db), resolver)

	images, err := storage.New(config.StorageConfig{Type: "local", LocalPath: t.TempDir()}, nil)
	require.NoError(t, err)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "handler-test-secret-key-32-bytes-long",
		AccessTokenExpiration: 30 * time.Minute,
		Issuer:                "haccp-test",
	})
	revoker := auth.NewInMemoryRevocationList()

	authHandler := NewAuthHandler(identityapp.NewAuthService(userRepo, jwtService, revoker, ledger, nil))
	identityHandler := NewIdentityHandler(
		identityapp.NewOrganizationService(orgRepo, nil),
		identityapp.NewUserService(userRepo, orgRepo, nil),
	)
	productHandler := NewProductHandler(catalogapp.NewProductService(persistence.NewGormProductRepository(db), ledger, nil))
	supplierHandler := NewSupplierHandler(partnerapp.NewSupplierService(supplierRepo, ledger, nil))
	tempHandler := NewTemperatureLogHandler(complianceapp.NewTemperatureLogService(
		persistence.NewGormTemperatureLogRepository(db), ranges, ledger, nil))
	cleaningHandler := NewCleaningHandler(complianceapp.NewCleaningService(
		persistence.NewGormCleaningPlanRepository(db), persistence.NewGormRoomCleaningRepository(db), ledger, nil))
	receptionHandler := NewMaterialReceptionHandler(complianceapp.NewMaterialReceptionService(
		persistence.NewGormMaterialReceptionRepository(db), supplierRepo, vision.NewMockAnalyzer(nil), images, ledger, nil))
	configHandler := NewConfigurationHandler(metering.NewConfigurationService(configRepo, resolver, resolver, nil), ranges)
	usageHandler := NewUsageHandler(ledger, resolver)
	systemHandler := NewSystemHandler(pingerFunc(sqlDB.PingContext), "test")

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.Revoker = revoker

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	engine.GET("/health", systemHandler.Health)

	api := engine.Group("/api/v1")
	api.GET("/help", systemHandler.Help)
	api.POST("/organizations", identityHandler.CreateOrganization)
	api.GET("/organizations/current", identityHandler.CurrentOrganization)
	api.POST("/users", identityHandler.CreateUser)
	api.GET("/users", identityHandler.ListUsers)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me)
	api.POST("/temperature-logs", tempHandler.Create)
	api.GET("/temperature-logs", tempHandler.List)
	api.POST("/products", productHandler.Create)
	api.GET("/products", productHandler.List)
	api.POST("/suppliers", supplierHandler.Create)
	api.GET("/suppliers", supplierHandler.List)
	api.POST("/cleaning-plans", cleaningHandler.CreatePlan)
	api.GET("/cleaning-plans", cleaningHandler.ListPlans)
	api.GET("/cleaning-plans/:id/room-cleanings", cleaningHandler.ListRoomCleanings)
	api.POST("/room-cleanings", cleaningHandler.MarkRoomCleaned)
	api.POST("/material-receptions", receptionHandler.Create)
	api.GET("/material-receptions", receptionHandler.List)
	api.POST("/material-receptions/analyze-image", receptionHandler.AnalyzeImage)
	api.GET("/configuration", configHandler.List)
	api.GET("/configuration/temperature-ranges", configHandler.TemperatureRanges)
	api.POST("/configuration/pricing/seed", configHandler.SeedPricing)
	api.GET("/configuration/:parameter", configHandler.Get)
	api.PUT("/configuration/:parameter", configHandler.Set)
	api.GET("/usage-report", usageHandler.Report)
	api.GET("/usage-records", usageHandler.Records)
	api.GET("/pricing/:action_type", usageHandler.Price)

	return &testServer{engine: engine, db: db, revoker: revoker}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// envelope mirrors dto.Response with a raw data payload
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type session struct {
	token          string
	userID         string
	organizationID string
}

// register creates an organization with one user and logs in
func (s *testServer) register(t *testing.T) session {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/organizations", "", map[string]any{
		"name": gofakeit.Company(),
		"type": "restaurant",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	org := decode[identityapp.OrganizationResponse](t, env)

	email := gofakeit.Email()
	password := "correct-horse-battery"
	w, _ = s.do(t, http.MethodPost, "/api/v1/users", "", map[string]any{
		"organization_id": org.ID,
		"email":           email,
		"password":        password,
		"name":            gofakeit.Name(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[identityapp.LoginResponse](t, env)
	return session{
		token:          login.AccessToken,
		userID:         login.User.ID.String(),
		organizationID: org.ID.String(),
	}
}
