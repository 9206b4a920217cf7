package identity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aihaccp/backend/internal/application/metering"
	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/infrastructure/auth"
	"github.com/aihaccp/backend/internal/infrastructure/config"
	"github.com/aihaccp/backend/internal/infrastructure/persistence"
	"github.com/aihaccp/backend/internal/infrastructure/persistence/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db       *gorm.DB
	orgRepo  *persistence.GormOrganizationRepository
	userRepo *persistence.GormUserRepository
	jwt      *auth.JWTService
	usage    *recordingUsage
	revoker  *auth.InMemoryRevocationList
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	return &fixture{
		db:       db,
		orgRepo:  persistence.NewGormOrganizationRepository(db),
		userRepo: persistence.NewGormUserRepository(db),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-that-is-long-enough-32",
			AccessTokenExpiration: 30 * time.Minute,
			Issuer:                "haccp-test",
		}),
		usage:   &recordingUsage{},
		revoker: auth.NewInMemoryRevocationList(),
	}
}

func (f *fixture) createOrg(t *testing.T) *OrganizationResponse {
	t.Helper()
	org, err := NewOrganizationService(f.orgRepo, nil).Create(context.Background(), CreateOrganizationRequest{
		Name: gofakeit.Company(),
		Type: "restaurant",
	})
	require.NoError(t, err)
	return org
}

func (f *fixture) createUser(t *testing.T, org OrganizationResponse, password string) *UserResponse {
	t.Helper()
	user, err := NewUserService(f.userRepo, f.orgRepo, nil).Create(context.Background(), CreateUserRequest{
		OrganizationID: org.ID,
		Email:          gofakeit.Email(),
		Password:       password,
		Name:           gofakeit.Name(),
	})
	require.NoError(t, err)
	return user
}

// recordingUsage captures metered actions
type recordingUsage struct {
	mu      sync.Mutex
	inputs  []metering.RecordUsageInput
	failErr error
}

func (r *recordingUsage) Record(_ context.Context, input metering.RecordUsageInput) (*domainMetering.UsageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.inputs = append(r.inputs, input)
	return domainMetering.NewUsageRecord(input.OrganizationID, input.UserID, input.ActionType, decimal.Zero, time.Now())
}

func (r *recordingUsage) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.inputs))
	for i, in := range r.inputs {
		out[i] = in.ActionType
	}
	return out
}
