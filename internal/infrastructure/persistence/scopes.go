package persistence

import (
	"strings"

	"github.com/aihaccp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errMissingOrganization is returned instead of running an unscoped query
var errMissingOrganization = shared.NewDomainError("INVALID_INPUT", "Organization ID is required")

// OrganizationScope restricts a query to one organization's rows
func OrganizationScope(organizationID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}

func requireOrganization(organizationID uuid.UUID) error {
	if organizationID == uuid.Nil {
		return errMissingOrganization
	}
	return nil
}

// Paginate applies the filter's page window
func Paginate(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.PageSize <= 0 {
			return db
		}
		return db.Offset(filter.Offset()).Limit(filter.PageSize)
	}
}

// likePrefix escapes LIKE wildcards so prefix matches literally
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
