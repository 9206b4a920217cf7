package metering

import "github.com/aihaccp/backend/internal/domain/shared"

var (
	ErrInvalidOrganization = shared.NewDomainError("INVALID_INPUT", "Organization ID cannot be empty")
	ErrBlankActionType     = shared.NewDomainError("INVALID_INPUT", "Action type cannot be blank")
	ErrActionTypeTooLong   = shared.NewDomainError("INVALID_INPUT", "Action type exceeds 100 characters")
	ErrNegativeCost        = shared.NewDomainError("INVALID_INPUT", "Cost cannot be negative")
	ErrNegativeDuration    = shared.NewDomainError("INVALID_INPUT", "Execution time cannot be negative")
	ErrBlankParameter      = shared.NewDomainError("INVALID_INPUT", "Configuration parameter cannot be blank")
	ErrInvalidPriceValue   = shared.NewDomainError("INVALID_INPUT", "Price must be a non-negative decimal")
)
