package dto

import (
	"time"

	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConfigurationEntryResponse is one key of the configuration store
type ConfigurationEntryResponse struct {
	Parameter       string    `json:"parameter"`
	Value           string    `json:"value"`
	ParentParameter string    `json:"parent_parameter,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToConfigurationEntryResponse converts a configuration entry
func ToConfigurationEntryResponse(e *domainMetering.ConfigurationEntry) ConfigurationEntryResponse {
	return ConfigurationEntryResponse{
		Parameter:       e.Parameter,
		Value:           e.Value,
		ParentParameter: e.ParentParameter,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// ToConfigurationEntryResponses converts a list of entries
func ToConfigurationEntryResponses(entries []*domainMetering.ConfigurationEntry) []ConfigurationEntryResponse {
	out := make([]ConfigurationEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToConfigurationEntryResponse(e))
	}
	return out
}

// SetConfigurationRequest is the body of PUT /configuration/:parameter
type SetConfigurationRequest struct {
	Value           string `json:"value" binding:"required,max=255"`
	ParentParameter string `json:"parent_parameter" binding:"max=100"`
}

// UsageRecordResponse is one entry of the usage audit trail
type UsageRecordResponse struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id,omitempty"`
	ActionType    string           `json:"action_type"`
	Cost          decimal.Decimal  `json:"cost"`
	ExecutionTime *decimal.Decimal `json:"execution_time,omitempty"`
	Metadata      map[string]any   `json:"metadata,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ToUsageRecordResponses converts usage records
func ToUsageRecordResponses(records []*domainMetering.UsageRecord) []UsageRecordResponse {
	out := make([]UsageRecordResponse, 0, len(records))
	for _, r := range records {
		resp := UsageRecordResponse{
			ID:            r.ID.String(),
			ActionType:    r.ActionType,
			Cost:          r.Cost,
			ExecutionTime: r.ExecutionTime,
			Metadata:      r.Metadata,
			CreatedAt:     r.CreatedAt,
		}
		if r.UserID != uuid.Nil {
			resp.UserID = r.UserID.String()
		}
		out = append(out, resp)
	}
	return out
}

// UsageRecordListRequest holds the audit trail query parameters.
// from and to accept RFC 3339 timestamps or plain dates.
type UsageRecordListRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	ActionType string `form:"action_type" binding:"omitempty,max=100"`
	From       string `form:"from"`
	To         string `form:"to"`
}

// PriceResponse is the effective unit price of an action
type PriceResponse struct {
	ActionType string          `json:"action_type"`
	Price      decimal.Decimal `json:"price"`
}
