package metering

import "strings"

// Well-known action types emitted by the built-in record-keeping operations.
// Action types are an open set: any non-blank label is accepted by the ledger
// and unknown labels are priced at FallbackPrice.
const (
	ActionLogin              = "login"
	ActionDataQuery          = "data_query"
	ActionTemperatureLog     = "temperature_log"
	ActionProductCreate      = "product_create"
	ActionSupplierCreate     = "supplier_create"
	ActionCleaningPlanCreate = "cleaning_plan_create"
	ActionRoomCleaning       = "room_cleaning"
	ActionMaterialReception  = "material_reception"
	ActionAIImageAnalysis    = "ai_image_analysis"
)

// KnownActionTypes lists the built-in action types in a stable order
func KnownActionTypes() []string {
	return []string{
		ActionLogin,
		ActionDataQuery,
		ActionTemperatureLog,
		ActionProductCreate,
		ActionSupplierCreate,
		ActionCleaningPlanCreate,
		ActionRoomCleaning,
		ActionMaterialReception,
		ActionAIImageAnalysis,
	}
}

// ValidateActionType rejects blank labels. Case and content are otherwise preserved.
func ValidateActionType(actionType string) error {
	if strings.TrimSpace(actionType) == "" {
		return ErrBlankActionType
	}
	if len(actionType) > MaxActionTypeLength {
		return ErrActionTypeTooLong
	}
	return nil
}

// MaxActionTypeLength matches the width of the action_type column
const MaxActionTypeLength = 100
