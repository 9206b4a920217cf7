package compliance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperatureLog_Evaluate(t *testing.T) {
	orgID := uuid.New()
	ranges := DefaultTemperatureRanges()

	t.Run("inside refrigerated range", func(t *testing.T) {
		log, err := NewTemperatureLog(orgID, uuid.New(), "Walk-in cooler", decimal.NewFromInt(3))
		require.NoError(t, err)
		log.Evaluate(ZoneRefrigerated, ranges)
		require.NotNil(t, log.IsWithinLimits)
		assert.True(t, *log.IsWithinLimits)
		assert.False(t, log.IsAlarm())
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		log, err := NewTemperatureLog(orgID, uuid.New(), "Freezer", decimal.NewFromInt(-18))
		require.NoError(t, err)
		log.Evaluate(ZoneFrozen, ranges)
		assert.True(t, *log.IsWithinLimits)
	})

	t.Run("outside range raises alarm", func(t *testing.T) {
		log, err := NewTemperatureLog(orgID, uuid.New(), "Fridge 2", decimal.RequireFromString("7.5"))
		require.NoError(t, err)
		log.Evaluate(ZoneRefrigerated, ranges)
		assert.True(t, log.IsAlarm())
	})

	t.Run("explicit verdict wins", func(t *testing.T) {
		log, err := NewTemperatureLog(orgID, uuid.New(), "Fridge 3", decimal.NewFromInt(12))
		require.NoError(t, err)
		log.SetWithinLimits(true)
		log.Evaluate(ZoneRefrigerated, ranges)
		assert.True(t, *log.IsWithinLimits)
	})

	t.Run("unknown zone leaves verdict empty", func(t *testing.T) {
		log, err := NewTemperatureLog(orgID, uuid.New(), "Shelf", decimal.NewFromInt(12))
		require.NoError(t, err)
		log.Evaluate("", ranges)
		assert.Nil(t, log.IsWithinLimits)
	})

	t.Run("location required", func(t *testing.T) {
		_, err := NewTemperatureLog(orgID, uuid.New(), "  ", decimal.Zero)
		assert.Error(t, err)
	})
}

func TestParseStorageZone(t *testing.T) {
	zone, ok := ParseStorageZone(" Frozen ")
	assert.True(t, ok)
	assert.Equal(t, ZoneFrozen, zone)

	_, ok = ParseStorageZone("lukewarm")
	assert.False(t, ok)
}

func TestCleaningPlan(t *testing.T) {
	orgID := uuid.New()
	rooms := []Room{{Name: "Kitchen", X: 100, Y: 150, Width: 200, Height: 100}, {Name: "Storage"}}

	plan, err := NewCleaningPlan(orgID, "Daily clean", rooms, "Daily")
	require.NoError(t, err)
	assert.Equal(t, FrequencyDaily, plan.Frequency)
	assert.True(t, plan.HasRoom("Kitchen"))

	cleaning, err := plan.MarkRoomCleaned(" Kitchen ", uuid.New(), "deep clean")
	require.NoError(t, err)
	assert.Equal(t, plan.ID, cleaning.CleaningPlanID)
	assert.Equal(t, orgID, cleaning.OrganizationID)
	assert.Equal(t, "Kitchen", cleaning.RoomName)
	assert.False(t, cleaning.CleanedAt.IsZero())

	_, err = plan.MarkRoomCleaned("Bathroom", uuid.New(), "")
	assert.Error(t, err)

	_, err = NewCleaningPlan(orgID, "Plan", rooms, "hourly")
	assert.Error(t, err)
	_, err = NewCleaningPlan(orgID, "Plan", []Room{{Name: "A"}, {Name: "A"}}, FrequencyWeekly)
	assert.Error(t, err)
	_, err = NewCleaningPlan(orgID, "Plan", []Room{{Name: ""}}, FrequencyWeekly)
	assert.Error(t, err)

	assert.Error(t, plan.SetEstimatedDuration(-5))
	require.NoError(t, plan.SetEstimatedDuration(45))
}

func TestNewMaterialReception(t *testing.T) {
	orgID := uuid.New()
	supplierID := uuid.New()

	reception, err := NewMaterialReception(orgID, supplierID, uuid.New(), "Chicken breast", "Meat", decimal.RequireFromString("2.5"), "kg")
	require.NoError(t, err)
	assert.Equal(t, "meat", reception.Category)
	assert.Equal(t, reception.CreatedAt, reception.ReceivedAt)

	yesterday := time.Now().Add(-24 * time.Hour)
	reception.ExpiryDate = &yesterday
	assert.True(t, reception.IsExpiredAt(time.Now()))

	_, err = NewMaterialReception(orgID, uuid.Nil, uuid.New(), "x", "meat", decimal.NewFromInt(1), "kg")
	assert.Error(t, err)
	_, err = NewMaterialReception(orgID, supplierID, uuid.New(), "x", "meat", decimal.Zero, "kg")
	assert.Error(t, err)
	_, err = NewMaterialReception(orgID, supplierID, uuid.New(), "x", "", decimal.NewFromInt(1), "kg")
	assert.Error(t, err)
}

func TestImageAnalysis_AsMap(t *testing.T) {
	ok := &ImageAnalysis{Success: true, Confidence: 0.9, Extracted: map[string]any{"barcode": "12345678"}}
	assert.Equal(t, true, ok.AsMap()["success"])
	assert.Contains(t, ok.AsMap(), "extracted_data")

	failed := &ImageAnalysis{Success: false, Error: "unreadable"}
	assert.Equal(t, "unreadable", failed.AsMap()["error"])
}
