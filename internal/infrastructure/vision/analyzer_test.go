package vision

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAnalyzer_Analyze(t *testing.T) {
	a := NewMockAnalyzer(nil)
	ctx := context.Background()

	t.Run("same image same result", func(t *testing.T) {
		img := []byte("\xff\xd8\xff\xe0 label photo")
		first, err := a.Analyze(ctx, img)
		require.NoError(t, err)
		second, err := a.Analyze(ctx, img)
		require.NoError(t, err)

		assert.True(t, first.Success)
		assert.Equal(t, first.Extracted, second.Extracted)
		assert.Equal(t, "image/jpeg", first.ContentType)
		assert.NotEmpty(t, first.Extracted["product_name"])
	})

	t.Run("empty image", func(t *testing.T) {
		_, err := a.Analyze(ctx, nil)
		assert.ErrorIs(t, err, ErrEmptyImage)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := a.Analyze(cctx, []byte("x"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMockAnalyzer_Normalize(t *testing.T) {
	a := NewMockAnalyzer(nil)

	out := a.normalize(rawLabel{
		ProductName: "  Mixed   Vegetables ",
		Category:    "veg",
		Barcode:     "5555-6666-7777-8",
		Quantity:    "5",
		Unit:        "Kilograms",
		ExpiryDate:  "20/02/2024",
		BatchNumber: " MV240208 ",
	})
	assert.Equal(t, "Mixed Vegetables", out["product_name"])
	assert.Equal(t, "vegetables", out["category"])
	assert.Equal(t, "5555666677778", out["barcode"])
	assert.Equal(t, 5.0, out["quantity"])
	assert.Equal(t, "kg", out["unit"])
	assert.Equal(t, "2024-02-20", out["expiry_date"])
	assert.Equal(t, "MV240208", out["batch_number"])

	t.Run("drops invalid fields", func(t *testing.T) {
		out := a.normalize(rawLabel{
			ProductName: "Thing",
			Barcode:     "12345",
			Quantity:    "lots",
			Unit:        "kg",
			ExpiryDate:  "someday",
		})
		assert.NotContains(t, out, "barcode")
		assert.NotContains(t, out, "quantity")
		assert.NotContains(t, out, "expiry_date")
		assert.NotContains(t, out, "category")
	})
}

func TestGuessCategory(t *testing.T) {
	a := NewMockAnalyzer(nil)
	tests := map[string]string{
		"Fresh CHICKEN Breast": "poultry",
		"Atlantic Salmon":      "seafood",
		"Sourdough Bread":      "bakery",
		"Greek Yogurt":         "dairy",
		"Widget":               "other",
		"":                     "other",
	}
	for name, want := range tests {
		assert.Equal(t, want, a.GuessCategory(name), name)
	}
}

func TestNormalizeUnit(t *testing.T) {
	a := NewMockAnalyzer(nil)
	assert.Equal(t, "kg", a.NormalizeUnit(" KG "))
	assert.Equal(t, "pieces", a.NormalizeUnit("pcs"))
	assert.Equal(t, "pieces", a.NormalizeUnit(""))
	assert.Equal(t, "crates", a.NormalizeUnit("Crates"))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-02-15", "15/02/2024", "20240215", "15.02.2024", "15-02-2024"} {
		d, ok := ParseDate(s)
		require.True(t, ok, s)
		assert.Equal(t, "2024-02-15", d.Format("2006-01-02"), s)
	}
	_, ok := ParseDate("31/31/2024")
	assert.False(t, ok)
}

func TestDecodeImage(t *testing.T) {
	raw := []byte("png-bytes")
	enc := base64.StdEncoding.EncodeToString(raw)

	data, err := DecodeImage(enc)
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	data, err = DecodeImage("data:image/png;base64," + enc)
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	_, err = DecodeImage("")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = DecodeImage("not base64!!")
	assert.ErrorIs(t, err, ErrInvalidImage)
}
