package metering

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceParameter(t *testing.T) {
	assert.Equal(t, "pricing.login", PriceParameter("login"))
	assert.True(t, IsPriceParameter("pricing.login"))
	assert.False(t, IsPriceParameter("temperature.frozen_min"))

	action, ok := ActionTypeFromParameter("pricing.temperature_log")
	assert.True(t, ok)
	assert.Equal(t, "temperature_log", action)

	_, ok = ActionTypeFromParameter("pricingX")
	assert.False(t, ok)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{"plain", "0.002", "0.002", false},
		{"padded", " 0.015 ", "0.015", false},
		{"integer", "1", "1", false},
		{"zero", "0", "0", false},
		{"negative", "-0.1", "", true},
		{"garbage", "cheap", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPriceValue)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got))
		})
	}
}

func TestNewConfigurationEntry(t *testing.T) {
	t.Run("price entry validated", func(t *testing.T) {
		_, err := NewConfigurationEntry("pricing.login", "free", PricingNamespace)
		assert.ErrorIs(t, err, ErrInvalidPriceValue)
	})

	t.Run("non price entry accepts any value", func(t *testing.T) {
		entry, err := NewConfigurationEntry("ui.theme", "dark", "")
		require.NoError(t, err)
		assert.Equal(t, "dark", entry.Value)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("blank parameter rejected", func(t *testing.T) {
		_, err := NewConfigurationEntry(" ", "1", "")
		assert.ErrorIs(t, err, ErrBlankParameter)
	})

	t.Run("set value revalidates prices", func(t *testing.T) {
		entry, err := NewConfigurationEntry("pricing.login", "0.001", PricingNamespace)
		require.NoError(t, err)
		assert.Error(t, entry.SetValue("-1"))
		assert.Equal(t, "0.001", entry.Value)
		require.NoError(t, entry.SetValue("0.002"))
		assert.Equal(t, "0.002", entry.Value)
	})
}

func TestFallbackPrice(t *testing.T) {
	assert.Equal(t, "0.001", FallbackPrice.String())
}
