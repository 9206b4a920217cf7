package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	orgID := uuid.New()

	product, err := NewProduct(orgID, " Fresh Salmon ")
	require.NoError(t, err)
	assert.Equal(t, "Fresh Salmon", product.Name)
	assert.Equal(t, orgID, product.OrganizationID)
	assert.Empty(t, product.Allergens)

	_, err = NewProduct(uuid.Nil, "Salmon")
	assert.Error(t, err)
	_, err = NewProduct(orgID, "")
	assert.Error(t, err)
}

func TestProduct_SetAllergens(t *testing.T) {
	product, err := NewProduct(uuid.New(), "Cake")
	require.NoError(t, err)

	product.SetAllergens([]string{"Gluten", " eggs", "", "gluten"})
	assert.Equal(t, []string{"gluten", "eggs"}, product.Allergens)
	assert.True(t, product.HasAllergen("EGGS"))
	assert.False(t, product.HasAllergen("fish"))
}

func TestProduct_SetStorageRange(t *testing.T) {
	product, err := NewProduct(uuid.New(), "Milk")
	require.NoError(t, err)

	low := decimal.NewFromInt(0)
	high := decimal.NewFromInt(4)
	require.NoError(t, product.SetStorageRange(&low, &high))
	assert.Error(t, product.SetStorageRange(&high, &low))
	require.NoError(t, product.SetStorageRange(nil, &high))
	assert.Nil(t, product.StorageTempMin)

	assert.Error(t, product.SetShelfLife(-1))
	require.NoError(t, product.SetShelfLife(7))
	assert.Equal(t, 7, *product.ShelfLifeDays)
}
