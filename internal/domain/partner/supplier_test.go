package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	supplier, err := NewSupplier(uuid.New(), "Ocean Fresh")
	require.NoError(t, err)
	assert.Equal(t, DefaultRiskLevel, supplier.RiskLevel)
	assert.NotNil(t, supplier.ContactInfo)
	assert.False(t, supplier.IsHighRisk())

	_, err = NewSupplier(uuid.Nil, "Ocean Fresh")
	assert.Error(t, err)
	_, err = NewSupplier(uuid.New(), " ")
	assert.Error(t, err)
}

func TestSupplier_SetRiskLevel(t *testing.T) {
	supplier, err := NewSupplier(uuid.New(), "Farm Direct")
	require.NoError(t, err)

	assert.Error(t, supplier.SetRiskLevel(0))
	assert.Error(t, supplier.SetRiskLevel(6))
	require.NoError(t, supplier.SetRiskLevel(4))
	assert.True(t, supplier.IsHighRisk())

	supplier.SetCertificationStatus(" Certified ")
	assert.Equal(t, CertificationCertified, supplier.CertificationStatus)

	supplier.SetContactInfo(nil)
	assert.NotNil(t, supplier.ContactInfo)
}
