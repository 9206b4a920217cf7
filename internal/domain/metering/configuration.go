package metering

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PricingNamespace groups all unit prices, keyed as pricing.<action_type>
	PricingNamespace = "pricing"
	// TemperatureNamespace groups storage zone limits, keyed as temperature.<zone>_min|max
	TemperatureNamespace = "temperature"
)

// FallbackPrice is the unit price used when nothing is configured for an action type
var FallbackPrice = decimal.RequireFromString("0.001")

// ConfigurationEntry is a dotted key/value pair in the shared configuration store.
// Parameter keys are unique across the whole table.
type ConfigurationEntry struct {
	Parameter       string
	Value           string
	ParentParameter string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewConfigurationEntry creates an entry stamped with the current time
func NewConfigurationEntry(parameter, value, parentParameter string) (*ConfigurationEntry, error) {
	parameter = strings.TrimSpace(parameter)
	if parameter == "" {
		return nil, ErrBlankParameter
	}
	if IsPriceParameter(parameter) {
		if _, err := ParsePrice(value); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	return &ConfigurationEntry{
		Parameter:       parameter,
		Value:           strings.TrimSpace(value),
		ParentParameter: parentParameter,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// SetValue replaces the stored value
func (e *ConfigurationEntry) SetValue(value string) error {
	if IsPriceParameter(e.Parameter) {
		if _, err := ParsePrice(value); err != nil {
			return err
		}
	}
	e.Value = strings.TrimSpace(value)
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// NamespacePrefix returns the LIKE-ready prefix of a namespace, e.g. "pricing."
func NamespacePrefix(namespace string) string {
	return namespace + "."
}

// PriceParameter returns the configuration key holding the unit price of an action type
func PriceParameter(actionType string) string {
	return NamespacePrefix(PricingNamespace) + actionType
}

// IsPriceParameter reports whether the key lives in the pricing namespace
func IsPriceParameter(parameter string) bool {
	return strings.HasPrefix(parameter, NamespacePrefix(PricingNamespace))
}

// ActionTypeFromParameter extracts the action type of a pricing key
func ActionTypeFromParameter(parameter string) (string, bool) {
	if !IsPriceParameter(parameter) {
		return "", false
	}
	return strings.TrimPrefix(parameter, NamespacePrefix(PricingNamespace)), true
}

// ParsePrice parses a stored price value. Negative values are rejected.
func ParsePrice(value string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, ErrInvalidPriceValue
	}
	if price.IsNegative() {
		return decimal.Zero, ErrInvalidPriceValue
	}
	return price, nil
}
