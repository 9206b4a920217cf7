package compliance

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StorageZone is a class of cold chain equipment with its own safe range
type StorageZone string

const (
	ZoneRefrigerated StorageZone = "refrigerated"
	ZoneFrozen       StorageZone = "frozen"
	ZoneAmbient      StorageZone = "ambient"
)

// Zones lists the known storage zones in display order
var Zones = []StorageZone{ZoneRefrigerated, ZoneFrozen, ZoneAmbient}

// ParseStorageZone normalizes a zone name; ok is false for unknown zones
func ParseStorageZone(s string) (StorageZone, bool) {
	z := StorageZone(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Zones {
		if z == known {
			return z, true
		}
	}
	return "", false
}

// TemperatureRange is an inclusive [Min, Max] interval in degrees Celsius
type TemperatureRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Contains reports whether t lies inside the range
func (r TemperatureRange) Contains(t decimal.Decimal) bool {
	return !t.LessThan(r.Min) && !t.GreaterThan(r.Max)
}

// TemperatureRanges maps each storage zone to its safe range
type TemperatureRanges map[StorageZone]TemperatureRange

// DefaultTemperatureRanges are used when nothing is configured
func DefaultTemperatureRanges() TemperatureRanges {
	return TemperatureRanges{
		ZoneRefrigerated: {Min: decimal.NewFromInt(0), Max: decimal.NewFromInt(4)},
		ZoneFrozen:       {Min: decimal.NewFromInt(-25), Max: decimal.NewFromInt(-18)},
		ZoneAmbient:      {Min: decimal.NewFromInt(15), Max: decimal.NewFromInt(25)},
	}
}

// RangeParameterName returns the configuration key suffix of a zone bound, e.g. frozen_min
func RangeParameterName(zone StorageZone, bound string) string {
	return string(zone) + "_" + bound
}
