// Package pricing loads the default price table and temperature ranges from YAML.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/aihaccp/backend/internal/domain/compliance"
	"github.com/aihaccp/backend/internal/domain/metering"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrDefaultsUnavailable is returned when the defaults file does not exist
var ErrDefaultsUnavailable = errors.New("pricing defaults file not found")

// rangeDocument is one zone under temperature_ranges
type rangeDocument struct {
	Min *decimal.Decimal `yaml:"min"`
	Max *decimal.Decimal `yaml:"max"`
}

// document mirrors the layout of configs/pricing_defaults.yaml
type document struct {
	Pricing           map[string]decimal.Decimal `yaml:"pricing"`
	TemperatureRanges map[string]rangeDocument   `yaml:"temperature_ranges"`
}

// Defaults is the parsed content of a defaults file
type Defaults struct {
	Prices            map[string]decimal.Decimal
	TemperatureRanges compliance.TemperatureRanges
}

// FileDefaults reads defaults from a YAML file on every call.
// The file is only consulted while seeding, so it is not cached.
type FileDefaults struct {
	path string
}

// NewFileDefaults creates a loader for the given path
func NewFileDefaults(path string) *FileDefaults {
	return &FileDefaults{path: path}
}

// Path returns the configured file path
func (f *FileDefaults) Path() string {
	return f.path
}

// Load reads and validates the file
func (f *FileDefaults) Load(_ context.Context) (*Defaults, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDefaultsUnavailable, f.path)
		}
		return nil, fmt.Errorf("failed to read pricing defaults: %w", err)
	}
	return Parse(data)
}

// Parse decodes a defaults document. Every price must be a non-negative decimal
// and every range must have min <= max.
func Parse(data []byte) (*Defaults, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed pricing defaults: %w", err)
	}

	out := &Defaults{
		Prices:            make(map[string]decimal.Decimal, len(doc.Pricing)),
		TemperatureRanges: make(compliance.TemperatureRanges, len(doc.TemperatureRanges)),
	}
	for action, price := range doc.Pricing {
		if err := metering.ValidateActionType(action); err != nil {
			return nil, fmt.Errorf("malformed pricing defaults: action %q: %w", action, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("malformed pricing defaults: price of %q: %w", action, metering.ErrInvalidPriceValue)
		}
		out.Prices[action] = price
	}
	for name, r := range doc.TemperatureRanges {
		zone, ok := compliance.ParseStorageZone(name)
		if !ok {
			return nil, fmt.Errorf("malformed pricing defaults: unknown storage zone %q", name)
		}
		if r.Min == nil || r.Max == nil {
			return nil, fmt.Errorf("malformed pricing defaults: zone %q needs min and max", name)
		}
		if r.Min.GreaterThan(*r.Max) {
			return nil, fmt.Errorf("malformed pricing defaults: zone %q has min above max", name)
		}
		out.TemperatureRanges[zone] = compliance.TemperatureRange{Min: *r.Min, Max: *r.Max}
	}
	return out, nil
}

// PriceEntries converts the price table into configuration entries, sorted by key
func (d *Defaults) PriceEntries() []*metering.ConfigurationEntry {
	actions := make([]string, 0, len(d.Prices))
	for action := range d.Prices {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	entries := make([]*metering.ConfigurationEntry, 0, len(actions))
	for _, action := range actions {
		e, err := metering.NewConfigurationEntry(metering.PriceParameter(action), d.Prices[action].String(), metering.PricingNamespace)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// TemperatureEntries converts the ranges into temperature.<zone>_min|max entries
func (d *Defaults) TemperatureEntries() []*metering.ConfigurationEntry {
	entries := make([]*metering.ConfigurationEntry, 0, 2*len(d.TemperatureRanges))
	for _, zone := range compliance.Zones {
		r, ok := d.TemperatureRanges[zone]
		if !ok {
			continue
		}
		for bound, v := range map[string]decimal.Decimal{"min": r.Min, "max": r.Max} {
			key := metering.NamespacePrefix(metering.TemperatureNamespace) + compliance.RangeParameterName(zone, bound)
			e, err := metering.NewConfigurationEntry(key, v.String(), metering.TemperatureNamespace)
			if err != nil {
				continue
			}
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Parameter < entries[j].Parameter })
	return entries
}
