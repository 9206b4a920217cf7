package metering

import (
	"context"
	"fmt"
	"strings"

	domainMetering "github.com/aihaccp/backend/internal/domain/metering"
	"github.com/aihaccp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PriceInvalidator drops cached prices after an administrative change
type PriceInvalidator interface {
	InvalidatePrice(ctx context.Context, actionType string)
}

// Seeder seeds a configuration namespace from its defaults
type Seeder interface {
	EnsureSeeded(ctx context.Context) error
}

// SetConfigurationInput is an administrative write of one configuration key
type SetConfigurationInput struct {
	Parameter       string
	Value           string
	ParentParameter string
}

// ConfigurationService is the administrative path over the configuration store
type ConfigurationService struct {
	repo        domainMetering.ConfigurationRepository
	invalidator PriceInvalidator
	seeder      Seeder
	logger      *zap.Logger
}

// NewConfigurationService creates a configuration service.
// invalidator and seeder may be nil.
func NewConfigurationService(
	repo domainMetering.ConfigurationRepository,
	invalidator PriceInvalidator,
	seeder Seeder,
	logger *zap.Logger,
) *ConfigurationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationService{
		repo:        repo,
		invalidator: invalidator,
		seeder:      seeder,
		logger:      logger,
	}
}

// List returns the entries whose key starts with prefix; an empty prefix lists everything
func (s *ConfigurationService) List(ctx context.Context, prefix string) ([]*domainMetering.ConfigurationEntry, error) {
	entries, err := s.repo.ListByPrefix(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list configuration: %w", err)
	}
	return entries, nil
}

// Get returns a single entry
func (s *ConfigurationService) Get(ctx context.Context, parameter string) (*domainMetering.ConfigurationEntry, error) {
	return s.repo.FindByParameter(ctx, strings.TrimSpace(parameter))
}

// Set creates or replaces a configuration entry. Pricing values must be
// non-negative decimals. The cached price of the affected action is dropped.
func (s *ConfigurationService) Set(ctx context.Context, input SetConfigurationInput) (*domainMetering.ConfigurationEntry, error) {
	parent := strings.TrimSpace(input.ParentParameter)
	parameter := strings.TrimSpace(input.Parameter)
	if parent == "" && domainMetering.IsPriceParameter(parameter) {
		parent = domainMetering.PricingNamespace
	}

	entry, err := domainMetering.NewConfigurationEntry(parameter, input.Value, parent)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}

	if action, ok := domainMetering.ActionTypeFromParameter(entry.Parameter); ok && s.invalidator != nil {
		s.invalidator.InvalidatePrice(ctx, action)
	}

	logger.Enrich(ctx, s.logger).Info("Configuration updated",
		zap.String("parameter", entry.Parameter),
		zap.String("value", entry.Value),
	)
	return entry, nil
}

// SeedPricing inserts the default price table if no price is configured yet
func (s *ConfigurationService) SeedPricing(ctx context.Context) error {
	if s.seeder == nil {
		return nil
	}
	return s.seeder.EnsureSeeded(ctx)
}
