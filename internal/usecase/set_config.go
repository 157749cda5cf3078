package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// SetConfigParams contains parameters for setting configuration
type SetConfigParams struct {
	Key   string
	Value string
}

// SetConfigResult contains the result of setting configuration
type SetConfigResult struct {
	UpdatedConfig *config.LocalConfig
	ConfigPath    string
	Key           config.ConfigKey
	Value         string
}

// SetConfig is a use case for setting configuration values
type SetConfig struct {
	store    LocalConfigStore
	networks NetworkResolver
}

// NewSetConfig creates a new SetConfig use case
func NewSetConfig(store LocalConfigStore, networks NetworkResolver) *SetConfig {
	return &SetConfig{
		store:    store,
		networks: networks,
	}
}

// Run executes the set config use case
func (uc *SetConfig) Run(ctx context.Context, params SetConfigParams) (*SetConfigResult, error) {
	key, err := parseConfigKey(params.Key)
	if err != nil {
		return nil, err
	}

	// Validate values that reference other configuration
	switch key {
	case config.ConfigKeyNetwork:
		if _, err := uc.networks.ResolveNetwork(ctx, params.Value); err != nil {
			return nil, err
		}
	case config.ConfigKeyOrderbook:
		if models.OrderbookKind(params.Value) == models.OrderbookUnknown {
			return nil, fmt.Errorf("orderbook %q cannot be used as a default", params.Value)
		}
	}

	cfg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Set(key, params.Value)

	if err := uc.store.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return &SetConfigResult{
		UpdatedConfig: cfg,
		ConfigPath:    uc.store.GetPath(),
		Key:           key,
		Value:         params.Value,
	}, nil
}

func parseConfigKey(raw string) (config.ConfigKey, error) {
	key := strings.ToLower(raw)
	if !config.IsValidConfigKey(key) {
		validKeys := make([]string, 0, len(config.ValidConfigKeys()))
		for _, k := range config.ValidConfigKeys() {
			validKeys = append(validKeys, string(k))
		}
		return "", fmt.Errorf("unknown config key: %s\nAvailable keys: %s", raw, strings.Join(validKeys, ", "))
	}
	return config.NormalizeConfigKey(key), nil
}
