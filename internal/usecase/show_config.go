package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-market/internal/domain/config"
)

// ConfigEntry is one local setting next to the value this run actually uses,
// which flags, MKT_ env vars or mkt.toml may override.
type ConfigEntry struct {
	Key       config.ConfigKey `json:"key"`
	Local     string           `json:"local,omitempty"`
	Effective string           `json:"effective,omitempty"`
}

// ShowConfigResult lists every known setting
type ShowConfigResult struct {
	Entries    []ConfigEntry `json:"entries"`
	ConfigPath string        `json:"configPath"`
	Exists     bool          `json:"exists"`
}

// ShowConfig reports local settings and their effective values
type ShowConfig struct {
	store   LocalConfigStore
	runtime *config.RuntimeConfig
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(store LocalConfigStore, runtime *config.RuntimeConfig) *ShowConfig {
	return &ShowConfig{store: store, runtime: runtime}
}

// Run executes the use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	keys := config.ValidConfigKeys()
	entries := make([]ConfigEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, ConfigEntry{
			Key:       key,
			Local:     local.Get(key),
			Effective: uc.effective(key),
		})
	}

	return &ShowConfigResult{
		Entries:    entries,
		ConfigPath: uc.store.GetPath(),
		Exists:     uc.store.Exists(),
	}, nil
}

func (uc *ShowConfig) effective(key config.ConfigKey) string {
	if uc.runtime == nil {
		return ""
	}
	switch key {
	case config.ConfigKeyNetwork:
		if uc.runtime.Network != nil {
			return uc.runtime.Network.Name
		}
	case config.ConfigKeyAPIURL:
		return uc.runtime.Marketplace.APIURL
	case config.ConfigKeyOrderbook:
		return uc.runtime.Orderbook
	}
	return ""
}
