package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
)

// ConfigFileName is the project configuration file
const ConfigFileName = "mkt.toml"

// MarketTOML represents the mkt.toml structure
type MarketTOML struct {
	Networks    map[string]*config.Network `toml:"networks"`
	Marketplace config.MarketplaceConfig   `toml:"marketplace"`
}

// LoadMarketConfig loads .env files and parses mkt.toml with variables expanded.
// A missing mkt.toml yields an empty configuration.
func LoadMarketConfig(projectRoot string) (*MarketTOML, error) {
	// Load .env files first for variable expansion
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}

	cfg := &MarketTOML{Networks: make(map[string]*config.Network)}

	path := filepath.Join(projectRoot, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]*config.Network)
	}

	for name, network := range cfg.Networks {
		if network == nil {
			network = &config.Network{}
			cfg.Networks[name] = network
		}
		network.Name = name
		network.RPCURL, network.RPCEnvVar = expandRPCURL(name, network.RPCURL)
		network.ExplorerURL = os.ExpandEnv(network.ExplorerURL)
	}

	cfg.Marketplace.APIURL = os.ExpandEnv(cfg.Marketplace.APIURL)
	cfg.Marketplace.AccessKey = os.ExpandEnv(cfg.Marketplace.AccessKey)

	return cfg, nil
}
