package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
)

// DataDirName is the per-project directory for local state
const DataDirName = ".mkt"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// Loads .env files as a side effect, so viper sees their MKT_* values below
	marketConfig, err := LoadMarketConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", ConfigFileName, err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		Networks:       marketConfig.Networks,
		Marketplace:    marketConfig.Marketplace,
		Orderbook:      v.GetString("orderbook"),
		PrivateKey:     v.GetString("private_key"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive") || v.GetBool("json"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
	}

	if apiURL := v.GetString("api_url"); apiURL != "" {
		cfg.Marketplace.APIURL = apiURL
	}
	if accessKey := v.GetString("access_key"); accessKey != "" {
		cfg.Marketplace.AccessKey = accessKey
	}

	if networkName := v.GetString("network"); networkName != "" {
		network, err := NewNetworkResolver(cfg.DataDir, cfg.Networks).Resolve(networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to find mkt.toml.
// Without one, the current directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	// Set up environment variables
	v.SetEnvPrefix("MKT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "10m")
	v.SetDefault("network", "")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	// Unchanged flags only supply defaults; viper ranks env and the config file above them
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
			panic(err)
		}
	})

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.DataDir, cfg.Networks)
}
