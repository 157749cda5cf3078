package config

// LocalConfig represents the local mkt configuration stored in the data dir
type LocalConfig struct {
	Network   string `json:"network"`
	APIURL    string `json:"api_url,omitempty"`
	Orderbook string `json:"orderbook,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyNetwork   ConfigKey = "network"
	ConfigKeyAPIURL    ConfigKey = "api_url"
	ConfigKeyOrderbook ConfigKey = "orderbook"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyNetwork,
		ConfigKeyAPIURL,
		ConfigKeyOrderbook,
	}
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	normalized := NormalizeConfigKey(key)
	for _, validKey := range ValidConfigKeys() {
		if validKey == normalized {
			return true
		}
	}
	return false
}

// NormalizeConfigKey normalizes a config key (e.g., "api" -> "api_url")
func NormalizeConfigKey(key string) ConfigKey {
	switch key {
	case "api", "api-url":
		return ConfigKeyAPIURL
	case "net":
		return ConfigKeyNetwork
	}
	return ConfigKey(key)
}

// Get returns the value stored under key
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyNetwork:
		return c.Network
	case ConfigKeyAPIURL:
		return c.APIURL
	case ConfigKeyOrderbook:
		return c.Orderbook
	}
	return ""
}

// Set stores value under key. Unknown keys are ignored.
func (c *LocalConfig) Set(key ConfigKey, value string) {
	switch key {
	case ConfigKeyNetwork:
		c.Network = value
	case ConfigKeyAPIURL:
		c.APIURL = value
	case ConfigKeyOrderbook:
		c.Orderbook = value
	}
}
