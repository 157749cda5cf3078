package config

import (
	"strconv"
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network  *Network // nil if not specified
	Networks map[string]*Network

	// Marketplace API
	Marketplace MarketplaceConfig

	// Orderbook is the default orderbook for new listings and offers
	Orderbook string

	// Wallet
	PrivateKey string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId" toml:"chain_id"`
	Name        string `json:"name" toml:"-"`
	RPCURL      string `json:"-" toml:"rpc_url"`
	ExplorerURL string `json:"explorerUrl,omitempty" toml:"explorer_url"`

	// RPCEnvVar names the variable the RPC URL came from, if any
	RPCEnvVar string `json:"rpcEnvVar,omitempty" toml:"-"`
}

// ChainIDString returns the chain ID in the string form used by transaction intents
func (n *Network) ChainIDString() string {
	return strconv.FormatUint(n.ChainID, 10)
}

// MarketplaceConfig configures the marketplace orchestration API
type MarketplaceConfig struct {
	APIURL    string `json:"apiUrl" toml:"api_url"`
	AccessKey string `json:"-" toml:"access_key"`
}
