package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-market/internal/domain"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
)

type memoryConfigStore struct {
	cfg    *config.LocalConfig
	exists bool
}

func (s *memoryConfigStore) Exists() bool { return s.exists }

func (s *memoryConfigStore) Load(ctx context.Context) (*config.LocalConfig, error) {
	if s.cfg == nil {
		return config.DefaultLocalConfig(), nil
	}
	copied := *s.cfg
	return &copied, nil
}

func (s *memoryConfigStore) Save(ctx context.Context, cfg *config.LocalConfig) error {
	s.cfg = cfg
	s.exists = true
	return nil
}

func (s *memoryConfigStore) GetPath() string { return "/project/.mkt/config.local.json" }

type stubNetworks map[string]*config.Network

func (n stubNetworks) GetNetworks(ctx context.Context) []string {
	return []string{"base", "broken", "polygon"}
}

func (n stubNetworks) ResolveNetwork(ctx context.Context, name string) (*config.Network, error) {
	if network, ok := n[name]; ok {
		return network, nil
	}
	if name == "broken" {
		return nil, errors.New("rpc unreachable")
	}
	return nil, domain.ErrNetworkNotFound
}

var testNetworks = stubNetworks{
	"polygon": {Name: "polygon", ChainID: 137, RPCURL: "https://polygon-rpc.com"},
	"base":    {Name: "base", ChainID: 8453, RPCURL: "https://mainnet.base.org"},
}

func TestSetConfig_Run(t *testing.T) {
	t.Run("sets a known network", func(t *testing.T) {
		store := &memoryConfigStore{}
		uc := NewSetConfig(store, testNetworks)

		result, err := uc.Run(context.Background(), SetConfigParams{Key: "NET", Value: "polygon"})

		require.NoError(t, err)
		assert.Equal(t, config.ConfigKeyNetwork, result.Key)
		assert.Equal(t, "polygon", store.cfg.Network)
		assert.Equal(t, store.GetPath(), result.ConfigPath)
	})

	t.Run("rejects an unknown network", func(t *testing.T) {
		store := &memoryConfigStore{}
		uc := NewSetConfig(store, testNetworks)

		_, err := uc.Run(context.Background(), SetConfigParams{Key: "network", Value: "goerli"})

		assert.ErrorIs(t, err, domain.ErrNetworkNotFound)
		assert.Nil(t, store.cfg)
	})

	t.Run("rejects an unknown key", func(t *testing.T) {
		uc := NewSetConfig(&memoryConfigStore{}, testNetworks)

		_, err := uc.Run(context.Background(), SetConfigParams{Key: "namespace", Value: "x"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Available keys: network, api_url, orderbook")
	})

	t.Run("rejects the unknown orderbook", func(t *testing.T) {
		uc := NewSetConfig(&memoryConfigStore{}, testNetworks)

		_, err := uc.Run(context.Background(), SetConfigParams{Key: "orderbook", Value: "unknown"})

		assert.Error(t, err)
	})
}

func TestRemoveConfig_Run(t *testing.T) {
	t.Run("clears a value", func(t *testing.T) {
		store := &memoryConfigStore{exists: true, cfg: &config.LocalConfig{Network: "base", APIURL: "http://localhost"}}
		uc := NewRemoveConfig(store)

		result, err := uc.Run(context.Background(), RemoveConfigParams{Key: "api"})

		require.NoError(t, err)
		assert.Equal(t, "http://localhost", result.RemovedValue)
		assert.Empty(t, store.cfg.APIURL)
		assert.Equal(t, "base", store.cfg.Network)
	})

	t.Run("requires a config file", func(t *testing.T) {
		uc := NewRemoveConfig(&memoryConfigStore{})

		_, err := uc.Run(context.Background(), RemoveConfigParams{Key: "network"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no config file found")
	})
}

func TestShowConfig_Run(t *testing.T) {
	store := &memoryConfigStore{exists: true, cfg: &config.LocalConfig{Network: "polygon"}}
	runtime := &config.RuntimeConfig{
		Network:     &config.Network{Name: "base"},
		Marketplace: config.MarketplaceConfig{APIURL: "https://api.example"},
		Orderbook:   "sequence_marketplace_v2",
	}

	result, err := NewShowConfig(store, runtime).Run(context.Background())

	require.NoError(t, err)
	assert.True(t, result.Exists)
	assert.Equal(t, []ConfigEntry{
		{Key: config.ConfigKeyNetwork, Local: "polygon", Effective: "base"},
		{Key: config.ConfigKeyAPIURL, Effective: "https://api.example"},
		{Key: config.ConfigKeyOrderbook, Effective: "sequence_marketplace_v2"},
	}, result.Entries)
}

func TestListNetworks_Run(t *testing.T) {
	result, err := NewListNetworks(testNetworks).Run(context.Background(), ListNetworksParams{Current: "polygon"})

	require.NoError(t, err)
	require.Len(t, result.Networks, 3)

	assert.Equal(t, "base", result.Networks[0].Name)
	assert.Equal(t, uint64(8453), result.Networks[0].ChainID)
	assert.False(t, result.Networks[0].Current)

	assert.Error(t, result.Networks[1].Error)
	assert.Nil(t, result.Networks[1].Network)

	assert.True(t, result.Networks[2].Current)
	assert.Equal(t, "https://polygon-rpc.com", result.Networks[2].Network.RPCURL)
}
