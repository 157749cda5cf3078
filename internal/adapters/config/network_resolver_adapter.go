package config

import (
	"context"

	"github.com/trebuchet-org/treb-market/internal/config"
	domainconfig "github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// NetworkResolverAdapter adapts the config.NetworkResolver to the usecase.NetworkResolver interface
type NetworkResolverAdapter struct {
	resolver *config.NetworkResolver
}

// NewNetworkResolverAdapter creates a new adapter
func NewNetworkResolverAdapter(resolver *config.NetworkResolver) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{
		resolver: resolver,
	}
}

// GetNetworks returns all configured network names
func (a *NetworkResolverAdapter) GetNetworks(ctx context.Context) []string {
	return a.resolver.GetNetworks()
}

// ResolveNetwork resolves a network name or chain ID to its configuration
func (a *NetworkResolverAdapter) ResolveNetwork(ctx context.Context, networkName string) (*domainconfig.Network, error) {
	return a.resolver.Resolve(networkName)
}

// ResolveChainID finds the configured network serving chainID
func (a *NetworkResolverAdapter) ResolveChainID(chainID uint64) (*domainconfig.Network, error) {
	return a.resolver.ResolveChainID(chainID)
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
