package marketplace

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
	"github.com/trebuchet-org/treb-market/internal/usecase"
	"github.com/trebuchet-org/treb-market/pkg/marketplace"
)

// ClientFactoryAdapter builds one marketplace API client per chain
type ClientFactoryAdapter struct {
	cfg config.MarketplaceConfig
	log *slog.Logger

	mu      sync.Mutex
	clients map[string]*marketplace.Client
}

// NewClientFactoryAdapter creates a factory using the configured API URL and access key
func NewClientFactoryAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ClientFactoryAdapter {
	return &ClientFactoryAdapter{
		cfg:     cfg.Marketplace,
		log:     log,
		clients: make(map[string]*marketplace.Client),
	}
}

// ForChain returns the client for chainID, creating it on first use.
// Decimal and hex forms of the same chain share one client.
func (f *ClientFactoryAdapter) ForChain(chain string) (usecase.MarketplaceClient, error) {
	id, ok := models.ParseChainID(chain)
	if !ok {
		return nil, fmt.Errorf("invalid chain id %q", chain)
	}
	chainID := models.FormatChainID(id)

	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[chainID]; ok {
		return client, nil
	}

	client, err := marketplace.NewClient(marketplace.Config{
		APIURL:    f.cfg.APIURL,
		AccessKey: f.cfg.AccessKey,
		ChainID:   chainID,
		Logger:    f.log,
	})
	if err != nil {
		return nil, err
	}
	f.clients[chainID] = client
	return client, nil
}

// Ensure the adapter implements the interface
var _ usecase.MarketplaceClientFactory = (*ClientFactoryAdapter)(nil)
