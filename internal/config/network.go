package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-market/internal/domain"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
)

// NetworkResolver resolves network names and chain IDs to configurations.
// Chain IDs missing from mkt.toml are fetched from the RPC and cached.
type NetworkResolver struct {
	networks   map[string]*config.Network
	cachePath  string
	cache      *NetworkCache
	httpClient *http.Client
	mu         sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	Networks  map[string]uint64 `json:"networks"` // name -> chainID
	RPCs      map[string]uint64 `json:"rpcs"`     // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver. dataDir holds the chain ID cache.
func NewNetworkResolver(dataDir string, networks map[string]*config.Network) *NetworkResolver {
	r := &NetworkResolver{
		networks:  networks,
		cachePath: filepath.Join(dataDir, "cache", "chain_ids.json"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	r.loadCache()

	return r
}

// GetNetworks returns the configured network names, sorted
func (r *NetworkResolver) GetNetworks() []string {
	names := lo.Keys(r.networks)
	sort.Strings(names)
	return names
}

// Resolve resolves a network name, or a decimal chain ID, to its configuration
func (r *NetworkResolver) Resolve(nameOrChainID string) (*config.Network, error) {
	if network, ok := r.networks[nameOrChainID]; ok {
		return r.complete(network)
	}

	if chainID, err := strconv.ParseUint(nameOrChainID, 10, 64); err == nil {
		return r.ResolveChainID(chainID)
	}

	return nil, r.notFound(nameOrChainID)
}

// ResolveChainID returns the configured network serving chainID
func (r *NetworkResolver) ResolveChainID(chainID uint64) (*config.Network, error) {
	for _, name := range r.GetNetworks() {
		network := r.networks[name]
		if network.ChainID == chainID {
			return r.complete(network)
		}
		if network.ChainID == 0 {
			r.mu.RLock()
			cached, ok := r.cache.Networks[name]
			r.mu.RUnlock()
			if ok && cached == chainID {
				return r.complete(network)
			}
		}
	}

	// Networks without a known chain ID have to ask their RPC
	for _, name := range r.GetNetworks() {
		network := r.networks[name]
		if network.ChainID != 0 || network.RPCURL == "" {
			continue
		}
		resolved, err := r.complete(network)
		if err != nil {
			continue
		}
		if resolved.ChainID == chainID {
			return resolved, nil
		}
	}
	return nil, fmt.Errorf("%w: no network configured for chain %d", domain.ErrNetworkNotFound, chainID)
}

// complete returns a copy of network with chain ID and explorer filled in
func (r *NetworkResolver) complete(network *config.Network) (*config.Network, error) {
	resolved := *network

	if resolved.RPCURL == "" {
		return nil, fmt.Errorf("network '%s' has no rpc_url (set it in %s or %s)",
			resolved.Name, ConfigFileName, GenerateEnvVarName(resolved.Name))
	}

	if resolved.ChainID == 0 {
		r.mu.RLock()
		chainID, cached := r.cache.Networks[resolved.Name]
		r.mu.RUnlock()

		if !cached {
			fetched, err := r.fetchChainID(resolved.RPCURL)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", resolved.Name, err)
			}
			chainID = fetched
			r.updateCache(resolved.Name, resolved.RPCURL, chainID)
		}
		resolved.ChainID = chainID
	}

	if resolved.ExplorerURL == "" {
		resolved.ExplorerURL = defaultExplorerURL(resolved.ChainID)
	}

	return &resolved, nil
}

// notFound builds ErrNetworkNotFound with close matches as suggestions
func (r *NetworkResolver) notFound(name string) error {
	matches := fuzzy.Find(name, r.GetNetworks())
	if len(matches) == 0 {
		return fmt.Errorf("%w: '%s' is not configured in %s", domain.ErrNetworkNotFound, name, ConfigFileName)
	}

	suggestions := make([]string, 0, 3)
	for i := 0; i < len(matches) && i < 3; i++ {
		suggestions = append(suggestions, matches[i].Str)
	}
	return fmt.Errorf("%w: '%s' (did you mean %s?)", domain.ErrNetworkNotFound, name, strings.Join(suggestions, ", "))
}

// fetchChainID fetches the chain ID from an RPC endpoint
func (r *NetworkResolver) fetchChainID(rpcURL string) (uint64, error) {
	// Check RPC cache first
	r.mu.RLock()
	if chainID, exists := r.cache.RPCs[rpcURL]; exists {
		r.mu.RUnlock()
		return chainID, nil
	}
	r.mu.RUnlock()

	requestBody := `{"jsonrpc":"2.0","method":"eth_chainId","params":[],"id":1}`

	resp, err := r.httpClient.Post(rpcURL, "application/json", strings.NewReader(requestBody))
	if err != nil {
		return 0, fmt.Errorf("failed to make RPC request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	var rpcResponse struct {
		Result string `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &rpcResponse); err != nil {
		return 0, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if rpcResponse.Error != nil {
		return 0, fmt.Errorf("RPC error: %s", rpcResponse.Error.Message)
	}

	if rpcResponse.Result == "" {
		return 0, fmt.Errorf("empty chain ID response")
	}

	chainIDStr := strings.TrimPrefix(rpcResponse.Result, "0x")
	chainID, err := strconv.ParseUint(chainIDStr, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse chain ID: %w", err)
	}

	return chainID, nil
}

// defaultExplorerURL returns a well-known explorer for chainID
func defaultExplorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 80002:
		return "https://amoy.polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 84532:
		return "https://sepolia.basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 43114:
		return "https://snowtrace.io"
	case 56:
		return "https://bscscan.com"
	case 1329:
		return "https://seitrace.com"
	case 13371:
		return "https://explorer.immutable.com"
	default:
		return ""
	}
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = newNetworkCache()

	data, err := os.ReadFile(r.cachePath)
	if err != nil {
		// Cache doesn't exist yet, that's fine
		return
	}

	if err := json.Unmarshal(data, r.cache); err != nil || r.cache.Networks == nil || r.cache.RPCs == nil {
		r.cache = newNetworkCache()
	}
}

func newNetworkCache() *NetworkCache {
	return &NetworkCache{
		Networks:  make(map[string]uint64),
		RPCs:      make(map[string]uint64),
		UpdatedAt: time.Now(),
	}
}

// updateCache records a fetched chain ID and persists the cache
func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	// Save to disk (ignore errors, cache is just for performance)
	_ = r.saveCache()
}

// saveCache saves the cache to disk; the caller holds r.mu
func (r *NetworkResolver) saveCache() error {
	if err := os.MkdirAll(filepath.Dir(r.cachePath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.cachePath, data, 0644)
}
