package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/treb-market/internal/adapters/blockchain"
	internalconfig "github.com/trebuchet-org/treb-market/internal/adapters/config"
	"github.com/trebuchet-org/treb-market/internal/adapters/fs"
	"github.com/trebuchet-org/treb-market/internal/adapters/intent"
	"github.com/trebuchet-org/treb-market/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-market/internal/adapters/marketplace"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// ProvideWalletAdapter provides the RPC wallet for the configured key
func ProvideWalletAdapter(cfg *config.RuntimeConfig, networks *internalconfig.NetworkResolverAdapter, log *slog.Logger) *blockchain.WalletAdapter {
	return blockchain.NewWalletAdapter(cfg, networks, log)
}

// ProvideWallet wraps the wallet with confirmation prompts unless running non-interactively
func ProvideWallet(cfg *config.RuntimeConfig, wallet *blockchain.WalletAdapter, sink usecase.ProgressSink) usecase.Wallet {
	var output interactive.Pauser
	if pauser, ok := sink.(interactive.Pauser); ok {
		output = pauser
	}
	return interactive.NewConfirmingWallet(wallet, interactive.NewPromptConfirmer(output), !cfg.NonInteractive)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewExecutionStoreAdapter,
	wire.Bind(new(usecase.ExecutionStore), new(*fs.ExecutionStoreAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),

	intent.NewFileLoaderAdapter,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	ProvideWalletAdapter,
	ProvideWallet,
)

// MarketplaceSet provides the marketplace API clients
var MarketplaceSet = wire.NewSet(
	marketplace.NewClientFactoryAdapter,
	wire.Bind(new(usecase.MarketplaceClientFactory), new(*marketplace.ClientFactoryAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
	MarketplaceSet,
)
