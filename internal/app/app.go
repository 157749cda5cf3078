package app

import (
	"github.com/trebuchet-org/treb-market/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-market/internal/adapters/intent"
	"github.com/trebuchet-org/treb-market/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Networks usecase.NetworkResolver
	Selector *interactive.SelectorAdapter
	Intents  *intent.FileLoaderAdapter
	Wallet   *blockchain.WalletAdapter

	// Use cases
	ExecuteTransaction *usecase.ExecuteTransaction
	PreviewTransaction *usecase.PreviewTransaction
	ListExecutions     *usecase.ListExecutions
	ShowExecution      *usecase.ShowExecution
	ListNetworks       *usecase.ListNetworks
	ShowConfig         *usecase.ShowConfig
	SetConfig          *usecase.SetConfig
	RemoveConfig       *usecase.RemoveConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	networks usecase.NetworkResolver,
	selector *interactive.SelectorAdapter,
	intents *intent.FileLoaderAdapter,
	wallet *blockchain.WalletAdapter,
	executeTransaction *usecase.ExecuteTransaction,
	previewTransaction *usecase.PreviewTransaction,
	listExecutions *usecase.ListExecutions,
	showExecution *usecase.ShowExecution,
	listNetworks *usecase.ListNetworks,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
) (*App, error) {
	return &App{
		Config:             cfg,
		Networks:           networks,
		Selector:           selector,
		Intents:            intents,
		Wallet:             wallet,
		ExecuteTransaction: executeTransaction,
		PreviewTransaction: previewTransaction,
		ListExecutions:     listExecutions,
		ShowExecution:      showExecution,
		ListNetworks:       listNetworks,
		ShowConfig:         showConfig,
		SetConfig:          setConfig,
		RemoveConfig:       removeConfig,
	}, nil
}

// Close releases the wallet's RPC connection
func (a *App) Close() {
	if a.Wallet != nil {
		a.Wallet.Close()
	}
}
