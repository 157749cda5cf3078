//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-market/internal/adapters"
	"github.com/trebuchet-org/treb-market/internal/config"
	"github.com/trebuchet-org/treb-market/internal/logging"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		config.ProvideNetworkResolver,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewExecuteTransaction,
		usecase.NewPreviewTransaction,
		usecase.NewListExecutions,
		usecase.NewShowExecution,
		usecase.NewListNetworks,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
