package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// PreviewTransactionParams contains parameters for previewing a marketplace flow
type PreviewTransactionParams struct {
	Intent models.TransactionIntent
}

// PreviewTransaction fetches the step plan of an intent without executing it
type PreviewTransaction struct {
	wallet  Wallet
	clients MarketplaceClientFactory
	log     *slog.Logger
}

// NewPreviewTransaction creates a new PreviewTransaction use case
func NewPreviewTransaction(wallet Wallet, clients MarketplaceClientFactory, log *slog.Logger) *PreviewTransaction {
	return &PreviewTransaction{
		wallet:  wallet,
		clients: clients,
		log:     log,
	}
}

// Run executes the use case
func (uc *PreviewTransaction) Run(ctx context.Context, params PreviewTransactionParams) (*models.StepPlan, error) {
	client, err := uc.clients.ForChain(params.Intent.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create marketplace client: %w", err)
	}

	machine := NewTransactionMachine(
		TransactionConfig{Intent: params.Intent},
		uc.wallet,
		client,
		uc.wallet.SwitchChain,
		WithLogger(uc.log),
	)
	return machine.GetTransactionSteps(ctx)
}
