package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// ExecuteTransactionParams contains parameters for executing a marketplace flow
type ExecuteTransactionParams struct {
	Intent models.TransactionIntent
}

// ExecuteTransactionResult contains the result of a flow.
// It is returned together with the error when the flow fails part way.
type ExecuteTransactionResult struct {
	Execution *models.Execution
}

// ExecuteTransaction runs a TransactionMachine for an intent and journals the run
type ExecuteTransaction struct {
	wallet   Wallet
	clients  MarketplaceClientFactory
	store    ExecutionStore
	progress ProgressSink
	log      *slog.Logger
}

// NewExecuteTransaction creates a new ExecuteTransaction use case
func NewExecuteTransaction(
	wallet Wallet,
	clients MarketplaceClientFactory,
	store ExecutionStore,
	progress ProgressSink,
	log *slog.Logger,
) *ExecuteTransaction {
	return &ExecuteTransaction{
		wallet:   wallet,
		clients:  clients,
		store:    store,
		progress: progress,
		log:      log,
	}
}

// Run executes the use case
func (uc *ExecuteTransaction) Run(ctx context.Context, params ExecuteTransactionParams) (*ExecuteTransactionResult, error) {
	client, err := uc.clients.ForChain(params.Intent.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create marketplace client: %w", err)
	}

	account, err := uc.wallet.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve wallet address: %w", err)
	}

	execution := &models.Execution{
		ID:        uuid.NewString(),
		Intent:    params.Intent,
		Account:   account.Hex(),
		Status:    models.ExecutionStatusRunning,
		TxHashes:  []string{},
		StartedAt: time.Now(),
	}

	// The running record is journaled up front and after every confirmed
	// transaction, so an interrupted flow still shows what committed.
	uc.journal(ctx, execution)

	var machine *TransactionMachine
	machine = NewTransactionMachine(TransactionConfig{
		Intent: params.Intent,
		OnSuccess: func(hash common.Hash) {
			execution.TxHashes = append(execution.TxHashes, hash.Hex())
			execution.Transitions = machine.History()
			uc.journal(ctx, execution)
			uc.progress.Info(fmt.Sprintf("Transaction confirmed: %s", hash.Hex()))
		},
		OnError: func(err error) {
			uc.progress.Error(err.Error())
		},
		OnTransition: func(t models.StateTransition) {
			uc.progress.OnProgress(ctx, ProgressEvent{
				Stage:    string(t.To),
				Message:  describeTransition(t),
				Spinner:  !t.To.IsTerminal(),
				Metadata: t,
			})
		},
	}, uc.wallet, client, uc.wallet.SwitchChain, WithLogger(uc.log))

	runErr := machine.Start(ctx)

	finished := time.Now()
	execution.FinishedAt = &finished
	execution.Transitions = machine.History()
	if runErr != nil {
		execution.Status = models.ExecutionStatusFailed
		execution.Error = runErr.Error()
	} else {
		execution.Status = models.ExecutionStatusSucceeded
	}

	uc.journal(ctx, execution)

	return &ExecuteTransactionResult{Execution: execution}, runErr
}

// journal saves the execution; a journal failure never masks the flow's own outcome
func (uc *ExecuteTransaction) journal(ctx context.Context, execution *models.Execution) {
	if err := uc.store.SaveExecution(ctx, execution); err != nil {
		uc.log.Warn("failed to journal execution", "id", execution.ID, "error", err)
	}
}

func describeTransition(t models.StateTransition) string {
	switch t.To {
	case models.StateValidatingChain:
		return "Checking wallet network"
	case models.StateSwitchChain:
		return "Switching wallet network"
	case models.StateCheckingSteps:
		return "Fetching steps"
	case models.StateTokenApproval:
		return "Approving token"
	case models.StateExecutingTransaction:
		return fmt.Sprintf("Executing %s", t.StepID)
	case models.StateSuccess:
		return "Completed"
	case models.StateError:
		return "Failed"
	default:
		return string(t.To)
	}
}
