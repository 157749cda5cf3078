package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// TransactionRequest is a transaction the wallet should sign and broadcast
type TransactionRequest struct {
	To    common.Address
	Data  []byte
	Value *big.Int
}

// WalletClient signs and sends on behalf of the connected account.
// Implementations may be shared between machines.
type WalletClient interface {
	ChainID(ctx context.Context) (uint64, error)
	Address(ctx context.Context) (common.Address, error)
	SendTransaction(ctx context.Context, req TransactionRequest) (common.Hash, error)
	// WaitForReceipt blocks until the transaction is mined
	WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	// SignTypedData returns a 0x-prefixed EIP-712 signature
	SignTypedData(ctx context.Context, data apitypes.TypedData) (string, error)
	// SignMessage returns a 0x-prefixed EIP-191 personal signature
	SignMessage(ctx context.Context, message []byte) (string, error)
}

// ChainSwitcher moves a wallet to another network
type ChainSwitcher interface {
	SwitchChain(ctx context.Context, chainID string) error
}

// Wallet is a WalletClient that can also change networks
type Wallet interface {
	WalletClient
	ChainSwitcher
}

// MarketplaceClient is the marketplace orchestration API for a single chain
type MarketplaceClient interface {
	GenerateBuyTransaction(ctx context.Context, req *models.GenerateBuyTransactionRequest) (*models.GenerateTransactionResponse, error)
	GenerateSellTransaction(ctx context.Context, req *models.GenerateSellTransactionRequest) (*models.GenerateTransactionResponse, error)
	GenerateListingTransaction(ctx context.Context, req *models.GenerateListingTransactionRequest) (*models.GenerateTransactionResponse, error)
	GenerateOfferTransaction(ctx context.Context, req *models.GenerateOfferTransactionRequest) (*models.GenerateTransactionResponse, error)
	GenerateCancelTransaction(ctx context.Context, req *models.GenerateCancelTransactionRequest) (*models.GenerateTransactionResponse, error)
	Execute(ctx context.Context, req *models.ExecuteRequest) (*models.ExecuteResponse, error)
}

// MarketplaceClientFactory returns the marketplace client serving a chain
type MarketplaceClientFactory interface {
	ForChain(chainID string) (MarketplaceClient, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
}

// ExecutionStore persists the journal of transaction flows
type ExecutionStore interface {
	SaveExecution(ctx context.Context, execution *models.Execution) error
	GetExecution(ctx context.Context, id string) (*models.Execution, error)
	ListExecutions(ctx context.Context) ([]*models.Execution, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// LocalConfigStore persists the local configuration in the data dir
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, cfg *config.LocalConfig) error
	GetPath() string
}
