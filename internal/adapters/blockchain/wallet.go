package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/trebuchet-org/treb-market/internal/domain"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// gasLimitBuffer is added to estimates, in percent
const gasLimitBuffer = 20

// Backend is the part of ethclient.Client the wallet uses
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

// DialFunc connects to an RPC endpoint
type DialFunc func(ctx context.Context, rpcURL string) (Backend, error)

// ChainNetworks finds the configured network for a chain ID
type ChainNetworks interface {
	ResolveChainID(chainID uint64) (*config.Network, error)
}

// WalletAdapter is a private-key wallet over JSON-RPC. It connects lazily to
// the selected network and re-dials when asked to switch chains.
type WalletAdapter struct {
	cfg          *config.RuntimeConfig
	networks     ChainNetworks
	dial         DialFunc
	log          *slog.Logger
	pollInterval time.Duration

	key     *ecdsa.PrivateKey
	address common.Address
	keyErr  error

	mu      sync.Mutex
	backend Backend
	network *config.Network
}

// WalletOption configures a WalletAdapter
type WalletOption func(*WalletAdapter)

// WithDialer replaces ethclient dialing
func WithDialer(dial DialFunc) WalletOption {
	return func(w *WalletAdapter) { w.dial = dial }
}

// WithPollInterval sets how often receipts are polled
func WithPollInterval(d time.Duration) WalletOption {
	return func(w *WalletAdapter) { w.pollInterval = d }
}

// NewWalletAdapter creates a wallet for cfg.PrivateKey. A missing or invalid key
// is reported by the methods that need it, so read-only commands still work.
func NewWalletAdapter(cfg *config.RuntimeConfig, networks ChainNetworks, log *slog.Logger, opts ...WalletOption) *WalletAdapter {
	w := &WalletAdapter{
		cfg:      cfg,
		networks: networks,
		dial: func(ctx context.Context, rpcURL string) (Backend, error) {
			return ethclient.DialContext(ctx, rpcURL)
		},
		log:          log.With("component", "wallet"),
		pollInterval: 2 * time.Second,
	}

	if cfg.PrivateKey == "" {
		w.keyErr = domain.ErrWalletNotConfigured
	} else {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			w.keyErr = fmt.Errorf("%w: invalid private key: %v", domain.ErrWalletNotConfigured, err)
		} else {
			w.key = key
			w.address = crypto.PubkeyToAddress(key.PublicKey)
		}
	}

	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Network returns the network the wallet is connected to, or nil
func (w *WalletAdapter) Network() *config.Network {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.network
}

// ChainID returns the chain ID reported by the connected RPC
func (w *WalletAdapter) ChainID(ctx context.Context) (uint64, error) {
	backend, err := w.connected(ctx)
	if err != nil {
		return 0, err
	}
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// Address returns the signing account
func (w *WalletAdapter) Address(ctx context.Context) (common.Address, error) {
	if w.keyErr != nil {
		return common.Address{}, w.keyErr
	}
	return w.address, nil
}

// SendTransaction signs req with the latest signer for the chain and broadcasts it
func (w *WalletAdapter) SendTransaction(ctx context.Context, req usecase.TransactionRequest) (common.Hash, error) {
	if w.keyErr != nil {
		return common.Hash{}, w.keyErr
	}
	backend, err := w.connected(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get chain ID: %w", err)
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	nonce, err := backend.PendingNonceAt(ctx, w.address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	to := req.To
	gas, err := backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  w.address,
		To:    &to,
		Value: value,
		Data:  req.Data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
	}
	gas += gas * gasLimitBuffer / 100

	txData, err := w.feeFields(ctx, backend, chainID, nonce, gas, to, value, req.Data)
	if err != nil {
		return common.Hash{}, err
	}

	signedTx, err := types.SignTx(types.NewTx(txData), types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := backend.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to broadcast transaction: %w", err)
	}

	w.log.Debug("transaction broadcast", "hash", signedTx.Hash().Hex(), "nonce", nonce, "gas", gas, "to", to.Hex())
	return signedTx.Hash(), nil
}

// feeFields prices the transaction with EIP-1559 fees when the chain has a base fee
func (w *WalletAdapter) feeFields(
	ctx context.Context,
	backend Backend,
	chainID *big.Int,
	nonce, gas uint64,
	to common.Address,
	value *big.Int,
	data []byte,
) (types.TxData, error) {
	header, err := backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}

	if header.BaseFee != nil {
		tip, err := backend.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas tip: %w", err)
		}
		feeCap := new(big.Int).Add(tip, new(big.Int).Mul(header.BaseFee, big.NewInt(2)))
		return &types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			To:        &to,
			Value:     value,
			Data:      data,
		}, nil
	}

	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}
	return &types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     data,
	}, nil
}

// WaitForReceipt polls until the transaction is mined or ctx is done
func (w *WalletAdapter) WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	backend, err := w.connected(ctx)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			w.log.Debug("receipt not available", "hash", hash.Hex(), "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("stopped waiting for %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// SignTypedData returns an EIP-712 signature with a 27/28 recovery byte
func (w *WalletAdapter) SignTypedData(ctx context.Context, data apitypes.TypedData) (string, error) {
	if w.keyErr != nil {
		return "", w.keyErr
	}
	hash, _, err := apitypes.TypedDataAndHash(data)
	if err != nil {
		return "", fmt.Errorf("failed to hash typed data: %w", err)
	}
	return w.sign(hash)
}

// SignMessage returns an EIP-191 personal signature over message
func (w *WalletAdapter) SignMessage(ctx context.Context, message []byte) (string, error) {
	if w.keyErr != nil {
		return "", w.keyErr
	}
	return w.sign(accounts.TextHash(message))
}

func (w *WalletAdapter) sign(hash []byte) (string, error) {
	sig, err := crypto.Sign(hash, w.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// SwitchChain connects to the configured network for chainID
func (w *WalletAdapter) SwitchChain(ctx context.Context, chainID string) error {
	id, ok := models.ParseChainID(chainID)
	if !ok {
		return fmt.Errorf("invalid chain ID %q", chainID)
	}

	network, err := w.networks.ResolveChainID(id)
	if err != nil {
		return err
	}

	backend, err := w.connect(ctx, network)
	if err != nil {
		return err
	}

	w.mu.Lock()
	previous := w.backend
	w.backend = backend
	w.network = network
	w.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	w.log.Info("switched network", "network", network.Name, "chain", id)
	return nil
}

// Close releases the RPC connection
func (w *WalletAdapter) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.backend != nil {
		w.backend.Close()
		w.backend = nil
	}
}

// connected returns the backend, dialing the selected network on first use
func (w *WalletAdapter) connected(ctx context.Context) (Backend, error) {
	w.mu.Lock()
	backend := w.backend
	w.mu.Unlock()
	if backend != nil {
		return backend, nil
	}

	network := w.cfg.Network
	if network == nil {
		return nil, fmt.Errorf("no network selected (use --network or configure one with `mkt config set network`)")
	}

	backend, err := w.connect(ctx, network)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.backend != nil {
		// lost a race with another caller
		backend.Close()
		return w.backend, nil
	}
	w.backend = backend
	w.network = network
	return backend, nil
}

// connect dials network and verifies the RPC serves its chain
func (w *WalletAdapter) connect(ctx context.Context, network *config.Network) (Backend, error) {
	backend, err := w.dial(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	if network.ChainID != 0 {
		rpcChainID, err := backend.ChainID(ctx)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("failed to get chain ID: %w", err)
		}
		if rpcChainID.Uint64() != network.ChainID {
			backend.Close()
			return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", network.ChainID, rpcChainID.Uint64())
		}
	}

	return backend, nil
}

// Ensure the adapter implements the interface
var _ usecase.Wallet = (*WalletAdapter)(nil)
