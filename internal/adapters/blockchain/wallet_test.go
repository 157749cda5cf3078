package blockchain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-market/internal/domain"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// Hardhat's first default account
const testKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var testAddress = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

type fakeBackend struct {
	mu       sync.Mutex
	chainID  *big.Int
	baseFee  *big.Int
	sent     []*types.Transaction
	pending  int
	receipts map[common.Hash]*types.Receipt
	closed   bool
}

func newFakeBackend(chainID int64) *fakeBackend {
	return &fakeBackend{chainID: big.NewInt(chainID), receipts: map[common.Hash]*types.Receipt{}}
}

func (b *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) { return b.chainID, nil }

func (b *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.sent)), nil
}

func (b *fakeBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

func (b *fakeBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1), BaseFee: b.baseFee}, nil
}

func (b *fakeBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(2), nil
}

func (b *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(50), nil
}

func (b *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	return nil
}

func (b *fakeBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending > 0 {
		b.pending--
		return nil, ethereum.NotFound
	}
	if r, ok := b.receipts[hash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (b *fakeBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

type fakeNetworks map[uint64]*config.Network

func (n fakeNetworks) ResolveChainID(chainID uint64) (*config.Network, error) {
	if network, ok := n[chainID]; ok {
		return network, nil
	}
	return nil, errors.New("no network configured for chain")
}

var testNetworks = fakeNetworks{
	1:   {Name: "mainnet", ChainID: 1, RPCURL: "http://mainnet"},
	137: {Name: "polygon", ChainID: 137, RPCURL: "http://polygon"},
}

type walletFixture struct {
	wallet   *WalletAdapter
	backends map[string]*fakeBackend
	dials    []string
}

func newWalletFixture(t *testing.T, key string, network *config.Network) *walletFixture {
	t.Helper()
	f := &walletFixture{backends: map[string]*fakeBackend{
		"http://mainnet": newFakeBackend(1),
		"http://polygon": newFakeBackend(137),
	}}
	cfg := &config.RuntimeConfig{PrivateKey: key, Network: network}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.wallet = NewWalletAdapter(cfg, testNetworks, log,
		WithPollInterval(time.Millisecond),
		WithDialer(func(ctx context.Context, rpcURL string) (Backend, error) {
			f.dials = append(f.dials, rpcURL)
			backend, ok := f.backends[rpcURL]
			if !ok {
				return nil, errors.New("connection refused")
			}
			return backend, nil
		}),
	)
	return f
}

func TestWalletAdapter_Address(t *testing.T) {
	t.Run("derives the address from the key", func(t *testing.T) {
		f := newWalletFixture(t, testKey, nil)
		addr, err := f.wallet.Address(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testAddress, addr)
	})

	t.Run("missing key", func(t *testing.T) {
		f := newWalletFixture(t, "", nil)
		_, err := f.wallet.Address(context.Background())
		assert.ErrorIs(t, err, domain.ErrWalletNotConfigured)
	})

	t.Run("invalid key", func(t *testing.T) {
		f := newWalletFixture(t, "0x1234", nil)
		_, err := f.wallet.SignMessage(context.Background(), []byte("hi"))
		assert.ErrorIs(t, err, domain.ErrWalletNotConfigured)
	})
}

func TestWalletAdapter_ChainID(t *testing.T) {
	t.Run("connects lazily to the selected network", func(t *testing.T) {
		f := newWalletFixture(t, testKey, testNetworks[137])
		assert.Empty(t, f.dials)

		id, err := f.wallet.ChainID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint64(137), id)

		_, err = f.wallet.ChainID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"http://polygon"}, f.dials)
		assert.Equal(t, "polygon", f.wallet.Network().Name)
	})

	t.Run("no network selected", func(t *testing.T) {
		f := newWalletFixture(t, testKey, nil)
		_, err := f.wallet.ChainID(context.Background())
		assert.ErrorContains(t, err, "no network selected")
	})

	t.Run("rpc serving another chain", func(t *testing.T) {
		f := newWalletFixture(t, testKey, &config.Network{Name: "wrong", ChainID: 10, RPCURL: "http://polygon"})
		_, err := f.wallet.ChainID(context.Background())
		assert.ErrorContains(t, err, "chain ID mismatch: expected 10, got 137")
		assert.True(t, f.backends["http://polygon"].closed)
	})
}

func TestWalletAdapter_SwitchChain(t *testing.T) {
	f := newWalletFixture(t, testKey, testNetworks[1])
	ctx := context.Background()

	id, err := f.wallet.ChainID(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	require.NoError(t, f.wallet.SwitchChain(ctx, "137"))

	id, err = f.wallet.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(137), id)
	assert.True(t, f.backends["http://mainnet"].closed)

	assert.Error(t, f.wallet.SwitchChain(ctx, "42161"))
	assert.Error(t, f.wallet.SwitchChain(ctx, "polygon"))

	id, err = f.wallet.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(137), id, "failed switch keeps the current connection")
}

func TestWalletAdapter_SwitchChainHex(t *testing.T) {
	f := newWalletFixture(t, testKey, testNetworks[1])
	ctx := context.Background()

	require.NoError(t, f.wallet.SwitchChain(ctx, "0x89"))

	id, err := f.wallet.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(137), id)
	assert.Equal(t, []string{"http://polygon"}, f.dials)
}

func TestWalletAdapter_SendTransaction(t *testing.T) {
	to := common.HexToAddress("0x00000000000000000000000000000000000000e0")
	req := usecase.TransactionRequest{To: to, Data: []byte{0xde, 0xad}, Value: big.NewInt(1000)}

	t.Run("dynamic fee on london chains", func(t *testing.T) {
		f := newWalletFixture(t, testKey, testNetworks[137])
		backend := f.backends["http://polygon"]
		backend.baseFee = big.NewInt(30)

		hash, err := f.wallet.SendTransaction(context.Background(), req)
		require.NoError(t, err)

		require.Len(t, backend.sent, 1)
		tx := backend.sent[0]
		assert.Equal(t, hash, tx.Hash())
		assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
		assert.Equal(t, big.NewInt(2), tx.GasTipCap())
		assert.Equal(t, big.NewInt(62), tx.GasFeeCap())
		assert.Equal(t, uint64(120_000), tx.Gas())
		assert.Equal(t, &to, tx.To())
		assert.Equal(t, big.NewInt(1000), tx.Value())
		assert.Equal(t, []byte{0xde, 0xad}, tx.Data())

		sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(137)), tx)
		require.NoError(t, err)
		assert.Equal(t, testAddress, sender)
	})

	t.Run("legacy gas price without base fee", func(t *testing.T) {
		f := newWalletFixture(t, testKey, testNetworks[137])
		backend := f.backends["http://polygon"]

		_, err := f.wallet.SendTransaction(context.Background(), usecase.TransactionRequest{To: to})
		require.NoError(t, err)
		_, err = f.wallet.SendTransaction(context.Background(), usecase.TransactionRequest{To: to})
		require.NoError(t, err)

		require.Len(t, backend.sent, 2)
		assert.Equal(t, uint8(types.LegacyTxType), backend.sent[0].Type())
		assert.Equal(t, big.NewInt(50), backend.sent[0].GasPrice())
		assert.Equal(t, 0, backend.sent[0].Value().Sign())
		assert.Equal(t, uint64(1), backend.sent[1].Nonce())
	})

	t.Run("requires a key", func(t *testing.T) {
		f := newWalletFixture(t, "", testNetworks[137])
		_, err := f.wallet.SendTransaction(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrWalletNotConfigured)
		assert.Empty(t, f.dials)
	})
}

func TestWalletAdapter_WaitForReceipt(t *testing.T) {
	hash := common.HexToHash("0x01")

	t.Run("polls until mined", func(t *testing.T) {
		f := newWalletFixture(t, testKey, testNetworks[137])
		backend := f.backends["http://polygon"]
		backend.pending = 3
		backend.receipts[hash] = &types.Receipt{TxHash: hash, Status: types.ReceiptStatusSuccessful}

		receipt, err := f.wallet.WaitForReceipt(context.Background(), hash)
		require.NoError(t, err)
		assert.Equal(t, hash, receipt.TxHash)
		assert.Zero(t, backend.pending)
	})

	t.Run("stops with the context", func(t *testing.T) {
		f := newWalletFixture(t, testKey, testNetworks[137])
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := f.wallet.WaitForReceipt(ctx, hash)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func recoverSigner(t *testing.T, hash []byte, signature string) common.Address {
	t.Helper()
	sig, err := hexutil.Decode(signature)
	require.NoError(t, err)
	require.Len(t, sig, crypto.SignatureLength)
	require.Contains(t, []byte{27, 28}, sig[crypto.RecoveryIDOffset])

	sig[crypto.RecoveryIDOffset] -= 27
	pub, err := crypto.SigToPub(hash, sig)
	require.NoError(t, err)
	return crypto.PubkeyToAddress(*pub)
}

func TestWalletAdapter_SignMessage(t *testing.T) {
	f := newWalletFixture(t, testKey, nil)
	message := []byte("sign in to the marketplace")

	signature, err := f.wallet.SignMessage(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, testAddress, recoverSigner(t, accounts.TextHash(message), signature))
}

func TestWalletAdapter_SignTypedData(t *testing.T) {
	f := newWalletFixture(t, testKey, nil)
	chainID := math.NewHexOrDecimal256(137)
	data := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Order": {
				{Name: "maker", Type: "address"},
				{Name: "price", Type: "uint256"},
			},
		},
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              "Exchange",
			Version:           "1",
			ChainId:           chainID,
			VerifyingContract: "0x00000000000000000000000000000000000000e0",
		},
		Message: apitypes.TypedDataMessage{
			"maker": testAddress.Hex(),
			"price": "1000",
		},
	}

	signature, err := f.wallet.SignTypedData(context.Background(), data)
	require.NoError(t, err)

	hash, _, err := apitypes.TypedDataAndHash(data)
	require.NoError(t, err)
	assert.Equal(t, testAddress, recoverSigner(t, hash, signature))
}
