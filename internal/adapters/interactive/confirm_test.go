package interactive

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-market/internal/domain"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

type scriptedConfirmer struct {
	answers []bool
	err     error
	labels  []string
}

func (c *scriptedConfirmer) Confirm(label string) (bool, error) {
	c.labels = append(c.labels, label)
	if c.err != nil {
		return false, c.err
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

type countingWallet struct {
	chainID                          uint64
	sends, typed, messages, switches int
}

func (w *countingWallet) ChainID(ctx context.Context) (uint64, error) {
	if w.chainID == 0 {
		return 137, nil
	}
	return w.chainID, nil
}
func (w *countingWallet) Address(ctx context.Context) (common.Address, error) {
	return common.Address{}, nil
}
func (w *countingWallet) SendTransaction(ctx context.Context, req usecase.TransactionRequest) (common.Hash, error) {
	w.sends++
	return common.HexToHash("0x01"), nil
}
func (w *countingWallet) WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{TxHash: hash}, nil
}
func (w *countingWallet) SignTypedData(ctx context.Context, data apitypes.TypedData) (string, error) {
	w.typed++
	return "0x712", nil
}
func (w *countingWallet) SignMessage(ctx context.Context, message []byte) (string, error) {
	w.messages++
	return "0x191", nil
}
func (w *countingWallet) SwitchChain(ctx context.Context, chainID string) error {
	w.switches++
	return nil
}

func TestConfirmingWallet(t *testing.T) {
	ctx := context.Background()
	value, _ := new(big.Int).SetString("1500000000000000000", 10)
	req := usecase.TransactionRequest{To: common.HexToAddress("0xe0"), Value: value}

	t.Run("approved calls go through", func(t *testing.T) {
		inner := &countingWallet{}
		confirmer := &scriptedConfirmer{answers: []bool{true, true, true}}
		wallet := NewConfirmingWallet(inner, confirmer, true)

		_, err := wallet.SendTransaction(ctx, req)
		require.NoError(t, err)
		_, err = wallet.SignTypedData(ctx, apitypes.TypedData{PrimaryType: "Order"})
		require.NoError(t, err)
		_, err = wallet.SignMessage(ctx, []byte("hello"))
		require.NoError(t, err)

		assert.Equal(t, 1, inner.sends)
		assert.Equal(t, 1, inner.typed)
		assert.Equal(t, 1, inner.messages)
		require.Len(t, confirmer.labels, 3)
		assert.Contains(t, confirmer.labels[0], "1.5 POL")
		assert.Contains(t, confirmer.labels[1], "Order")
	})

	t.Run("value is labelled in the chain's native unit", func(t *testing.T) {
		for chainID, symbol := range map[uint64]string{1: "1.5 ETH", 56: "1.5 BNB", 999999: "1.5 native"} {
			confirmer := &scriptedConfirmer{answers: []bool{true}}
			wallet := NewConfirmingWallet(&countingWallet{chainID: chainID}, confirmer, true)

			_, err := wallet.SendTransaction(ctx, req)
			require.NoError(t, err)
			assert.Contains(t, confirmer.labels[0], symbol)
		}
	})

	t.Run("declined calls are user rejections", func(t *testing.T) {
		inner := &countingWallet{}
		wallet := NewConfirmingWallet(inner, &scriptedConfirmer{answers: []bool{false, false}}, true)

		_, err := wallet.SendTransaction(ctx, req)
		assert.True(t, domain.IsUserRejection(err))
		_, err = wallet.SignMessage(ctx, []byte("hello"))
		assert.ErrorIs(t, err, domain.ErrUserRejected)
		assert.Zero(t, inner.sends)
		assert.Zero(t, inner.messages)
	})

	t.Run("prompt failure is not a rejection", func(t *testing.T) {
		wallet := NewConfirmingWallet(&countingWallet{}, &scriptedConfirmer{err: errors.New("no tty")}, true)
		_, err := wallet.SignTypedData(ctx, apitypes.TypedData{})
		require.Error(t, err)
		assert.False(t, domain.IsUserRejection(err))
	})

	t.Run("disabled never prompts", func(t *testing.T) {
		inner := &countingWallet{}
		confirmer := &scriptedConfirmer{}
		wallet := NewConfirmingWallet(inner, confirmer, false)

		_, err := wallet.SendTransaction(ctx, req)
		require.NoError(t, err)
		require.NoError(t, wallet.SwitchChain(ctx, "1"))
		assert.Empty(t, confirmer.labels)
		assert.Equal(t, 1, inner.switches)
	})
}

func TestSelectorAdapter_SelectNetwork(t *testing.T) {
	ctx := context.Background()

	t.Run("non-interactive", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
		_, err := s.SelectNetwork(ctx, []string{"a", "b"}, "Network")
		assert.ErrorContains(t, err, "non-interactive")
	})

	t.Run("single option needs no prompt", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{})
		name, err := s.SelectNetwork(ctx, []string{"polygon"}, "Network")
		require.NoError(t, err)
		assert.Equal(t, "polygon", name)
	})

	t.Run("nothing to select", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{})
		_, err := s.SelectNetwork(ctx, nil, "Network")
		assert.Error(t, err)
	})
}

func TestFuzzySearch(t *testing.T) {
	items := []string{"polygon", "arbitrum-one", "base-sepolia"}
	search := createFuzzySearchFunc(items)

	assert.True(t, search("", 0))
	assert.True(t, search("POLY", 0))
	assert.True(t, search("arbone", 1))
	assert.False(t, search("xyz", 2))
}
