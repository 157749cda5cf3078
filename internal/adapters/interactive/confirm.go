package interactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/shopspring/decimal"
	"github.com/trebuchet-org/treb-market/internal/domain"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(label string) (bool, error)
}

// Pauser stops terminal output that would garble a prompt
type Pauser interface {
	Pause()
}

// PromptConfirmer asks on the terminal
type PromptConfirmer struct {
	output Pauser
}

// NewPromptConfirmer creates a terminal confirmer that pauses output before asking
func NewPromptConfirmer(output Pauser) *PromptConfirmer {
	return &PromptConfirmer{output: output}
}

// Confirm returns false when the user answers no or interrupts the prompt
func (c *PromptConfirmer) Confirm(label string) (bool, error) {
	if c.output != nil {
		c.output.Pause()
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ConfirmingWallet asks before every transaction and signature. A declined
// prompt fails the operation with domain.ErrUserRejected.
type ConfirmingWallet struct {
	usecase.Wallet
	confirmer Confirmer
	enabled   bool
}

// NewConfirmingWallet wraps wallet. With enabled false it passes everything through.
func NewConfirmingWallet(wallet usecase.Wallet, confirmer Confirmer, enabled bool) *ConfirmingWallet {
	return &ConfirmingWallet{
		Wallet:    wallet,
		confirmer: confirmer,
		enabled:   enabled,
	}
}

// SendTransaction confirms, then sends
func (w *ConfirmingWallet) SendTransaction(ctx context.Context, req usecase.TransactionRequest) (common.Hash, error) {
	label := fmt.Sprintf("Send transaction to %s", color.New(color.FgCyan).Sprint(req.To.Hex()))
	if req.Value != nil && req.Value.Sign() > 0 {
		symbol := "native"
		if chainID, err := w.Wallet.ChainID(ctx); err == nil {
			symbol = models.NativeCurrency(chainID)
		}
		label += fmt.Sprintf(" with %s %s", decimal.NewFromBigInt(req.Value, -18).String(), symbol)
	}
	if err := w.ask(label); err != nil {
		return common.Hash{}, err
	}
	return w.Wallet.SendTransaction(ctx, req)
}

// WaitForReceipt is passed through
func (w *ConfirmingWallet) WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return w.Wallet.WaitForReceipt(ctx, hash)
}

// SignTypedData confirms, then signs
func (w *ConfirmingWallet) SignTypedData(ctx context.Context, data apitypes.TypedData) (string, error) {
	label := fmt.Sprintf("Sign %s for %s", color.New(color.FgCyan).Sprint(data.PrimaryType), data.Domain.Name)
	if err := w.ask(label); err != nil {
		return "", err
	}
	return w.Wallet.SignTypedData(ctx, data)
}

// SignMessage confirms, then signs
func (w *ConfirmingWallet) SignMessage(ctx context.Context, message []byte) (string, error) {
	if err := w.ask(fmt.Sprintf("Sign message %q", string(message))); err != nil {
		return "", err
	}
	return w.Wallet.SignMessage(ctx, message)
}

func (w *ConfirmingWallet) ask(label string) error {
	if !w.enabled {
		return nil
	}
	ok, err := w.confirmer.Confirm(label)
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return domain.ErrUserRejected
	}
	return nil
}

// Ensure the decorator implements the interface
var _ usecase.Wallet = (*ConfirmingWallet)(nil)
