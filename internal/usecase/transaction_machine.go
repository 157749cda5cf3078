package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-market/internal/domain"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// SwitchChainFunc moves the connected wallet to chainID
type SwitchChainFunc func(ctx context.Context, chainID string) error

// TransactionConfig is the intent of a flow plus the callbacks observing it
type TransactionConfig struct {
	Intent models.TransactionIntent

	// OnSuccess is called once per confirmed transaction step, not once per flow
	OnSuccess func(hash common.Hash)
	// OnError is called once with the error Start is about to return
	OnError func(err error)
	// OnTransition is called after every state change
	OnTransition func(transition models.StateTransition)
}

// MachineOption configures a TransactionMachine
type MachineOption func(*TransactionMachine)

// WithLogger sets the logger used for state transitions and step progress
func WithLogger(log *slog.Logger) MachineOption {
	return func(m *TransactionMachine) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock overrides the time source used to stamp transitions and plans
func WithClock(now func() time.Time) MachineOption {
	return func(m *TransactionMachine) {
		if now != nil {
			m.now = now
		}
	}
}

// TransactionMachine executes the steps of one marketplace flow strictly in order.
// A machine runs at most once; create a new one to retry.
type TransactionMachine struct {
	config      TransactionConfig
	wallet      WalletClient
	client      MarketplaceClient
	switchChain SwitchChainFunc
	log         *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	state   models.TransactionState
	history []models.StateTransition
}

// NewTransactionMachine creates a machine in the IDLE state. It performs no I/O.
func NewTransactionMachine(
	cfg TransactionConfig,
	wallet WalletClient,
	client MarketplaceClient,
	switchChain SwitchChainFunc,
	opts ...MachineOption,
) *TransactionMachine {
	m := &TransactionMachine{
		config:      cfg,
		wallet:      wallet,
		client:      client,
		switchChain: switchChain,
		log:         slog.Default(),
		now:         time.Now,
		state:       models.StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state
func (m *TransactionMachine) State() models.TransactionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// History returns every transition so far, oldest first
func (m *TransactionMachine) History() []models.StateTransition {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.StateTransition, len(m.history))
	copy(out, m.history)
	return out
}

// Start drives the flow to SUCCESS or ERROR. Steps run in the order the
// marketplace returned them, each waiting for the previous one to confirm.
// Any failure moves the machine to ERROR, is passed to OnError and is returned.
// Calling Start on a machine that already left IDLE returns ErrAlreadyStarted.
func (m *TransactionMachine) Start(ctx context.Context) error {
	if !m.begin() {
		return domain.ErrAlreadyStarted
	}

	target, err := m.targetChain()
	if err != nil {
		return m.fail(err)
	}
	current, err := m.wallet.ChainID(ctx)
	if err != nil {
		return m.fail(fmt.Errorf("failed to read wallet chain: %w", err))
	}

	if current != target {
		chainID := models.FormatChainID(target)
		m.transition(models.StateSwitchChain, models.StepSwitchChain)
		m.log.Info("switching chain", "from", current, "to", target)
		if err := m.switchChain(ctx, chainID); err != nil {
			return m.fail(&domain.ChainSwitchError{ChainID: chainID, Err: err})
		}
	}

	m.transition(models.StateCheckingSteps, "")
	steps, err := m.GenerateSteps(ctx)
	if err != nil {
		return m.fail(err)
	}
	m.log.Debug("generated steps", "count", len(steps), "intent", m.config.Intent.Type)

	for i := range steps {
		step := &steps[i]
		switch step.ID.Kind() {
		case models.StepKindApproval:
			m.transition(models.StateTokenApproval, step.ID)
		case models.StepKindTransaction:
			m.transition(models.StateExecutingTransaction, step.ID)
		case models.StepKindSignature:
			// signatures run in whatever state the flow is already in
		default:
			return m.fail(&domain.UnknownStepError{ID: step.ID})
		}

		if err := m.executeStep(ctx, step); err != nil {
			return m.fail(&domain.StepExecutionError{Index: i, StepID: step.ID, Err: err})
		}
	}

	m.transition(models.StateSuccess, "")
	return nil
}

// GenerateSteps asks the marketplace for the ordered steps of the intent.
// Every call issues a fresh request.
func (m *TransactionMachine) GenerateSteps(ctx context.Context) ([]models.Step, error) {
	intent := m.config.Intent
	if err := domain.ValidateIntent(intent); err != nil {
		return nil, err
	}

	address, err := m.wallet.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve wallet address: %w", err)
	}
	account := address.Hex()

	var resp *models.GenerateTransactionResponse
	switch intent.Type {
	case models.IntentBuy:
		resp, err = m.client.GenerateBuyTransaction(ctx, &models.GenerateBuyTransactionRequest{
			CollectionAddress: intent.CollectionAddress,
			Buyer:             account,
			Marketplace:       intent.Marketplace,
			OrdersData:        []models.OrderData{{OrderID: intent.OrderID, Quantity: intent.OrderQuantity()}},
			AdditionalFees:    []models.AdditionalFee{},
		})
	case models.IntentSell:
		resp, err = m.client.GenerateSellTransaction(ctx, &models.GenerateSellTransactionRequest{
			CollectionAddress: intent.CollectionAddress,
			Seller:            account,
			Marketplace:       intent.Marketplace,
			OrdersData:        []models.OrderData{{OrderID: intent.OrderID, Quantity: intent.OrderQuantity()}},
			AdditionalFees:    []models.AdditionalFee{},
		})
	case models.IntentListing:
		resp, err = m.client.GenerateListingTransaction(ctx, &models.GenerateListingTransactionRequest{
			CollectionAddress: intent.CollectionAddress,
			Owner:             account,
			ContractType:      intent.ContractType,
			Orderbook:         intent.Orderbook,
			Listing:           intent.Listing,
		})
	case models.IntentOffer:
		resp, err = m.client.GenerateOfferTransaction(ctx, &models.GenerateOfferTransactionRequest{
			CollectionAddress: intent.CollectionAddress,
			Maker:             account,
			ContractType:      intent.ContractType,
			Orderbook:         intent.Orderbook,
			Offer:             intent.Offer,
		})
	case models.IntentCancel:
		resp, err = m.client.GenerateCancelTransaction(ctx, &models.GenerateCancelTransactionRequest{
			CollectionAddress: intent.CollectionAddress,
			Maker:             account,
			Marketplace:       intent.Marketplace,
			OrderID:           intent.OrderID,
		})
	default:
		return nil, &domain.UnsupportedIntentError{Type: intent.Type}
	}
	if err != nil {
		return nil, &domain.StepGenerationError{IntentType: intent.Type, Err: err}
	}
	if resp == nil {
		return nil, &domain.StepGenerationError{IntentType: intent.Type, Err: errors.New("marketplace returned no response")}
	}
	return resp.Steps, nil
}

// GetTransactionSteps previews the flow without executing it. It generates
// steps independently of Start, so the plan is advisory: a later Start may
// receive different steps if the market moved in between.
func (m *TransactionMachine) GetTransactionSteps(ctx context.Context) (*models.StepPlan, error) {
	steps, err := m.GenerateSteps(ctx)
	if err != nil {
		return nil, err
	}

	target, err := m.targetChain()
	if err != nil {
		return nil, err
	}
	current, err := m.wallet.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet chain: %w", err)
	}

	plan := &models.StepPlan{
		GeneratedAt: m.now(),
		Transactions: lo.Filter(steps, func(s models.Step, _ int) bool {
			return s.ID.Kind() == models.StepKindTransaction
		}),
		Signatures: lo.Filter(steps, func(s models.Step, _ int) bool {
			return s.ID.Kind() == models.StepKindSignature
		}),
	}

	if current != target {
		plan.SwitchChain = &models.SwitchChainStep{
			ID:          models.StepSwitchChain,
			FromChainID: models.FormatChainID(current),
			ToChainID:   models.FormatChainID(target),
		}
	}

	if approval, ok := lo.Find(steps, func(s models.Step) bool {
		return s.ID.Kind() == models.StepKindApproval
	}); ok {
		plan.Approval = &approval
	}

	for _, s := range steps {
		if s.ID.Kind() == models.StepKindUnknown {
			m.log.Warn("plan contains a step that cannot be executed", "step", s.ID)
		}
	}

	return plan, nil
}

// targetChain parses the intent's chain id
func (m *TransactionMachine) targetChain() (uint64, error) {
	intent := m.config.Intent
	id, ok := intent.TargetChainID()
	if !ok {
		return 0, &domain.InvalidIntentError{Type: intent.Type, Field: "chainId", Reason: fmt.Sprintf("%q is not a decimal or hex chain id", intent.ChainID)}
	}
	return id, nil
}

func (m *TransactionMachine) executeStep(ctx context.Context, step *models.Step) error {
	action, err := domain.DecodeStep(step)
	if err != nil {
		return err
	}

	switch a := action.(type) {
	case *models.TransactionAction:
		return m.executeTransaction(ctx, a)
	case *models.TypedDataAction:
		signature, err := m.wallet.SignTypedData(ctx, a.TypedData)
		if err != nil {
			return fmt.Errorf("failed to sign typed data: %w", err)
		}
		return m.submitSignature(ctx, signature, a.Post)
	case *models.PersonalSignAction:
		signature, err := m.wallet.SignMessage(ctx, a.Message)
		if err != nil {
			return fmt.Errorf("failed to sign message: %w", err)
		}
		return m.submitSignature(ctx, signature, a.Post)
	default:
		return &domain.UnknownStepError{ID: step.ID}
	}
}

func (m *TransactionMachine) executeTransaction(ctx context.Context, a *models.TransactionAction) error {
	hash, err := m.wallet.SendTransaction(ctx, TransactionRequest{
		To:    a.To,
		Data:  a.Data,
		Value: a.Value,
	})
	if err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}
	m.log.Info("transaction sent", "step", a.ID, "hash", hash.Hex())

	receipt, err := m.wallet.WaitForReceipt(ctx, hash)
	if err != nil {
		return fmt.Errorf("failed to wait for receipt of %s: %w", hash.Hex(), err)
	}
	if receipt == nil || receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s", domain.ErrTransactionReverted, hash.Hex())
	}
	m.log.Debug("transaction confirmed", "step", a.ID, "hash", hash.Hex(), "block", receipt.BlockNumber)

	if m.config.OnSuccess != nil {
		m.config.OnSuccess(hash)
	}
	return nil
}

func (m *TransactionMachine) submitSignature(ctx context.Context, signature string, post *models.PostRequest) error {
	if post == nil {
		return nil
	}
	_, err := m.client.Execute(ctx, &models.ExecuteRequest{
		Signature:   signature,
		ExecuteType: models.ExecuteTypeOrder,
		Body:        post,
	})
	if err != nil {
		return fmt.Errorf("failed to submit signed order: %w", err)
	}
	return nil
}

// begin moves IDLE to VALIDATING_CHAIN atomically so a second Start cannot run
func (m *TransactionMachine) begin() bool {
	m.mu.Lock()
	if m.state != models.StateIdle {
		m.mu.Unlock()
		return false
	}
	t := m.apply(models.StateValidatingChain, "")
	m.mu.Unlock()

	m.notify(t)
	return true
}

func (m *TransactionMachine) transition(to models.TransactionState, stepID models.StepID) {
	m.mu.Lock()
	t := m.apply(to, stepID)
	m.mu.Unlock()

	m.notify(t)
}

// apply records the transition; the caller holds m.mu
func (m *TransactionMachine) apply(to models.TransactionState, stepID models.StepID) models.StateTransition {
	t := models.StateTransition{
		From:   m.state,
		To:     to,
		StepID: stepID,
		At:     m.now(),
	}
	if !t.From.CanTransitionTo(to) {
		m.log.Warn("unexpected state transition", "from", t.From, "to", to)
	}
	m.state = to
	m.history = append(m.history, t)
	return t
}

func (m *TransactionMachine) notify(t models.StateTransition) {
	m.log.Debug("transaction state changed", "from", t.From, "to", t.To, "step", t.StepID)
	if m.config.OnTransition != nil {
		m.config.OnTransition(t)
	}
}

func (m *TransactionMachine) fail(err error) error {
	if m.config.OnError != nil {
		m.config.OnError(err)
	}
	m.transition(models.StateError, "")
	return err
}
