package domain

import (
	"errors"
	"fmt"

	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// Sentinel errors for transaction flows
var (
	// ErrAlreadyStarted is returned when Start is called on a machine that has left IDLE
	ErrAlreadyStarted = errors.New("transaction machine already started")

	// ErrTransactionReverted is returned when a mined transaction has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrUserRejected is returned when the user declines a signing prompt
	ErrUserRejected = errors.New("rejected by user")

	// ErrNetworkNotFound is returned when no configured network matches a name or chain ID
	ErrNetworkNotFound = errors.New("network not found")

	// ErrWalletNotConfigured is returned when no signing key is available
	ErrWalletNotConfigured = errors.New("wallet not configured")
)

// UnsupportedIntentError is returned for intent types outside the known set
type UnsupportedIntentError struct {
	Type models.IntentType
}

func (e *UnsupportedIntentError) Error() string {
	return fmt.Sprintf("unknown transaction type: %q", e.Type)
}

// InvalidIntentError is returned when an intent lacks a field its type requires
type InvalidIntentError struct {
	Type   models.IntentType
	Field  string
	Reason string
}

func (e *InvalidIntentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s intent has invalid %s: %s", e.Type, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s intent requires %s", e.Type, e.Field)
}

// UnknownStepError is returned when the marketplace API sends a step id that cannot be executed
type UnknownStepError struct {
	ID models.StepID
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown step type: %q", e.ID)
}

// InvalidStepError is returned for steps that cannot be decoded into an action
type InvalidStepError struct {
	ID     models.StepID
	Reason string
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("invalid step data for %q: %s", e.ID, e.Reason)
}

// ChainSwitchError wraps a failure to move the wallet to the target network
type ChainSwitchError struct {
	ChainID string
	Err     error
}

func (e *ChainSwitchError) Error() string {
	return fmt.Sprintf("failed to switch to chain %s: %v", e.ChainID, e.Err)
}

func (e *ChainSwitchError) Unwrap() error { return e.Err }

// StepGenerationError wraps a failure of the marketplace API to produce steps
type StepGenerationError struct {
	IntentType models.IntentType
	Err        error
}

func (e *StepGenerationError) Error() string {
	return fmt.Sprintf("failed to generate %s steps: %v", e.IntentType, e.Err)
}

func (e *StepGenerationError) Unwrap() error { return e.Err }

// StepExecutionError wraps a failure while executing a single step
type StepExecutionError struct {
	Index  int
	StepID models.StepID
	Err    error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index+1, e.StepID, e.Err)
}

func (e *StepExecutionError) Unwrap() error { return e.Err }

// IsUserRejection reports whether err was caused by the user declining a prompt
func IsUserRejection(err error) bool {
	return errors.Is(err, ErrUserRejected)
}
