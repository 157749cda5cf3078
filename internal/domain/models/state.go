package models

import "time"

// TransactionState is a state of the transaction machine
type TransactionState string

const (
	StateIdle                 TransactionState = "IDLE"
	StateValidatingChain      TransactionState = "VALIDATING_CHAIN"
	StateSwitchChain          TransactionState = "SWITCH_CHAIN"
	StateCheckingSteps        TransactionState = "CHECKING_STEPS"
	StateTokenApproval        TransactionState = "TOKEN_APPROVAL"
	StateExecutingTransaction TransactionState = "EXECUTING_TRANSACTION"
	StateSuccess              TransactionState = "SUCCESS"
	StateError                TransactionState = "ERROR"
)

// IsTerminal reports whether no further transitions can leave the state
func (s TransactionState) IsTerminal() bool {
	return s == StateSuccess || s == StateError
}

// StateTransition records one state change of a machine
type StateTransition struct {
	From   TransactionState `json:"from"`
	To     TransactionState `json:"to"`
	StepID StepID           `json:"stepId,omitempty"`
	At     time.Time        `json:"at"`
}

var allowedTransitions = map[TransactionState][]TransactionState{
	StateIdle:                 {StateValidatingChain},
	StateValidatingChain:      {StateSwitchChain, StateCheckingSteps, StateError},
	StateSwitchChain:          {StateCheckingSteps, StateError},
	StateCheckingSteps:        {StateTokenApproval, StateExecutingTransaction, StateSuccess, StateError},
	StateTokenApproval:        {StateTokenApproval, StateExecutingTransaction, StateSuccess, StateError},
	StateExecutingTransaction: {StateTokenApproval, StateExecutingTransaction, StateSuccess, StateError},
}

// CanTransitionTo reports whether the machine may move from s to next.
// A flow whose steps are all signatures moves from CHECKING_STEPS straight to SUCCESS.
func (s TransactionState) CanTransitionTo(next TransactionState) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
