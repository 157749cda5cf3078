package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to TransactionState
		want     bool
	}{
		{StateIdle, StateValidatingChain, true},
		{StateIdle, StateCheckingSteps, false},
		{StateValidatingChain, StateSwitchChain, true},
		{StateValidatingChain, StateCheckingSteps, true},
		{StateSwitchChain, StateCheckingSteps, true},
		{StateSwitchChain, StateTokenApproval, false},
		{StateCheckingSteps, StateTokenApproval, true},
		{StateCheckingSteps, StateExecutingTransaction, true},
		{StateCheckingSteps, StateSuccess, true},
		{StateTokenApproval, StateExecutingTransaction, true},
		{StateExecutingTransaction, StateExecutingTransaction, true},
		{StateExecutingTransaction, StateSuccess, true},
		{StateExecutingTransaction, StateError, true},
		{StateSuccess, StateIdle, false},
		{StateError, StateValidatingChain, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransactionState_ErrorReachable(t *testing.T) {
	for _, s := range []TransactionState{
		StateValidatingChain, StateSwitchChain, StateCheckingSteps, StateTokenApproval, StateExecutingTransaction,
	} {
		assert.True(t, s.CanTransitionTo(StateError), s)
		assert.False(t, s.IsTerminal(), s)
	}
	assert.True(t, StateSuccess.IsTerminal())
	assert.True(t, StateError.IsTerminal())
}
