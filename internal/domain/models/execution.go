package models

import "time"

// ExecutionStatus is the outcome of a journaled transaction flow
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "RUNNING"
	ExecutionStatusSucceeded ExecutionStatus = "SUCCEEDED"
	ExecutionStatusFailed    ExecutionStatus = "FAILED"
)

// Execution records one run of a transaction flow.
// Steps confirmed before a failure stay on-chain; TxHashes lists them.
type Execution struct {
	ID          string            `json:"id"`
	Intent      TransactionIntent `json:"intent"`
	Account     string            `json:"account"`
	Status      ExecutionStatus   `json:"status"`
	Transitions []StateTransition `json:"transitions"`
	TxHashes    []string          `json:"txHashes"`
	Error       string            `json:"error,omitempty"`
	StartedAt   time.Time         `json:"startedAt"`
	FinishedAt  *time.Time        `json:"finishedAt,omitempty"`
}
