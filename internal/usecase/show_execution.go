package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// ShowExecution looks up one journaled flow by ID or unique ID prefix
type ShowExecution struct {
	store ExecutionStore
}

// NewShowExecution creates a new ShowExecution use case
func NewShowExecution(store ExecutionStore) *ShowExecution {
	return &ShowExecution{store: store}
}

// Run executes the use case
func (uc *ShowExecution) Run(ctx context.Context, id string) (*models.Execution, error) {
	return uc.store.GetExecution(ctx, id)
}
