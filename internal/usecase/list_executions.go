package usecase

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// ListExecutionsParams contains parameters for listing journaled executions
type ListExecutionsParams struct {
	Status models.ExecutionStatus // empty matches all
	Limit  int                    // zero means no limit
}

// ListExecutionsResult contains the matching executions, newest first
type ListExecutionsResult struct {
	Executions []*models.Execution
}

// ListExecutions is a use case for reading the execution journal
type ListExecutions struct {
	store ExecutionStore
}

// NewListExecutions creates a new ListExecutions use case
func NewListExecutions(store ExecutionStore) *ListExecutions {
	return &ListExecutions{store: store}
}

// Run executes the use case
func (uc *ListExecutions) Run(ctx context.Context, params ListExecutionsParams) (*ListExecutionsResult, error) {
	executions, err := uc.store.ListExecutions(ctx)
	if err != nil {
		return nil, err
	}

	if params.Status != "" {
		executions = lo.Filter(executions, func(e *models.Execution, _ int) bool {
			return e.Status == params.Status
		})
	}

	sort.SliceStable(executions, func(i, j int) bool {
		return executions[i].StartedAt.After(executions[j].StartedAt)
	})

	if params.Limit > 0 && len(executions) > params.Limit {
		executions = executions[:params.Limit]
	}

	return &ListExecutionsResult{Executions: executions}, nil
}
