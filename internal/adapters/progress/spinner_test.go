package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

func event(state models.TransactionState, message string) usecase.ProgressEvent {
	return usecase.ProgressEvent{Stage: string(state), Message: message, Spinner: !state.IsTerminal()}
}

func TestSpinnerProgressReporter(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	r := newSpinnerProgressReporter(&out)
	ctx := context.Background()

	r.OnProgress(ctx, event(models.StateValidatingChain, "Checking wallet network"))
	r.OnProgress(ctx, event(models.StateCheckingSteps, "Fetching steps"))
	r.OnProgress(ctx, event(models.StateTokenApproval, "Approving token"))
	r.OnProgress(ctx, event(models.StateExecutingTransaction, "Executing buy"))
	r.OnProgress(ctx, event(models.StateExecutingTransaction, "Executing buy"))
	r.Pause()
	r.Info("Transaction confirmed: 0x01")
	r.OnProgress(ctx, event(models.StateSuccess, "Completed"))

	require.Len(t, r.stages, 6)
	for _, stage := range r.stages {
		assert.Equal(t, "completed", stage.Status, stage.Stage)
	}
	assert.False(t, r.spinner.Active())

	output := out.String()
	assert.Contains(t, output, "Transaction confirmed: 0x01")
	assert.Contains(t, output, "✓ Checking wallet network")
	assert.Contains(t, output, "✓ Completed")
}

func TestSpinnerProgressReporter_Failure(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	r := newSpinnerProgressReporter(&out)
	ctx := context.Background()

	r.OnProgress(ctx, event(models.StateValidatingChain, "Checking wallet network"))
	r.Error("failed to switch to chain 137")
	r.OnProgress(ctx, event(models.StateError, "Failed"))

	require.Len(t, r.stages, 2)
	assert.Equal(t, "completed", r.stages[0].Status)
	assert.Equal(t, "failed", r.stages[1].Status)
	assert.Contains(t, out.String(), "✗ Failed")
	assert.Contains(t, out.String(), "failed to switch to chain 137")
}
