package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

func newTestExecutionStore(t *testing.T) *ExecutionStoreAdapter {
	t.Helper()
	cfg := &config.RuntimeConfig{
		DataDir: t.TempDir(),
	}
	return NewExecutionStoreAdapter(cfg)
}

func testExecution(id string, status models.ExecutionStatus, startedAt time.Time) *models.Execution {
	finished := startedAt.Add(30 * time.Second)
	return &models.Execution{
		ID: id,
		Intent: models.TransactionIntent{
			Type:              models.IntentBuy,
			ChainID:           "137",
			CollectionAddress: "0x00000000000000000000000000000000000000c0",
			OrderID:           "42",
		},
		Account: "0x00000000000000000000000000000000000000a1",
		Status:  status,
		Transitions: []models.StateTransition{
			{From: models.StateIdle, To: models.StateValidatingChain, At: startedAt},
			{From: models.StateValidatingChain, To: models.StateCheckingSteps, At: startedAt},
			{From: models.StateCheckingSteps, To: models.StateExecutingTransaction, StepID: models.StepBuy, At: startedAt},
		},
		TxHashes:   []string{"0x01"},
		StartedAt:  startedAt,
		FinishedAt: &finished,
	}
}

func TestExecutionStore_ListEmpty(t *testing.T) {
	store := newTestExecutionStore(t)

	executions, err := store.ListExecutions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, executions)
	assert.Empty(t, executions)
}

func TestExecutionStore_SaveAndLoad(t *testing.T) {
	store := newTestExecutionStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	first := testExecution("2f1c0f5e-aaaa-4bbb-8ccc-000000000001", models.ExecutionStatusSucceeded, now)
	second := testExecution("7d9e1b2a-aaaa-4bbb-8ccc-000000000002", models.ExecutionStatusFailed, now.Add(time.Minute))
	second.Error = "step 1 (buy) failed: transaction reverted"

	require.NoError(t, store.SaveExecution(ctx, first))
	require.NoError(t, store.SaveExecution(ctx, second))

	executions, err := store.ListExecutions(ctx)
	require.NoError(t, err)
	require.Len(t, executions, 2)
	assert.Equal(t, first.ID, executions[0].ID)
	assert.Equal(t, second.Error, executions[1].Error)
	assert.Equal(t, models.StepBuy, executions[0].Transitions[2].StepID)
	assert.True(t, executions[0].StartedAt.Equal(now))

	got, err := store.GetExecution(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusFailed, got.Status)

	// temp files are cleaned up
	entries, err := os.ReadDir(filepath.Dir(store.GetPath()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExecutionStore_SaveReplacesByID(t *testing.T) {
	store := newTestExecutionStore(t)
	ctx := context.Background()
	execution := testExecution("2f1c0f5e-aaaa-4bbb-8ccc-000000000001", models.ExecutionStatusRunning, time.Now())

	require.NoError(t, store.SaveExecution(ctx, execution))
	execution.Status = models.ExecutionStatusSucceeded
	require.NoError(t, store.SaveExecution(ctx, execution))

	executions, err := store.ListExecutions(ctx)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, models.ExecutionStatusSucceeded, executions[0].Status)
}

func TestExecutionStore_GetByPrefix(t *testing.T) {
	store := newTestExecutionStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.SaveExecution(ctx, testExecution("2f1c0f5e-aaaa-4bbb-8ccc-000000000001", models.ExecutionStatusSucceeded, now)))
	require.NoError(t, store.SaveExecution(ctx, testExecution("2f1c0f5e-bbbb-4bbb-8ccc-000000000002", models.ExecutionStatusSucceeded, now)))
	require.NoError(t, store.SaveExecution(ctx, testExecution("7d9e1b2a-aaaa-4bbb-8ccc-000000000003", models.ExecutionStatusSucceeded, now)))

	got, err := store.GetExecution(ctx, "7d9e1b2a")
	require.NoError(t, err)
	assert.Equal(t, "7d9e1b2a-aaaa-4bbb-8ccc-000000000003", got.ID)

	_, err = store.GetExecution(ctx, "2f1c0f5e")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = store.GetExecution(ctx, "2f1c")
	assert.ErrorContains(t, err, "not found")
}

func TestExecutionStore_CorruptJournal(t *testing.T) {
	store := newTestExecutionStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.GetPath()), 0755))
	require.NoError(t, os.WriteFile(store.GetPath(), []byte("{not json"), 0644))

	_, err := store.ListExecutions(context.Background())
	assert.ErrorContains(t, err, "execution journal: failed to parse")
}
