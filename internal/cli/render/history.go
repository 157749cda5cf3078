package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// HistoryRenderer renders the execution journal
type HistoryRenderer struct {
	out io.Writer
}

// NewHistoryRenderer creates a new history renderer
func NewHistoryRenderer(out io.Writer) *HistoryRenderer {
	return &HistoryRenderer{out: out}
}

// RenderHistory prints one row per journaled flow
func (r *HistoryRenderer) RenderHistory(result *usecase.ListExecutionsResult) error {
	if len(result.Executions) == 0 {
		fmt.Fprintln(r.out, "No executions recorded")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Started", "Type", "Chain", "Collection", "Txs", "Status"})

	for _, exec := range result.Executions {
		t.AppendRow(table.Row{
			exec.ID[:min(8, len(exec.ID))],
			faintStyle.Sprint(exec.StartedAt.Local().Format("2006-01-02 15:04:05")),
			humanize(string(exec.Intent.Type)),
			exec.Intent.ChainID,
			shorten(exec.Intent.CollectionAddress, 6),
			len(exec.TxHashes),
			statusStyle(exec.Status),
		})
	}

	t.Render()
	return nil
}

func statusStyle(status models.ExecutionStatus) string {
	switch status {
	case models.ExecutionStatusSucceeded:
		return successStyle.Sprint(status)
	case models.ExecutionStatusFailed:
		return failureStyle.Sprint(status)
	default:
		return pendingStyle.Sprint(status)
	}
}
