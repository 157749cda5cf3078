package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// ExecutionRenderer renders the outcome of one transaction flow
type ExecutionRenderer struct {
	out     io.Writer
	network *config.Network
}

// NewExecutionRenderer creates a renderer; network supplies explorer links and may be nil
func NewExecutionRenderer(out io.Writer, network *config.Network) *ExecutionRenderer {
	return &ExecutionRenderer{out: out, network: network}
}

// RenderExecution prints the status, transactions and state trail of an execution
func (r *ExecutionRenderer) RenderExecution(exec *models.Execution) error {
	fmt.Fprintln(r.out)
	switch exec.Status {
	case models.ExecutionStatusSucceeded:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s completed", humanize(string(exec.Intent.Type)))))
	case models.ExecutionStatusFailed:
		fmt.Fprintln(r.out, failureStyle.Sprintf("❌ %s failed: %s", humanize(string(exec.Intent.Type)), exec.Error))
	default:
		fmt.Fprintln(r.out, pendingStyle.Sprintf("⏳ %s %s", humanize(string(exec.Intent.Type)), strings.ToLower(string(exec.Status))))
	}

	fmt.Fprintf(r.out, "  Execution:  %s\n", exec.ID)
	fmt.Fprintf(r.out, "  Account:    %s\n", addressStyle.Sprint(exec.Account))
	fmt.Fprintf(r.out, "  Chain:      %s\n", exec.Intent.ChainID)
	fmt.Fprintf(r.out, "  Collection: %s\n", addressStyle.Sprint(exec.Intent.CollectionAddress))
	if exec.Intent.OrderID != "" {
		fmt.Fprintf(r.out, "  Order:      %s\n", exec.Intent.OrderID)
	}
	if exec.FinishedAt != nil {
		fmt.Fprintf(r.out, "  Duration:   %s\n", exec.FinishedAt.Sub(exec.StartedAt).Round(time.Millisecond))
	}

	if len(exec.TxHashes) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Transactions:"))
		for _, hash := range exec.TxHashes {
			fmt.Fprintf(r.out, "  %s\n", hashStyle.Sprint(hash))
			if link := r.txLink(hash, exec.Intent.ChainID); link != "" {
				fmt.Fprintf(r.out, "    %s\n", faintStyle.Sprint(link))
			}
		}
	}

	if len(exec.Transitions) > 0 {
		states := make([]string, 0, len(exec.Transitions))
		for _, t := range exec.Transitions {
			states = append(states, humanize(string(t.To)))
		}
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "%s %s\n", sectionHeaderStyle.Sprint("States:"), faintStyle.Sprint(strings.Join(states, " → ")))
	}
	return nil
}

// txLink returns an explorer link when the network serves the execution's chain
func (r *ExecutionRenderer) txLink(hash, chainID string) string {
	if r.network == nil || r.network.ExplorerURL == "" {
		return ""
	}
	if id, ok := models.ParseChainID(chainID); !ok || id != r.network.ChainID {
		return ""
	}
	return strings.TrimRight(r.network.ExplorerURL, "/") + "/tx/" + hash
}
