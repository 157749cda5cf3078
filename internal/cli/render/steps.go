package render

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
)

// StepsRenderer renders the step plan of an intent
type StepsRenderer struct {
	out io.Writer
	now func() time.Time
}

// NewStepsRenderer creates a new steps renderer
func NewStepsRenderer(out io.Writer) *StepsRenderer {
	return &StepsRenderer{out: out, now: time.Now}
}

// RenderPlan prints the actions a flow would perform, in execution order
func (r *StepsRenderer) RenderPlan(intent models.TransactionIntent, plan *models.StepPlan) error {
	fmt.Fprintf(r.out, "%s %s on chain %s\n",
		sectionHeaderStyle.Sprint("📋 Steps for"),
		sectionHeaderStyle.Sprint(humanize(string(intent.Type))),
		intent.ChainID)

	if plan.Len() == 0 {
		fmt.Fprintln(r.out, "No steps required")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Step", "Kind", "Target", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	symbol := "native"
	if chainID, ok := intent.TargetChainID(); ok {
		symbol = models.NativeCurrency(chainID)
	}

	n := 0
	row := func(step, kind, target, value string) {
		n++
		t.AppendRow(table.Row{n, step, kind, target, value})
	}

	if plan.SwitchChain != nil {
		row("Switch Chain", "wallet", fmt.Sprintf("%s → %s", plan.SwitchChain.FromChainID, plan.SwitchChain.ToChainID), "")
	}
	if plan.Approval != nil {
		row(humanize(string(plan.Approval.ID)), plan.Approval.ID.Kind().String(), plan.Approval.To, formatWei(plan.Approval.Value, symbol))
	}
	for _, step := range plan.Transactions {
		row(humanize(string(step.ID)), step.ID.Kind().String(), step.To, formatWei(step.Value, symbol))
	}
	for _, step := range plan.Signatures {
		target := ""
		if step.Signature != nil {
			target = fmt.Sprintf("%s (%s)", step.Signature.PrimaryType, step.Signature.Domain.Name)
		}
		row(humanize(string(step.ID)), step.ID.Kind().String(), target, "")
	}

	t.Render()
	fmt.Fprintln(r.out, faintStyle.Sprintf("Generated %s ago; steps may change before execution",
		plan.Age(r.now()).Round(time.Second)))
	return nil
}

// formatWei renders a wei amount in whole native units, empty for zero
func formatWei(value, symbol string) string {
	wei, err := models.ParseValue(value)
	if err != nil {
		return value
	}
	if wei.Sign() == 0 {
		return ""
	}
	return decimal.NewFromBigInt(wei, -18).String() + " " + symbol
}
