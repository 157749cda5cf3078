package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-market/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-market/internal/app"
	"github.com/trebuchet-org/treb-market/internal/cli/render"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// NewBuyCmd creates the buy command
func NewBuyCmd() *cobra.Command {
	f := &intentFlags{}
	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Buy tokens from a listing",
		Example: `  mkt buy -n polygon -c 0x1234... --order-id 42
  mkt buy --chain 137 -c 0x1234... --order-id 42 -q 3 --dry-run`,
		RunE: intentRunner(models.IntentBuy, f),
	}
	addOrderFlags(cmd, f, true)
	return cmd
}

// NewSellCmd creates the sell command
func NewSellCmd() *cobra.Command {
	f := &intentFlags{}
	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Sell tokens into an offer",
		RunE:  intentRunner(models.IntentSell, f),
	}
	addOrderFlags(cmd, f, true)
	return cmd
}

// NewCancelCmd creates the cancel command
func NewCancelCmd() *cobra.Command {
	f := &intentFlags{}
	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel one of your listings or offers",
		RunE:  intentRunner(models.IntentCancel, f),
	}
	addOrderFlags(cmd, f, false)
	return cmd
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	f := &intentFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Create a listing for a token you own",
		Example: `  mkt list -n polygon -c 0x1234... --token-id 7 --price 12.5 --decimals 6 --currency 0x3c49...
  mkt list -c 0x1234... --token-id 7 -q 10 --contract-type ERC1155 --price 1 --currency 0x... --expiry 72h`,
		RunE: intentRunner(models.IntentListing, f),
	}
	addCreateFlags(cmd, f)
	return cmd
}

// NewOfferCmd creates the offer command
func NewOfferCmd() *cobra.Command {
	f := &intentFlags{}
	cmd := &cobra.Command{
		Use:   "offer",
		Short: "Make an offer on a token",
		RunE:  intentRunner(models.IntentOffer, f),
	}
	addCreateFlags(cmd, f)
	return cmd
}

// NewExecuteCmd creates the execute command
func NewExecuteCmd() *cobra.Command {
	var file string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute an intent from a YAML or JSON file",
		Long: `Execute a transaction intent read from a file ("-" for stdin).

Example intent:
  type: buy
  chainId: "137"
  collectionAddress: "0x1234..."
  orderId: "42"
  quantity: "1"
  marketplace: sequence_marketplace_v2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			intent, err := app.Intents.LoadIntent(file)
			if err != nil {
				return err
			}
			return runIntent(cmd, app, *intent, dryRun)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Intent file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the steps without executing them")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// NewStepsCmd creates the steps command
func NewStepsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Show the steps an intent file would execute",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			intent, err := app.Intents.LoadIntent(file)
			if err != nil {
				return err
			}
			return runIntent(cmd, app, *intent, true)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Intent file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// intentRunner builds the intent from flags and runs it
func intentRunner(t models.IntentType, f *intentFlags) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd)
		if err != nil {
			return err
		}

		intent, err := buildIntent(t, f, app.Config, time.Now())
		if err != nil {
			return err
		}
		return runIntent(cmd, app, intent, f.dryRun)
	}
}

// runIntent previews the steps of intent, asks for confirmation and executes it
func runIntent(cmd *cobra.Command, app *app.App, intent models.TransactionIntent, dryRun bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := ensureNetwork(ctx, app, intent.ChainID); err != nil {
		return err
	}

	plan, err := app.PreviewTransaction.Run(ctx, usecase.PreviewTransactionParams{Intent: intent})
	if err != nil {
		return err
	}

	if dryRun {
		if app.Config.JSON {
			return render.NewJSONRenderer[*models.StepPlan](out).Render(plan)
		}
		return render.NewStepsRenderer(out).RenderPlan(intent, plan)
	}

	if !app.Config.NonInteractive {
		if err := render.NewStepsRenderer(out).RenderPlan(intent, plan); err != nil {
			return err
		}
		ok, err := interactive.NewPromptConfirmer(nil).Confirm(fmt.Sprintf("Execute %d step(s)", plan.Len()))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted")
			return nil
		}
	}

	result, err := app.ExecuteTransaction.Run(ctx, usecase.ExecuteTransactionParams{Intent: intent})
	if result == nil {
		return err
	}

	if app.Config.JSON {
		if renderErr := render.NewJSONRenderer[*models.Execution](out).Render(result.Execution); renderErr != nil {
			return renderErr
		}
		return err
	}

	if renderErr := render.NewExecutionRenderer(out, app.Wallet.Network()).RenderExecution(result.Execution); renderErr != nil {
		return renderErr
	}
	return err
}

// ensureNetwork selects the network serving chainID when none was chosen.
// The wallet reads the selection on its first connection.
func ensureNetwork(ctx context.Context, app *app.App, chainID string) error {
	if app.Config.Network != nil {
		return nil
	}

	id, ok := models.ParseChainID(chainID)
	if !ok {
		return fmt.Errorf("invalid chain id %q", chainID)
	}

	network, err := app.Networks.ResolveNetwork(ctx, models.FormatChainID(id))
	if err != nil {
		return fmt.Errorf("no network for chain %s: %w", chainID, err)
	}
	app.Config.Network = network
	return nil
}
