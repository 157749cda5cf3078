package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-market/internal/adapters/progress"
	"github.com/trebuchet-org/treb-market/internal/app"
	"github.com/trebuchet-org/treb-market/internal/config"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cancel context.CancelFunc

	rootCmd := &cobra.Command{
		Use:   "mkt",
		Short: "NFT marketplace transactions from the terminal",
		Long: `mkt buys, sells, lists, offers and cancels NFT orders through the
marketplace orchestration API, executing the returned steps with your wallet.

Networks are configured in mkt.toml; the signing key is read from MKT_PRIVATE_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink = progress.NewSpinnerProgressReporter()
			if v.GetBool("json") {
				sink = progress.NewNopSink()
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cancel != nil {
				cancel()
			}
			if appInstance, err := getApp(cmd); err == nil {
				appInstance.Close()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable confirmation prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (name from mkt.toml or chain ID)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "orders",
		Title: "Order Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewBuyCmd(),
		NewSellCmd(),
		NewListCmd(),
		NewOfferCmd(),
		NewCancelCmd(),
		NewExecuteCmd(),
		NewStepsCmd(),
	} {
		cmd.GroupID = "orders"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		NewNetworksCmd(),
		NewHistoryCmd(),
		NewConfigCmd(),
	} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	if cmd.Context() == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
