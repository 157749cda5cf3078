package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-market/internal/cli/render"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled transaction flows",
		Long: `List the transaction flows recorded in .mkt/executions.json, newest first.

Failed flows keep the hashes of the transactions that were already confirmed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListExecutions.Run(cmd.Context(), usecase.ListExecutionsParams{
				Status: models.ExecutionStatus(strings.ToUpper(status)),
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.NewJSONRenderer[[]*models.Execution](cmd.OutOrStdout()).Render(result.Executions)
			}
			return render.NewHistoryRenderer(cmd.OutOrStdout()).RenderHistory(result)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only show flows with this status (running, succeeded, failed)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of flows (0 for all)")

	cmd.AddCommand(NewHistoryShowCmd())
	return cmd
}

// NewHistoryShowCmd creates the history show subcommand
func NewHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one journaled flow (ID prefixes of 8+ characters work)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			execution, err := app.ShowExecution.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.NewJSONRenderer[*models.Execution](cmd.OutOrStdout()).Render(execution)
			}
			return render.NewExecutionRenderer(cmd.OutOrStdout(), app.Config.Network).RenderExecution(execution)
		},
	}
}
