package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-market/internal/cli/render"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List networks configured in mkt.toml",
		Long: `List all networks configured in the [networks] section of mkt.toml.

Chain IDs missing from the file are fetched from each RPC and cached in .mkt/cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListNetworksParams{}
			if app.Config.Network != nil {
				params.Current = app.Config.Network.Name
			}

			result, err := app.ListNetworks.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.NewJSONRenderer[*usecase.ListNetworksResult](cmd.OutOrStdout()).Render(result)
			}
			return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result)
		},
	}

	return cmd
}
