package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-market/internal/cli/render"
	domainconfig "github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mkt local config",
		Long: `Manage mkt local config stored in .mkt/config.local.json

The config defines default values for the network, the marketplace API
URL and the orderbook used when these flags are not explicitly provided.

Available subcommands:
  config           Show current config
  config set       Set a config value
  config remove    Remove a config value

When run without subcommands, displays the current config.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	}

	cmd.AddCommand(NewConfigSetCmd())
	cmd.AddCommand(NewConfigRemoveCmd())

	return cmd
}

// NewConfigSetCmd creates the config set subcommand
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Set a config value",
		Long: `Set a config value in .mkt/config.local.json.
Available keys: network (net), api_url (api), orderbook

Without a value, the network is picked interactively.

Examples:
  mkt config set network polygon
  mkt config set api_url http://localhost:4242
  mkt config set orderbook sequence_marketplace_v2`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.SetConfigParams{Key: args[0]}
			if len(args) == 2 {
				params.Value = args[1]
			} else if domainconfig.NormalizeConfigKey(args[0]) == domainconfig.ConfigKeyNetwork {
				params.Value, err = app.Selector.SelectNetwork(cmd.Context(), app.Networks.GetNetworks(cmd.Context()), "Select network")
				if err != nil {
					return err
				}
			} else {
				return cmd.Usage()
			}

			result, err := app.SetConfig.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewConfigRenderer(cmd.OutOrStdout())
			return renderer.RenderSet(result)
		},
	}
}

// NewConfigRemoveCmd creates the config remove subcommand
func NewConfigRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove a config value",
		Long: `Remove a config value from .mkt/config.local.json.
Removing network makes it unspecified (required as a flag or taken from the intent chain).

Examples:
  mkt config remove network
  mkt config remove api_url`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.RemoveConfigParams{
				Key: args[0],
			}

			result, err := app.RemoveConfig.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewConfigRenderer(cmd.OutOrStdout())
			return renderer.RenderRemove(result)
		},
	}
}

// showConfig displays the current configuration
func showConfig(cmd *cobra.Command) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ShowConfig.Run(cmd.Context())
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return render.NewJSONRenderer[*usecase.ShowConfigResult](cmd.OutOrStdout()).Render(result)
	}
	renderer := render.NewConfigRenderer(cmd.OutOrStdout())
	return renderer.RenderConfig(result)
}
