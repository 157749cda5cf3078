package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{
		out: out,
	}
}

// RenderNetworksList renders the list of networks
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in mkt.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		marker := " "
		if network.Current {
			marker = successStyle.Sprint("*")
		}
		if network.Error != nil {
			fmt.Fprintf(r.out, "%s ❌ %s - Error: %v\n", marker, network.Name, network.Error)
			continue
		}
		fmt.Fprintf(r.out, "%s ✅ %s - Chain ID: %d", marker, network.Name, network.ChainID)
		if network.Network != nil && network.Network.RPCEnvVar != "" {
			fmt.Fprint(r.out, faintStyle.Sprintf(" (${%s})", network.Network.RPCEnvVar))
		}
		fmt.Fprintln(r.out)
	}

	return nil
}
