package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "❌ No .mkt/config.local.json file found\n")
		fmt.Fprintf(r.out, "⚠️  Without config, commands require an explicit --network or --chain\n")
		return nil
	}

	fmt.Fprintln(r.out, "📋 Current config:")

	for _, entry := range result.Entries {
		value := entry.Local
		if value == "" {
			value = faintStyle.Sprint("(not set)")
		}
		line := fmt.Sprintf("%-10s %s", string(entry.Key)+":", value)
		if entry.Effective != "" && entry.Effective != entry.Local {
			line += faintStyle.Sprintf("  (in use: %s)", entry.Effective)
		}
		fmt.Fprintln(r.out, line)
	}

	fmt.Fprintf(r.out, "📁 config file: %s\n", getRelativePath(result.ConfigPath))

	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	switch result.Key {
	case config.ConfigKeyNetwork:
		fmt.Fprintf(r.out, "✅ Removed network from config (will be required as flag)\n")
	case config.ConfigKeyAPIURL:
		fmt.Fprintf(r.out, "✅ Removed api_url from config (using mkt.toml or the public API)\n")
	default:
		fmt.Fprintf(r.out, "✅ Removed %s from config\n", result.Key)
	}

	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}
