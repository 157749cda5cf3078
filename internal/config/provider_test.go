package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("network", "", "")
	cmd.Flags().Bool("non-interactive", false, "")
	cmd.Flags().Bool("json", false, "")
	return cmd
}

func TestProvider(t *testing.T) {
	t.Setenv("MKT_TEST_POLYGON_RPC", "https://polygon.example")
	t.Setenv("MKT_TEST_KEY", "k")
	t.Setenv("MKT_TEST_ACCESS_KEY", "from-env")
	t.Setenv("MKT_PRIVATE_KEY", "0xabc")

	dir := writeProject(t, map[string]string{ConfigFileName: testMarketTOML})

	t.Run("defaults", func(t *testing.T) {
		cmd := newTestCommand()
		v := SetupViper(dir, cmd)

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, dir, cfg.ProjectRoot)
		assert.Equal(t, filepath.Join(dir, ".mkt"), cfg.DataDir)
		assert.Equal(t, 10*time.Minute, cfg.Timeout)
		assert.Nil(t, cfg.Network)
		assert.Len(t, cfg.Networks, 2)
		assert.Equal(t, "https://marketplace.example", cfg.Marketplace.APIURL)
		assert.Equal(t, "from-env", cfg.Marketplace.AccessKey)
		assert.Equal(t, "0xabc", cfg.PrivateKey)
		assert.False(t, cfg.NonInteractive)
	})

	t.Run("flags select network", func(t *testing.T) {
		cmd := newTestCommand()
		require.NoError(t, cmd.Flags().Set("network", "polygon"))
		require.NoError(t, cmd.Flags().Set("non-interactive", "true"))
		v := SetupViper(dir, cmd)

		cfg, err := Provider(v)
		require.NoError(t, err)

		require.NotNil(t, cfg.Network)
		assert.Equal(t, uint64(137), cfg.Network.ChainID)
		assert.True(t, cfg.NonInteractive)
	})

	t.Run("local config file sets network and api url", func(t *testing.T) {
		local := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(local, ConfigFileName), []byte(testMarketTOML), 0644))
		require.NoError(t, os.MkdirAll(filepath.Join(local, ".mkt"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(local, ".mkt", "config.local.json"),
			[]byte(`{"network":"polygon","api_url":"http://localhost:4242","orderbook":"sequence_marketplace_v2"}`), 0644))

		cfg, err := Provider(SetupViper(local, newTestCommand()))
		require.NoError(t, err)

		require.NotNil(t, cfg.Network)
		assert.Equal(t, "polygon", cfg.Network.Name)
		assert.Equal(t, "http://localhost:4242", cfg.Marketplace.APIURL)
		assert.Equal(t, "sequence_marketplace_v2", cfg.Orderbook)
	})

	t.Run("json output never prompts", func(t *testing.T) {
		cmd := newTestCommand()
		require.NoError(t, cmd.Flags().Set("json", "true"))

		cfg, err := Provider(SetupViper(dir, cmd))
		require.NoError(t, err)
		assert.True(t, cfg.JSON)
		assert.True(t, cfg.NonInteractive)
	})

	t.Run("unknown network", func(t *testing.T) {
		cmd := newTestCommand()
		require.NoError(t, cmd.Flags().Set("network", "mainnet"))

		_, err := Provider(SetupViper(dir, cmd))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to resolve network mainnet")
	})
}

func TestFindProjectRoot(t *testing.T) {
	root := writeProject(t, map[string]string{ConfigFileName: ""})
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	t.Chdir(nested)
	got, err := FindProjectRoot()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)
}
