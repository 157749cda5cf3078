package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-market/internal/domain/config"
)

func TestLocalConfigStore(t *testing.T) {
	store := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: t.TempDir()})
	ctx := context.Background()

	assert.False(t, store.Exists())
	cfg, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLocalConfig(), cfg)

	cfg.Network = "polygon"
	cfg.Orderbook = "sequence_marketplace_v2"
	require.NoError(t, store.Save(ctx, cfg))
	assert.True(t, store.Exists())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "polygon", loaded.Network)
	assert.Equal(t, "sequence_marketplace_v2", loaded.Orderbook)
	assert.Empty(t, loaded.APIURL)
}

func TestLocalConfigStore_RejectsUnknownKeys(t *testing.T) {
	store := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: t.TempDir()})
	require.NoError(t, os.MkdirAll(filepath.Dir(store.GetPath()), 0755))
	require.NoError(t, os.WriteFile(store.GetPath(), []byte(`{"network":"polygon","netwrok":"base"}`), 0644))

	_, err := store.Load(context.Background())
	assert.ErrorContains(t, err, "invalid local config")
	assert.ErrorContains(t, err, "netwrok")
}

func TestLocalConfigStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: dir})

	require.NoError(t, store.Save(context.Background(), &config.LocalConfig{Network: "base"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, LocalConfigFileName, entries[0].Name())
}
