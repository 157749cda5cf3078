package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// LocalConfigFileName is the per-checkout settings file in the data dir
const LocalConfigFileName = "config.local.json"

// LocalConfigStoreAdapter keeps `mkt config` settings in <data_dir>/config.local.json.
// Keys it does not know are rejected on load so a typo never silently drops a setting.
type LocalConfigStoreAdapter struct {
	path string
	mu   sync.Mutex
}

// NewLocalConfigStoreAdapter creates the store for the runtime's data dir
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{path: filepath.Join(cfg.DataDir, LocalConfigFileName)}
}

// Exists reports whether settings were ever saved
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns the saved settings, or the defaults when none were saved
func (s *LocalConfigStoreAdapter) Load(_ context.Context) (*config.LocalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local := config.DefaultLocalConfig()
	if _, err := readJSONFile(s.path, local, true); err != nil {
		return nil, fmt.Errorf("invalid local config (fix or delete it): %w", err)
	}
	return local, nil
}

// Save replaces the settings file atomically
func (s *LocalConfigStoreAdapter) Save(_ context.Context, local *config.LocalConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSONFile(s.path, local)
}

// GetPath returns the settings file path
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.path
}

var _ usecase.LocalConfigStore = (*LocalConfigStoreAdapter)(nil)
