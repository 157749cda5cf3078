package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/treb-market/internal/domain/config"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
	"github.com/trebuchet-org/treb-market/internal/usecase"
)

// executionJournal is the on-disk layout of executions.json
type executionJournal struct {
	Executions []*models.Execution `json:"executions"`
}

// ExecutionStoreAdapter implements ExecutionStore as a JSON file in the data dir
type ExecutionStoreAdapter struct {
	journalPath string
	mu          sync.Mutex
}

// NewExecutionStoreAdapter creates a new ExecutionStoreAdapter
func NewExecutionStoreAdapter(cfg *config.RuntimeConfig) *ExecutionStoreAdapter {
	return &ExecutionStoreAdapter{
		journalPath: filepath.Join(cfg.DataDir, "executions.json"),
	}
}

// SaveExecution inserts the execution, or replaces the entry with the same ID
func (s *ExecutionStoreAdapter) SaveExecution(_ context.Context, execution *models.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	journal, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range journal.Executions {
		if existing.ID == execution.ID {
			journal.Executions[i] = execution
			replaced = true
			break
		}
	}
	if !replaced {
		journal.Executions = append(journal.Executions, execution)
	}

	return s.write(journal)
}

// GetExecution returns the execution with the given ID. Unique prefixes of at least 8 characters match too.
func (s *ExecutionStoreAdapter) GetExecution(_ context.Context, id string) (*models.Execution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	journal, err := s.load()
	if err != nil {
		return nil, err
	}

	var match *models.Execution
	for _, execution := range journal.Executions {
		if execution.ID == id {
			return execution, nil
		}
		if len(id) >= 8 && len(execution.ID) > len(id) && execution.ID[:len(id)] == id {
			if match != nil {
				return nil, fmt.Errorf("execution id prefix %s is ambiguous", id)
			}
			match = execution
		}
	}
	if match == nil {
		return nil, fmt.Errorf("execution %s not found", id)
	}
	return match, nil
}

// ListExecutions returns every journaled execution in insertion order
func (s *ExecutionStoreAdapter) ListExecutions(_ context.Context) ([]*models.Execution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	journal, err := s.load()
	if err != nil {
		return nil, err
	}
	return journal.Executions, nil
}

// GetPath returns the path to the journal file
func (s *ExecutionStoreAdapter) GetPath() string {
	return s.journalPath
}

// load reads the journal. Returns an empty journal if the file does not exist.
func (s *ExecutionStoreAdapter) load() (*executionJournal, error) {
	var journal executionJournal
	if _, err := readJSONFile(s.journalPath, &journal, false); err != nil {
		return nil, fmt.Errorf("execution journal: %w", err)
	}
	if journal.Executions == nil {
		journal.Executions = []*models.Execution{}
	}
	return &journal, nil
}

// write replaces the journal atomically
func (s *ExecutionStoreAdapter) write(journal *executionJournal) error {
	return writeJSONFile(s.journalPath, journal)
}

// Ensure ExecutionStoreAdapter implements ExecutionStore
var _ usecase.ExecutionStore = (*ExecutionStoreAdapter)(nil)
