package intent

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/trebuchet-org/treb-market/internal/domain"
	"github.com/trebuchet-org/treb-market/internal/domain/models"
	"gopkg.in/yaml.v3"
)

// FileLoaderAdapter reads transaction intents from YAML or JSON files
type FileLoaderAdapter struct {
	stdin io.Reader
}

// NewFileLoaderAdapter creates a loader reading "-" from stdin
func NewFileLoaderAdapter() *FileLoaderAdapter {
	return &FileLoaderAdapter{stdin: os.Stdin}
}

// LoadIntent reads and validates the intent in path. "${VAR}" references are
// expanded from the environment before decoding.
func (l *FileLoaderAdapter) LoadIntent(path string) (*models.TransactionIntent, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(l.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read intent file: %w", err)
	}

	return ParseIntent(data)
}

// ParseIntent decodes a single intent document
func ParseIntent(data []byte) (*models.TransactionIntent, error) {
	expanded := os.ExpandEnv(string(data))

	decoder := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	decoder.KnownFields(true)

	var intent models.TransactionIntent
	if err := decoder.Decode(&intent); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("intent file is empty")
		}
		return nil, fmt.Errorf("failed to parse intent: %w", err)
	}

	intentType, err := models.ParseIntentType(string(intent.Type))
	if err != nil {
		return nil, &domain.UnsupportedIntentError{Type: intent.Type}
	}
	intent.Type = intentType

	if err := domain.ValidateIntent(intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
