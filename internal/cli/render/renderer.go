package render

import (
	"encoding/json"
	"io"
)

type Renderer[T any] interface {
	Render(result T) error
}

// JSONRenderer writes results as indented JSON for --json output
type JSONRenderer[T any] struct {
	out io.Writer
}

// NewJSONRenderer creates a JSON renderer
func NewJSONRenderer[T any](out io.Writer) *JSONRenderer[T] {
	return &JSONRenderer[T]{out: out}
}

// Render encodes result
func (r *JSONRenderer[T]) Render(result T) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
