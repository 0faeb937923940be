package llm

import (
	"context"

	"auto-api-docs/internal/types"
)

// Client defines the interface for LLM interactions
type Client interface {
	// Describe writes a short prose description of a recorded example
	Describe(ctx context.Context, example types.Example) (string, error)

	// Enrich fills the empty full descriptions of examples and returns how
	// many were filled
	Enrich(ctx context.Context, examples []types.Example) int
}

// callFunc sends a single prompt to the provider and returns its reply
type callFunc func(ctx context.Context, prompt string) (string, error)
