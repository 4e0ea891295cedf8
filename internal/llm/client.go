package llm

import (
	"context"
)

// LLMClient is a single-turn text generator. Implementations should ask their
// model for JSON output when the provider supports it.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
