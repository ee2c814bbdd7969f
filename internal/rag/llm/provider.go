package llm

import "context"

// Provider sends one prompt and returns the generated text. Callers treat every
// error as recoverable. A nil Provider means no language model is configured.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
