package ai

import "context"

// TextGenerator sends a single prompt to a language model and returns the plain text answer.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name is the provider name (openai, gemini, anthropic).
	Name() string
	Model() string
}
