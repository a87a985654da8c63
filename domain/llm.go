package domain

import "context"

// Generator abstracts any text-generation provider.
type Generator interface {
	// Generate takes a fully built prompt and returns the model's reply.
	// Fails with *AuthError on rejected credentials and *APIError on
	// transport or service failure.
	Generate(ctx context.Context, prompt string) (string, error)
}
