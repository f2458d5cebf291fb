// Package llm is the optional language-generation layer. It only ever
// rewrites a template response that was already composed from retrieved
// facts; its output is validated for grounding and discarded on any
// doubt. It is never the source of truth.
package llm

import "context"

// Provider defines the interface for generation providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
