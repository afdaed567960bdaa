package llm

import "context"

// Provider defines the minimal interface the evaluation engine needs from a
// text-generation backend. Implementations must be safe for concurrent use.
type Provider interface {
	// Complete performs a single completion request.
	// Returns the response or an error if the request fails.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}

// ModelLister is an optional interface a Provider may implement to enumerate
// the models available on the backend. It is used to build friendlier
// "model not found" errors and is never required for evaluation itself.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}
