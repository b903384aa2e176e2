package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
//
// The underlying model is a dual encoder: corpus-side and query-side inputs
// receive different transformations before vectorization. Embedding a query
// must never reuse the document-side transformation and vice versa.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedDocuments generates corpus-side embeddings for a batch of texts.
	// The returned slice contains embeddings in the same order as the input.
	// Returns an error if any embedding generation fails.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates a query-side embedding for a single query string.
	// Returns an error if the embedding generation fails.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Generator produces chat completions. It is used for answer generation
// over retrieved context and for relevance judgments during evaluation.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Complete sends a system prompt and a user message to the model and
	// returns the model's text response.
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Generator instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the chat completion service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
