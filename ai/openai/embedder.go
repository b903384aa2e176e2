package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/docfind/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Dual-encoder input prefixes required by nomic-embed-text. Corpus-side and
// query-side texts must carry different prefixes; mixing them degrades
// similarity quality silently.
const (
	documentPrefix = "search_document: "
	queryPrefix    = "search_query: "
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// Every call is bounded by the configured request timeout, and returned
// vectors are checked against the configured dimensionality so a
// misconfigured model surfaces immediately instead of corrupting the store.
type Embedder struct {
	embedder   embeddings.Embedder
	timeout    time.Duration
	dimensions int
	logger     *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for embeddings
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	// Wrap in langchaingo embedder
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(false))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:   embedder,
		timeout:    config.RequestTimeout,
		dimensions: config.VectorDimensions,
		logger:     slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedDocuments generates corpus-side embeddings for a batch of texts.
// Each text is prefixed with the document-side marker before vectorization.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating document embeddings", "count", len(texts))

	prefixed := make([]string, len(texts))
	for i, text := range texts {
		prefixed[i] = documentPrefix + text
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vectors, err := e.embedder.EmbedDocuments(ctx, prefixed)
	if err != nil {
		e.logger.Error("failed to generate document embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	for i, vector := range vectors {
		if len(vector) != e.dimensions {
			return nil, fmt.Errorf("unexpected embedding dimension for text %d: got %d, want %d",
				i, len(vector), e.dimensions)
		}
	}
	return vectors, nil
}

// EmbedQuery generates a query-side embedding for a single query string.
// The text is prefixed with the query-side marker before vectorization.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating query embedding", "length", len(text))

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vector, err := e.embedder.EmbedQuery(ctx, queryPrefix+text)
	if err != nil {
		e.logger.Error("failed to generate query embedding", "err", err)
		return nil, err
	}

	if len(vector) != e.dimensions {
		return nil, fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(vector), e.dimensions)
	}
	return vector, nil
}
