package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/docfind/ai"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/storage"
)

// VectorRanker embeds the query with the dual-encoder model and delegates
// similarity ranking to the document repository. It holds no index of its
// own; the repository owns the vectors.
type VectorRanker struct {
	repo     storage.DocumentRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewVectorRanker returns a ranker backed by the given repository and embedder.
func NewVectorRanker(repo storage.DocumentRepository, embedder ai.Embedder) (*VectorRanker, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrAIProviderRequired
	}
	return &VectorRanker{
		repo:     repo,
		embedder: embedder,
		logger:   slog.Default().With("component", "vector_ranker"),
	}, nil
}

// Rank embeds query and returns up to k documents by descending cosine
// similarity. Embedding and repository failures propagate to the caller.
func (r *VectorRanker) Rank(ctx context.Context, query string, k int) ([]*core.RankedResult, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	docs, err := r.repo.FindSimilar(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	results := make([]*core.RankedResult, len(docs))
	for rank, doc := range docs {
		results[rank] = &core.RankedResult{Document: doc, Rank: rank}
	}
	r.logger.Debug("vector ranking complete", "results", len(results))
	return results, nil
}
