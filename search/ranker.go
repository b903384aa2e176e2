package search

import (
	"context"

	"github.com/poiesic/docfind/core"
)

// Ranker produces an ordered candidate list for a query. Implementations
// return at most k results ordered best-first, with 0-based ranks assigned
// in list order.
type Ranker interface {
	Rank(ctx context.Context, query string, k int) ([]*core.RankedResult, error)
}

// rankedDocuments strips the rank envelopes, preserving order.
func rankedDocuments(results []*core.RankedResult) []*core.Document {
	docs := make([]*core.Document, len(results))
	for i, r := range results {
		docs[i] = r.Document
	}
	return docs
}
