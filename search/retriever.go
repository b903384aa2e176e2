// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/docfind/ai"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/storage"
)

// overFetchFactor is the candidate multiplier requested from each ranker
// before fusion truncates the merged list back to k. Fetching extra
// candidates lets a document ranked low by one signal but high by the
// other survive into the final results.
const overFetchFactor = 3

// DefaultTimeout bounds each embedding and vector-index call.
const DefaultTimeout = 30 * time.Second

// Retriever orchestrates hybrid retrieval over a document repository and an
// embedding service. The zero value is not usable; construct with NewRetriever.
type Retriever struct {
	repo     storage.DocumentRepository
	embedder ai.Embedder
	rrfK     int
	timeout  time.Duration
	logger   *slog.Logger
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever) error

// WithRRFConstant overrides the reciprocal rank fusion damping constant.
func WithRRFConstant(k int) RetrieverOption {
	return func(r *Retriever) error {
		if k <= 0 {
			return fmt.Errorf("RRF constant must be positive, got %d", k)
		}
		r.rrfK = k
		return nil
	}
}

// WithTimeout overrides the per-call timeout for embedding and vector-index
// operations.
func WithTimeout(d time.Duration) RetrieverOption {
	return func(r *Retriever) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		r.timeout = d
		return nil
	}
}

// WithLogger sets the logger used for search diagnostics.
func WithLogger(logger *slog.Logger) RetrieverOption {
	return func(r *Retriever) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever builds a Retriever over the given repository and embedder.
func NewRetriever(repo storage.DocumentRepository, embedder ai.Embedder, opts ...RetrieverOption) (*Retriever, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Retriever{
		repo:     repo,
		embedder: embedder,
		rrfK:     DefaultRRFConstant,
		timeout:  DefaultTimeout,
		logger:   slog.Default().With("component", "retriever"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// HybridSearch runs keyword and vector retrieval in parallel, fuses the two
// candidate lists with reciprocal rank fusion, and returns the top k fused
// documents. It returns ErrNoDocuments when the repository is empty.
func (r *Retriever) HybridSearch(ctx context.Context, query string, k int) ([]*core.Document, error) {
	return r.HybridSearchWithMonitor(ctx, query, k, noopMonitor{})
}

// HybridSearchWithMonitor is HybridSearch with stage callbacks.
func (r *Retriever) HybridSearchWithMonitor(ctx context.Context, query string, k int, monitor SearchMonitor) ([]*core.Document, error) {
	if monitor == nil {
		monitor = noopMonitor{}
	}
	monitor.Start(query)
	start := time.Now()

	docs, err := r.loadCorpus(ctx)
	if err != nil {
		return nil, err
	}

	keywordRanker, err := NewKeywordRanker(docs)
	if err != nil {
		return nil, err
	}
	vectorRanker, err := NewVectorRanker(r.repo, r.embedder)
	if err != nil {
		return nil, err
	}

	candidateK := k * overFetchFactor

	var keywordResults, vectorResults []*core.RankedResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		keywordResults, err = keywordRanker.Rank(gctx, query, candidateK)
		return err
	})
	g.Go(func() error {
		var err error
		vectorResults, err = r.rankWithTimeout(gctx, vectorRanker, query, candidateK)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	monitor.AfterKeywordSearch(keywordResults)
	monitor.AfterVectorSearch(vectorResults)

	fused := Fuse([][]*core.Document{
		rankedDocuments(keywordResults),
		rankedDocuments(vectorResults),
	}, r.rrfK)
	monitor.AfterFusion(fused)

	if len(fused) > k {
		fused = fused[:k]
	}
	results := make([]*core.Document, len(fused))
	for i, f := range fused {
		results[i] = f.Document
	}

	r.logger.Info("hybrid search complete",
		"keyword_candidates", len(keywordResults),
		"vector_candidates", len(vectorResults),
		"results", len(results),
		"duration", time.Since(start))
	monitor.Finish(results)
	return results, nil
}

// KeywordSearch ranks the corpus with BM25 only.
func (r *Retriever) KeywordSearch(ctx context.Context, query string, k int) ([]*core.Document, error) {
	docs, err := r.loadCorpus(ctx)
	if err != nil {
		return nil, err
	}
	ranker, err := NewKeywordRanker(docs)
	if err != nil {
		return nil, err
	}
	results, err := ranker.Rank(ctx, query, k)
	if err != nil {
		return nil, err
	}
	return rankedDocuments(results), nil
}

// VectorSearch ranks the corpus by embedding similarity only.
func (r *Retriever) VectorSearch(ctx context.Context, query string, k int) ([]*core.Document, error) {
	if _, err := r.loadCorpus(ctx); err != nil {
		return nil, err
	}
	ranker, err := NewVectorRanker(r.repo, r.embedder)
	if err != nil {
		return nil, err
	}
	results, err := r.rankWithTimeout(ctx, ranker, query, k)
	if err != nil {
		return nil, err
	}
	return rankedDocuments(results), nil
}

func (r *Retriever) loadCorpus(ctx context.Context) ([]*core.Document, error) {
	docs, err := r.repo.GetAllDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	return docs, nil
}

// rankWithTimeout bounds a ranker call, mapping a deadline overrun to
// ErrSearchTimeout so callers can distinguish slowness from hard failure.
func (r *Retriever) rankWithTimeout(ctx context.Context, ranker Ranker, query string, k int) ([]*core.RankedResult, error) {
	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	results, err := ranker.Rank(tctx, query, k)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w after %v: %v", ErrSearchTimeout, r.timeout, err)
		}
		return nil, err
	}
	return results, nil
}
