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


package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/docfind/ai"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/storage"
)

// embedBatchSize is the number of chunks sent to the embedding service in
// one request.
const embedBatchSize = 32

// Pipeline orchestrates document ingestion: load markdown files, parse
// headers, chunk long bodies, embed the chunks, and replace the stored
// corpus. Each run is a full re-ingestion so repeated runs are reproducible.
type Pipeline struct {
	repo     storage.DocumentRepository
	embedder ai.Embedder
	chunker  *Chunker
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunking overrides the default chunk size and overlap.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) error {
		chunker, err := NewChunker(size, overlap)
		if err != nil {
			return err
		}
		p.chunker = chunker
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repo storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repo:     repo,
		embedder: embedder,
		chunker:  NewDefaultChunker(),
		pool:     pool,
		logger:   slog.Default().With("component", "ingest_pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestDirectory loads all *.md files under dir, parses and chunks them,
// embeds each chunk, and replaces the stored corpus with the result. It
// returns the number of chunks stored. Files that cannot be read are
// skipped with a log entry; the batch continues.
func (p *Pipeline) IngestDirectory(ctx context.Context, dir string) (int, error) {
	docs, err := p.LoadDirectory(dir)
	if err != nil {
		return 0, err
	}

	chunks := p.chunker.ChunkDocuments(docs)
	p.logger.Info("chunking complete", "documents", len(docs), "chunks", len(chunks))

	if err := p.embedAll(ctx, chunks); err != nil {
		return 0, err
	}

	if err := p.repo.ReplaceDocuments(ctx, chunks...); err != nil {
		return 0, fmt.Errorf("failed to store documents: %w", err)
	}

	p.logger.Info("ingestion complete", "chunks", len(chunks))
	return len(chunks), nil
}

// LoadDirectory parses every *.md file under dir, in filename order.
// Unreadable files are skipped and logged.
func (p *Pipeline) LoadDirectory(dir string) ([]*core.Document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	// Glob returns sorted paths; ingestion order stays stable across runs.

	var docs []*core.Document
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			p.logger.Warn("skipping unreadable file", "path", path, "err", err)
			continue
		}

		name := filepath.Base(path)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		doc := ParseDocument(string(content), stem, name)
		if err := core.ValidateDocument(doc); err != nil {
			p.logger.Warn("skipping invalid document", "path", path, "err", err)
			continue
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocumentsLoaded, dir)
	}
	p.logger.Info("documents loaded", "dir", dir, "files", len(paths), "loaded", len(docs))
	return docs, nil
}

// embedAll generates corpus-side embeddings for all chunks, batching
// requests across the worker pool. The first failure wins; remaining
// batches still run to completion before it is returned.
func (p *Pipeline) embedAll(ctx context.Context, chunks []*core.Document) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for batchStart := 0; batchStart < len(chunks); batchStart += embedBatchSize {
		batch := chunks[batchStart:min(batchStart+embedBatchSize, len(chunks))]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i, chunk := range batch {
				texts[i] = chunk.Text
			}

			vectors, err := p.embedder.EmbedDocuments(ctx, texts)
			if err == nil && len(vectors) != len(batch) {
				err = fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(vectors), len(batch))
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to embed chunk batch: %w", err)
				}
				mu.Unlock()
				return
			}

			for i, chunk := range batch {
				chunk.Vector = vectors[i]
			}
		})
		if submitErr != nil {
			wg.Done()
			// Already-submitted batches may still be writing vectors.
			wg.Wait()
			return fmt.Errorf("failed to submit embedding batch: %w", submitErr)
		}
	}

	wg.Wait()
	return firstErr
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
