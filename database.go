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


package docfind

import (
	"io"
	"log/slog"

	"github.com/poiesic/docfind/ai"
	"github.com/poiesic/docfind/ai/openai"
	"github.com/poiesic/docfind/evals"
	"github.com/poiesic/docfind/generation"
	"github.com/poiesic/docfind/ingest"
	"github.com/poiesic/docfind/reembed"
	"github.com/poiesic/docfind/search"
	"github.com/poiesic/docfind/storage"
	"github.com/poiesic/docfind/storage/badger"
)

// Database bundles the document store and the AI provider behind one handle
// and hands out configured pipeline components.
type Database struct {
	backend  *badger.Backend
	docRepo  storage.DocumentRepository
	provider ai.AIProvider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// NewDatabase opens the document store at filePath and connects the AI
// provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		docRepo:  docRepo,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider and the underlying store.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.docRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// DocumentRepository exposes the underlying document store.
func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docRepo
}

// NewIngestionPipeline returns a pipeline that ingests documentation into
// this database.
func (db *Database) NewIngestionPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(db.docRepo, db.provider.Embedder(), opts...)
}

// NewRetriever returns a hybrid retriever over this database.
func (db *Database) NewRetriever(opts ...search.RetrieverOption) (*search.Retriever, error) {
	return search.NewRetriever(db.docRepo, db.provider.Embedder(), opts...)
}

// NewAnswerer returns a retrieve-then-generate answerer over this database.
func (db *Database) NewAnswerer(opts ...generation.Option) (*generation.Answerer, error) {
	retriever, err := db.NewRetriever()
	if err != nil {
		return nil, err
	}
	return generation.NewAnswerer(retriever, db.provider.Generator(), opts...)
}

// NewEvaluator returns a precision evaluator over this database.
func (db *Database) NewEvaluator(opts ...evals.Option) (*evals.Evaluator, error) {
	retriever, err := db.NewRetriever()
	if err != nil {
		return nil, err
	}
	return evals.NewEvaluator(retriever, db.provider.Generator(), opts...)
}

// NewReembedder returns a reembedder that refreshes every stored vector.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.docRepo, db.provider.Embedder(), config, progress)
}
