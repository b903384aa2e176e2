package storage

import (
	"context"

	"github.com/poiesic/docfind/core"
)

// DocumentRepository provides operations for managing the stored document corpus.
// Implementations must be thread-safe and support concurrent access.
//
// Documents are keyed by their content-derived ID (core.ID), so two chunks
// with byte-identical text occupy a single record. There are no stable chunk
// identifiers beyond content equality.
type DocumentRepository interface {
	// ReplaceDocuments clears the stored corpus and inserts the given
	// documents. This is the reproducible re-ingestion path: every run
	// starts from an empty collection.
	ReplaceDocuments(ctx context.Context, docs ...*core.Document) error

	// AddDocuments inserts documents without clearing existing ones.
	// A document whose content ID already exists is overwritten.
	AddDocuments(ctx context.Context, docs ...*core.Document) error

	// UpdateDocuments overwrites stored documents in place, keyed by
	// content ID. Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) error

	// GetAllDocuments returns the full corpus in stable key order.
	// The order is deterministic across calls for an unchanged corpus.
	GetAllDocuments(ctx context.Context) ([]*core.Document, error)

	// GetDocument retrieves a single document by content ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// FindSimilar returns up to limit documents ranked by cosine
	// similarity to the given vector, most similar first. Documents
	// without embeddings are skipped.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.Document, error)

	// Close closes the repository and releases resources.
	Close() error
}
