package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for retrievable documents.
// It is derived from document text via content-based hashing, so two
// chunks with byte-identical text always map to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document is the atomic retrieval unit: a whole source file, or one
// bounded chunk of a file that exceeded the chunk size.
//
// Text carries a synthesized searchable prefix (title, route, linked APIs)
// in addition to the body, so those fields are matchable by keyword search
// even though they are also stored as structured metadata.
type Document struct {
	Text  string
	Title string

	// Optional single-valued metadata from the source header.
	// An empty string means the header did not carry the field.
	Module          string
	Route           string
	Status          string
	AuthRequirement string

	// List metadata in order of appearance. Duplicates are preserved.
	Roles        []string
	LinkedAPIs   []string
	FeatureFlags []string

	// SourceFile is the provenance identifier (file name, not path).
	SourceFile string

	// Position within a possibly-split parent document.
	// ChunkIndex is 0-based; TotalChunks is 1 for unsplit documents.
	ChunkIndex  int
	TotalChunks int

	// Vector is the embedding of Text. Populated during ingestion;
	// empty until the embedding step runs.
	Vector []float32
}

// ID returns the content-derived identifier for the document.
func (d *Document) ID() ID {
	return IDFromContent(d.Text)
}

// RankedResult is a document plus its 0-based rank within a single
// ranker's output list. Constructed per query, never persisted.
type RankedResult struct {
	Document *Document
	Rank     int
}

// FusedResult is a document with its aggregate reciprocal-rank-fusion score.
type FusedResult struct {
	Document *Document
	Score    float64
}
