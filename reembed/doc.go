// Package reembed regenerates embeddings for stored document chunks after
// an embedding model change.
//
// The corpus is walked in batches, each batch is re-embedded with the
// corpus-side encoder and written back in place with normalized vectors.
// Embedding calls are retried with exponential backoff and progress is
// reported to a writer.
package reembed
