// Package search implements hybrid retrieval over the document store.
//
// Two independent rankers score the corpus for a query: KeywordRanker builds
// an ephemeral Okapi BM25 index over the documents, and VectorRanker delegates
// cosine similarity to the repository using a query embedding from the
// dual-encoder model. Retriever runs both in parallel, over-fetching three
// times the requested result count from each, then merges the candidate
// lists with reciprocal rank fusion (Fuse) and truncates to the requested k.
//
// Documents are identified by content hash throughout, so the same text
// surfaced by both rankers fuses into a single result.
package search
