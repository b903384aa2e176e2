// Package ingest loads product documentation into the document store.
//
// The path is load → parse → chunk → embed → store. ParseHeader reads the
// line-based metadata header (module, roles, route, status, auth
// requirement, feature flags, linked APIs); parsing never fails, missing or
// malformed fields simply degrade to empty values. Chunker splits bodies
// longer than the chunk size at the cleanest boundary that fits. Pipeline
// ties the stages together, embedding chunk batches concurrently and
// replacing the stored corpus atomically with respect to prior runs.
package ingest
