// Package generation turns retrieval results into grounded answers.
//
// Answerer composes hybrid search with the generation model: retrieved
// documents are rendered into a numbered context block and the model is
// instructed to answer strictly from that context. The documents behind
// each answer are returned as sources for transparency.
package generation
