// Package evals measures retrieval quality with an LLM judge.
//
// Precision is the fraction of retrieved documents the judge deems relevant
// to the question. Evaluator compares hybrid, vector-only, and keyword-only
// retrieval over the same question set so the fusion gain is visible.
package evals
