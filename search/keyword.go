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
	"log/slog"
	"math"
	"slices"

	"github.com/poiesic/docfind/core"
)

// Okapi BM25 free parameters.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// KeywordRanker scores documents against a query with Okapi BM25. The index
// is built in-memory from the corpus passed at construction and is not
// persisted; callers rebuild it per search so it always reflects the current
// document set.
type KeywordRanker struct {
	docs      []*core.Document
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	docFreq   map[string]int
	logger    *slog.Logger
}

// NewKeywordRanker indexes the given documents. It returns ErrEmptyCorpus
// when docs is empty.
func NewKeywordRanker(docs []*core.Document) (*KeywordRanker, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	r := &KeywordRanker{
		docs:      docs,
		termFreqs: make([]map[string]int, len(docs)),
		docLens:   make([]int, len(docs)),
		docFreq:   make(map[string]int),
		logger:    slog.Default().With("component", "keyword_ranker"),
	}

	var totalLen int
	for i, doc := range docs {
		tokens := tokenize(doc.Text)
		freqs := make(map[string]int, len(tokens))
		for _, t := range tokens {
			freqs[t]++
		}
		for term := range freqs {
			r.docFreq[term]++
		}
		r.termFreqs[i] = freqs
		r.docLens[i] = len(tokens)
		totalLen += len(tokens)
	}
	r.avgDocLen = float64(totalLen) / float64(len(docs))

	return r, nil
}

// Rank returns up to k documents ordered by descending BM25 score. Documents
// sharing no term with the query are omitted; score ties keep the corpus
// order of the tied documents.
func (r *KeywordRanker) Rank(ctx context.Context, query string, k int) ([]*core.RankedResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queryTerms := tokenize(query)

	type scored struct {
		index int
		score float64
	}
	var hits []scored
	for i := range r.docs {
		score := r.scoreDocument(i, queryTerms)
		if score > 0 {
			hits = append(hits, scored{index: i, score: score})
		}
	}

	slices.SortStableFunc(hits, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	results := make([]*core.RankedResult, len(hits))
	for rank, h := range hits {
		results[rank] = &core.RankedResult{Document: r.docs[h.index], Rank: rank}
	}
	r.logger.Debug("keyword ranking complete", "query_terms", len(queryTerms), "results", len(results))
	return results, nil
}

func (r *KeywordRanker) scoreDocument(i int, queryTerms []string) float64 {
	freqs := r.termFreqs[i]
	lenNorm := bm25K1 * (1 - bm25B + bm25B*float64(r.docLens[i])/r.avgDocLen)

	var score float64
	for _, term := range queryTerms {
		tf := float64(freqs[term])
		if tf == 0 {
			continue
		}
		score += r.idf(term) * tf * (bm25K1 + 1) / (tf + lenNorm)
	}
	return score
}

// idf uses the smoothed formulation ln((N - df + 0.5)/(df + 0.5) + 1), which
// stays positive even for terms present in every document.
func (r *KeywordRanker) idf(term string) float64 {
	n := float64(len(r.docs))
	df := float64(r.docFreq[term])
	return math.Log((n-df+0.5)/(df+0.5) + 1)
}
