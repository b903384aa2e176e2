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
	"slices"

	"github.com/poiesic/docfind/core"
)

// DefaultRRFConstant is the standard reciprocal rank fusion damping constant.
// Larger values flatten the difference between adjacent ranks.
const DefaultRRFConstant = 60

// Fuse merges ranked lists with reciprocal rank fusion. A document at 0-based
// rank r in any list contributes 1/(rrfK + r + 1) to its total; documents are
// identified by content hash, so the same text appearing in several lists
// accumulates a single combined score. Results are ordered by descending
// score, with ties broken by first appearance across the input lists.
func Fuse(lists [][]*core.Document, rrfK int) []*core.FusedResult {
	type entry struct {
		doc   *core.Document
		score float64
		order int
	}

	entries := make(map[core.ID]*entry)
	next := 0
	for _, list := range lists {
		for rank, doc := range list {
			id := doc.ID()
			e, ok := entries[id]
			if !ok {
				e = &entry{doc: doc, order: next}
				next++
				entries[id] = e
			}
			e.score += 1.0 / float64(rrfK+rank+1)
		}
	}

	fused := make([]*entry, 0, len(entries))
	for _, e := range entries {
		fused = append(fused, e)
	}
	slices.SortFunc(fused, func(a, b *entry) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return a.order - b.order
		}
	})

	results := make([]*core.FusedResult, len(fused))
	for i, e := range fused {
		results[i] = &core.FusedResult{Document: e.doc, Score: e.score}
	}
	return results
}
