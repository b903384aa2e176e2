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


package reembed

import (
	"context"

	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/storage"
)

// DefaultBatchSize is the default number of document chunks per batch.
const DefaultBatchSize = 100

// DocumentIterator walks the stored corpus in batches.
type DocumentIterator struct {
	repo      storage.DocumentRepository
	batchSize int
}

// NewDocumentIterator creates an iterator with the given batch size.
// Non-positive sizes fall back to DefaultBatchSize.
func NewDocumentIterator(repo storage.DocumentRepository, batchSize int) *DocumentIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &DocumentIterator{repo: repo, batchSize: batchSize}
}

// ForEach loads the full corpus and calls fn once per batch. Iteration stops
// on the first error from fn; context cancellation is checked between
// batches.
func (it *DocumentIterator) ForEach(ctx context.Context, fn func([]*core.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	docs, err := it.repo.GetAllDocuments(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(docs); start += it.batchSize {
		end := min(start+it.batchSize, len(docs))
		if err := fn(docs[start:end]); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
