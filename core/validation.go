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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Title must not be empty
//   - TotalChunks must be >= 1 and ChunkIndex must be in [0, TotalChunks)
//
// NOT validated (populated elsewhere):
//   - Vector (can be empty until the embedding step runs)
//   - Optional metadata fields (empty means absent from the source header)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyText)
	}

	if doc.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyTitle)
	}

	if doc.TotalChunks < 1 || doc.ChunkIndex < 0 || doc.ChunkIndex >= doc.TotalChunks {
		return fmt.Errorf("%w: %w (index %d, total %d)",
			ErrInvalidDocument, ErrInvalidChunkPosition, doc.ChunkIndex, doc.TotalChunks)
	}

	return nil
}
