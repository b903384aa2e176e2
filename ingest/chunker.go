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


package ingest

import (
	"unicode/utf8"

	"github.com/poiesic/docfind/core"
)

// Chunking defaults. 2000 characters with a 200 character overlap balances
// context preservation against retrieval precision.
const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 200
)

// Chunker splits long document bodies into bounded overlapping segments.
// Size and overlap are measured in characters (runes), not bytes, so
// multi-byte text chunks at the same width as ASCII. Splits prefer
// paragraph breaks, then line breaks, then word boundaries, then a raw
// offset, so a chunk never cuts a paragraph when a cleaner boundary fits
// in the window.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker validates the parameters and returns a Chunker.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if overlap < 0 || overlap >= size {
		return nil, ErrInvalidChunkOverlap
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// NewDefaultChunker returns a Chunker with the default size and overlap.
func NewDefaultChunker() *Chunker {
	c, _ := NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	return c
}

// Split cuts text into segments of at most the chunk size. Each segment is a
// contiguous slice of the input and consecutive segments share the overlap
// region, so concatenating the non-overlapped portions reconstructs the
// input exactly. Text at or under the chunk size is returned as a single
// segment.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) <= c.size {
		return []string{text}
	}

	var segments []string
	start := 0
	for start < len(runes) {
		if len(runes)-start <= c.size {
			segments = append(segments, string(runes[start:]))
			break
		}

		end := c.splitPoint(runes, start)
		segments = append(segments, string(runes[start:end]))

		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return segments
}

// splitPoint picks the cut position within the window starting at start.
// The separator stays with the preceding segment.
func (c *Chunker) splitPoint(runes []rune, start int) int {
	window := runes[start : start+c.size]

	for i := len(window) - 2; i >= 0; i-- {
		if window[i] == '\n' && window[i+1] == '\n' {
			return start + i + 2
		}
	}
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '\n' {
			return start + i + 1
		}
	}
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == ' ' {
			return start + i + 1
		}
	}

	return start + c.size
}

// ChunkDocuments splits each document whose text exceeds the chunk size.
// Segments inherit the parent's metadata and receive zero-based chunk
// positions; documents at or under the size pass through unchanged.
func (c *Chunker) ChunkDocuments(docs []*core.Document) []*core.Document {
	var chunked []*core.Document
	for _, doc := range docs {
		if utf8.RuneCountInString(doc.Text) <= c.size {
			doc.ChunkIndex = 0
			doc.TotalChunks = 1
			chunked = append(chunked, doc)
			continue
		}

		segments := c.Split(doc.Text)
		for i, segment := range segments {
			chunk := *doc
			chunk.Text = segment
			chunk.ChunkIndex = i
			chunk.TotalChunks = len(segments)
			chunk.Vector = nil
			chunked = append(chunked, &chunk)
		}
	}
	return chunked
}
