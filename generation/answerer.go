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


package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/docfind/ai"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/search"
)

// DefaultResultCount is the number of documents retrieved per question.
const DefaultResultCount = 5

const answerSystemPrompt = `You are a technical support analyst. Answer using ONLY the context below.
If the context doesn't have the answer, say so.`

// Source identifies a document that contributed to an answer.
type Source struct {
	Title string
	Route string
}

// Answer is a generated response together with the documents behind it.
type Answer struct {
	Text      string
	Sources   []Source
	Documents []*core.Document
}

// Answerer runs the retrieve-then-generate pipeline: hybrid search for
// context, then a grounded completion from the generation model.
type Answerer struct {
	retriever *search.Retriever
	generator ai.Generator
	k         int
	logger    *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer) error

// WithResultCount sets how many documents are retrieved for context.
func WithResultCount(k int) Option {
	return func(a *Answerer) error {
		if k < 1 {
			return fmt.Errorf("result count must be positive, got %d", k)
		}
		a.k = k
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnswerer creates an Answerer over the given retriever and generator.
func NewAnswerer(retriever *search.Retriever, generator ai.Generator, opts ...Option) (*Answerer, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	a := &Answerer{
		retriever: retriever,
		generator: generator,
		k:         DefaultResultCount,
		logger:    slog.Default().With("component", "answerer"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Answer retrieves context for question and generates a grounded response.
// Retrieval errors, including search.ErrNoDocuments on an empty store,
// propagate to the caller.
func (a *Answerer) Answer(ctx context.Context, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	start := time.Now()
	docs, err := a.retriever.HybridSearch(ctx, question, a.k)
	if err != nil {
		return nil, err
	}

	contextBlock := search.FormatContext(docs)
	userMessage := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer:", contextBlock, question)

	text, err := a.generator.Complete(ctx, answerSystemPrompt, userMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	sources := make([]Source, len(docs))
	for i, doc := range docs {
		route := doc.Route
		if route == "" {
			route = "N/A"
		}
		sources[i] = Source{Title: doc.Title, Route: route}
	}

	a.logger.Info("answer generated",
		"question_len", len(question),
		"context_docs", len(docs),
		"duration", time.Since(start))

	return &Answer{
		Text:      strings.TrimSpace(text),
		Sources:   sources,
		Documents: docs,
	}, nil
}
