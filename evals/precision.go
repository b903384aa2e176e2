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


package evals

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docfind/ai"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/search"
)

// DefaultResultCount is the number of documents retrieved per question.
const DefaultResultCount = 5

// judgeExcerptLimit caps the document content sent to the judge model.
const judgeExcerptLimit = 1000

const relevanceSystemPrompt = `You judge whether a document helps answer a question.
Reply with "yes" if the document contains information that helps answer the question.
Reply with "no" if the document is unrelated or only tangentially related.`

// QuestionResult holds per-method precision for one question.
type QuestionResult struct {
	Question string
	Hybrid   float64
	Vector   float64
	Keyword  float64
}

// Report aggregates an evaluation run.
type Report struct {
	Results        []QuestionResult
	AverageHybrid  float64
	AverageVector  float64
	AverageKeyword float64
}

// Evaluator measures retrieval precision with an LLM judge. For each
// question it runs hybrid, vector-only, and keyword-only search and scores
// precision as relevant documents over retrieved documents.
type Evaluator struct {
	retriever *search.Retriever
	judge     ai.Generator
	questions []string
	k         int
	logger    *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator) error

// WithQuestions replaces the default question set.
func WithQuestions(questions []string) Option {
	return func(e *Evaluator) error {
		if len(questions) == 0 {
			return ErrNoQuestions
		}
		e.questions = questions
		return nil
	}
}

// WithResultCount sets how many documents each method retrieves per question.
func WithResultCount(k int) Option {
	return func(e *Evaluator) error {
		if k < 1 {
			return fmt.Errorf("result count must be positive, got %d", k)
		}
		e.k = k
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEvaluator creates an Evaluator with the default question set.
func NewEvaluator(retriever *search.Retriever, judge ai.Generator, opts ...Option) (*Evaluator, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if judge == nil {
		return nil, ErrJudgeRequired
	}

	e := &Evaluator{
		retriever: retriever,
		judge:     judge,
		questions: DefaultEvalQuestions,
		k:         DefaultResultCount,
		logger:    slog.Default().With("component", "evaluator"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Run evaluates every question against all three retrieval methods and
// returns the per-question and average precision.
func (e *Evaluator) Run(ctx context.Context) (*Report, error) {
	report := &Report{Results: make([]QuestionResult, 0, len(e.questions))}

	for _, question := range e.questions {
		result := QuestionResult{Question: question}

		hybridDocs, err := e.retriever.HybridSearch(ctx, question, e.k)
		if err != nil {
			return nil, fmt.Errorf("hybrid search failed for %q: %w", question, err)
		}
		vectorDocs, err := e.retriever.VectorSearch(ctx, question, e.k)
		if err != nil {
			return nil, fmt.Errorf("vector search failed for %q: %w", question, err)
		}
		keywordDocs, err := e.retriever.KeywordSearch(ctx, question, e.k)
		if err != nil {
			return nil, fmt.Errorf("keyword search failed for %q: %w", question, err)
		}

		if result.Hybrid, err = e.precision(ctx, question, hybridDocs); err != nil {
			return nil, err
		}
		if result.Vector, err = e.precision(ctx, question, vectorDocs); err != nil {
			return nil, err
		}
		if result.Keyword, err = e.precision(ctx, question, keywordDocs); err != nil {
			return nil, err
		}

		e.logger.Info("question evaluated",
			"question", question,
			"hybrid", result.Hybrid,
			"vector", result.Vector,
			"keyword", result.Keyword)
		report.Results = append(report.Results, result)
	}

	n := float64(len(report.Results))
	for _, r := range report.Results {
		report.AverageHybrid += r.Hybrid / n
		report.AverageVector += r.Vector / n
		report.AverageKeyword += r.Keyword / n
	}
	return report, nil
}

// precision is the fraction of docs the judge deems relevant to question.
// An empty result list scores zero.
func (e *Evaluator) precision(ctx context.Context, question string, docs []*core.Document) (float64, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	relevant := 0
	for _, doc := range docs {
		ok, err := e.judgeRelevance(ctx, question, doc)
		if err != nil {
			return 0, fmt.Errorf("relevance judgment failed: %w", err)
		}
		if ok {
			relevant++
		}
	}
	return float64(relevant) / float64(len(docs)), nil
}

func (e *Evaluator) judgeRelevance(ctx context.Context, question string, doc *core.Document) (bool, error) {
	// The limit counts runes, not bytes, so multi-byte text never gets cut
	// mid-sequence.
	excerpt := doc.Text
	if runes := []rune(excerpt); len(runes) > judgeExcerptLimit {
		excerpt = string(runes[:judgeExcerptLimit])
	}

	prompt := fmt.Sprintf("Question: %s\n\nDocument Title: %s\nContent (excerpt): %s\n\nAnswer (yes/no):",
		question, doc.Title, excerpt)

	response, err := e.judge.Complete(ctx, relevanceSystemPrompt, prompt)
	if err != nil {
		return false, err
	}

	// First word only, so "yes, because..." and "no, it doesn't..." both parse.
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(response)))
	if len(fields) == 0 {
		return false, nil
	}
	return strings.HasPrefix(fields[0], "yes"), nil
}
