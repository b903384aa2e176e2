package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docfind/ai/mock"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/storage"
	"github.com/poiesic/docfind/storage/badger"
)

func newTestRepository(t *testing.T) storage.DocumentRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return repo
}

func embeddedDoc(title, text string, vector []float32) *core.Document {
	doc := makeDoc(title, text)
	doc.Vector = vector
	return doc
}

// seedCorpus stores three documents with orthogonal vectors so vector
// ranking is fully controlled by the injected query embedding.
func seedCorpus(t *testing.T, repo storage.DocumentRepository) {
	t.Helper()
	err := repo.AddDocuments(context.Background(),
		embeddedDoc("Passwords", "password reset flow with email verification", []float32{1, 0, 0}),
		embeddedDoc("Billing", "invoices and billing cycles", []float32{0, 1, 0}),
		embeddedDoc("Sessions", "session expiry and token refresh", []float32{0, 0, 1}),
	)
	require.NoError(t, err)
}

func queryEmbedder(vector []float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return vector, nil
	}
	return embedder
}

type capturingMonitor struct {
	query          string
	keywordResults []*core.RankedResult
	vectorResults  []*core.RankedResult
	fusedResults   []*core.FusedResult
	finalDocs      []*core.Document
}

func (m *capturingMonitor) Start(query string)                        { m.query = query }
func (m *capturingMonitor) AfterKeywordSearch(r []*core.RankedResult) { m.keywordResults = r }
func (m *capturingMonitor) AfterVectorSearch(r []*core.RankedResult)  { m.vectorResults = r }
func (m *capturingMonitor) AfterFusion(r []*core.FusedResult)         { m.fusedResults = r }
func (m *capturingMonitor) Finish(docs []*core.Document)              { m.finalDocs = docs }

func TestNewRetriever(t *testing.T) {
	repo := newTestRepository(t)

	t.Run("requires repository", func(t *testing.T) {
		_, err := NewRetriever(nil, mock.NewMockEmbedder())
		assert.ErrorIs(t, err, ErrRepositoryRequired)
	})

	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewRetriever(repo, nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})

	t.Run("rejects invalid options", func(t *testing.T) {
		_, err := NewRetriever(repo, mock.NewMockEmbedder(), WithRRFConstant(0))
		assert.Error(t, err)

		_, err = NewRetriever(repo, mock.NewMockEmbedder(), WithTimeout(-time.Second))
		assert.Error(t, err)
	})
}

func TestRetrieverEmptyStore(t *testing.T) {
	repo := newTestRepository(t)
	retriever, err := NewRetriever(repo, mock.NewMockEmbedder())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = retriever.HybridSearch(ctx, "anything", 5)
	assert.ErrorIs(t, err, ErrNoDocuments)

	_, err = retriever.KeywordSearch(ctx, "anything", 5)
	assert.ErrorIs(t, err, ErrNoDocuments)

	_, err = retriever.VectorSearch(ctx, "anything", 5)
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestHybridSearch(t *testing.T) {
	repo := newTestRepository(t)
	seedCorpus(t, repo)

	// Both signals agree on the password document.
	retriever, err := NewRetriever(repo, queryEmbedder([]float32{1, 0, 0}))
	require.NoError(t, err)

	results, err := retriever.HybridSearch(context.Background(), "password reset", 2)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Passwords", results[0].Title)
	assert.LessOrEqual(t, len(results), 2)

	// A document endorsed by both rankers must appear once.
	seen := make(map[core.ID]int)
	for _, doc := range results {
		seen[doc.ID()]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "document %d duplicated in results", id)
	}
}

func TestHybridSearchConsensusWins(t *testing.T) {
	repo := newTestRepository(t)
	seedCorpus(t, repo)

	// Keyword ranking favors Passwords; vector ranking favors Billing. The
	// vector winner appears in only one list while Passwords appears in
	// both, so fusion should still surface Passwords first when it also
	// ranks well on the vector side. Here it does not, so the top spot goes
	// to whichever document accumulates the larger reciprocal sum.
	retriever, err := NewRetriever(repo, queryEmbedder([]float32{0, 1, 0}))
	require.NoError(t, err)

	monitor := &capturingMonitor{}
	results, err := retriever.HybridSearchWithMonitor(context.Background(), "password reset billing", 3, monitor)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "password reset billing", monitor.query)
	assert.NotEmpty(t, monitor.keywordResults)
	assert.NotEmpty(t, monitor.vectorResults)
	assert.NotEmpty(t, monitor.fusedResults)
	assert.Equal(t, results, monitor.finalDocs)

	// Fused scores are non-increasing.
	for i := 1; i < len(monitor.fusedResults); i++ {
		assert.GreaterOrEqual(t, monitor.fusedResults[i-1].Score, monitor.fusedResults[i].Score)
	}
}

func TestHybridSearchOverFetch(t *testing.T) {
	repo := newTestRepository(t)

	// Six documents sharing a common term, all embedded.
	docs := make([]*core.Document, 6)
	vectors := [][]float32{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{0.5, 0.5, 0}, {0, 0.5, 0.5}, {0.5, 0, 0.5},
	}
	titles := []string{"One", "Two", "Three", "Four", "Five", "Six"}
	for i := range docs {
		docs[i] = embeddedDoc(titles[i], "shared webhook guidance number "+titles[i], vectors[i])
	}
	require.NoError(t, repo.AddDocuments(context.Background(), docs...))

	retriever, err := NewRetriever(repo, queryEmbedder([]float32{1, 0, 0}))
	require.NoError(t, err)

	monitor := &capturingMonitor{}
	results, err := retriever.HybridSearchWithMonitor(context.Background(), "webhook", 1, monitor)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	// k=1 with a 3x over-fetch: each ranker was asked for 3 candidates and
	// the corpus can satisfy that.
	assert.Len(t, monitor.keywordResults, 3)
	assert.Len(t, monitor.vectorResults, 3)
}

func TestKeywordSearch(t *testing.T) {
	repo := newTestRepository(t)
	seedCorpus(t, repo)

	retriever, err := NewRetriever(repo, mock.NewMockEmbedder())
	require.NoError(t, err)

	results, err := retriever.KeywordSearch(context.Background(), "billing invoices", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Billing", results[0].Title)

	// The embedder is never consulted for keyword-only search.
	embedder := mock.NewMockEmbedder()
	retriever, err = NewRetriever(repo, embedder)
	require.NoError(t, err)
	_, err = retriever.KeywordSearch(context.Background(), "billing", 5)
	require.NoError(t, err)
	assert.Zero(t, embedder.CallCount())
}

func TestVectorSearch(t *testing.T) {
	repo := newTestRepository(t)
	seedCorpus(t, repo)

	retriever, err := NewRetriever(repo, queryEmbedder([]float32{0, 0, 1}))
	require.NoError(t, err)

	results, err := retriever.VectorSearch(context.Background(), "how long do sessions last", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Sessions", results[0].Title)
}

func TestVectorSearchTimeout(t *testing.T) {
	repo := newTestRepository(t)
	seedCorpus(t, repo)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	retriever, err := NewRetriever(repo, embedder, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = retriever.VectorSearch(context.Background(), "slow", 3)
	assert.ErrorIs(t, err, ErrSearchTimeout)

	_, err = retriever.HybridSearch(context.Background(), "slow password", 3)
	assert.ErrorIs(t, err, ErrSearchTimeout)
}

func TestVectorSearchEmbedderFailure(t *testing.T) {
	repo := newTestRepository(t)
	seedCorpus(t, repo)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, assert.AnError
	}

	retriever, err := NewRetriever(repo, embedder)
	require.NoError(t, err)

	_, err = retriever.VectorSearch(context.Background(), "query", 3)
	assert.ErrorIs(t, err, assert.AnError)
}
