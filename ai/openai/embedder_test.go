package openai

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbeddings satisfies the langchaingo embeddings.Embedder interface so
// the wrapper's behavior can be tested without a live service.
type stubEmbeddings struct {
	embedDocuments func(ctx context.Context, texts []string) ([][]float32, error)
	embedQuery     func(ctx context.Context, text string) ([]float32, error)
}

func (s *stubEmbeddings) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return s.embedDocuments(ctx, texts)
}

func (s *stubEmbeddings) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return s.embedQuery(ctx, text)
}

func newTestEmbedder(inner *stubEmbeddings, timeout time.Duration, dims int) *Embedder {
	return &Embedder{
		embedder:   inner,
		timeout:    timeout,
		dimensions: dims,
		logger:     slog.Default().With("component", "openai-embedder"),
	}
}

func TestEmbedderAppliesDualEncoderPrefixes(t *testing.T) {
	var gotTexts []string
	var gotQuery string
	inner := &stubEmbeddings{
		embedDocuments: func(ctx context.Context, texts []string) ([][]float32, error) {
			gotTexts = texts
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = make([]float32, 4)
			}
			return vectors, nil
		},
		embedQuery: func(ctx context.Context, text string) ([]float32, error) {
			gotQuery = text
			return make([]float32, 4), nil
		},
	}
	embedder := newTestEmbedder(inner, time.Second, 4)

	_, err := embedder.EmbedDocuments(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, gotTexts, 2)
	assert.Equal(t, "search_document: alpha", gotTexts[0])
	assert.Equal(t, "search_document: beta", gotTexts[1])

	_, err = embedder.EmbedQuery(context.Background(), "how do webhooks work")
	require.NoError(t, err)
	assert.Equal(t, "search_query: how do webhooks work", gotQuery)
}

func TestEmbedderBoundsCallsWithRequestTimeout(t *testing.T) {
	t.Run("document embedding carries a deadline", func(t *testing.T) {
		var deadline time.Time
		var hasDeadline bool
		inner := &stubEmbeddings{
			embedDocuments: func(ctx context.Context, texts []string) ([][]float32, error) {
				deadline, hasDeadline = ctx.Deadline()
				return [][]float32{make([]float32, 4)}, nil
			},
		}
		embedder := newTestEmbedder(inner, 5*time.Second, 4)

		_, err := embedder.EmbedDocuments(context.Background(), []string{"text"})
		require.NoError(t, err)
		require.True(t, hasDeadline)
		assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
	})

	t.Run("query embedding carries a deadline", func(t *testing.T) {
		var hasDeadline bool
		inner := &stubEmbeddings{
			embedQuery: func(ctx context.Context, text string) ([]float32, error) {
				_, hasDeadline = ctx.Deadline()
				return make([]float32, 4), nil
			},
		}
		embedder := newTestEmbedder(inner, 5*time.Second, 4)

		_, err := embedder.EmbedQuery(context.Background(), "query")
		require.NoError(t, err)
		assert.True(t, hasDeadline)
	})

	t.Run("stalled service fails instead of hanging", func(t *testing.T) {
		inner := &stubEmbeddings{
			embedDocuments: func(ctx context.Context, texts []string) ([][]float32, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		embedder := newTestEmbedder(inner, 20*time.Millisecond, 4)

		_, err := embedder.EmbedDocuments(context.Background(), []string{"text"})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestEmbedderRejectsDimensionMismatch(t *testing.T) {
	t.Run("document embeddings", func(t *testing.T) {
		inner := &stubEmbeddings{
			embedDocuments: func(ctx context.Context, texts []string) ([][]float32, error) {
				return [][]float32{make([]float32, 4), make([]float32, 3)}, nil
			},
		}
		embedder := newTestEmbedder(inner, time.Second, 4)

		_, err := embedder.EmbedDocuments(context.Background(), []string{"a", "b"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "got 3, want 4")
	})

	t.Run("query embedding", func(t *testing.T) {
		inner := &stubEmbeddings{
			embedQuery: func(ctx context.Context, text string) ([]float32, error) {
				return make([]float32, 768), nil
			},
		}
		embedder := newTestEmbedder(inner, time.Second, 4)

		_, err := embedder.EmbedQuery(context.Background(), "query")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "got 768, want 4")
	})
}
