package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docfind/core"
)

func makeDoc(title, text string) *core.Document {
	return &core.Document{
		Title:       title,
		Text:        text,
		ChunkIndex:  0,
		TotalChunks: 1,
	}
}

func TestTokenize(t *testing.T) {
	t.Run("lowercases and splits on punctuation", func(t *testing.T) {
		tokens := tokenize("Reset the User's password, via /settings/security!")
		assert.Equal(t, []string{"reset", "the", "user", "s", "password", "via", "settings", "security"}, tokens)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, tokenize(""))
		assert.Empty(t, tokenize("  \n\t "))
	})
}

func TestNewKeywordRanker(t *testing.T) {
	t.Run("rejects empty corpus", func(t *testing.T) {
		_, err := NewKeywordRanker(nil)
		assert.ErrorIs(t, err, ErrEmptyCorpus)

		_, err = NewKeywordRanker([]*core.Document{})
		assert.ErrorIs(t, err, ErrEmptyCorpus)
	})
}

func TestKeywordRankerRank(t *testing.T) {
	ctx := context.Background()

	docs := []*core.Document{
		makeDoc("Billing", "invoices and billing cycles for enterprise accounts"),
		makeDoc("Passwords", "password reset flow with email verification and password policies"),
		makeDoc("Sessions", "session expiry and token refresh"),
	}
	ranker, err := NewKeywordRanker(docs)
	require.NoError(t, err)

	t.Run("matching document ranks first", func(t *testing.T) {
		results, err := ranker.Rank(ctx, "password reset", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "Passwords", results[0].Document.Title)
		assert.Equal(t, 0, results[0].Rank)
	})

	t.Run("documents without query terms are omitted", func(t *testing.T) {
		results, err := ranker.Rank(ctx, "billing", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Billing", results[0].Document.Title)
	})

	t.Run("no matches yields empty list", func(t *testing.T) {
		results, err := ranker.Rank(ctx, "zzzunknown", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("truncates to k", func(t *testing.T) {
		results, err := ranker.Rank(ctx, "and", 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("ranks are sequential from zero", func(t *testing.T) {
		results, err := ranker.Rank(ctx, "and", 10)
		require.NoError(t, err)
		for i, r := range results {
			assert.Equal(t, i, r.Rank)
		}
	})
}

func TestKeywordRankerTieBreaking(t *testing.T) {
	// Identical texts score identically; corpus order must decide.
	docs := []*core.Document{
		makeDoc("First", "webhook delivery retries"),
		makeDoc("Second", "webhook delivery retries"),
		makeDoc("Third", "webhook delivery retries"),
	}
	ranker, err := NewKeywordRanker(docs)
	require.NoError(t, err)

	for range 5 {
		results, err := ranker.Rank(context.Background(), "webhook retries", 10)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "First", results[0].Document.Title)
		assert.Equal(t, "Second", results[1].Document.Title)
		assert.Equal(t, "Third", results[2].Document.Title)
	}
}

func TestKeywordRankerCancelledContext(t *testing.T) {
	ranker, err := NewKeywordRanker([]*core.Document{makeDoc("A", "some text")})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ranker.Rank(ctx, "text", 5)
	assert.ErrorIs(t, err, context.Canceled)
}
