package openai

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// stubModel satisfies llms.Model so completion behavior can be tested
// without a live service.
type stubModel struct {
	generateContent func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

func (s *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return s.generateContent(ctx, messages, options...)
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := s.generateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func newTestGenerator(model llms.Model, timeout time.Duration) *Generator {
	return &Generator{
		client:  model,
		timeout: timeout,
		logger:  slog.Default().With("component", "openai-generator"),
	}
}

func TestGeneratorComplete(t *testing.T) {
	t.Run("returns the first choice", func(t *testing.T) {
		model := &stubModel{
			generateContent: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
				require.Len(t, messages, 2)
				return &llms.ContentResponse{
					Choices: []*llms.ContentChoice{{Content: "the answer"}},
				}, nil
			},
		}
		generator := newTestGenerator(model, time.Second)

		response, err := generator.Complete(context.Background(), "system", "user")
		require.NoError(t, err)
		assert.Equal(t, "the answer", response)
	})

	t.Run("call carries a deadline", func(t *testing.T) {
		var deadline time.Time
		var hasDeadline bool
		model := &stubModel{
			generateContent: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
				deadline, hasDeadline = ctx.Deadline()
				return &llms.ContentResponse{
					Choices: []*llms.ContentChoice{{Content: "ok"}},
				}, nil
			},
		}
		generator := newTestGenerator(model, 5*time.Second)

		_, err := generator.Complete(context.Background(), "system", "user")
		require.NoError(t, err)
		require.True(t, hasDeadline)
		assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
	})

	t.Run("stalled service fails instead of hanging", func(t *testing.T) {
		model := &stubModel{
			generateContent: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		generator := newTestGenerator(model, 20*time.Millisecond)

		_, err := generator.Complete(context.Background(), "system", "user")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("empty choices yield an empty response", func(t *testing.T) {
		model := &stubModel{
			generateContent: func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
				return &llms.ContentResponse{}, nil
			},
		}
		generator := newTestGenerator(model, time.Second)

		response, err := generator.Complete(context.Background(), "system", "user")
		require.NoError(t, err)
		assert.Empty(t, response)
	})
}
