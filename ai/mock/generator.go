package mock

import "context"

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns a fixed canned response.
	CompleteFunc func(ctx context.Context, systemPrompt, userMessage string) (string, error)

	callCount int
}

// NewMockGenerator creates a mock generator with a fixed canned response.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Complete returns the injected response or a fixed placeholder.
func (m *MockGenerator) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userMessage)
	}

	return "mock response", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
}
