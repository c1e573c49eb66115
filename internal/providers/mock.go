package providers

import (
	"context"
	"strings"
)

// MockClient returns deterministic analysis text. Used offline and in
// tests when no real backend is reachable.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	var b strings.Builder
	b.WriteString("Section 1 - Repeated questions:\nNo repeated questions found.\n\n")
	b.WriteString("Section 2 - Repeated questions with differences:\nNo repeated questions with differences found.\n\n")
	b.WriteString("Section 3 - Questions requiring diagrams:\nNo questions requiring diagrams found.\n\n")
	b.WriteString("Section 4 - Remaining questions:\nPaper 1: (mock output)\n\n")
	b.WriteString("Section 5 - Study recommendations:\nMock recommendation only; configure a real provider for semantic quality.\n\n")
	b.WriteString("Section 6 - Predictions:\nMock prediction only.")
	return b.String(), nil
}
