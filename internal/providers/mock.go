package providers

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator returns deterministic text without any network call. It keeps
// the service runnable with no API key and backs the pipeline tests.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	prompt := req.Prompt
	if len(prompt) > 60 {
		prompt = prompt[:60] + "..."
	}
	return Response{Text: fmt.Sprintf("Mock explanation for: %s", strings.TrimSpace(prompt))}, nil
}
