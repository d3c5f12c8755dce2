package mocks

import (
	"context"

	"github.com/replycal/replycal/internal/claude"
	"github.com/stretchr/testify/mock"
)

// MockExtractor is a mock implementation of the processor's Extractor
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Complete(ctx context.Context, req claude.ExtractionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockExtractor) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}
