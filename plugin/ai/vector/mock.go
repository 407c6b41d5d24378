package vector

import (
	"context"
	"errors"
)

// MockIndex is a scriptable Index implementation for testing.
type MockIndex struct {
	CreateFunc func(ctx context.Context, collectionID string) error
	UpsertFunc func(ctx context.Context, collectionID string, ids []string, vectors [][]float32, documents []string) error
	QueryFunc  func(ctx context.Context, collectionID string, vector []float32, topK int) ([]Result, error)
	DeleteFunc func(ctx context.Context, collectionID string) error

	QueryCalls int
}

// NewMockIndex creates a mock whose every method fails, mimicking an
// unavailable vector backend. Override the funcs to script behavior.
func NewMockIndex() *MockIndex {
	return &MockIndex{}
}

func (m *MockIndex) CreateCollection(ctx context.Context, collectionID string) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, collectionID)
	}
	return errors.New("vector backend unavailable")
}

func (m *MockIndex) Upsert(ctx context.Context, collectionID string, ids []string, vectors [][]float32, documents []string) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, collectionID, ids, vectors, documents)
	}
	return errors.New("vector backend unavailable")
}

func (m *MockIndex) Query(ctx context.Context, collectionID string, vector []float32, topK int) ([]Result, error) {
	m.QueryCalls++
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, collectionID, vector, topK)
	}
	return nil, errors.New("vector backend unavailable")
}

func (m *MockIndex) DeleteCollection(ctx context.Context, collectionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, collectionID)
	}
	return errors.New("vector backend unavailable")
}

var _ Index = (*MockIndex)(nil)
