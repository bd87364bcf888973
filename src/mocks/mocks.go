package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/govscout/govscout/src/models"
)

// MockChatCompleter implements models.ChatCompleter
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) Complete(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatResponse), args.Error(1)
}

// MockEmbedder implements models.Embedder
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, provider, text, apiKey string) ([]float32, error) {
	args := m.Called(ctx, provider, text, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockOpportunitySource implements models.OpportunitySource
type MockOpportunitySource struct {
	mock.Mock
}

func (m *MockOpportunitySource) Search(ctx context.Context, filters models.SearchFilters, apiKey string) (*models.SearchResult, error) {
	args := m.Called(ctx, filters, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchResult), args.Error(1)
}

// MockCache implements models.CacheStore
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (*models.SearchResult, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchResult), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, result *models.SearchResult) error {
	args := m.Called(ctx, key, result)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockLimiter implements models.RequestLimiter
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(identity string) bool {
	args := m.Called(identity)
	return args.Bool(0)
}

// AllowAllLimiter is a RequestLimiter that never throttles, for tests that
// exercise paths beyond the limiter.
type AllowAllLimiter struct{}

func (AllowAllLimiter) Allow(string) bool { return true }
