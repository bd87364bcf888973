package models

import (
	"context"
)

// ChatCompleter normalizes chat completions across providers.
type ChatCompleter interface {
	Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// Embedder converts text into a fixed-length vector via a provider backend.
type Embedder interface {
	Embed(ctx context.Context, provider, text, apiKey string) ([]float32, error)
}

// OpportunitySource is the upstream procurement data source.
type OpportunitySource interface {
	Search(ctx context.Context, filters SearchFilters, apiKey string) (*SearchResult, error)
}

// CacheStore defines the interface for search result cache operations.
type CacheStore interface {
	Get(ctx context.Context, key string) (*SearchResult, error)
	Set(ctx context.Context, key string, result *SearchResult) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RequestLimiter throttles callers by identity.
type RequestLimiter interface {
	Allow(identity string) bool
}
