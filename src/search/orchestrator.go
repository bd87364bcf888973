package search

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/govscout/govscout/src/models"
	"github.com/govscout/govscout/src/ranking"
)

const defaultTopN = 25

// Orchestrator composes the opportunity source, embedding client, ranker,
// result cache and rate limiter into one search cycle.
type Orchestrator struct {
	source   models.OpportunitySource
	embedder models.Embedder
	cache    models.CacheStore
	limiter  models.RequestLimiter
	window   time.Duration
	topN     int
}

func NewOrchestrator(
	source models.OpportunitySource,
	embedder models.Embedder,
	cache models.CacheStore,
	limiter models.RequestLimiter,
	window time.Duration,
) *Orchestrator {
	return &Orchestrator{
		source:   source,
		embedder: embedder,
		cache:    cache,
		limiter:  limiter,
		window:   window,
		topN:     defaultTopN,
	}
}

func (o *Orchestrator) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
	if !o.limiter.Allow(req.CallerIdentity) {
		return nil, &models.RateLimitedError{Scope: "search", RetryAfter: o.window}
	}

	key := CacheKey(req.Filters)
	if cached, err := o.cache.Get(ctx, key); err == nil && cached != nil {
		out := *cached
		out.CacheHit = true
		return &out, nil
	}

	result, err := o.source.Search(ctx, req.Filters, req.SAMAPIKey)
	if err != nil {
		return nil, err
	}

	// The pre-ranking, full result set is what gets cached; ranking depends
	// on the semantic query, which is not part of the cache key.
	_ = o.cache.Set(ctx, key, result)

	if req.SemanticQuery == "" {
		return result, nil
	}

	ranked, err := o.rank(ctx, req, result)
	if err != nil {
		// Degraded mode: an embedding failure never fails the whole search.
		log.Printf("semantic ranking unavailable, returning unranked results: %v", err)
		return result, nil
	}
	return ranked, nil
}

func (o *Orchestrator) rank(ctx context.Context, req *models.SearchRequest, result *models.SearchResult) (*models.SearchResult, error) {
	provider := req.EmbeddingProvider
	if provider == "" {
		provider = models.EmbeddingProviderOpenAI
	}

	queryVec, err := o.embedder.Embed(ctx, provider, req.SemanticQuery, req.EmbeddingAPIKey)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(result.Opportunities))
	for i, opp := range result.Opportunities {
		text := opportunityText(opp)
		if text == "" {
			continue
		}
		vec, err := o.embedder.Embed(ctx, provider, text, req.EmbeddingAPIKey)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}

	scored, err := ranking.Rank(queryVec, vectors)
	if err != nil {
		return nil, err
	}

	// The search path keeps positive scores only, truncated to the top N.
	ranked := make([]models.Opportunity, 0, o.topN)
	for _, s := range scored {
		if s.Score <= 0 {
			continue
		}
		opp := result.Opportunities[s.Index]
		opp.Score = s.Score
		ranked = append(ranked, opp)
		if len(ranked) == o.topN {
			break
		}
	}

	return &models.SearchResult{
		Opportunities: ranked,
		TotalCount:    result.TotalCount,
		Ranked:        true,
	}, nil
}

func opportunityText(opp models.Opportunity) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{opp.Title, opp.Description, opp.Synopsis} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
