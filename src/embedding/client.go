package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/govscout/govscout/src/config"
	"github.com/govscout/govscout/src/models"
)

const defaultHFBaseURL = "https://api-inference.huggingface.co"

// Client converts text into embedding vectors via a provider backend.
// Identical (provider, text) pairs never re-call the upstream: results are
// held in a size-bounded in-process cache. Failures propagate to the caller
// with no retry at this layer.
type Client struct {
	httpClient    *http.Client
	openaiBaseURL string
	hfBaseURL     string
	hfModel       string

	mu         sync.Mutex
	cache      map[string][]float32
	order      []string
	maxEntries int
}

func NewClient(cfg *config.EmbeddingConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxEntries := cfg.MaxCacheEntries
	if maxEntries == 0 {
		maxEntries = 1000
	}
	hfBase := cfg.HFBaseURL
	if hfBase == "" {
		hfBase = defaultHFBaseURL
	}

	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		openaiBaseURL: cfg.OpenAIBaseURL,
		hfBaseURL:     hfBase,
		hfModel:       cfg.HFModel,
		cache:         make(map[string][]float32),
		maxEntries:    maxEntries,
	}
}

func (c *Client) Embed(ctx context.Context, provider, text, apiKey string) ([]float32, error) {
	if text == "" {
		return nil, &models.ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if apiKey == "" {
		return nil, &models.ValidationError{Field: "api_key", Reason: "embedding API key is required"}
	}

	cacheKey := provider + "|" + text
	if vec, ok := c.lookup(cacheKey); ok {
		return vec, nil
	}

	var (
		vec []float32
		err error
	)
	switch provider {
	case models.EmbeddingProviderOpenAI:
		vec, err = c.embedOpenAI(ctx, text, apiKey)
	case models.EmbeddingProviderHF:
		vec, err = c.embedHuggingFace(ctx, text, apiKey)
	default:
		return nil, &models.ValidationError{Field: "provider", Reason: fmt.Sprintf("unsupported embedding provider %q", provider)}
	}
	if err != nil {
		return nil, err
	}

	c.store(cacheKey, vec)
	return vec, nil
}

func (c *Client) embedOpenAI(ctx context.Context, text, apiKey string) ([]float32, error) {
	cfg := openai.DefaultConfig(apiKey)
	if c.openaiBaseURL != "" {
		cfg.BaseURL = c.openaiBaseURL
	}
	cfg.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.AdaEmbeddingV2,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &models.UpstreamError{Source: "openai-embeddings", Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, &models.UpstreamError{Source: "openai-embeddings", Status: http.StatusBadGateway, Body: "no embedding returned"}
	}

	return resp.Data[0].Embedding, nil
}

func (c *Client) embedHuggingFace(ctx context.Context, text, apiKey string) ([]float32, error) {
	payload, err := json.Marshal(map[string]any{"inputs": []string{text}})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/pipeline/feature-extraction/%s", strings.TrimSuffix(c.hfBaseURL, "/"), c.hfModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.UpstreamError{Source: "hf-embeddings", Status: resp.StatusCode, Body: string(body)}
	}

	return decodeHFVector(body)
}

// decodeHFVector accepts both response shapes the inference API produces:
// a batch ([[...]]) for list inputs and a bare vector ([...]).
func decodeHFVector(body []byte) ([]float32, error) {
	var batch [][]float32
	if err := json.Unmarshal(body, &batch); err == nil && len(batch) > 0 {
		return batch[0], nil
	}

	var vec []float32
	if err := json.Unmarshal(body, &vec); err == nil && len(vec) > 0 {
		return vec, nil
	}

	return nil, fmt.Errorf("unexpected huggingface embedding response shape: %s", truncate(string(body), 200))
}

func (c *Client) lookup(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vec, ok := c.cache[key]
	return vec, ok
}

// store inserts a vector, evicting the oldest half of the cache once the
// configured maximum is reached.
func (c *Client) store(key string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache[key]; exists {
		return
	}

	if len(c.order) >= c.maxEntries {
		cut := len(c.order) / 2
		for _, old := range c.order[:cut] {
			delete(c.cache, old)
		}
		c.order = append([]string(nil), c.order[cut:]...)
	}

	c.cache[key] = vec
	c.order = append(c.order, key)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
