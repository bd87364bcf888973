package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/govscout/govscout/src/config"
	"github.com/govscout/govscout/src/models"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
)

// adapter normalizes one provider's wire protocol into the shared
// ChatResponse shape. Adding a provider means adding one adapter, not
// branching in shared code.
type adapter interface {
	complete(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
}

// Gateway dispatches chat completions to the adapter selected by the
// request's provider tag, after validation and rate limiting.
type Gateway struct {
	limiter  models.RequestLimiter
	window   time.Duration
	adapters map[string]adapter
}

func New(cfg *config.ProvidersConfig, limiter models.RequestLimiter, window time.Duration) *Gateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	return &Gateway{
		limiter: limiter,
		window:  window,
		adapters: map[string]adapter{
			models.ProviderOpenAI: &openAIAdapter{
				baseURL:    cfg.OpenAIBaseURL,
				httpClient: httpClient,
			},
			models.ProviderAnthropic: &anthropicAdapter{
				baseURL:    cfg.AnthropicBaseURL,
				style:      cfg.AnthropicStyle,
				httpClient: httpClient,
			},
			models.ProviderHuggingFace: &huggingFaceAdapter{
				baseURL:    cfg.HuggingFaceBaseURL,
				httpClient: httpClient,
			},
		},
	}
}

func (g *Gateway) Complete(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if err := g.validate(req); err != nil {
		return nil, err
	}

	if !g.limiter.Allow(req.CallerIdentity) {
		return nil, &models.RateLimitedError{Scope: "chat", RetryAfter: g.window}
	}

	if req.Temperature == 0 {
		req.Temperature = defaultTemperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = defaultMaxTokens
	}

	return g.adapters[req.Provider].complete(ctx, req)
}

func (g *Gateway) validate(req *models.ChatRequest) error {
	if len(req.Messages) == 0 {
		return &models.ValidationError{Field: "messages", Reason: "at least one message is required"}
	}
	if req.Model == "" {
		return &models.ValidationError{Field: "model", Reason: "model is required"}
	}
	if req.APIKey == "" {
		return &models.ValidationError{Field: "api_key", Reason: "provider API key is required"}
	}
	if _, ok := g.adapters[req.Provider]; !ok {
		return &models.ValidationError{Field: "provider", Reason: fmt.Sprintf("unsupported provider %q", req.Provider)}
	}
	return nil
}

// extractErrorMessage pulls a human-readable message out of a provider error
// body. Providers disagree on shape, so all known variants are tried before
// falling back to the raw status text.
func extractErrorMessage(body []byte, fallback string) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}

	var flat struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil {
		if flat.Error != "" {
			return flat.Error
		}
		if flat.Message != "" {
			return flat.Message
		}
	}

	return fallback
}
