package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govscout/govscout/src/config"
	"github.com/govscout/govscout/src/models"
	"github.com/govscout/govscout/src/ratelimit"
)

func newTestGateway(cfg *config.ProvidersConfig) *Gateway {
	return New(cfg, ratelimit.NewLimiter(1000, time.Minute), time.Minute)
}

func minimalRequest(provider string) *models.ChatRequest {
	return &models.ChatRequest{
		Provider: provider,
		Model:    "test-model",
		Messages: []models.ChatMessage{{Role: "user", Content: "hello"}},
		APIKey:   "test-key",
	}
}

func TestGateway_Validation(t *testing.T) {
	gateway := newTestGateway(&config.ProvidersConfig{})

	tests := []struct {
		name string
		req  *models.ChatRequest
	}{
		{"no messages", &models.ChatRequest{Provider: "openai", Model: "m", APIKey: "k"}},
		{"no model", &models.ChatRequest{Provider: "openai", APIKey: "k", Messages: []models.ChatMessage{{Role: "user", Content: "hi"}}}},
		{"no api key", &models.ChatRequest{Provider: "openai", Model: "m", Messages: []models.ChatMessage{{Role: "user", Content: "hi"}}}},
		{"unknown provider", &models.ChatRequest{Provider: "cohere", Model: "m", APIKey: "k", Messages: []models.ChatMessage{{Role: "user", Content: "hi"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gateway.Complete(context.Background(), tt.req)
			var validation *models.ValidationError
			require.ErrorAs(t, err, &validation, "must be rejected before any network call")
		})
	}
}

func TestGateway_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}],"usage":{}}`)
	}))
	defer server.Close()

	gateway := New(&config.ProvidersConfig{OpenAIBaseURL: server.URL}, ratelimit.NewLimiter(1, time.Minute), time.Minute)

	req := minimalRequest("openai")
	req.CallerIdentity = "10.0.0.9"

	_, err := gateway.Complete(context.Background(), req)
	require.NoError(t, err)

	_, err = gateway.Complete(context.Background(), req)
	var limited *models.RateLimitedError
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, "chat", limited.Scope)
}

func TestGateway_OpenAI(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Stream bool `json:"stream"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Hello there"}}],"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`)
	}))
	defer server.Close()

	gateway := newTestGateway(&config.ProvidersConfig{OpenAIBaseURL: server.URL})

	resp, err := gateway.Complete(context.Background(), minimalRequest("openai"))
	require.NoError(t, err)

	assert.Equal(t, "Hello there", resp.Content)
	assert.Equal(t, models.Usage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15}, resp.Usage)
	assert.Equal(t, "openai", resp.Provider)
	assert.Equal(t, "test-model", resp.Model)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role, "system prompt goes first")
	assert.Contains(t, captured.Messages[0].Content, "federal government contracting")
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.False(t, captured.Stream)
}

func TestGateway_OpenAI_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	gateway := newTestGateway(&config.ProvidersConfig{OpenAIBaseURL: server.URL})

	_, err := gateway.Complete(context.Background(), minimalRequest("openai"))
	var providerErr *models.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusUnauthorized, providerErr.Status)
	assert.Contains(t, providerErr.Message, "Incorrect API key")
	assert.NotContains(t, providerErr.Error(), "test-key", "errors must never echo the credential")
}

func TestGateway_AnthropicMessages(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		System   string `json:"system"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		MaxTokens int `json:"max_tokens"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{"content":[{"type":"text","text":"Hi from Claude"}],"usage":{"input_tokens":10,"output_tokens":4}}`)
	}))
	defer server.Close()

	gateway := newTestGateway(&config.ProvidersConfig{AnthropicBaseURL: server.URL, AnthropicStyle: "messages"})

	req := minimalRequest("anthropic")
	req.Messages = append([]models.ChatMessage{{Role: "system", Content: "ignored inline"}}, req.Messages...)

	resp, err := gateway.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Hi from Claude", resp.Content)
	assert.Equal(t, models.Usage{PromptTokens: 10, CompletionTokens: 4, TotalTokens: 14}, resp.Usage)
	assert.Equal(t, "anthropic", resp.Provider)

	assert.Contains(t, captured.System, "federal government contracting")
	require.Len(t, captured.Messages, 1, "system-role turns are filtered from the messages array")
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, defaultMaxTokens, captured.MaxTokens)
}

func TestGateway_AnthropicComplete(t *testing.T) {
	var captured struct {
		Prompt            string   `json:"prompt"`
		MaxTokensToSample int      `json:"max_tokens_to_sample"`
		StopSequences     []string `json:"stop_sequences"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/complete", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{"completion":" Hello from the legacy endpoint"}`)
	}))
	defer server.Close()

	gateway := newTestGateway(&config.ProvidersConfig{AnthropicBaseURL: server.URL, AnthropicStyle: "complete"})

	resp, err := gateway.Complete(context.Background(), minimalRequest("anthropic"))
	require.NoError(t, err)

	assert.Equal(t, "Hello from the legacy endpoint", resp.Content)
	assert.Equal(t, models.Usage{}, resp.Usage, "the legacy endpoint reports no token counts")

	assert.True(t, strings.HasPrefix(captured.Prompt, systemPrompt), "transcript starts with the system prompt")
	assert.Contains(t, captured.Prompt, "\n\nHuman: hello")
	assert.True(t, strings.HasSuffix(captured.Prompt, "\n\nAssistant:"))
	assert.Equal(t, []string{"\n\nHuman:"}, captured.StopSequences)
}

func TestGateway_AnthropicErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"type":"rate_limit_error","message":"Number of requests exceeded"}}`)
	}))
	defer server.Close()

	gateway := newTestGateway(&config.ProvidersConfig{AnthropicBaseURL: server.URL})

	_, err := gateway.Complete(context.Background(), minimalRequest("anthropic"))
	var providerErr *models.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusTooManyRequests, providerErr.Status)
	assert.Contains(t, providerErr.Message, "Number of requests exceeded")
}

func TestGateway_HuggingFace_ArrayShape(t *testing.T) {
	var captured struct {
		Inputs     string `json:"inputs"`
		Parameters struct {
			MaxNewTokens   int  `json:"max_new_tokens"`
			ReturnFullText bool `json:"return_full_text"`
		} `json:"parameters"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `[{"generated_text":"Generated reply"}]`)
	}))
	defer server.Close()

	gateway := newTestGateway(&config.ProvidersConfig{HuggingFaceBaseURL: server.URL})

	resp, err := gateway.Complete(context.Background(), minimalRequest("huggingface"))
	require.NoError(t, err)

	assert.Equal(t, "Generated reply", resp.Content)
	assert.Equal(t, models.Usage{}, resp.Usage, "hugging face reports no token counts")
	assert.Equal(t, "huggingface", resp.Provider)

	assert.True(t, strings.HasPrefix(captured.Inputs, systemPrompt))
	assert.Contains(t, captured.Inputs, "\n\nHuman: hello")
	assert.Equal(t, defaultMaxTokens, captured.Parameters.MaxNewTokens)
	assert.False(t, captured.Parameters.ReturnFullText)
}

func TestGateway_HuggingFace_ObjectShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"generated_text":"Object shaped reply"}`)
	}))
	defer server.Close()

	gateway := newTestGateway(&config.ProvidersConfig{HuggingFaceBaseURL: server.URL})

	resp, err := gateway.Complete(context.Background(), minimalRequest("huggingface"))
	require.NoError(t, err)
	assert.Equal(t, "Object shaped reply", resp.Content)
}

func TestGateway_HuggingFace_ErrorStatusPreserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error":"Model test-model is currently loading"}`)
	}))
	defer server.Close()

	gateway := newTestGateway(&config.ProvidersConfig{HuggingFaceBaseURL: server.URL})

	_, err := gateway.Complete(context.Background(), minimalRequest("huggingface"))
	var providerErr *models.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusServiceUnavailable, providerErr.Status)
	assert.Contains(t, providerErr.Message, "currently loading")
}

// Every adapter must produce the same normalized shape for an equivalent
// minimal conversation.
func TestGateway_NormalizedResponseShape(t *testing.T) {
	openaiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"hi"}}],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`)
	}))
	defer openaiServer.Close()
	anthropicServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[{"type":"text","text":"hi"}],"usage":{"input_tokens":1,"output_tokens":1}}`)
	}))
	defer anthropicServer.Close()
	hfServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"generated_text":"hi"}]`)
	}))
	defer hfServer.Close()

	gateway := newTestGateway(&config.ProvidersConfig{
		OpenAIBaseURL:      openaiServer.URL,
		AnthropicBaseURL:   anthropicServer.URL,
		HuggingFaceBaseURL: hfServer.URL,
	})

	for _, provider := range []string{"openai", "anthropic", "huggingface"} {
		t.Run(provider, func(t *testing.T) {
			resp, err := gateway.Complete(context.Background(), minimalRequest(provider))
			require.NoError(t, err)

			assert.NotEmpty(t, resp.Content)
			assert.Equal(t, provider, resp.Provider)
			assert.GreaterOrEqual(t, resp.Usage.PromptTokens, 0)
			assert.GreaterOrEqual(t, resp.Usage.CompletionTokens, 0)
			assert.GreaterOrEqual(t, resp.Usage.TotalTokens, 0)
		})
	}
}

func TestExtractErrorMessage(t *testing.T) {
	assert.Equal(t, "bad key", extractErrorMessage([]byte(`{"error":{"message":"bad key"}}`), "fallback"))
	assert.Equal(t, "overloaded", extractErrorMessage([]byte(`{"error":"overloaded"}`), "fallback"))
	assert.Equal(t, "not found", extractErrorMessage([]byte(`{"message":"not found"}`), "fallback"))
	assert.Equal(t, "502 Bad Gateway", extractErrorMessage([]byte(`<html>upstream error</html>`), "502 Bad Gateway"))
}
