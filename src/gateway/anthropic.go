package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/govscout/govscout/src/models"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"

	// Wire styles; both are valid Anthropic endpoints and the one in use is
	// chosen by configuration.
	anthropicStyleMessages = "messages"
	anthropicStyleComplete = "complete"
)

type anthropicAdapter struct {
	baseURL    string
	style      string
	httpClient *http.Client
}

func (a *anthropicAdapter) complete(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if a.style == anthropicStyleComplete {
		return a.completePrompt(ctx, req)
	}
	return a.completeMessages(ctx, req)
}

// completeMessages sends a structured system + messages array to /v1/messages.
func (a *anthropicAdapter) completeMessages(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	type wireMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	turns := withoutSystemTurns(req.Messages)
	wireMessages := make([]wireMessage, 0, len(turns))
	for _, msg := range turns {
		wireMessages = append(wireMessages, wireMessage{Role: msg.Role, Content: msg.Content})
	}

	payload := map[string]any{
		"model":       req.Model,
		"system":      systemPrompt,
		"messages":    wireMessages,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	}

	body, err := a.post(ctx, "/v1/messages", req.APIKey, payload)
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode anthropic response: %w", err)
	}

	var sb strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return &models.ChatResponse{
		Content: sb.String(),
		Usage: models.Usage{
			PromptTokens:     decoded.Usage.InputTokens,
			CompletionTokens: decoded.Usage.OutputTokens,
			TotalTokens:      decoded.Usage.InputTokens + decoded.Usage.OutputTokens,
		},
		Model:    req.Model,
		Provider: models.ProviderAnthropic,
	}, nil
}

// completePrompt sends a Human:/Assistant: transcript to the legacy
// /v1/complete endpoint, stopping generation at the next Human turn. The
// endpoint reports no token counts, so usage stays zero.
func (a *anthropicAdapter) completePrompt(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	payload := map[string]any{
		"model":                req.Model,
		"prompt":               buildTranscript(req.Messages, true),
		"max_tokens_to_sample": req.MaxTokens,
		"temperature":          req.Temperature,
		"stop_sequences":       []string{"\n\nHuman:"},
	}

	body, err := a.post(ctx, "/v1/complete", req.APIKey, payload)
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Completion string `json:"completion"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode anthropic response: %w", err)
	}

	return &models.ChatResponse{
		Content:  strings.TrimSpace(decoded.Completion),
		Usage:    models.Usage{},
		Model:    req.Model,
		Provider: models.ProviderAnthropic,
	}, nil
}

func (a *anthropicAdapter) post(ctx context.Context, path, apiKey string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	base := a.baseURL
	if base == "" {
		base = defaultAnthropicBaseURL
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(base, "/")+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.ProviderError{
			Provider: models.ProviderAnthropic,
			Status:   resp.StatusCode,
			Message:  extractErrorMessage(body, resp.Status),
		}
	}

	return body, nil
}
