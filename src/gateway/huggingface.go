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

const defaultHFBaseURL = "https://api-inference.huggingface.co"

type huggingFaceAdapter struct {
	baseURL    string
	httpClient *http.Client
}

func (a *huggingFaceAdapter) complete(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	payload := map[string]any{
		"inputs": buildTranscript(req.Messages, true),
		"parameters": map[string]any{
			"temperature":      req.Temperature,
			"max_new_tokens":   req.MaxTokens,
			"return_full_text": false,
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	base := a.baseURL
	if base == "" {
		base = defaultHFBaseURL
	}
	url := fmt.Sprintf("%s/models/%s", strings.TrimSuffix(base, "/"), req.Model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.ProviderError{
			Provider: models.ProviderHuggingFace,
			Status:   resp.StatusCode,
			Message:  extractErrorMessage(body, resp.Status),
		}
	}

	content, err := decodeGeneratedText(body)
	if err != nil {
		return nil, err
	}

	// The inference API reports no token counts.
	return &models.ChatResponse{
		Content:  content,
		Usage:    models.Usage{},
		Model:    req.Model,
		Provider: models.ProviderHuggingFace,
	}, nil
}

// decodeGeneratedText accepts both shapes the inference API produces: a
// one-element array of objects, or a bare object, each carrying
// generated_text.
func decodeGeneratedText(body []byte) (string, error) {
	type generation struct {
		GeneratedText string `json:"generated_text"`
	}

	var list []generation
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		return strings.TrimSpace(list[0].GeneratedText), nil
	}

	var single generation
	if err := json.Unmarshal(body, &single); err == nil && single.GeneratedText != "" {
		return strings.TrimSpace(single.GeneratedText), nil
	}

	return "", fmt.Errorf("unexpected huggingface response shape: %s", truncate(string(body), 200))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
