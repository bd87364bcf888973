package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/govscout/govscout/src/models"
)

type openAIAdapter struct {
	baseURL    string
	httpClient *http.Client
}

func (a *openAIAdapter) complete(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	cfg := openai.DefaultConfig(req.APIKey)
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	cfg.HTTPClient = a.httpClient
	client := openai.NewClientWithConfig(cfg)

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range withoutSystemTurns(req.Messages) {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      false,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &models.ProviderError{
				Provider: models.ProviderOpenAI,
				Status:   apiErr.HTTPStatusCode,
				Message:  apiErr.Message,
			}
		}
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, &models.ProviderError{
			Provider: models.ProviderOpenAI,
			Status:   http.StatusBadGateway,
			Message:  "empty completion response",
		}
	}

	return &models.ChatResponse{
		Content: resp.Choices[0].Message.Content,
		Usage: models.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Model:    req.Model,
		Provider: models.ProviderOpenAI,
	}, nil
}
