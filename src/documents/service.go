package documents

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/govscout/govscout/src/models"
)

const (
	chunkSize    = 1000
	chunkOverlap = 100
)

// Service embeds uploaded document text for later semantic reference. Text
// extraction happens upstream; this service receives plain text, splits it
// into overlapping chunks and embeds each one through the shared embedding
// client. Nothing is stored durably.
type Service struct {
	embedder models.Embedder
	splitter textsplitter.RecursiveCharacter
}

func NewService(embedder models.Embedder) *Service {
	return &Service{
		embedder: embedder,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

func (s *Service) EmbedDocument(ctx context.Context, req *models.EmbedDocumentRequest) (*models.EmbedDocumentResponse, error) {
	if req.Name == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "document name is required"}
	}
	if req.Text == "" {
		return nil, &models.ValidationError{Field: "text", Reason: "document text is required"}
	}

	provider := req.Provider
	if provider == "" {
		provider = models.EmbeddingProviderOpenAI
	}

	texts, err := s.splitter.SplitText(req.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to split document: %w", err)
	}

	chunks := make([]models.DocumentChunk, 0, len(texts))
	dimensions := 0
	for i, text := range texts {
		vec, err := s.embedder.Embed(ctx, provider, text, req.APIKey)
		if err != nil {
			return nil, err
		}
		dimensions = len(vec)
		chunks = append(chunks, models.DocumentChunk{
			Index:     i,
			Text:      text,
			Embedding: vec,
		})
	}

	return &models.EmbedDocumentResponse{
		Name:       req.Name,
		Chunks:     chunks,
		Dimensions: dimensions,
	}, nil
}
