package models

import (
	"encoding/json"
	"time"
)

// Chat providers supported by the gateway.
const (
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderHuggingFace = "huggingface"
)

// Embedding providers supported by the embedding client.
const (
	EmbeddingProviderOpenAI = "openai-embeddings"
	EmbeddingProviderHF     = "hf-embeddings"
)

type ChatMessage struct {
	Role      string    `json:"role"`    // "system", "user" or "assistant"
	Content   string    `json:"content"` // The actual message text
	Timestamp time.Time `json:"timestamp,omitempty"`
}

type ChatRequest struct {
	Provider    string        `json:"provider"`
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	// APIKey is the caller's upstream credential. It is forwarded verbatim
	// and must never appear in logs or error messages.
	APIKey         string `json:"api_key,omitempty"`
	CallerIdentity string `json:"-"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the single normalized shape returned for every provider.
// Callers never see provider-specific response bodies.
type ChatResponse struct {
	Content  string `json:"content"`
	Usage    Usage  `json:"usage"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

// Opportunity is a SAM.gov notice record. The upstream schema is passed
// through unmodified except for the score annotation added by ranking.
type Opportunity struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description,omitempty"`
	Synopsis           string          `json:"synopsis,omitempty"`
	Type               string          `json:"type,omitempty"`
	NaicsCode          string          `json:"naicsCode,omitempty"`
	Active             string          `json:"active,omitempty"`
	Award              json.RawMessage `json:"award,omitempty"`
	PointOfContact     json.RawMessage `json:"pointOfContact,omitempty"`
	PlaceOfPerformance json.RawMessage `json:"placeOfPerformance,omitempty"`
	Links              json.RawMessage `json:"links,omitempty"`
	Score              float64         `json:"score"`
}

type SearchFilters struct {
	Keyword    string `json:"keyword,omitempty"`
	NaicsCode  string `json:"naics_code,omitempty"`
	Agency     string `json:"agency,omitempty"`
	SetAside   string `json:"set_aside,omitempty"`
	PostedFrom string `json:"posted_from,omitempty"`
	PostedTo   string `json:"posted_to,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

type SearchRequest struct {
	Filters           SearchFilters `json:"filters"`
	SAMAPIKey         string        `json:"sam_api_key,omitempty"`
	SemanticQuery     string        `json:"semantic_query,omitempty"`
	EmbeddingProvider string        `json:"embedding_provider,omitempty"`
	EmbeddingAPIKey   string        `json:"embedding_api_key,omitempty"`
	CallerIdentity    string        `json:"-"`
}

type SearchResult struct {
	Opportunities []Opportunity `json:"opportunities"`
	TotalCount    int           `json:"total_count"`
	Ranked        bool          `json:"ranked"`
	CacheHit      bool          `json:"cache_hit"`
}

type EmbedDocumentRequest struct {
	Name     string `json:"name"`
	Text     string `json:"text"`
	Provider string `json:"provider,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

type DocumentChunk struct {
	Index     int       `json:"index"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

type EmbedDocumentResponse struct {
	Name       string          `json:"name"`
	Chunks     []DocumentChunk `json:"chunks"`
	Dimensions int             `json:"dimensions"`
}
