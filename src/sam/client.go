package sam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/govscout/govscout/src/models"
)

const defaultBaseURL = "https://api.sam.gov/opportunities/v2/search"

// Client queries the SAM.gov opportunities search API. The upstream record
// schema is passed through; only field names are normalized.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type samOpportunity struct {
	NoticeID           string          `json:"noticeId"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Synopsis           string          `json:"synopsis"`
	Type               string          `json:"type"`
	NaicsCode          string          `json:"naicsCode"`
	Active             string          `json:"active"`
	Award              json.RawMessage `json:"award"`
	PointOfContact     json.RawMessage `json:"pointOfContact"`
	PlaceOfPerformance json.RawMessage `json:"placeOfPerformance"`
	Links              json.RawMessage `json:"links"`
}

type samResponse struct {
	TotalRecords      int              `json:"totalRecords"`
	OpportunitiesData []samOpportunity `json:"opportunitiesData"`
}

func (c *Client) Search(ctx context.Context, filters models.SearchFilters, apiKey string) (*models.SearchResult, error) {
	if apiKey == "" {
		return nil, &models.ValidationError{Field: "sam_api_key", Reason: "SAM.gov API key is required"}
	}

	q := url.Values{}
	q.Set("api_key", apiKey)
	if filters.Keyword != "" {
		q.Set("title", filters.Keyword)
	}
	if filters.NaicsCode != "" {
		q.Set("ncode", filters.NaicsCode)
	}
	if filters.Agency != "" {
		q.Set("organizationName", filters.Agency)
	}
	if filters.SetAside != "" {
		q.Set("typeOfSetAside", filters.SetAside)
	}
	if filters.PostedFrom != "" {
		q.Set("postedFrom", filters.PostedFrom)
	}
	if filters.PostedTo != "" {
		q.Set("postedTo", filters.PostedTo)
	}
	if filters.Limit > 0 {
		q.Set("limit", strconv.Itoa(filters.Limit))
	}
	if filters.Offset > 0 {
		q.Set("offset", strconv.Itoa(filters.Offset))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sam.gov request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &models.UpstreamError{Source: "sam.gov", Status: resp.StatusCode, Body: truncate(string(body), 500)}
	}

	var decoded samResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode sam.gov response: %w", err)
	}

	opportunities := make([]models.Opportunity, 0, len(decoded.OpportunitiesData))
	for _, record := range decoded.OpportunitiesData {
		opportunities = append(opportunities, models.Opportunity{
			ID:                 record.NoticeID,
			Title:              record.Title,
			Description:        record.Description,
			Synopsis:           record.Synopsis,
			Type:               record.Type,
			NaicsCode:          record.NaicsCode,
			Active:             record.Active,
			Award:              record.Award,
			PointOfContact:     record.PointOfContact,
			PlaceOfPerformance: record.PlaceOfPerformance,
			Links:              record.Links,
		})
	}

	return &models.SearchResult{
		Opportunities: opportunities,
		TotalCount:    decoded.TotalRecords,
	}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
