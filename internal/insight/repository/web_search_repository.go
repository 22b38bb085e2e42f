package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-stock-insight/internal/insight/config"
	"golang-stock-insight/internal/insight/dto"
	"golang-stock-insight/pkg/logger"

	"golang.org/x/time/rate"
)

type webSearchRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewWebSearchRepository creates a SearchRepository backed by the web-search
// HTTP API.
func NewWebSearchRepository(cfg *config.Config, log *logger.Logger) SearchRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Search.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &webSearchRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		requestLimiter: requestLimiter,
	}
}

// Search runs one query and normalizes every provider result into a
// SearchDocument before it leaves this package. Fewer than count results is
// a valid outcome.
func (r *webSearchRepository) Search(ctx context.Context, query, domainFilter, recencyFilter string, count int) ([]dto.SearchDocument, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.WebSearchRequest{
		SearchQuery:         query,
		Count:               count,
		SearchDomainFilter:  domainFilter,
		SearchRecencyFilter: recencyFilter,
		ContentSize:         "high",
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Search.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.Search.APIKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to search API", logger.ErrorField(err), logger.StringField("query", query))
		return nil, fmt.Errorf("failed to send request to search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-OK response from search API: %d - %s", resp.StatusCode, string(body))
	}

	var searchResp dto.WebSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	docs := make([]dto.SearchDocument, 0, len(searchResp.SearchResult))
	for _, res := range searchResp.SearchResult {
		if count > 0 && len(docs) >= count {
			break
		}
		docs = append(docs, normalizeResult(res))
	}

	r.log.DebugContext(ctx, "Search completed",
		logger.StringField("query", query),
		logger.IntField("results", len(docs)),
	)
	return docs, nil
}

// normalizeResult maps a loose provider record onto the fixed document shape:
// first usable content field wins, title is the content of last resort.
func normalizeResult(res dto.WebSearchResult) dto.SearchDocument {
	content := res.Content
	if content == "" {
		content = res.ContentSummary
	}
	if content == "" {
		content = res.Snippet
	}
	if content == "" {
		content = res.Title
	}

	link := res.Link
	if link == "" {
		link = res.URL
	}

	return dto.SearchDocument{
		Title:   res.Title,
		Content: content,
		Link:    link,
	}
}
