// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pdiddy/serp-analyzer/internal/httputil"
	"github.com/pdiddy/serp-analyzer/pkg/types"
)

// serperSearchURL is the Serper Google search endpoint. Declared as a var
// so tests can substitute an httptest server.
var serperSearchURL = "https://google.serper.dev/search"

// SerperProvider queries the Serper API. Any request failure, non-200
// status, or undecodable body is logged and replaced by MockResults.
type SerperProvider struct {
	Client *http.Client
	APIKey string
	Config types.SearchConfig
	Logger *slog.Logger
}

// Name returns the provider identifier.
func (p *SerperProvider) Name() string { return "serper" }

// FetchResults returns at most limit organic results for query. It does not
// return an error for provider failures; only a cancelled ctx is reported.
func (p *SerperProvider) FetchResults(ctx context.Context, query string, limit int) ([]types.TextRecord, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("provider", p.Name())
	num := capLimit(limit, p.Config.ProviderLimit)

	if p.APIKey == "" {
		logger.Warn("no Serper API key configured, using mock data fallback")
		return MockResults(query, num), nil
	}

	results, err := p.fetch(ctx, query, num)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("Serper request failed, using mock data fallback", "error", err)
		return MockResults(query, num), nil
	}
	if len(results) > num {
		results = results[:num]
	}
	logger.Debug("fetched search results", "query", query, "count", len(results))
	return results, nil
}

func (p *SerperProvider) fetch(ctx context.Context, query string, num int) ([]types.TextRecord, error) {
	if p.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Config.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(serperRequest{Q: query, Num: num})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperSearchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-KEY", p.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if p.Config.UserAgent != "" {
		req.Header.Set("User-Agent", p.Config.UserAgent)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithBackoff(ctx, client, req, p.Config.MaxRetries, p.Config.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("Serper API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Serper API returned HTTP %d", resp.StatusCode)
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Serper response: %w", err)
	}
	return sr.records(), nil
}

// records converts organic results to TextRecords ranked from 1. A
// response without an organic array yields no records.
func (sr serperResponse) records() []types.TextRecord {
	results := make([]types.TextRecord, 0, len(sr.Organic))
	for i, item := range sr.Organic {
		results = append(results, types.TextRecord{
			Title:       item.Title,
			Link:        item.Link,
			Snippet:     item.Snippet,
			DisplayLink: DisplayLink(item.Link),
			Position:    i + 1,
		})
	}
	return results
}

// Serper API JSON structures.
type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []serperOrganic `json:"organic"`
}

type serperOrganic struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
