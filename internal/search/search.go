// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search fetches search-engine results for a query and returns them
// as TextRecords. Providers never fail outward: when the live provider is
// unavailable they substitute a deterministic synthetic result set.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/serp-analyzer/pkg/types"
)

// Provider fetches at most limit ranked records for query. Each provider
// (Serper, mock) implements this interface.
type Provider interface {
	Name() string
	FetchResults(ctx context.Context, query string, limit int) ([]types.TextRecord, error)
}

// DefaultProviderLimit is the most results a provider returns per query.
const DefaultProviderLimit = 10

// NewProvider builds the provider selected by cfg.
func NewProvider(cfg types.SearchConfig, logger *slog.Logger) (Provider, error) {
	switch cfg.Provider {
	case types.ProviderSerper, "":
		return &SerperProvider{
			Client: &http.Client{Timeout: cfg.Timeout},
			APIKey: cfg.APIKey,
			Config: cfg,
			Logger: logger,
		}, nil
	case types.ProviderMock:
		return &MockProvider{Limit: cfg.ProviderLimit}, nil
	default:
		return nil, fmt.Errorf("unknown search provider %q: use serper or mock", cfg.Provider)
	}
}

// DisplayLink returns the host of link with a leading "www." removed. When
// link cannot be parsed it is returned unchanged.
func DisplayLink(link string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// capLimit bounds the requested limit by the provider limit.
func capLimit(limit, providerLimit int) int {
	if providerLimit <= 0 {
		providerLimit = DefaultProviderLimit
	}
	if limit <= 0 || limit > providerLimit {
		return providerLimit
	}
	return limit
}
