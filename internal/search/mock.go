// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/serp-analyzer/pkg/types"
)

var mockSources = []string{
	"arXiv", "IEEE Xplore", "ACM Digital Library", "Springer", "Nature",
	"Science Direct", "JMLR", "NeurIPS", "ICML", "CVPR",
}

var mockTopics = []string{
	"Transformer Models", "CNN Architectures", "RNN Applications",
	"GANs", "Reinforcement Learning", "Transfer Learning",
	"Neural Architecture Search", "Attention Mechanisms",
	"Meta-Learning", "Few-Shot Learning",
}

// MockResults returns the deterministic synthetic result set used when the
// live provider is unavailable. It yields min(count, 10) records; the
// query does not influence the output.
func MockResults(query string, count int) []types.TextRecord {
	n := count
	if n > DefaultProviderLimit {
		n = DefaultProviderLimit
	}
	if n < 0 {
		n = 0
	}

	results := make([]types.TextRecord, 0, n)
	for i := 0; i < n; i++ {
		topic := mockTopics[i%len(mockTopics)]
		source := mockSources[i%len(mockSources)]
		results = append(results, types.TextRecord{
			Title: topic + " in Deep Learning: A Comprehensive Study",
			Link:  fmt.Sprintf("https://arxiv.org/abs/2024.%d", 1000+i),
			Snippet: "This paper presents a novel approach to " + strings.ToLower(topic) +
				". We introduce our methodology, describe the experimental setup, present results on benchmark datasets, " +
				"discuss the findings, and outline future work. Our architecture demonstrates state-of-the-art performance.",
			DisplayLink: strings.ReplaceAll(strings.ToLower(source), " ", ""),
			Position:    i + 1,
		})
	}
	return results
}

// MockProvider serves MockResults without network access.
type MockProvider struct {
	// Limit caps the result count (default 10).
	Limit int
}

// Name returns the provider identifier.
func (p *MockProvider) Name() string { return "mock" }

// FetchResults returns the synthetic result set for query.
func (p *MockProvider) FetchResults(ctx context.Context, query string, limit int) ([]types.TextRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return MockResults(query, capLimit(limit, p.Limit)), nil
}
