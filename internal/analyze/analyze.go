// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze runs the analysis pipeline for one query: fetch search
// results, classify every result concurrently, aggregate the labels, and
// package the report.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pdiddy/serp-analyzer/internal/aggregate"
	"github.com/pdiddy/serp-analyzer/internal/classify"
	"github.com/pdiddy/serp-analyzer/internal/dispatch"
	"github.com/pdiddy/serp-analyzer/internal/search"
	"github.com/pdiddy/serp-analyzer/pkg/types"
)

var (
	// ErrEmptyQuery is returned when the query is blank.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrInternal wraps any failure inside the pipeline. Callers at the
	// boundary report it without detail.
	ErrInternal = errors.New("internal analysis error")
)

// Dispatcher classifies a batch of records. *dispatch.Dispatcher implements it.
type Dispatcher interface {
	ClassifyAll(ctx context.Context, records []types.TextRecord) ([]classify.LabelSet, dispatch.Stats, error)
}

// Analyzer sequences the pipeline stages. It holds no per-request state
// and is safe for concurrent use.
type Analyzer struct {
	provider   search.Provider
	dispatcher Dispatcher
	registry   aggregate.Describer
	logger     *slog.Logger
	now        func() time.Time
}

// New returns an Analyzer over the given stages.
func New(provider search.Provider, dispatcher Dispatcher, registry aggregate.Describer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		provider:   provider,
		dispatcher: dispatcher,
		registry:   registry,
		logger:     logger,
		now:        time.Now,
	}
}

// Analyze fetches up to maxResults records for query and returns the
// aggregated section profile. A non-positive maxResults uses
// types.DefaultMaxResults. The report is either complete or not returned:
// every failure is reported as ErrEmptyQuery or wraps ErrInternal.
func (a *Analyzer) Analyze(ctx context.Context, query string, maxResults int) (types.AnalysisReport, error) {
	start := a.now()
	if strings.TrimSpace(query) == "" {
		return types.AnalysisReport{}, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = types.DefaultMaxResults
	}
	logger := a.logger.With("query", query)

	records, err := a.provider.FetchResults(ctx, query, maxResults)
	if err != nil {
		return types.AnalysisReport{}, fmt.Errorf("%w: fetching results from %s: %v", ErrInternal, a.provider.Name(), err)
	}
	if len(records) > maxResults {
		records = records[:maxResults]
	}

	sets, stats, err := a.dispatcher.ClassifyAll(ctx, records)
	if err != nil {
		return types.AnalysisReport{}, fmt.Errorf("%w: classifying results: %v", ErrInternal, err)
	}

	headings := aggregate.Aggregate(sets, len(records), a.registry)
	if headings == nil {
		headings = []types.AggregatedLabel{}
	}
	if records == nil {
		records = []types.TextRecord{}
	}

	elapsed := a.now().Sub(start)
	logger.Info("analysis complete",
		"results", len(records),
		"labels", len(headings),
		"completed", stats.Completed,
		"failed", stats.Failed,
		"timed_out", stats.TimedOut,
		"elapsed_ms", elapsed.Milliseconds(),
	)

	return types.AnalysisReport{
		Query:            query,
		TotalResults:     len(records),
		SearchResults:    records,
		SubHeadings:      headings,
		ProcessingTimeMs: elapsed.Milliseconds(),
	}, nil
}
