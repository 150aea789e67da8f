// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AggregatedLabel summarizes one section label across every record of an
// analysis. Count never exceeds the number of records analyzed.
type AggregatedLabel struct {
	// Name is the section label (e.g. "Methodology").
	Name string `json:"name" yaml:"name"`

	// Description comes from the taxonomy registry.
	Description string `json:"description" yaml:"description"`

	// Count is the number of records in which the label was detected.
	Count int `json:"count" yaml:"count"`

	// Category is the registry category (e.g. "Research Content").
	Category string `json:"category" yaml:"category"`

	// Percentage is 100 * Count / total records.
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// AnalysisReport is the result of analyzing one query. It is built once
// per request and not modified afterwards.
type AnalysisReport struct {
	Query            string            `json:"query" yaml:"query"`
	TotalResults     int               `json:"totalResults" yaml:"total_results"`
	SearchResults    []TextRecord      `json:"searchResults" yaml:"search_results"`
	SubHeadings      []AggregatedLabel `json:"subHeadings" yaml:"sub_headings"`
	ProcessingTimeMs int64             `json:"processingTimeMs" yaml:"processing_time_ms"`
}

// DefaultMaxResults is used when a request does not set maxResults.
const DefaultMaxResults = 10

// AnalyzeRequest is the inbound request for an analysis.
type AnalyzeRequest struct {
	Query      string `json:"query" binding:"required"`
	MaxResults int    `json:"maxResults"`
}
