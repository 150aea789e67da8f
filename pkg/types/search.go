// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the serp-analyzer pipeline:
// search records, per-label aggregates, analysis reports, and configuration.
package types

// TextRecord is one search-engine result, the unit of classification.
// Records are produced by a search provider and never modified afterwards.
type TextRecord struct {
	// Title is the result title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// Link is the result URL.
	Link string `json:"link" yaml:"link"`

	// Snippet is the short text excerpt shown under the title.
	Snippet string `json:"snippet" yaml:"snippet"`

	// DisplayLink is the result host with any leading "www." removed.
	DisplayLink string `json:"displayLink" yaml:"display_link"`

	// Position is the 1-based rank of the result in the provider response.
	Position int `json:"position" yaml:"position"`
}

// Text returns the title and snippet joined by a single space.
func (r TextRecord) Text() string {
	return r.Title + " " + r.Snippet
}
