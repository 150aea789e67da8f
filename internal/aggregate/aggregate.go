// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate merges per-record label sets into ranked,
// percentage-annotated label summaries.
package aggregate

import (
	"sort"

	"github.com/pdiddy/serp-analyzer/internal/classify"
	"github.com/pdiddy/serp-analyzer/internal/taxonomy"
	"github.com/pdiddy/serp-analyzer/pkg/types"
)

// Describer supplies label metadata. *taxonomy.Registry implements it.
type Describer interface {
	Describe(label taxonomy.Label) (string, taxonomy.Category)
}

// Count returns, for each label present in at least one set, the number
// of sets containing it.
func Count(sets []classify.LabelSet) map[taxonomy.Label]int {
	counts := make(map[taxonomy.Label]int)
	for _, s := range sets {
		for l := range s {
			counts[l]++
		}
	}
	return counts
}

// Aggregate counts labels across sets and returns one AggregatedLabel per
// detected label, sorted by count descending and then by label name.
// Percentages use totalRecords as the denominator. A non-positive
// totalRecords yields nil.
func Aggregate(sets []classify.LabelSet, totalRecords int, reg Describer) []types.AggregatedLabel {
	if totalRecords <= 0 {
		return nil
	}

	counts := Count(sets)
	out := make([]types.AggregatedLabel, 0, len(counts))
	for label, n := range counts {
		desc, cat := reg.Describe(label)
		out = append(out, types.AggregatedLabel{
			Name:        string(label),
			Description: desc,
			Count:       n,
			Category:    string(cat),
			Percentage:  float64(n) * 100.0 / float64(totalRecords),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
