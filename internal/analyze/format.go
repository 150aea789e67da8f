// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/serp-analyzer/pkg/types"
)

// FormatTable writes the report as human-readable tables to w: the
// detected sections first, then the search results they were drawn from.
func FormatTable(r types.AnalysisReport, w io.Writer) {
	fmt.Fprintf(w, "Query: %s\n\n", r.Query)

	if len(r.SubHeadings) == 0 {
		fmt.Fprintln(w, "No sections detected.")
	} else {
		fmt.Fprintf(w, "%-18s  %-5s  %-7s  %-18s  %s\n",
			"Section", "Count", "Percent", "Category", "Description")
		fmt.Fprintln(w, strings.Repeat("-", 100))
		for _, h := range r.SubHeadings {
			fmt.Fprintf(w, "%-18s  %-5d  %6.1f%%  %-18s  %s\n",
				h.Name, h.Count, h.Percentage, h.Category, truncate(h.Description, 45))
		}
	}

	if len(r.SearchResults) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-4s  %-60s  %s\n", "Rank", "Title", "Source")
		fmt.Fprintln(w, strings.Repeat("-", 100))
		for _, rec := range r.SearchResults {
			fmt.Fprintf(w, "%-4d  %-60s  %s\n", rec.Position, truncate(rec.Title, 60), rec.DisplayLink)
		}
	}

	fmt.Fprintf(w, "\n%d results, %d sections in %d ms\n",
		r.TotalResults, len(r.SubHeadings), r.ProcessingTimeMs)
}

// FormatJSON writes the report as indented JSON to w.
func FormatJSON(r types.AnalysisReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// FormatYAML writes the report as YAML to w.
func FormatYAML(r types.AnalysisReport, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// Format writes r to w in the named format: table, json, or yaml.
func Format(r types.AnalysisReport, format string, w io.Writer) error {
	switch format {
	case "table", "":
		FormatTable(r, w)
		return nil
	case "json":
		return FormatJSON(r, w)
	case "yaml":
		return FormatYAML(r, w)
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
