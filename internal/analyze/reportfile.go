// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/serp-analyzer/pkg/types"
)

// ReportFile is the on-disk snapshot of one analysis. A saved report can be
// rendered again later without querying the search provider.
type ReportFile struct {
	Provider  string               `yaml:"provider"`
	Timestamp time.Time            `yaml:"timestamp"`
	Report    types.AnalysisReport `yaml:"report"`
}

// WriteReportFile saves report to path as YAML.
func WriteReportFile(path, provider string, report types.AnalysisReport) error {
	rf := ReportFile{
		Provider:  provider,
		Timestamp: time.Now().UTC(),
		Report:    report,
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling report file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReportFile loads a report previously saved with WriteReportFile.
func ReadReportFile(path string) (*ReportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	var rf ReportFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing report file: %w", err)
	}
	return &rf, nil
}
