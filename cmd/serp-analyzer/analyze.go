// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/serp-analyzer/internal/analyze"
	"github.com/pdiddy/serp-analyzer/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [query]",
	Short: "Analyze search results for a query",
	Long: `Analyze fetches up to --max-results search results for the query,
classifies each one against the paper-section taxonomy, and prints the
detected sections ranked by how many results mention them.

Use --output to save the report as YAML and --from to re-render a saved
report without querying the search provider.`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.String("query", "", "search query (alternative to positional arguments)")
	f.Int("max-results", types.DefaultMaxResults, "maximum number of results to analyze")
	f.String("format", "table", "output format: table, json, or yaml")
	f.Bool("json", false, "shorthand for --format json")
	f.String("output", "", "also save the report as YAML to this file")
	f.String("from", "", "render a saved report file instead of running a query")
	f.Bool("offline", false, "use synthetic results instead of the Serper API")
	f.Int("workers", 0, "classification worker count (default from config, 10)")
	f.Duration("timeout", 0, "classification deadline (default from config, 30s)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		format = "json"
	}

	if from, _ := cmd.Flags().GetString("from"); from != "" {
		rf, err := analyze.ReadReportFile(from)
		if err != nil {
			return err
		}
		logger.Debug("rendering saved report", "path", from, "provider", rf.Provider, "saved", rf.Timestamp)
		return analyze.Format(rf.Report, format, os.Stdout)
	}

	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		query = strings.Join(args, " ")
	}
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("provide a query with --query or as arguments")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	v := viper.GetViper()
	if err := bindFlags(v, cmd.Flags(), map[string]string{
		"workers": "analysis.workers",
		"timeout": "analysis.timeout",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		cfg.Search.Provider = types.ProviderMock
	}

	analyzer, pool, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := analyzer.Analyze(ctx, query, maxResults)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		if err := analyze.WriteReportFile(out, string(cfg.Search.Provider), report); err != nil {
			return err
		}
		logger.Info("saved report", "path", out)
	}

	return analyze.Format(report, format, os.Stdout)
}
