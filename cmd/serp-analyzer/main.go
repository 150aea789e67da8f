// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the serp-analyzer CLI. It analyzes
// web search results for a query and reports which academic-paper
// sections the results point to, either once from the command line or
// behind an HTTP API.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/serp-analyzer/internal/logging"
	"github.com/pdiddy/serp-analyzer/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is configured from --log-format and --log-level before any
	// subcommand runs.
	logger = slog.Default()

	// loadedSecrets holds API keys from .secrets/ and .env, in that order.
	loadedSecrets []map[string]string
)

// rootCmd is the base command for the serp-analyzer CLI.
var rootCmd = &cobra.Command{
	Use:   "serp-analyzer",
	Short: "Profile search results by academic paper section",
	Long: `serp-analyzer fetches web search results for a query, classifies each
result against a fixed taxonomy of academic paper sections (Abstract,
Methodology, Results, ...), and reports how often each section appears.

Use "analyze" for a one-off report and "serve" to expose the analyzer over
HTTP. Results come from the Serper API when a key is configured and from a
deterministic synthetic set otherwise.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("log-format")
		level, _ := cmd.Flags().GetString("log-level")
		l, err := logging.New(os.Stderr, format, level)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)

		if path := viper.ConfigFileUsed(); path != "" {
			logger.Debug("using config file", "path", path)
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		fileSecrets, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		envFile, _ := cmd.Flags().GetString("env-file")
		envSecrets, err := secrets.LoadEnvFile(envFile)
		if err != nil {
			return err
		}
		loadedSecrets = []map[string]string{fileSecrets, envSecrets}

		if keys := secretNames(loadedSecrets); len(keys) > 0 {
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./serp-analyzer.yaml or ~/.config/serp-analyzer/serp-analyzer.yaml)")
	pf.String("log-format", logging.FormatPretty, "log output format: pretty or json")
	pf.String("log-level", "info", "log level: debug, info, warn, or error")
	pf.String("secrets-dir", ".secrets/", "directory of secret files")
	pf.String("env-file", ".env", "dotenv file with secrets such as SERPER_API_KEY")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("serp-analyzer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "serp-analyzer"))
		}
	}

	viper.SetEnvPrefix("SERP_ANALYZER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func secretNames(sources []map[string]string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, src := range sources {
		for k := range src {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
