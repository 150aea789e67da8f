// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/serp-analyzer/internal/analyze"
	"github.com/pdiddy/serp-analyzer/internal/classify"
	"github.com/pdiddy/serp-analyzer/internal/dispatch"
	"github.com/pdiddy/serp-analyzer/internal/search"
	"github.com/pdiddy/serp-analyzer/internal/secrets"
	"github.com/pdiddy/serp-analyzer/internal/taxonomy"
	"github.com/pdiddy/serp-analyzer/pkg/types"
)

// setDefaults registers every config key with viper so that file values,
// SERP_ANALYZER_* environment variables, and bound flags all resolve.
func setDefaults(v *viper.Viper, d types.PipelineConfig) {
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.user_agent", d.Search.UserAgent)
	v.SetDefault("search.provider", string(d.Search.Provider))
	v.SetDefault("search.api_key", d.Search.APIKey)
	v.SetDefault("search.provider_limit", d.Search.ProviderLimit)
	v.SetDefault("search.max_retries", d.Search.MaxRetries)
	v.SetDefault("search.retry_delay", d.Search.RetryDelay)

	v.SetDefault("analysis.workers", d.Analysis.Workers)
	v.SetDefault("analysis.queue_size", d.Analysis.QueueSize)
	v.SetDefault("analysis.timeout", d.Analysis.Timeout)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.allowed_origin", d.Server.AllowedOrigin)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
}

// bindFlags binds each named flag to its config key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag --%s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig resolves the pipeline configuration from defaults, the
// config file, the environment, and bound flags. An empty API key is
// filled from the loaded secrets.
func loadConfig(v *viper.Viper) (types.PipelineConfig, error) {
	setDefaults(v, types.DefaultPipelineConfig())

	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Search.APIKey == "" {
		cfg.Search.APIKey = secrets.Lookup(secrets.SerperAPIKey, loadedSecrets...)
	}
	return cfg, nil
}

// buildAnalyzer wires provider, pool, dispatcher, and registry. The caller
// owns the returned pool and must close it.
func buildAnalyzer(cfg types.PipelineConfig) (*analyze.Analyzer, *dispatch.Pool, error) {
	provider, err := search.NewProvider(cfg.Search, logger)
	if err != nil {
		return nil, nil, err
	}
	if p, ok := provider.(*search.SerperProvider); ok && p.APIKey == "" {
		logger.Warn("no Serper API key found in config, environment, .secrets/, or .env; results will be synthetic")
	}

	pool := dispatch.NewPool(dispatch.PoolConfig{
		Workers:   cfg.Analysis.Workers,
		QueueSize: cfg.Analysis.QueueSize,
		Logger:    logger,
	})
	d := dispatch.NewDispatcher(pool, classify.Default(), cfg.Analysis.Timeout, logger)
	return analyze.New(provider, d, taxonomy.NewRegistry(), logger), pool, nil
}
