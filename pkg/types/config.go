package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout bounds one provider call, retries included.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "serp-analyzer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ProviderKind selects the search provider implementation.
type ProviderKind string

const (
	ProviderSerper ProviderKind = "serper"
	ProviderMock   ProviderKind = "mock"
)

// SearchConfig holds settings for the search provider.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects serper (live) or mock (synthetic, offline).
	Provider ProviderKind `json:"provider" yaml:"provider" mapstructure:"provider"`

	// APIKey is the Serper API key. Loaded from secrets when empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// ProviderLimit caps the number of results requested from the
	// provider regardless of the caller's maxResults (default 10).
	ProviderLimit int `json:"provider_limit" yaml:"provider_limit" mapstructure:"provider_limit"`

	// MaxRetries bounds retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RetryDelay is the first backoff wait after a 429; it doubles on each
	// retry (default 500ms). Retries never outlast Timeout: once it elapses
	// the provider falls back to synthetic results.
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`
}

// AnalysisConfig holds settings for the classification dispatcher.
type AnalysisConfig struct {
	// Workers is the fixed size of the shared worker pool (default 10).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// QueueSize is the capacity of the pool's task queue (default 10000).
	QueueSize int `json:"queue_size" yaml:"queue_size" mapstructure:"queue_size"`

	// Timeout is the global deadline for one batch of classifications (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ServerConfig holds settings for the HTTP boundary.
type ServerConfig struct {
	// Host is the address to bind to (default 127.0.0.1).
	Host string `json:"host" yaml:"host" mapstructure:"host"`

	// Port is the port to listen on (default 8080).
	Port string `json:"port" yaml:"port" mapstructure:"port"`

	// AllowedOrigin is sent as Access-Control-Allow-Origin (default "*").
	AllowedOrigin string `json:"allowed_origin" yaml:"allowed_origin" mapstructure:"allowed_origin"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Search   SearchConfig   `json:"search" yaml:"search" mapstructure:"search"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultPipelineConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   10 * time.Second,
				UserAgent: "serp-analyzer/0.1",
			},
			Provider:      ProviderSerper,
			ProviderLimit: 10,
			MaxRetries:    3,
			RetryDelay:    500 * time.Millisecond,
		},
		Analysis: AnalysisConfig{
			Workers:   10,
			QueueSize: 10000,
			Timeout:   30 * time.Second,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            "8080",
			AllowedOrigin:   "*",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}
