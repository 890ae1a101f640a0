// Package config defines the root configuration for the graphmind service
// and its YAML loader.
package config

import (
	"time"

	"github.com/incidentops/graphmind/internal/embedder"
	"github.com/incidentops/graphmind/internal/graph"
	"github.com/incidentops/graphmind/internal/llm"
	"github.com/incidentops/graphmind/internal/prompt"
	"github.com/incidentops/graphmind/internal/types"
)

// Config is the root configuration for graphmind.
type Config struct {
	Server    ServerConfig            `mapstructure:"server" yaml:"server"`
	Graph     graph.GraphClientConfig `mapstructure:"graph" yaml:"graph"`
	Embedder  embedder.Config         `mapstructure:"embedder" yaml:"embedder"`
	LLM       llm.Config              `mapstructure:"llm" yaml:"llm"`
	Retrieval RetrievalConfig         `mapstructure:"retrieval" yaml:"retrieval"`
	Prompt    prompt.Config           `mapstructure:"prompt" yaml:"prompt"`
	Logging   LoggingConfig           `mapstructure:"logging" yaml:"logging"`
	Tracing   TracingConfig           `mapstructure:"tracing" yaml:"tracing"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// RetrievalConfig contains tunables for the retrieval and expansion stages.
type RetrievalConfig struct {
	// TopK is the default number of documents returned per query.
	TopK int `mapstructure:"top_k" yaml:"top_k"`

	// NeighborLimit caps the total edges returned by graph expansion.
	NeighborLimit int `mapstructure:"neighbor_limit" yaml:"neighbor_limit"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Graph: graph.DefaultConfig(),
		// Embedding is opt-in. With no provider configured, retrieval skips
		// the vector path and falls back to full-text and lexical search.
		Embedder: embedder.Config{},
		LLM:      llm.DefaultConfig(),
		Retrieval: RetrievalConfig{
			TopK:          8,
			NeighborLimit: 50,
		},
		Prompt: prompt.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "graphmind",
		},
	}
}

// Validate checks the whole configuration tree.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "server port must be in (0, 65535]")
	}
	if err := c.Graph.Validate(); err != nil {
		return err
	}
	if err := c.Embedder.Validate(); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if c.Retrieval.TopK <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "retrieval top_k must be positive")
	}
	if c.Retrieval.NeighborLimit <= 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "retrieval neighbor_limit must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "logging level must be one of debug, info, warn, error")
	}
	return nil
}
