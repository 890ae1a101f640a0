package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incidentops/graphmind/internal/llm"
	"github.com/incidentops/graphmind/internal/types"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Embedder.Enabled())
	assert.Equal(t, 8, cfg.Retrieval.TopK)
	assert.Equal(t, 50, cfg.Retrieval.NeighborLimit)
	assert.Equal(t, "bolt://localhost:7687", cfg.Graph.URI)
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode types.ErrorCode
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, types.CONFIG_VALIDATION_FAILED},
		{"no graph uri", func(c *Config) { c.Graph.URI = "" }, types.GRAPH_INVALID_CONFIG},
		{"zero top_k", func(c *Config) { c.Retrieval.TopK = 0 }, types.CONFIG_VALIDATION_FAILED},
		{"zero neighbor_limit", func(c *Config) { c.Retrieval.NeighborLimit = 0 }, types.CONFIG_VALIDATION_FAILED},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, types.CONFIG_VALIDATION_FAILED},
		{"no llm provider", func(c *Config) { c.LLM.Provider = "" }, llm.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var gerr *types.Error
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, tt.wantCode, gerr.Code)
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
graph:
  uri: bolt://graph.internal:7687
  username: svc
  password: secret
retrieval:
  top_k: 12
embedder:
  provider: ""
llm:
  provider: mock
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "bolt://graph.internal:7687", cfg.Graph.URI)
	assert.Equal(t, "svc", cfg.Graph.Username)
	assert.Equal(t, 12, cfg.Retrieval.TopK)

	// Untouched sections keep defaults.
	assert.Equal(t, 50, cfg.Retrieval.NeighborLimit)
	assert.Equal(t, "node_text_index", cfg.Graph.FullTextIndex)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
}

func TestLoad_EnvInterpolation(t *testing.T) {
	t.Setenv("GRAPH_PASSWORD", "hunter2")

	path := writeConfig(t, `
graph:
  password: ${GRAPH_PASSWORD}
embedder:
  provider: ""
llm:
  provider: mock
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Graph.Password)
}

func TestLoad_UnsetEnvVarLeftVerbatim(t *testing.T) {
	path := writeConfig(t, `
graph:
  password: ${DEFINITELY_NOT_SET_GRAPHMIND}
embedder:
  provider: ""
llm:
  provider: mock
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "${DEFINITELY_NOT_SET_GRAPHMIND}", cfg.Graph.Password)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	var gerr *types.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, types.CONFIG_LOAD_FAILED, gerr.Code)
}

func TestLoad_TypeMismatchIsParseError(t *testing.T) {
	path := writeConfig(t, `
server:
  port: not-a-number
embedder:
  provider: ""
llm:
  provider: mock
`)

	_, err := Load(path)

	var gerr *types.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, types.CONFIG_PARSE_FAILED, gerr.Code)
}

func TestLoadWithDefaults_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := LoadWithDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 99999
embedder:
  provider: ""
llm:
  provider: mock
`)

	_, err := Load(path)

	var gerr *types.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, types.CONFIG_VALIDATION_FAILED, gerr.Code)
}

func TestNewLoggerTo_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LoggingConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}
