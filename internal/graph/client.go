package graph

import (
	"context"
	"time"

	"github.com/incidentops/graphmind/internal/types"
)

// GraphClient provides an interface for graph database operations.
// Implementations must be thread-safe for concurrent access.
type GraphClient interface {
	// Connect establishes a connection to the graph database.
	Connect(ctx context.Context) error

	// Close releases all resources and closes the database connection.
	Close(ctx context.Context) error

	// Health returns the current health status of the graph database connection.
	Health(ctx context.Context) types.HealthStatus

	// Query executes a Cypher query with the given parameters.
	Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)

	// SearchFullText queries the store's full-text index for ranked node matches.
	SearchFullText(ctx context.Context, query string, limit int) ([]NodeRecord, error)

	// SearchVector queries the store's vector index for the k nearest nodes
	// to the given embedding.
	SearchVector(ctx context.Context, embedding []float64, k int) ([]NodeRecord, error)

	// SearchLexical scans a bounded working set of nodes and returns those whose
	// properties contain the query substring, in store-iteration order.
	// This is the unranked fallback when no text or vector index is usable.
	SearchLexical(ctx context.Context, query string, limit int) ([]NodeRecord, error)

	// GetNeighbors returns the directly connected neighbors of the given nodes,
	// bounded by limit across all sources.
	GetNeighbors(ctx context.Context, nodeIDs []string, limit int) ([]NeighborEdge, error)

	// CreateNode creates a new node with the specified labels and properties.
	// Returns the element ID of the created node.
	CreateNode(ctx context.Context, labels []string, props map[string]any) (string, error)

	// MergeNode finds or creates a node with the given label and name property.
	// Returns the element ID of the matched or created node.
	MergeNode(ctx context.Context, label, name string) (string, error)

	// CreateRelationship creates a typed relationship between two nodes.
	CreateRelationship(ctx context.Context, fromID, toID, relType string, props map[string]any) error
}

// NodeRecord is a retrieval-oriented projection of a graph node.
// Records are constructed per query and never cached across calls.
type NodeRecord struct {
	ID         string         `json:"id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
	Score      float64        `json:"score,omitempty"`
}

// ContentText returns the best available text for the node, preferring
// content, then description, then title, then name.
func (n NodeRecord) ContentText() string {
	for _, key := range []string{"content", "description", "title", "name"} {
		if s, ok := n.Properties[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// NeighborEdge describes one relationship from a seed node to a neighbor,
// returned read-only by GetNeighbors.
type NeighborEdge struct {
	SourceID     string         `json:"source_id"`
	TargetID     string         `json:"target_id"`
	TargetLabels []string       `json:"target_labels"`
	TargetProps  map[string]any `json:"target_properties,omitempty"`
	RelationType string         `json:"relation_type"`
	Direction    string         `json:"direction"` // "outgoing" or "incoming"
	Properties   map[string]any `json:"properties,omitempty"`
}

// QueryResult represents the result of a Cypher query execution.
type QueryResult struct {
	// Records contains the result rows as maps of column name to value.
	Records []map[string]any

	// Columns contains the names of the columns in the result set.
	Columns []string

	// ExecutionTime is the duration of query execution.
	ExecutionTime time.Duration
}

// GraphClientConfig contains configuration options for graph database clients.
type GraphClientConfig struct {
	// URI is the connection URI for the graph database.
	// For Neo4j, use "bolt://host:port" or "neo4j://host:port" (and +s variants for TLS).
	URI string `yaml:"uri" json:"uri" mapstructure:"uri"`

	// Username for authentication.
	Username string `yaml:"username" json:"username" mapstructure:"username"`

	// Password for authentication.
	Password string `yaml:"password" json:"password" mapstructure:"password"`

	// Database name to connect to. Empty string uses the default database.
	Database string `yaml:"database" json:"database" mapstructure:"database"`

	// FullTextIndex is the name of the full-text index used by SearchFullText.
	FullTextIndex string `yaml:"fulltext_index" json:"fulltext_index" mapstructure:"fulltext_index"`

	// VectorIndex is the name of the vector index used by SearchVector.
	VectorIndex string `yaml:"vector_index" json:"vector_index" mapstructure:"vector_index"`

	// CandidateLimit bounds the working set scanned by SearchLexical,
	// independent of the caller's result limit.
	CandidateLimit int `yaml:"candidate_limit" json:"candidate_limit" mapstructure:"candidate_limit"`

	// MaxConnectionPoolSize limits the number of connections in the pool.
	MaxConnectionPoolSize int `yaml:"max_connection_pool_size" json:"max_connection_pool_size" mapstructure:"max_connection_pool_size"`

	// ConnectionTimeout is the maximum time to wait for a connection.
	ConnectionTimeout time.Duration `yaml:"connection_timeout" json:"connection_timeout" mapstructure:"connection_timeout"`

	// MaxTransactionRetryTime is the maximum time to retry failed transactions.
	MaxTransactionRetryTime time.Duration `yaml:"max_transaction_retry_time" json:"max_transaction_retry_time" mapstructure:"max_transaction_retry_time"`
}

// DefaultConfig returns a GraphClientConfig with sensible defaults.
func DefaultConfig() GraphClientConfig {
	return GraphClientConfig{
		URI:                     "bolt://localhost:7687",
		Username:                "neo4j",
		Password:                "password",
		Database:                "",
		FullTextIndex:           "node_text_index",
		VectorIndex:             "node_embedding_index",
		CandidateLimit:          200,
		MaxConnectionPoolSize:   50,
		ConnectionTimeout:       30 * time.Second,
		MaxTransactionRetryTime: 30 * time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c GraphClientConfig) Validate() error {
	if c.URI == "" {
		return types.NewError(types.GRAPH_INVALID_CONFIG, "URI cannot be empty")
	}
	if c.Username == "" {
		return types.NewError(types.GRAPH_INVALID_CONFIG, "Username cannot be empty")
	}
	if c.Password == "" {
		return types.NewError(types.GRAPH_INVALID_CONFIG, "Password cannot be empty")
	}
	if c.CandidateLimit <= 0 {
		return types.NewError(types.GRAPH_INVALID_CONFIG, "CandidateLimit must be positive")
	}
	if c.ConnectionTimeout <= 0 {
		return types.NewError(types.GRAPH_INVALID_CONFIG, "ConnectionTimeout must be positive")
	}
	return nil
}
