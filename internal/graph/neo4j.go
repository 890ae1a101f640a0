package graph

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/incidentops/graphmind/internal/types"
)

// Neo4jClient implements GraphClient for Neo4j graph databases.
// It provides connection pooling, automatic retries, and health monitoring.
type Neo4jClient struct {
	config GraphClientConfig
	driver neo4j.DriverWithContext
}

// NewNeo4jClient creates a new Neo4j client with the given configuration.
// The client must be connected via Connect() before use.
func NewNeo4jClient(config GraphClientConfig) (*Neo4jClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Neo4jClient{
		config: config,
	}, nil
}

// Connect establishes a connection to the Neo4j database.
// Uses exponential backoff for connection retries.
func (c *Neo4jClient) Connect(ctx context.Context) error {
	auth := neo4j.BasicAuth(c.config.Username, c.config.Password, "")

	driverConfig := func(config *neo4j.Config) {
		config.MaxConnectionPoolSize = c.config.MaxConnectionPoolSize
		config.ConnectionAcquisitionTimeout = c.config.ConnectionTimeout
		config.MaxTransactionRetryTime = c.config.MaxTransactionRetryTime
		// Encryption is controlled by URI scheme (bolt:// vs bolt+s://).
	}

	var driver neo4j.DriverWithContext
	var lastErr error
	maxRetries := 5
	baseDelay := 100 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		var err error
		driver, err = neo4j.NewDriverWithContext(c.config.URI, auth, driverConfig)
		if err == nil {
			err = driver.VerifyConnectivity(ctx)
			if err == nil {
				c.driver = driver
				return nil
			}
		}

		lastErr = err

		if ctx.Err() != nil {
			return types.WrapError(ErrCodeGraphConnectionFailed,
				"connection attempt cancelled", ctx.Err())
		}

		// Backoff delay: baseDelay * 2^attempt, capped at the connection timeout.
		delay := baseDelay * time.Duration(math.Pow(2, float64(attempt)))
		if delay > c.config.ConnectionTimeout {
			delay = c.config.ConnectionTimeout
		}

		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return types.WrapError(ErrCodeGraphConnectionFailed,
				"connection attempt cancelled", ctx.Err())
		}
	}

	return types.WrapError(ErrCodeGraphConnectionFailed,
		fmt.Sprintf("failed to connect after %d attempts", maxRetries), lastErr)
}

// Close releases all resources and closes the database connection.
func (c *Neo4jClient) Close(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}

	if err := c.driver.Close(ctx); err != nil {
		return types.WrapError(ErrCodeGraphConnectionClosed,
			"failed to close driver", err)
	}

	c.driver = nil
	return nil
}

// Health returns the current health status of the Neo4j connection.
func (c *Neo4jClient) Health(ctx context.Context) types.HealthStatus {
	if c.driver == nil {
		return types.Unhealthy("driver not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.driver.VerifyConnectivity(healthCtx); err != nil {
		return types.Unhealthy(fmt.Sprintf("connectivity check failed: %v", err))
	}

	return types.Healthy("connected to Neo4j")
}

// Query executes a Cypher query with the given parameters in a read transaction.
func (c *Neo4jClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	if c.driver == nil {
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed,
			"driver not connected")
	}

	startTime := time.Now()

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.config.Database,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		neoResult, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}

		records, err := neoResult.Collect(ctx)
		if err != nil {
			return nil, err
		}

		return convertRecords(records), nil
	})

	if err != nil {
		return QueryResult{}, types.WrapError(ErrCodeGraphQueryFailed,
			"query execution failed", err)
	}

	queryResult := result.(QueryResult)
	queryResult.ExecutionTime = time.Since(startTime)

	return queryResult, nil
}

// SearchFullText queries the configured full-text index for ranked matches.
func (c *Neo4jClient) SearchFullText(ctx context.Context, query string, limit int) ([]NodeRecord, error) {
	cypher := `
		CALL db.index.fulltext.queryNodes($index, $query)
		YIELD node, score
		RETURN elementId(node) AS id, labels(node) AS labels,
		       properties(node) AS props, score
		LIMIT $limit
	`
	result, err := c.Query(ctx, cypher, map[string]any{
		"index": c.config.FullTextIndex,
		"query": query,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}
	return nodeRecordsFromRows(result.Records), nil
}

// SearchVector queries the configured vector index for the k nearest nodes.
func (c *Neo4jClient) SearchVector(ctx context.Context, embedding []float64, k int) ([]NodeRecord, error) {
	cypher := `
		CALL db.index.vector.queryNodes($index, $k, $embedding)
		YIELD node, score
		RETURN elementId(node) AS id, labels(node) AS labels,
		       properties(node) AS props, score
	`
	result, err := c.Query(ctx, cypher, map[string]any{
		"index":     c.config.VectorIndex,
		"k":         k,
		"embedding": embedding,
	})
	if err != nil {
		return nil, err
	}
	return nodeRecordsFromRows(result.Records), nil
}

// SearchLexical fetches a bounded working set of nodes and filters them in Go
// against the query. Cypher-side type coercion over heterogeneous properties is
// version-dependent, so the substring matching happens client-side. Results come
// back in store-iteration order with no relevance ranking.
func (c *Neo4jClient) SearchLexical(ctx context.Context, query string, limit int) ([]NodeRecord, error) {
	cypher := `
		MATCH (n)
		RETURN elementId(n) AS id, labels(n) AS labels, properties(n) AS props
		LIMIT $max_nodes
	`
	result, err := c.Query(ctx, cypher, map[string]any{
		"max_nodes": c.config.CandidateLimit,
	})
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	matched := make([]NodeRecord, 0, limit)
	for _, rec := range nodeRecordsFromRows(result.Records) {
		if NodeMatches(rec.Properties, queryLower) {
			matched = append(matched, rec)
			if len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

// GetNeighbors returns the directly connected neighbors of the given nodes.
// The limit bounds total returned edges across all sources to avoid unbounded
// fan-out from highly connected nodes. An empty nodeIDs slice returns no edges.
func (c *Neo4jClient) GetNeighbors(ctx context.Context, nodeIDs []string, limit int) ([]NeighborEdge, error) {
	if len(nodeIDs) == 0 {
		return []NeighborEdge{}, nil
	}

	cypher := `
		MATCH (n)-[r]-(connected)
		WHERE elementId(n) IN $ids
		RETURN elementId(n) AS source_id,
		       type(r) AS relation_type,
		       elementId(startNode(r)) AS start_id,
		       elementId(connected) AS target_id,
		       labels(connected) AS target_labels,
		       properties(connected) AS target_props,
		       properties(r) AS rel_props
		ORDER BY relation_type
		LIMIT $limit
	`
	result, err := c.Query(ctx, cypher, map[string]any{
		"ids":   nodeIDs,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	edges := make([]NeighborEdge, 0, len(result.Records))
	for _, row := range result.Records {
		sourceID, _ := row["source_id"].(string)
		startID, _ := row["start_id"].(string)
		edge := NeighborEdge{
			SourceID:     sourceID,
			TargetID:     asString(row["target_id"]),
			TargetLabels: asStringSlice(row["target_labels"]),
			TargetProps:  asPropMap(row["target_props"]),
			RelationType: asString(row["relation_type"]),
			Properties:   asPropMap(row["rel_props"]),
			Direction:    "outgoing",
		}
		if startID != sourceID {
			edge.Direction = "incoming"
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

// CreateNode creates a new node with the specified labels and properties.
func (c *Neo4jClient) CreateNode(ctx context.Context, labels []string, props map[string]any) (string, error) {
	if c.driver == nil {
		return "", types.NewError(ErrCodeGraphConnectionClosed,
			"driver not connected")
	}

	labelStr := ""
	for _, label := range labels {
		labelStr += ":" + label
	}

	cypher := fmt.Sprintf("CREATE (n%s) SET n = $props RETURN elementId(n) AS id", labelStr)

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.config.Database,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		neoResult, err := tx.Run(ctx, cypher, map[string]any{"props": props})
		if err != nil {
			return nil, err
		}

		record, err := neoResult.Single(ctx)
		if err != nil {
			return nil, err
		}

		id, ok := record.Get("id")
		if !ok {
			return nil, fmt.Errorf("id not found in result")
		}

		return id.(string), nil
	})

	if err != nil {
		return "", types.WrapError(ErrCodeGraphQueryFailed,
			"failed to create node", err)
	}

	return result.(string), nil
}

// MergeNode finds or creates a node carrying the given label and name property.
func (c *Neo4jClient) MergeNode(ctx context.Context, label, name string) (string, error) {
	if c.driver == nil {
		return "", types.NewError(ErrCodeGraphConnectionClosed,
			"driver not connected")
	}

	cypher := fmt.Sprintf("MERGE (n:%s {name: $name}) RETURN elementId(n) AS id", label)

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.config.Database,
	})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		neoResult, err := tx.Run(ctx, cypher, map[string]any{"name": name})
		if err != nil {
			return nil, err
		}

		record, err := neoResult.Single(ctx)
		if err != nil {
			return nil, err
		}

		id, ok := record.Get("id")
		if !ok {
			return nil, fmt.Errorf("id not found in result")
		}

		return id.(string), nil
	})

	if err != nil {
		return "", types.WrapError(ErrCodeGraphQueryFailed,
			"failed to merge node", err)
	}

	return result.(string), nil
}

// CreateRelationship creates a relationship between two nodes by element ID.
func (c *Neo4jClient) CreateRelationship(ctx context.Context, fromID, toID, relType string, props map[string]any) error {
	if c.driver == nil {
		return types.NewError(ErrCodeGraphConnectionClosed,
			"driver not connected")
	}

	cypher := fmt.Sprintf(`
		MATCH (from), (to)
		WHERE elementId(from) = $fromId AND elementId(to) = $toId
		CREATE (from)-[r:%s]->(to)
		SET r = $props
		RETURN r
	`, relType)

	params := map[string]any{
		"fromId": fromID,
		"toId":   toID,
		"props":  props,
	}

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.config.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		neoResult, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}

		_, err = neoResult.Single(ctx)
		return nil, err
	})

	if err != nil {
		return types.WrapError(ErrCodeGraphQueryFailed,
			"failed to create relationship", err)
	}

	return nil
}

// convertRecords converts Neo4j records to our QueryResult format.
func convertRecords(records []*neo4j.Record) QueryResult {
	result := QueryResult{
		Records: make([]map[string]any, 0, len(records)),
		Columns: []string{},
	}

	if len(records) > 0 {
		result.Columns = records[0].Keys
	}

	for _, record := range records {
		recordMap := make(map[string]any)
		for i, key := range record.Keys {
			recordMap[key] = record.Values[i]
		}
		result.Records = append(result.Records, recordMap)
	}

	return result
}

// nodeRecordsFromRows maps id/labels/props/score rows into NodeRecords.
func nodeRecordsFromRows(rows []map[string]any) []NodeRecord {
	records := make([]NodeRecord, 0, len(rows))
	for _, row := range rows {
		rec := NodeRecord{
			ID:         asString(row["id"]),
			Labels:     asStringSlice(row["labels"]),
			Properties: asPropMap(row["props"]),
		}
		if score, ok := row["score"].(float64); ok {
			rec.Score = score
		}
		records = append(records, rec)
	}
	return records
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func asPropMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
