package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/incidentops/graphmind/internal/graph"
	"github.com/incidentops/graphmind/internal/retrieval"
)

var (
	searchTopK      int
	searchNeighbors bool
)

// searchOutput is the CLI result shape. Neighbors is populated only with
// --neighbors.
type searchOutput struct {
	retrieval.RetrievalResult
	Neighbors map[string][]graph.NeighborEdge `json:"neighbors,omitempty"`
}

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Retrieve graph documents relevant to the query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := buildApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		topK := searchTopK
		if topK <= 0 {
			topK = cfg.Retrieval.TopK
		}

		result, err := a.retriever.Retrieve(cmd.Context(), strings.Join(args, " "), topK)
		if err != nil {
			return err
		}

		out := searchOutput{RetrievalResult: result}
		if searchNeighbors && len(result.Documents) > 0 {
			edges, err := a.client.GetNeighbors(cmd.Context(), result.IDs(), cfg.Retrieval.NeighborLimit)
			if err != nil {
				a.logger.Warn("neighbor expansion failed", "error", err)
			} else {
				out.Neighbors = make(map[string][]graph.NeighborEdge)
				for _, edge := range edges {
					out.Neighbors[edge.SourceID] = append(out.Neighbors[edge.SourceID], edge)
				}
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0,
		"Number of documents to return (default from config)")
	searchCmd.Flags().BoolVar(&searchNeighbors, "neighbors", false,
		"Include one-hop graph neighbors for each returned document")
}
