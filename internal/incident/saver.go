package incident

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/incidentops/graphmind/internal/graph"
	"github.com/incidentops/graphmind/internal/types"
)

// Saver persists an accepted incident proposal into the graph store.
// Referenced services, teams, and runbooks are merged by name so repeated
// incidents attach to the same entity nodes.
type Saver struct {
	client graph.GraphClient
	logger *slog.Logger
}

// NewSaver creates a Saver backed by the given graph client.
func NewSaver(client graph.GraphClient, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.Default().With("component", "incident-saver")
	}
	return &Saver{client: client, logger: logger}
}

// SaveResult reports what was written to the store.
type SaveResult struct {
	IncidentElementID string   `json:"incident_element_id"`
	IncidentID        string   `json:"incident_id"`
	CreatedRelations  []string `json:"created_relations"`
	FailedRelations   []string `json:"failed_relations,omitempty"`
}

// Save creates the incident node and its relations. A sentinel proposal is
// rejected: raw text with a parse error marker is not persistable. Relation
// failures are collected rather than aborting the save, matching the store's
// partial-save semantics.
func (s *Saver) Save(ctx context.Context, p Proposal) (*SaveResult, error) {
	if p.IsSentinel() {
		return nil, types.NewError(types.INCIDENT_SAVE_FAILED,
			"refusing to save a parse-failure sentinel proposal")
	}

	incidentID := p.StringField(FieldID, "")
	if incidentID == "" {
		incidentID = "INC-" + uuid.NewString()[:8]
	}

	props := map[string]any{
		"id":          incidentID,
		"title":       p.StringField(FieldTitle, ""),
		"description": p.StringField(FieldDescription, ""),
		"status":      p.StringField(FieldStatus, "open"),
		"priority":    p.StringField(FieldPriority, ""),
	}

	elementID, err := s.client.CreateNode(ctx, []string{p.StringField(FieldType, LabelIncident)}, props)
	if err != nil {
		return nil, types.WrapError(types.INCIDENT_SAVE_FAILED, "failed to create incident node", err)
	}

	result := &SaveResult{
		IncidentElementID: elementID,
		IncidentID:        incidentID,
		CreatedRelations:  []string{},
	}

	type relation struct {
		names    []string
		label    string
		relType  string
		outgoing bool // incident -> entity when true
	}

	relations := []relation{
		{p.StringList(FieldServices), LabelService, EdgeAffects, true},
		{p.StringList(FieldTeams), LabelTeam, EdgeOwnedBy, false},
		{p.StringList(FieldRunbooks), LabelRunbook, EdgeHasRunbook, true},
	}

	for _, rel := range relations {
		for _, name := range rel.names {
			targetID, err := s.client.MergeNode(ctx, rel.label, name)
			if err != nil {
				s.logger.Warn("failed to merge related node",
					"label", rel.label, "name", name, "error", err)
				result.FailedRelations = append(result.FailedRelations, rel.relType+":"+name)
				continue
			}

			fromID, toID := elementID, targetID
			if !rel.outgoing {
				fromID, toID = targetID, elementID
			}

			if err := s.client.CreateRelationship(ctx, fromID, toID, rel.relType, nil); err != nil {
				s.logger.Warn("failed to create relationship",
					"type", rel.relType, "name", name, "error", err)
				result.FailedRelations = append(result.FailedRelations, rel.relType+":"+name)
				continue
			}
			result.CreatedRelations = append(result.CreatedRelations, rel.relType+":"+name)
		}
	}

	return result, nil
}
