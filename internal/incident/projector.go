package incident

// Edge types in the visualization graph.
const (
	EdgeAffects    = "AFFECTS"
	EdgeOwnedBy    = "OWNED_BY"
	EdgeHasRunbook = "HAS_RUNBOOK"
)

// Node labels in the visualization graph.
const (
	LabelIncident = "Incident"
	LabelService  = "Service"
	LabelTeam     = "Team"
	LabelRunbook  = "Runbook"
)

// Defaults used when the proposal omits identity fields.
const (
	DefaultIncidentID = "incident_1"
)

// VizNode is a node in the front-end visualization graph.
type VizNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// VizEdge is a typed, directed edge in the front-end visualization graph.
type VizEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// VisualizationGraph is the simplified graph handed to the front end:
// the proposed incident at the center with its services, teams, and
// runbooks linked around it.
type VisualizationGraph struct {
	Nodes []VizNode `json:"nodes"`
	Edges []VizEdge `json:"edges"`
}

// Project deterministically converts a proposal into a visualization graph.
// The incident itself becomes one node; each service gets an AFFECTS edge from
// the incident, each team an OWNED_BY edge toward the incident, and each
// runbook a HAS_RUNBOOK edge from the incident. Missing list fields are
// treated as empty.
func Project(p Proposal) VisualizationGraph {
	incidentID := p.StringField(FieldID, DefaultIncidentID)

	graph := VisualizationGraph{
		Nodes: []VizNode{{ID: incidentID, Label: p.StringField(FieldType, LabelIncident)}},
		Edges: []VizEdge{},
	}

	for _, service := range p.StringList(FieldServices) {
		graph.Nodes = append(graph.Nodes, VizNode{ID: service, Label: LabelService})
		graph.Edges = append(graph.Edges, VizEdge{From: incidentID, To: service, Type: EdgeAffects})
	}

	for _, team := range p.StringList(FieldTeams) {
		graph.Nodes = append(graph.Nodes, VizNode{ID: team, Label: LabelTeam})
		graph.Edges = append(graph.Edges, VizEdge{From: team, To: incidentID, Type: EdgeOwnedBy})
	}

	for _, runbook := range p.StringList(FieldRunbooks) {
		graph.Nodes = append(graph.Nodes, VizNode{ID: runbook, Label: LabelRunbook})
		graph.Edges = append(graph.Edges, VizEdge{From: incidentID, To: runbook, Type: EdgeHasRunbook})
	}

	return graph
}
