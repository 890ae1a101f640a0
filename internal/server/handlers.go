package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/incidentops/graphmind/internal/incident"
	"github.com/incidentops/graphmind/internal/types"
)

// ProposeRequest is the body for POST /api/propose.
type ProposeRequest struct {
	Text string `json:"text"`
}

// SearchRequest is the body for POST /api/search.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request) {
	var req ProposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := s.proposer.ProposeIncident(r.Context(), req.Text)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TopK <= 0 {
		req.TopK = s.topK
	}

	result, err := s.retriever.Retrieve(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSaveIncident(w http.ResponseWriter, r *http.Request) {
	var proposal incident.Proposal
	if err := json.NewDecoder(r.Body).Decode(&proposal); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(proposal) == 0 {
		s.respondError(w, http.StatusBadRequest, "proposal is empty")
		return
	}
	if proposal.IsSentinel() {
		s.respondError(w, http.StatusBadRequest, "proposal is a parse-failure sentinel")
		return
	}

	result, err := s.saver.Save(r.Context(), proposal)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	if strings.TrimSpace(nodeID) == "" {
		s.respondError(w, http.StatusBadRequest, "node id is required")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	edges, err := s.client.GetNeighbors(r.Context(), []string{nodeID}, limit)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"node_id":   nodeID,
		"neighbors": edges,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := map[string]types.HealthStatus{}
	if s.health != nil {
		components = s.health.Health(r.Context())
	}

	overall := types.WorstState(components)

	code := http.StatusOK
	if overall == types.HealthStateUnhealthy {
		code = http.StatusServiceUnavailable
	}
	s.respondJSON(w, code, map[string]any{
		"status":     overall,
		"components": components,
	})
}

// respondPipelineError maps structured error codes onto HTTP statuses.
func (s *Server) respondPipelineError(w http.ResponseWriter, err error) {
	var gerr *types.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case types.INVALID_INPUT:
			s.respondError(w, http.StatusBadRequest, gerr.Message)
			return
		case types.COMPLETION_FAILED:
			s.respondError(w, http.StatusBadGateway, gerr.Message)
			return
		case types.INCIDENT_SAVE_FAILED, types.GRAPH_QUERY_FAILED:
			s.respondError(w, http.StatusInternalServerError, gerr.Message)
			return
		}
	}
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Status: "error", Error: message})
}
