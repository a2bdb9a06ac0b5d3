package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/regquant/drcsa/compare"
	"github.com/regquant/drcsa/engine"
	"github.com/regquant/drcsa/export"
	"github.com/regquant/drcsa/policy"
	"github.com/regquant/drcsa/scenario"
)

type errorBody struct {
	Error      string               `json:"error"`
	Violations []scenario.Violation `json:"violations,omitempty"`
}

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := s.loader.Policies()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if policies == nil {
		policies = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"policies": policies})
}

func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	pack, err := s.loader.Load(chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":            pack.ID,
		"hashes":        pack.Hashes,
		"risk_weights":  pack.RiskWeights,
		"lgd_tables":    pack.LGDTables,
		"mappings":      pack.Mappings,
		"hedging_rules": pack.HedgingRules,
	})
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"scenarios": s.store.List()})
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	scn, ok := s.store.Get(chi.URLParam(r, "name"))
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("scenario not found"))
		return
	}
	s.writeJSON(w, http.StatusOK, scn)
}

func (s *Server) handleUpsertScenario(w http.ResponseWriter, r *http.Request) {
	var scn scenario.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scn); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode scenario: %w", err))
		return
	}
	scn.Name = chi.URLParam(r, "name")
	if err := scenario.Validate(scn); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.store.Upsert(scn)
	s.log.Info().Str("scenario", scn.Name).Int("exposures", len(scn.Exposures)).
		Msg("scenario stored")
	s.writeJSON(w, http.StatusOK, map[string]any{
		"name":   scn.Name,
		"digest": scenario.Digest(scn),
	})
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(chi.URLParam(r, "name")) {
		s.writeError(w, http.StatusNotFound, errors.New("scenario not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type computeRequest struct {
	Policy             string              `json:"policy"`
	Baseline           scenario.Scenario   `json:"baseline"`
	Scenarios          []scenario.Scenario `json:"scenarios"`
	IncludeComparisons *bool               `json:"include_comparisons"`
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Policy == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("policy is required"))
		return
	}

	out, err := s.engine.Compute(engine.Request{
		PolicyID:   req.Policy,
		Baseline:   req.Baseline,
		Alternates: req.Scenarios,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	var matrix *compare.Matrix
	if req.IncludeComparisons == nil || *req.IncludeComparisons {
		m := compare.CompareAll(out.Baseline, out.Alternates)
		matrix = &m
	}
	s.writeJSON(w, http.StatusOK, export.Build(out, matrix))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	body := errorBody{Error: err.Error()}
	var verr *scenario.ValidationError
	if errors.As(err, &verr) {
		body.Violations = verr.Violations
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
		s.log.Error().Err(encErr).Msg("encode error response")
	}
}

// writeDomainError maps engine error types onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var schemaErr *policy.SchemaError
	var validationErr *scenario.ValidationError
	var resolutionErr *engine.ResolutionError
	switch {
	case errors.Is(err, policy.ErrPolicyNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.As(err, &schemaErr),
		errors.As(err, &validationErr),
		errors.As(err, &resolutionErr):
		s.writeError(w, http.StatusUnprocessableEntity, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
}
