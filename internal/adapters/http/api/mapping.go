// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/orestat/orestat/internal/adapters/repository"
	"github.com/orestat/orestat/internal/domain/mapping"
	"github.com/orestat/orestat/internal/domain/stats"
)

// MappingDependencies defines the interface for mapping application.
type MappingDependencies interface {
	ApplyMapping(ctx context.Context, id string, composite, block mapping.Mapping) (map[repository.Kind]stats.Summary, error)
}

// MappingHandler handles column mapping requests.
type MappingHandler struct {
	deps MappingDependencies
}

// NewMappingHandler creates a new mapping handler.
func NewMappingHandler(deps MappingDependencies) *MappingHandler {
	return &MappingHandler{deps: deps}
}

// mappingRequest mirrors the OpenAPI schema for POST /api/sessions/{id}/mappings.
type mappingRequest struct {
	Composite mapping.Mapping `json:"composite"`
	Block     mapping.Mapping `json:"block"`
}

func (m mappingRequest) validate() error {
	for name, mp := range map[string]mapping.Mapping{
		"composite": m.Composite,
		"block":     m.Block,
	} {
		for _, role := range mapping.Roles {
			if strings.TrimSpace(mp.Column(role)) == "" {
				return errors.New("missing " + name + " " + string(role) + " column")
			}
		}
	}
	return nil
}

// HandleApplyMapping handles POST /api/sessions/{id}/mappings requests.
// Both summaries are recomputed before the response returns.
func (h *MappingHandler) HandleApplyMapping(id string) http.HandlerFunc {
	const op = "api.apply_mapping"
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req mappingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", wrap(op, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", wrap(op, err))
			return
		}
		summaries, err := h.deps.ApplyMapping(r.Context(), id, req.Composite, req.Block)
		if err != nil {
			writeServiceError(w, wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, newSummariesResponse(summaries))
	}
}
