// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	service "github.com/orestat/orestat/internal/app"

	"github.com/orestat/orestat/internal/adapters/repository"
)

// PointsDependencies defines the interface for point cloud sampling.
type PointsDependencies interface {
	SamplePoints(ctx context.Context, id string, kind repository.Kind, limit int) (service.Points, error)
}

// PointsHandler handles 3D point sampling requests.
type PointsHandler struct {
	deps PointsDependencies
}

// NewPointsHandler creates a new points handler.
func NewPointsHandler(deps PointsDependencies) *PointsHandler {
	return &PointsHandler{deps: deps}
}

type pointsResponse struct {
	Count int        `json:"count"`
	X     []*float64 `json:"x"`
	Y     []*float64 `json:"y"`
	Z     []*float64 `json:"z"`
	Grade []*float64 `json:"grade"`
}

// HandlePoints handles GET /api/sessions/{id}/points/{kind}?limit=N requests.
// An absent or out-of-range limit falls back to the configured maximum.
func (h *PointsHandler) HandlePoints(id, kindStr string) http.HandlerFunc {
	const op = "api.get_points"
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		kind, err := repository.ParseKind(kindStr)
		if err != nil {
			writeServiceError(w, wrap(op, err))
			return
		}
		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			limit, err = strconv.Atoi(limitStr)
			if err != nil || limit < 1 {
				writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrBadRequest))
				return
			}
		}
		points, err := h.deps.SamplePoints(r.Context(), id, kind, limit)
		if err != nil {
			writeServiceError(w, wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, pointsResponse{
			Count: len(points.X),
			X:     floatSlice(points.X),
			Y:     floatSlice(points.Y),
			Z:     floatSlice(points.Z),
			Grade: floatSlice(points.Grade),
		})
	}
}
