// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/orestat/orestat/internal/domain/stats"
)

// StatisticsDependencies defines the interface for statistics queries.
type StatisticsDependencies interface {
	Statistics(ctx context.Context, id string) (composite, block *stats.Summary, cmp *stats.Comparison, err error)
}

// StatisticsHandler handles statistics requests.
type StatisticsHandler struct {
	deps StatisticsDependencies
}

// NewStatisticsHandler creates a new statistics handler.
func NewStatisticsHandler(deps StatisticsDependencies) *StatisticsHandler {
	return &StatisticsHandler{deps: deps}
}

// summaryResponse mirrors the OpenAPI schema for a dataset summary.
// Undefined values serialize as null.
type summaryResponse struct {
	Volume           *float64 `json:"volume_m3"`
	Tonnage          *float64 `json:"tonnage_t"`
	Density          *float64 `json:"density_t_m3"`
	MeanGrade        *float64 `json:"mean_grade"`
	MinGrade         *float64 `json:"min_grade"`
	MaxGrade         *float64 `json:"max_grade"`
	StdDev           *float64 `json:"std_dev"`
	ContainedMetal   *float64 `json:"contained_metal_kg"`
	Recovery         *float64 `json:"recovery_pct"`
	RecoverableMetal *float64 `json:"recoverable_metal_kg"`
}

func newSummaryResponse(s stats.Summary) *summaryResponse {
	return &summaryResponse{
		Volume:           floatPtr(s.Volume),
		Tonnage:          floatPtr(s.Tonnage),
		Density:          floatPtr(s.Density),
		MeanGrade:        floatPtr(s.MeanGrade),
		MinGrade:         floatPtr(s.MinGrade),
		MaxGrade:         floatPtr(s.MaxGrade),
		StdDev:           floatPtr(s.StdDev),
		ContainedMetal:   floatPtr(s.ContainedMetal),
		Recovery:         floatPtr(s.Recovery),
		RecoverableMetal: floatPtr(s.RecoverableMetal),
	}
}

// deltaResponse carries one relative difference. Percent is null when the
// delta is undefined.
type deltaResponse struct {
	Percent   *float64 `json:"percent"`
	Direction string   `json:"direction"`
}

func newDeltaResponse(d stats.Delta) deltaResponse {
	resp := deltaResponse{Direction: string(d.Direction)}
	if d.Defined {
		resp.Percent = floatPtr(d.Percent)
	}
	return resp
}

type comparisonResponse struct {
	Volume           deltaResponse `json:"volume_m3"`
	Tonnage          deltaResponse `json:"tonnage_t"`
	Density          deltaResponse `json:"density_t_m3"`
	MeanGrade        deltaResponse `json:"mean_grade"`
	MinGrade         deltaResponse `json:"min_grade"`
	MaxGrade         deltaResponse `json:"max_grade"`
	StdDev           deltaResponse `json:"std_dev"`
	ContainedMetal   deltaResponse `json:"contained_metal_kg"`
	Recovery         deltaResponse `json:"recovery_pct"`
	RecoverableMetal deltaResponse `json:"recoverable_metal_kg"`
}

func newComparisonResponse(c stats.Comparison) *comparisonResponse {
	return &comparisonResponse{
		Volume:           newDeltaResponse(c.Volume),
		Tonnage:          newDeltaResponse(c.Tonnage),
		Density:          newDeltaResponse(c.Density),
		MeanGrade:        newDeltaResponse(c.MeanGrade),
		MinGrade:         newDeltaResponse(c.MinGrade),
		MaxGrade:         newDeltaResponse(c.MaxGrade),
		StdDev:           newDeltaResponse(c.StdDev),
		ContainedMetal:   newDeltaResponse(c.ContainedMetal),
		Recovery:         newDeltaResponse(c.Recovery),
		RecoverableMetal: newDeltaResponse(c.RecoverableMetal),
	}
}

type statisticsResponse struct {
	Composite  *summaryResponse    `json:"composite"`
	Block      *summaryResponse    `json:"block"`
	Comparison *comparisonResponse `json:"comparison"`
}

// HandleStatistics handles GET /api/sessions/{id}/statistics requests.
// The comparison field is null until both summaries exist.
func (h *StatisticsHandler) HandleStatistics(id string) http.HandlerFunc {
	const op = "api.get_statistics"
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		composite, block, cmp, err := h.deps.Statistics(r.Context(), id)
		if err != nil {
			writeServiceError(w, wrap(op, err))
			return
		}
		var resp statisticsResponse
		if composite != nil {
			resp.Composite = newSummaryResponse(*composite)
		}
		if block != nil {
			resp.Block = newSummaryResponse(*block)
		}
		if cmp != nil {
			resp.Comparison = newComparisonResponse(*cmp)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
