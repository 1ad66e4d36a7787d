// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strings"

	service "github.com/orestat/orestat/internal/app"

	"github.com/orestat/orestat/internal/adapters/repository"
	"github.com/orestat/orestat/internal/domain/dataset"
	"github.com/orestat/orestat/internal/domain/mapping"
	"github.com/orestat/orestat/internal/domain/stats"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreateSession(ctx context.Context) (string, error)
	LoadDataset(ctx context.Context, id string, kind repository.Kind, r io.Reader) (service.UploadResult, error)
	LoadExample(ctx context.Context, id string) (map[repository.Kind]stats.Summary, error)
	Columns(ctx context.Context, id string, kind repository.Kind) ([]string, error)
	ApplyMapping(ctx context.Context, id string, composite, block mapping.Mapping) (map[repository.Kind]stats.Summary, error)
	Statistics(ctx context.Context, id string) (composite, block *stats.Summary, cmp *stats.Comparison, err error)
	SamplePoints(ctx context.Context, id string, kind repository.Kind, limit int) (service.Points, error)
	WriteReport(ctx context.Context, id string, w io.Writer) (string, error)
}

// Server wires HTTP routes for the comparison API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	sessionsHandler   *SessionsHandler
	datasetsHandler   *DatasetsHandler
	mappingHandler    *MappingHandler
	statisticsHandler *StatisticsHandler
	pointsHandler     *PointsHandler
	reportHandler     *ReportHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		sessionsHandler:   NewSessionsHandler(deps),
		datasetsHandler:   NewDatasetsHandler(deps, maxUploadBytes),
		mappingHandler:    NewMappingHandler(deps),
		statisticsHandler: NewStatisticsHandler(deps),
		pointsHandler:     NewPointsHandler(deps),
		reportHandler:     NewReportHandler(deps),
		dashboardHandler:  newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreateSession, "sessions"))
	mux.HandleFunc("/api/sessions/", s.routeSession)
}

// routeSession dispatches /api/sessions/{id}/... requests to the matching
// handler based on the sub-resource segments.
func (s *Server) routeSession(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" {
		writeError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	id := segments[0]

	switch {
	case len(segments) == 2 && segments[1] == "example":
		MetricsMiddleware(s.datasetsHandler.HandleLoadExample(id), "example")(w, r)
	case len(segments) == 3 && segments[1] == "datasets":
		MetricsMiddleware(s.datasetsHandler.HandleUpload(id, segments[2]), "datasets")(w, r)
	case len(segments) == 3 && segments[1] == "columns":
		MetricsMiddleware(s.datasetsHandler.HandleColumns(id, segments[2]), "columns")(w, r)
	case len(segments) == 2 && segments[1] == "mappings":
		MetricsMiddleware(s.mappingHandler.HandleApplyMapping(id), "mappings")(w, r)
	case len(segments) == 2 && segments[1] == "statistics":
		MetricsMiddleware(s.statisticsHandler.HandleStatistics(id), "statistics")(w, r)
	case len(segments) == 3 && segments[1] == "points":
		MetricsMiddleware(s.pointsHandler.HandlePoints(id, segments[2]), "points")(w, r)
	case len(segments) == 2 && segments[1] == "report":
		MetricsMiddleware(s.reportHandler.HandleReport(id), "report")(w, r)
	default:
		writeError(w, http.StatusNotFound, "not_found", nil)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service and domain errors into HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err)
	case errors.Is(err, repository.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, "unknown_dataset_kind", err)
	case errors.Is(err, dataset.ErrEmptyInput),
		errors.Is(err, dataset.ErrDecode),
		errors.Is(err, dataset.ErrDuplicateColumn),
		errors.Is(err, mapping.ErrColumnMissing),
		errors.Is(err, mapping.ErrIncomplete):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrDatasetMissing),
		errors.Is(err, service.ErrMappingNotApplied),
		errors.Is(err, service.ErrNotReady):
		writeError(w, http.StatusConflict, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// floatPtr renders a float for JSON, mapping NaN and infinities to null.
func floatPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// floatSlice renders a numeric vector for JSON with nulls for missing cells.
func floatSlice(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i, v := range vs {
		out[i] = floatPtr(v)
	}
	return out
}
