// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// ReportDependencies defines the interface for report export.
type ReportDependencies interface {
	WriteReport(ctx context.Context, id string, w io.Writer) (string, error)
}

// ReportHandler handles comparison report downloads.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleReport handles GET /api/sessions/{id}/report requests.
// The CSV is buffered first so errors still produce a JSON response.
func (h *ReportHandler) HandleReport(id string) http.HandlerFunc {
	const op = "api.get_report"
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		var buf bytes.Buffer
		filename, err := h.deps.WriteReport(r.Context(), id, &buf)
		if err != nil {
			writeServiceError(w, wrap(op, err))
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
