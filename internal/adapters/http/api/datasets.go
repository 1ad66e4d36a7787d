// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	service "github.com/orestat/orestat/internal/app"

	"github.com/orestat/orestat/internal/adapters/repository"
	"github.com/orestat/orestat/internal/domain/mapping"
	"github.com/orestat/orestat/internal/domain/stats"
)

// DatasetDependencies defines the interface for dataset loading operations.
type DatasetDependencies interface {
	LoadDataset(ctx context.Context, id string, kind repository.Kind, r io.Reader) (service.UploadResult, error)
	LoadExample(ctx context.Context, id string) (map[repository.Kind]stats.Summary, error)
	Columns(ctx context.Context, id string, kind repository.Kind) ([]string, error)
}

// DatasetsHandler handles dataset upload and inspection requests.
type DatasetsHandler struct {
	deps           DatasetDependencies
	maxUploadBytes int64
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(deps DatasetDependencies, maxUploadBytes int64) *DatasetsHandler {
	return &DatasetsHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

type uploadResponse struct {
	Kind        string                        `json:"kind"`
	Rows        int                           `json:"rows"`
	Columns     []string                      `json:"columns"`
	Suggestions map[string]mapping.Suggestion `json:"suggestions"`
}

// HandleUpload handles POST /api/sessions/{id}/datasets/{kind} requests.
// The CSV body arrives either as a multipart form field named "file" or as
// a raw request body.
func (h *DatasetsHandler) HandleUpload(id, kindStr string) http.HandlerFunc {
	const op = "api.upload_dataset"
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		kind, err := repository.ParseKind(kindStr)
		if err != nil {
			writeServiceError(w, wrap(op, err))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		body, err := h.csvBody(r)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeServiceError(w, wrap(op, err))
				return
			}
			writeError(w, http.StatusBadRequest, "bad_request", wrap(op, err))
			return
		}
		defer func() { _ = body.Close() }()

		result, err := h.deps.LoadDataset(r.Context(), id, kind, body)
		if err != nil {
			writeServiceError(w, wrap(op, err))
			return
		}

		suggestions := make(map[string]mapping.Suggestion, len(result.Suggestions))
		for role, sg := range result.Suggestions {
			suggestions[string(role)] = sg
		}
		writeJSON(w, http.StatusOK, uploadResponse{
			Kind:        string(result.Kind),
			Rows:        result.Rows,
			Columns:     result.Columns,
			Suggestions: suggestions,
		})
	}
}

// csvBody extracts the CSV stream from a multipart form when one is posted,
// otherwise returns the raw request body.
func (h *DatasetsHandler) csvBody(r *http.Request) (io.ReadCloser, error) {
	ct := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, nil
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	return file, nil
}

type summariesResponse struct {
	Composite *summaryResponse `json:"composite"`
	Block     *summaryResponse `json:"block"`
}

// HandleLoadExample handles POST /api/sessions/{id}/example requests.
func (h *DatasetsHandler) HandleLoadExample(id string) http.HandlerFunc {
	const op = "api.load_example"
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		summaries, err := h.deps.LoadExample(r.Context(), id)
		if err != nil {
			writeServiceError(w, wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, newSummariesResponse(summaries))
	}
}

type columnsResponse struct {
	Columns []string `json:"columns"`
}

// HandleColumns handles GET /api/sessions/{id}/columns/{kind} requests.
func (h *DatasetsHandler) HandleColumns(id, kindStr string) http.HandlerFunc {
	const op = "api.get_columns"
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
		columns, err := h.deps.Columns(r.Context(), id, kind)
		if err != nil {
			writeServiceError(w, wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, columnsResponse{Columns: columns})
	}
}

func newSummariesResponse(summaries map[repository.Kind]stats.Summary) summariesResponse {
	var resp summariesResponse
	if s, ok := summaries[repository.KindComposite]; ok {
		resp.Composite = newSummaryResponse(s)
	}
	if s, ok := summaries[repository.KindBlock]; ok {
		resp.Block = newSummaryResponse(s)
	}
	return resp
}
