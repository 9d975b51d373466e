package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/dqi/internal/core"
	"github.com/JonMunkholm/dqi/internal/web/middleware"
)

// multipartOverhead is allowed on top of the file limit for form framing.
const multipartOverhead = 1 << 20

// memoryLimit is how much of a multipart form is kept in memory before
// spilling to temporary files.
const memoryLimit = 8 << 20

// handleAnalyze accepts a multipart upload in the "file" field, analyzes it
// and returns the report with 201 Created.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Analysis.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, fmt.Errorf("%w: body exceeds %d bytes", core.ErrFileTooLarge, maxSize))
			return
		}
		respondError(w, r, fmt.Errorf("%w: %w", errInvalidUpload, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		respondError(w, r, core.ErrNoFile)
		return
	}
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %w", errInvalidUpload, err))
		return
	}
	defer file.Close()

	ctx := core.ContextWithClientIP(r.Context(), middleware.ClientIP(r))
	report, err := s.service.Analyze(ctx, core.AnalyzeRequest{
		FileName: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/reports/"+report.AuditTrail.EvaluationID)
	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	ctx := core.ContextWithClientIP(r.Context(), middleware.ClientIP(r))
	if err := s.service.DeleteReport(ctx, chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status        string             `json:"status"`
	EngineVersion string             `json:"engineVersion"`
	Analyses      core.LimiterStatus `json:"analyses"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		EngineVersion: s.service.EngineVersion(),
		Analyses:      s.service.LimiterStatus(),
	})
}
