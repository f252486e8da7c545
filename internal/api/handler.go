// Package api exposes the assessment service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/xworks/readiness/internal/assessment"
	"github.com/xworks/readiness/internal/live"
	"github.com/xworks/readiness/internal/questionbank"
	"github.com/xworks/readiness/internal/report"
	"github.com/xworks/readiness/internal/scoring"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Options tunes the handler.
type Options struct {
	// DefaultBankID is used when a request omits bank_id.
	DefaultBankID string
	// OriginPatterns is passed to the websocket origin check.
	OriginPatterns []string
}

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	svc     *assessment.Service
	banks   *questionbank.Loader
	reports report.Cache
	logger  *slog.Logger
	opts    Options
}

// NewHandler creates a Handler with the given dependencies. A nil cache
// disables report caching.
func NewHandler(svc *assessment.Service, banks *questionbank.Loader, reports report.Cache, logger *slog.Logger, opts Options) *Handler {
	if reports == nil {
		reports = report.NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:     svc,
		banks:   banks,
		reports: reports,
		logger:  logger,
		opts:    opts,
	}
}

// Register adds every API route to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/banks", h.listBanks)
	mux.HandleFunc("GET /api/banks/{bankID}", h.getBank)

	mux.HandleFunc("POST /api/assessments/preview", h.previewAssessment)
	mux.HandleFunc("POST /api/assessments", h.submitAssessment)
	mux.HandleFunc("GET /api/assessments/{attemptID}", h.getAssessment)
	mux.HandleFunc("GET /api/assessments/{attemptID}/report", h.getReport)

	mux.HandleFunc("GET /api/students/{studentID}/assessments", h.listStudentAssessments)
	mux.HandleFunc("GET /api/students/{studentID}/topic-scores", h.listStudentTopicScores)

	mux.HandleFunc("GET /api/colleges", h.listColleges)
	mux.HandleFunc("GET /api/colleges/{collegeID}/students", h.listCollegeStudents)
	mux.HandleFunc("GET /api/colleges/{collegeID}/export.xlsx", h.exportCollege)

	mux.Handle("GET /ws/preview", live.NewHandler(h.svc, h.logger, h.opts.OriginPatterns...))
}

// respondJSON writes a JSON response with the given status code. The value is
// encoded before the header goes out, so an unencodable value becomes a 500.
func respondJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encoding response failed", "status", status, "type", fmt.Sprintf("%T", v), "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Debug("writing response failed", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// handleError maps service and scoring errors to HTTP responses. Returns
// true if an error was handled (caller should return).
func (h *Handler) handleError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}

	var verr *assessment.ValidationError
	var mqe *scoring.MalformedQuestionError
	var cfgErr *scoring.ConfigurationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, assessment.ErrUnknownBank):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, assessment.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.As(err, &mqe), errors.Is(err, scoring.ErrEmptyBank):
		h.logger.Warn("unscorable question bank", "error", err, "entity", entity)
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &cfgErr):
		h.logger.Error("scoring configuration error", "error", err, "topic", cfgErr.Topic)
		respondError(w, http.StatusInternalServerError, "scoring configuration error")
	default:
		h.logger.Error("request failed", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
