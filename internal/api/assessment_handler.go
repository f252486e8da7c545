package api

import (
	"net/http"
	"time"

	"github.com/xworks/readiness/internal/assessment"
	"github.com/xworks/readiness/internal/report"
	"github.com/xworks/readiness/internal/scoring"
)

// ── Request / Response types ────────────────────────────────────────────────

type PreviewRequest struct {
	BankID  string          `json:"bank_id"`
	Answers scoring.Answers `json:"answers"`
}

// SubmitRequest accepts RFC 3339 timestamps or, for older clients, epoch
// milliseconds in time_started / time_completed.
type SubmitRequest struct {
	StudentID     int64           `json:"student_id"`
	BankID        string          `json:"bank_id"`
	Answers       scoring.Answers `json:"answers"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   time.Time       `json:"completed_at"`
	TimeStarted   int64           `json:"time_started,omitempty"`
	TimeCompleted int64           `json:"time_completed,omitempty"`
}

func (r *SubmitRequest) times() (started, completed time.Time) {
	started, completed = r.StartedAt, r.CompletedAt
	if started.IsZero() && r.TimeStarted > 0 {
		started = time.UnixMilli(r.TimeStarted).UTC()
	}
	if completed.IsZero() && r.TimeCompleted > 0 {
		completed = time.UnixMilli(r.TimeCompleted).UTC()
	}
	return started, completed
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /api/assessments/preview
func (h *Handler) previewAssessment(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Answers == nil {
		respondError(w, http.StatusBadRequest, "answers is required")
		return
	}

	res, err := h.svc.Preview(r.Context(), h.bankID(req.BankID), req.Answers)
	if h.handleError(w, err, "bank") {
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// POST /api/assessments
func (h *Handler) submitAssessment(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	started, completed := req.times()
	attempt, err := h.svc.Submit(r.Context(), assessment.Submission{
		StudentID:   req.StudentID,
		BankID:      h.bankID(req.BankID),
		Answers:     req.Answers,
		StartedAt:   started,
		CompletedAt: completed,
	})
	if h.handleError(w, err, "assessment") {
		return
	}
	respondJSON(w, http.StatusCreated, attempt)
}

// GET /api/assessments/{attemptID}
func (h *Handler) getAssessment(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.svc.Attempt(r.Context(), r.PathValue("attemptID"))
	if h.handleError(w, err, "assessment") {
		return
	}
	respondJSON(w, http.StatusOK, attempt)
}

// GET /api/assessments/{attemptID}/report
func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("attemptID")

	cached, ok, err := h.reports.Get(ctx, id)
	if err != nil {
		h.logger.Warn("report cache read failed", "attempt_id", id, "error", err)
	}
	if ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	attempt, err := h.svc.Attempt(ctx, id)
	if h.handleError(w, err, "assessment") {
		return
	}

	rep := report.Build(attempt, h.svc.Engine().Config().SummaryPolicy)
	if err := h.reports.Set(ctx, rep); err != nil {
		h.logger.Warn("report cache write failed", "attempt_id", id, "error", err)
	}
	respondJSON(w, http.StatusOK, rep)
}

// GET /api/students/{studentID}/assessments
func (h *Handler) listStudentAssessments(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(r, "studentID")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	history, err := h.svc.History(r.Context(), studentID)
	if h.handleError(w, err, "student") {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"assessments": history})
}

// GET /api/students/{studentID}/topic-scores
func (h *Handler) listStudentTopicScores(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(r, "studentID")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	scores, err := h.svc.TopicScores(r.Context(), studentID)
	if h.handleError(w, err, "student") {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"scores": scores})
}

func (h *Handler) bankID(requested string) string {
	if requested != "" {
		return requested
	}
	return h.opts.DefaultBankID
}
