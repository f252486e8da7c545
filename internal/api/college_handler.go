package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/xworks/readiness/internal/assessment"
	"github.com/xworks/readiness/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /api/colleges
func (h *Handler) listColleges(w http.ResponseWriter, r *http.Request) {
	colleges, err := h.svc.Colleges(r.Context())
	if h.handleError(w, err, "college") {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"colleges": colleges})
}

// GET /api/colleges/{collegeID}/students
func (h *Handler) listCollegeStudents(w http.ResponseWriter, r *http.Request) {
	collegeID, ok := pathID(r, "collegeID")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid college id")
		return
	}

	students, err := h.svc.CollegeStudents(r.Context(), collegeID)
	if h.handleError(w, err, "college") {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"students": students})
}

// GET /api/colleges/{collegeID}/export.xlsx
func (h *Handler) exportCollege(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	collegeID, ok := pathID(r, "collegeID")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid college id")
		return
	}

	colleges, err := h.svc.Colleges(ctx)
	if h.handleError(w, err, "college") {
		return
	}
	var college *assessment.College
	for i := range colleges {
		if colleges[i].ID == collegeID {
			college = &colleges[i]
			break
		}
	}
	if college == nil {
		respondError(w, http.StatusNotFound, "college not found")
		return
	}

	students, err := h.svc.CollegeStudents(ctx, collegeID)
	if h.handleError(w, err, "college") {
		return
	}

	var topics []report.TopicRow
	for _, s := range students {
		scores, err := h.svc.TopicScores(ctx, s.ID)
		if h.handleError(w, err, "student") {
			return
		}
		for _, ts := range scores {
			topics = append(topics, report.TopicRow{StudentID: s.ID, StudentTopicScore: ts})
		}
	}

	var buf bytes.Buffer
	if err := report.WriteCollegeWorkbook(&buf, *college, students, topics); err != nil {
		h.logger.Error("college export failed", "college_id", collegeID, "error", err)
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="college-%d-readiness.xlsx"`, collegeID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
