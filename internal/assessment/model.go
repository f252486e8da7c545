package assessment

import (
	"time"

	"github.com/xworks/readiness/internal/scoring"
)

// StatusCompleted is the only status a stored attempt can have.
const StatusCompleted = "completed"

// College groups students for dean-level reporting.
type College struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Student is a registered student.
type Student struct {
	ID                 int64  `json:"id"`
	CollegeID          int64  `json:"college_id,omitempty"`
	Name               string `json:"name"`
	Email              string `json:"email,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

// Submission is a completed attempt as sent by the client.
type Submission struct {
	StudentID   int64           `json:"student_id"`
	BankID      string          `json:"bank_id"`
	Answers     scoring.Answers `json:"answers"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
}

// AnswerRecord is one stored answer. Selected is nil for a skipped question.
type AnswerRecord struct {
	QuestionID string `json:"question_id"`
	Selected   *int   `json:"selected,omitempty"`
	Option     string `json:"option,omitempty"`
	Correct    bool   `json:"is_correct"`
}

// Attempt is a scored, persisted submission.
type Attempt struct {
	ID          string         `json:"id"`
	StudentID   int64          `json:"student_id"`
	BankID      string         `json:"bank_id"`
	Status      string         `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	Result      scoring.Result `json:"result"`
	Answers     []AnswerRecord `json:"answers"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Summary condenses the attempt for history listings.
func (a *Attempt) Summary() AttemptSummary {
	return AttemptSummary{
		ID:            a.ID,
		BankID:        a.BankID,
		CorrectCount:  a.Result.CorrectCount,
		QuestionCount: a.Result.QuestionCount,
		ScorePercent:  a.Result.ScorePercent,
		Readiness:     a.Result.Readiness,
		AttemptedAt:   a.CompletedAt,
	}
}

// AttemptSummary is an attempt without answers or per-topic detail.
type AttemptSummary struct {
	ID            string    `json:"id"`
	BankID        string    `json:"bank_id"`
	CorrectCount  int       `json:"score"`
	QuestionCount int       `json:"total_questions"`
	ScorePercent  float64   `json:"score_percent"`
	Readiness     float64   `json:"readiness_score"`
	AttemptedAt   time.Time `json:"attempted_at"`
}

// StudentTopicScore is a stored topic score tagged with its attempt.
type StudentTopicScore struct {
	AttemptID string `json:"attempt_id"`
	scoring.TopicScore
	AttemptedAt time.Time `json:"attempted_at"`
}

// CollegeStudent is a student with their attempt history, newest first.
type CollegeStudent struct {
	Student
	Assessments []AttemptSummary `json:"assessments"`
}

// optionLetter maps an option index to its letter: 0 → A, 1 → B.
func optionLetter(i int) string {
	if i < 0 || i >= 26 {
		return ""
	}
	return string(rune('A' + i))
}
