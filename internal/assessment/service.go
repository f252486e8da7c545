// Package assessment scores, stores and retrieves assessment attempts.
//
// Service is the only place outside the scoring package that invokes the
// engine. Preview, persistence and reporting all read results produced here.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xworks/readiness/internal/questionbank"
	"github.com/xworks/readiness/internal/scoring"
)

// BankSource resolves question banks by ID.
type BankSource interface {
	Get(id string) (*questionbank.Bank, bool)
}

// Service coordinates scoring and storage of attempts.
type Service struct {
	engine *scoring.Engine
	banks  BankSource
	store  Store
	events EventLogger
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a service. A nil events logger disables event logging;
// a nil logger uses slog.Default().
func NewService(engine *scoring.Engine, banks BankSource, store Store, events EventLogger, logger *slog.Logger) *Service {
	if events == nil {
		events = NopEventLogger{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine: engine,
		banks:  banks,
		store:  store,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// Engine returns the engine the service scores with.
func (s *Service) Engine() *scoring.Engine {
	return s.engine
}

// Bank returns a loaded bank.
func (s *Service) Bank(id string) (*questionbank.Bank, error) {
	bank, ok := s.banks.Get(id)
	if !ok {
		return nil, fmt.Errorf("bank %q: %w", id, ErrUnknownBank)
	}
	return bank, nil
}

// Preview scores answers against a bank without storing anything.
func (s *Service) Preview(_ context.Context, bankID string, answers scoring.Answers) (*scoring.Result, error) {
	bank, err := s.Bank(bankID)
	if err != nil {
		return nil, err
	}
	return s.engine.Compute(bank.Questions, answers)
}

// Submit validates, scores and stores a completed attempt. A storage failure
// is returned as is; nothing is retried and no partial attempt remains.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Attempt, error) {
	bank, err := s.Bank(sub.BankID)
	if err != nil {
		return nil, err
	}
	if sub.CompletedAt.IsZero() {
		sub.CompletedAt = s.now()
	}
	if err := validateSubmission(sub, bank); err != nil {
		return nil, err
	}

	if _, err := s.store.GetStudent(ctx, sub.StudentID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &ValidationError{Field: "student_id", Reason: fmt.Sprintf("student %d is not registered", sub.StudentID)}
		}
		return nil, fmt.Errorf("lookup student: %w", err)
	}

	result, err := s.engine.Compute(bank.Questions, sub.Answers)
	if err != nil {
		return nil, err
	}

	attempt := &Attempt{
		StudentID:   sub.StudentID,
		BankID:      bank.ID,
		Status:      StatusCompleted,
		StartedAt:   sub.StartedAt,
		CompletedAt: sub.CompletedAt,
		Result:      *result,
		Answers:     answerRecords(bank.Questions, sub.Answers),
		CreatedAt:   s.now(),
	}

	id, err := s.store.SaveAttempt(ctx, attempt)
	if err != nil {
		return nil, fmt.Errorf("saving attempt: %w", err)
	}
	attempt.ID = id

	s.logger.Info("assessment scored",
		"attempt_id", id,
		"student_id", sub.StudentID,
		"bank_id", bank.ID,
		"readiness", result.Readiness,
		"fingerprint", result.Fingerprint,
	)

	if err := s.events.LogEvent(ctx, Event{
		AttemptID: id,
		StudentID: sub.StudentID,
		EventType: EventAssessmentScored,
		Data: map[string]any{
			"bank_id":            bank.ID,
			"readiness_score":    result.Readiness,
			"correct_answers":    result.CorrectCount,
			"total_questions":    result.QuestionCount,
			"gaps":               result.Gaps,
			"config_fingerprint": result.Fingerprint,
		},
	}); err != nil {
		s.logger.Warn("failed to log event", "type", EventAssessmentScored, "attempt_id", id, "error", err)
	}

	return attempt, nil
}

// Attempt returns a stored attempt.
func (s *Service) Attempt(ctx context.Context, id string) (*Attempt, error) {
	return s.store.GetAttempt(ctx, id)
}

// History returns a student's attempts, newest first.
func (s *Service) History(ctx context.Context, studentID int64) ([]AttemptSummary, error) {
	if studentID <= 0 {
		return nil, &ValidationError{Field: "student_id", Reason: "must be positive"}
	}
	return s.store.ListAttempts(ctx, studentID)
}

// TopicScores returns every stored topic score for a student, highest
// normalized score first.
func (s *Service) TopicScores(ctx context.Context, studentID int64) ([]StudentTopicScore, error) {
	if studentID <= 0 {
		return nil, &ValidationError{Field: "student_id", Reason: "must be positive"}
	}
	return s.store.ListTopicScores(ctx, studentID)
}

// Colleges lists colleges by name.
func (s *Service) Colleges(ctx context.Context) ([]College, error) {
	return s.store.ListColleges(ctx)
}

// CollegeStudents lists a college's students with their attempt summaries.
func (s *Service) CollegeStudents(ctx context.Context, collegeID int64) ([]CollegeStudent, error) {
	if collegeID <= 0 {
		return nil, &ValidationError{Field: "college_id", Reason: "must be positive"}
	}
	return s.store.ListCollegeStudents(ctx, collegeID)
}

func validateSubmission(sub Submission, bank *questionbank.Bank) error {
	if sub.StudentID <= 0 {
		return &ValidationError{Field: "student_id", Reason: "must be positive"}
	}
	if sub.Answers == nil {
		return &ValidationError{Field: "answers", Reason: "is required"}
	}
	if sub.StartedAt.IsZero() {
		return &ValidationError{Field: "started_at", Reason: "is required"}
	}
	if sub.CompletedAt.Before(sub.StartedAt) {
		return &ValidationError{Field: "completed_at", Reason: "is before started_at"}
	}

	options := make(map[string]int, len(bank.Questions))
	for _, q := range bank.Questions {
		options[q.ID] = len(q.Options)
	}
	for qid, selected := range sub.Answers {
		n, ok := options[qid]
		if !ok {
			return &ValidationError{Field: "answers", Reason: fmt.Sprintf("question %q is not in bank %q", qid, bank.ID)}
		}
		if selected < 0 || selected >= n {
			return &ValidationError{Field: "answers", Reason: fmt.Sprintf("option %d out of range for question %q", selected, qid)}
		}
	}
	return nil
}

// answerRecords lists one record per bank question, in bank order.
func answerRecords(bank []scoring.Question, answers scoring.Answers) []AnswerRecord {
	out := make([]AnswerRecord, 0, len(bank))
	for _, q := range bank {
		rec := AnswerRecord{QuestionID: q.ID}
		if selected, ok := answers[q.ID]; ok {
			rec.Selected = &selected
			rec.Option = optionLetter(selected)
			rec.Correct = q.IsCorrect(selected)
		}
		out = append(out, rec)
	}
	return out
}
