package assessment_test

import (
	"testing"

	"github.com/xworks/readiness/internal/assessment"
	"github.com/xworks/readiness/internal/questionbank"
)

func mustBanks(t *testing.T) *questionbank.Loader {
	t.Helper()
	banks, err := questionbank.FromBanks(testBank())
	if err != nil {
		t.Fatalf("FromBanks() error = %v", err)
	}
	return banks
}

func TestMemoryEventLogger_LogEvent(t *testing.T) {
	logger := assessment.NewMemoryEventLogger()

	err := logger.LogEvent(t.Context(), assessment.Event{
		AttemptID: "attempt-1",
		StudentID: 7,
		EventType: assessment.EventAssessmentScored,
		Data: map[string]any{
			"readiness_score": 42.5,
		},
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].EventType != assessment.EventAssessmentScored {
		t.Errorf("EventType = %q, want %s", events[0].EventType, assessment.EventAssessmentScored)
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestMemoryEventLogger_RequiresType(t *testing.T) {
	logger := assessment.NewMemoryEventLogger()
	if err := logger.LogEvent(t.Context(), assessment.Event{AttemptID: "a"}); err == nil {
		t.Error("expected error for empty event type")
	}
}

func TestPostgresEventLogger_LogEvent_NilPool(t *testing.T) {
	logger := assessment.NewPostgresEventLogger(nil)

	err := logger.LogEvent(t.Context(), assessment.Event{
		AttemptID: "attempt-1",
		EventType: assessment.EventAssessmentScored,
	})
	if err == nil {
		t.Fatal("expected error for nil pool")
	}
}
