package report_test

import (
	"testing"
	"time"

	"github.com/xworks/readiness/internal/assessment"
	"github.com/xworks/readiness/internal/report"
	"github.com/xworks/readiness/internal/scoring"
)

func scoredAttempt(t *testing.T, answers scoring.Answers) *assessment.Attempt {
	t.Helper()

	opts := []string{"a", "b", "c", "d"}
	bank := []scoring.Question{
		{ID: "1", Topic: "Python", Difficulty: scoring.Advanced, Options: opts, CorrectOption: 0},
		{ID: "2", Topic: "Python", Difficulty: scoring.Advanced, Options: opts, CorrectOption: 0},
		{ID: "3", Topic: "Math", Difficulty: scoring.Basic, Options: opts, CorrectOption: 0},
		{ID: "4", Topic: "Math", Difficulty: scoring.Basic, Options: opts, CorrectOption: 0},
	}

	engine, err := scoring.NewEngine(scoring.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	res, err := engine.Compute(bank, answers)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return &assessment.Attempt{
		ID:          "attempt-1",
		StudentID:   7,
		BankID:      "ai-readiness",
		CompletedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Result:      *res,
	}
}

func TestPlacementFor(t *testing.T) {
	tests := []struct {
		readiness float64
		want      report.Placement
	}{
		{100, report.PlacementReady},
		{80, report.PlacementReady},
		{79.99, report.PlacementAlmostReady},
		{60, report.PlacementAlmostReady},
		{59.99, report.PlacementNeedsImprovement},
		{0, report.PlacementNeedsImprovement},
	}

	for _, tt := range tests {
		if got := report.PlacementFor(tt.readiness); got != tt.want {
			t.Errorf("PlacementFor(%v) = %q, want %q", tt.readiness, got, tt.want)
		}
	}
}

func TestBuild_WithGaps(t *testing.T) {
	// Python fully correct, Math all wrong.
	a := scoredAttempt(t, scoring.Answers{"1": 0, "2": 0})

	r := report.Build(a, scoring.SummaryClassificationPolicy)

	if r.AttemptID != "attempt-1" || r.StudentID != 7 {
		t.Errorf("ids = %s/%d", r.AttemptID, r.StudentID)
	}
	if r.NoMajorGaps {
		t.Error("NoMajorGaps should be false when Math is a gap")
	}
	if len(r.Chart) != 2 {
		t.Fatalf("len(Chart) = %d, want 2", len(r.Chart))
	}
	if r.Chart[0].Topic != "Python" || r.Chart[0].Band != scoring.Strength {
		t.Errorf("Chart[0] = %+v, want Python Strength", r.Chart[0])
	}
	if r.Chart[1].Topic != "Math" || r.Chart[1].Band != scoring.Gap || r.Chart[1].Score != 0 {
		t.Errorf("Chart[1] = %+v, want Math Gap at 0", r.Chart[1])
	}
	if len(r.Gaps) != 1 || r.Gaps[0] != "Math" {
		t.Errorf("Gaps = %v, want [Math]", r.Gaps)
	}
	if r.Placement != report.PlacementFor(r.Readiness) {
		t.Errorf("Placement = %q for readiness %v", r.Placement, r.Readiness)
	}
}

func TestBuild_NoMajorGaps(t *testing.T) {
	a := scoredAttempt(t, scoring.Answers{"1": 0, "2": 0, "3": 0, "4": 0})

	r := report.Build(a, scoring.SummaryClassificationPolicy)

	if !r.NoMajorGaps {
		t.Fatal("NoMajorGaps should be set when nothing is recommended")
	}
	if r.Message == "" {
		t.Error("Message should carry the positive text")
	}
	if r.Recommendations == nil || len(r.Recommendations) != 0 {
		t.Errorf("Recommendations = %v, want empty non-nil", r.Recommendations)
	}
	if r.StrengthsMessage != "" {
		t.Errorf("StrengthsMessage = %q, want empty when strengths exist", r.StrengthsMessage)
	}
}

func TestBuild_NoStrengths(t *testing.T) {
	a := scoredAttempt(t, scoring.Answers{})

	r := report.Build(a, scoring.SummaryClassificationPolicy)

	if r.Strengths == nil || len(r.Strengths) != 0 {
		t.Errorf("Strengths = %v, want empty non-nil", r.Strengths)
	}
	if r.StrengthsMessage == "" {
		t.Error("StrengthsMessage should be set when there are no strengths")
	}
	if r.Placement != report.PlacementNeedsImprovement {
		t.Errorf("Placement = %q, want Needs Improvement", r.Placement)
	}
}
