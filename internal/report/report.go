// Package report turns stored attempts into student-facing reports and
// college-level spreadsheet exports.
package report

import (
	"time"

	"github.com/xworks/readiness/internal/assessment"
	"github.com/xworks/readiness/internal/scoring"
)

// Placement is the overall verdict shown at the top of a report.
type Placement string

const (
	PlacementReady            Placement = "Ready"
	PlacementAlmostReady      Placement = "Almost Ready"
	PlacementNeedsImprovement Placement = "Needs Improvement"
)

// Placement cut-offs on the readiness score.
const (
	readyAt       = 80
	almostReadyAt = 60
)

const (
	noMajorGapsMessage = "No major gaps identified. Great job!"
	noStrengthsMessage = "Keep working to build your strengths!"
)

// PlacementFor maps a readiness score to a placement.
func PlacementFor(readiness float64) Placement {
	switch {
	case readiness >= readyAt:
		return PlacementReady
	case readiness >= almostReadyAt:
		return PlacementAlmostReady
	default:
		return PlacementNeedsImprovement
	}
}

// ChartPoint is one bar or radar spoke in the topic chart.
type ChartPoint struct {
	Topic string                 `json:"topic"`
	Score float64                `json:"score"`
	Band  scoring.Classification `json:"band"`
}

// Report is the rendered view of one attempt.
type Report struct {
	AttemptID       string                   `json:"attempt_id"`
	StudentID       int64                    `json:"student_id"`
	BankID          string                   `json:"bank_id"`
	CompletedAt     time.Time                `json:"completed_at"`
	Readiness       float64                  `json:"readiness_score"`
	ScorePercent    float64                  `json:"score_percent"`
	CorrectCount    int                      `json:"correct_answers"`
	QuestionCount   int                      `json:"total_questions"`
	Placement       Placement                `json:"placement"`
	Chart           []ChartPoint             `json:"chart"`
	Strengths       []string                 `json:"strengths"`
	Gaps            []string                 `json:"gaps"`
	Recommendations []scoring.Recommendation `json:"recommendations"`

	// NoMajorGaps is set when there is nothing to recommend; Message then
	// holds the text to show in place of the recommendation list.
	NoMajorGaps      bool   `json:"no_major_gaps"`
	Message          string `json:"message,omitempty"`
	StrengthsMessage string `json:"strengths_message,omitempty"`

	Fingerprint string `json:"config_fingerprint"`
}

// Build renders an attempt. Chart bands use policy, which should be the
// summary policy of the engine that scored the attempt.
func Build(a *assessment.Attempt, policy scoring.ClassificationPolicy) *Report {
	res := a.Result
	r := &Report{
		AttemptID:       a.ID,
		StudentID:       a.StudentID,
		BankID:          a.BankID,
		CompletedAt:     a.CompletedAt,
		Readiness:       res.Readiness,
		ScorePercent:    res.ScorePercent,
		CorrectCount:    res.CorrectCount,
		QuestionCount:   res.QuestionCount,
		Placement:       PlacementFor(res.Readiness),
		Chart:           make([]ChartPoint, 0, len(res.Topics)),
		Strengths:       nonNil(res.Strengths),
		Gaps:            nonNil(res.Gaps),
		Recommendations: res.Recommendations,
		Fingerprint:     res.Fingerprint,
	}
	if r.Recommendations == nil {
		r.Recommendations = []scoring.Recommendation{}
	}

	for _, t := range res.Topics {
		r.Chart = append(r.Chart, ChartPoint{
			Topic: t.Topic,
			Score: t.NormalizedScore,
			Band:  policy.Classify(t.NormalizedScore),
		})
	}

	if len(r.Recommendations) == 0 {
		r.NoMajorGaps = true
		r.Message = noMajorGapsMessage
	}
	if len(r.Strengths) == 0 {
		r.StrengthsMessage = noStrengthsMessage
	}
	return r
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
