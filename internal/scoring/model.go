// Package scoring computes per-topic performance, a weighted readiness score,
// and a strengths/gaps classification for a multiple-choice assessment attempt.
//
// The package performs no I/O and holds no mutable shared state. Every call
// site (live preview, persistence, reporting) goes through Engine.Compute so
// the formula exists in exactly one place.
package scoring

import (
	"fmt"
	"slices"
)

// Difficulty is the level a question is tagged with.
type Difficulty string

const (
	Basic        Difficulty = "Basic"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// Difficulties lists the recognized levels in ascending order.
var Difficulties = []Difficulty{Basic, Intermediate, Advanced}

// ParseDifficulty returns the Difficulty named by s.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Valid reports whether d is one of the three recognized levels.
func (d Difficulty) Valid() bool {
	switch d {
	case Basic, Intermediate, Advanced:
		return true
	default:
		return false
	}
}

// Question is a single multiple-choice item in a question bank.
type Question struct {
	ID            string     `json:"id"`
	Topic         string     `json:"topic"`
	Difficulty    Difficulty `json:"level"`
	Section       string     `json:"section,omitempty"`
	Text          string     `json:"question,omitempty"`
	Options       []string   `json:"options"`
	CorrectOption int        `json:"correct_answer"`
}

// IsCorrect reports whether selected is the index of the correct option.
func (q Question) IsCorrect(selected int) bool {
	return selected == q.CorrectOption
}

// Answers maps a question id to the selected option index. A question
// missing from the map was skipped.
type Answers map[string]int

// Classification labels a topic score.
type Classification string

const (
	Strength Classification = "Strength"
	Optional Classification = "Optional"
	Gap      Classification = "Gap"
)

// LevelCounts holds correct answers broken down by difficulty.
type LevelCounts struct {
	Basic        int `json:"basic"`
	Intermediate int `json:"intermediate"`
	Advanced     int `json:"advanced"`
}

// Total returns the sum across all levels.
func (c LevelCounts) Total() int {
	return c.Basic + c.Intermediate + c.Advanced
}

func (c *LevelCounts) add(d Difficulty) {
	switch d {
	case Basic:
		c.Basic++
	case Intermediate:
		c.Intermediate++
	case Advanced:
		c.Advanced++
	}
}

// TopicScore is the computed result for a single topic.
type TopicScore struct {
	Topic           string         `json:"topic"`
	Correct         int            `json:"correct_answers"`
	Total           int            `json:"total_questions"`
	Levels          LevelCounts    `json:"levels"`
	TopicWeight     float64        `json:"topic_weight"`
	WeightedScore   float64        `json:"weighted_score"`
	NormalizedScore float64        `json:"normalized_score"`
	Classification  Classification `json:"classification"`

	// Points is the topic's contribution to the readiness numerator:
	// correct × average difficulty weight × topic weight.
	Points float64 `json:"points"`
}

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
)

// Recommendation is advisory text for a topic that needs work.
type Recommendation struct {
	Topic    string   `json:"topic"`
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
}

// Result is the complete output of a computation. Topics keep the order in
// which each topic first appears in the question bank.
type Result struct {
	Readiness       float64          `json:"readiness_score"`
	CorrectCount    int              `json:"correct_answers"`
	QuestionCount   int              `json:"total_questions"`
	ScorePercent    float64          `json:"score_percent"`
	Topics          []TopicScore     `json:"topic_scores"`
	Strengths       []string         `json:"strengths"`
	Gaps            []string         `json:"gaps"`
	Recommendations []Recommendation `json:"recommendations"`
	Fingerprint     string           `json:"config_fingerprint"`
}

// Clone returns a copy of r that shares no slices with it.
func (r Result) Clone() Result {
	r.Topics = slices.Clone(r.Topics)
	r.Strengths = slices.Clone(r.Strengths)
	r.Gaps = slices.Clone(r.Gaps)
	r.Recommendations = slices.Clone(r.Recommendations)
	return r
}

// Topic returns the score for the named topic.
func (r *Result) Topic(name string) (TopicScore, bool) {
	for _, t := range r.Topics {
		if t.Topic == name {
			return t, true
		}
	}
	return TopicScore{}, false
}
