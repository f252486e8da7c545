package scoring_test

import (
	"testing"

	"github.com/xworks/readiness/internal/scoring"
)

func TestStorageClassificationPolicy(t *testing.T) {
	tests := []struct {
		score float64
		want  scoring.Classification
	}{
		{0, scoring.Gap},
		{49.999, scoring.Gap},
		{50, scoring.Optional},
		{62.5, scoring.Optional},
		{74.999, scoring.Optional},
		{75, scoring.Strength},
		{100, scoring.Strength},
	}

	for _, tt := range tests {
		got := scoring.StorageClassificationPolicy.Classify(tt.score)
		if got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestSummaryClassificationPolicy(t *testing.T) {
	tests := []struct {
		score float64
		want  scoring.Classification
	}{
		{49.999, scoring.Gap},
		{50, scoring.Optional},
		{69.999, scoring.Optional},
		{70, scoring.Strength},
		{74, scoring.Strength},
	}

	for _, tt := range tests {
		got := scoring.SummaryClassificationPolicy.Classify(tt.score)
		if got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestClassify_Total(t *testing.T) {
	valid := map[scoring.Classification]bool{
		scoring.Strength: true,
		scoring.Optional: true,
		scoring.Gap:      true,
	}

	for _, p := range []scoring.ClassificationPolicy{
		scoring.StorageClassificationPolicy,
		scoring.SummaryClassificationPolicy,
	} {
		prev := scoring.Gap
		rank := map[scoring.Classification]int{scoring.Gap: 0, scoring.Optional: 1, scoring.Strength: 2}
		for score := 0.0; score <= 100; score += 0.25 {
			got := p.Classify(score)
			if !valid[got] {
				t.Fatalf("%s: Classify(%v) = %q, not a known label", p.Name, score, got)
			}
			if rank[got] < rank[prev] {
				t.Fatalf("%s: Classify(%v) = %q after %q, labels must not decrease", p.Name, score, got, prev)
			}
			prev = got
		}
	}
}
