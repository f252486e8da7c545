package scoring

import "fmt"

// ClassificationPolicy maps a normalized score to a Classification.
// Scores at or above StrengthAt are Strength, scores below GapBelow are Gap,
// and everything in between is Optional.
type ClassificationPolicy struct {
	Name       string  `yaml:"name" json:"name"`
	StrengthAt float64 `yaml:"strength_at" json:"strength_at"`
	GapBelow   float64 `yaml:"gap_below" json:"gap_below"`
}

// StorageClassificationPolicy labels the classification stored on each
// TopicScore.
var StorageClassificationPolicy = ClassificationPolicy{Name: "storage", StrengthAt: 75, GapBelow: 50}

// SummaryClassificationPolicy drives the strengths/gaps lists and the
// recommendations. It is deliberately looser than the storage policy.
var SummaryClassificationPolicy = ClassificationPolicy{Name: "summary", StrengthAt: 70, GapBelow: 50}

// Classify returns exactly one label for score.
func (p ClassificationPolicy) Classify(score float64) Classification {
	switch {
	case score >= p.StrengthAt:
		return Strength
	case score < p.GapBelow:
		return Gap
	default:
		return Optional
	}
}

func (p ClassificationPolicy) validate() error {
	if p.GapBelow > p.StrengthAt {
		return fmt.Errorf("%s policy: gap threshold %v exceeds strength threshold %v", p.Name, p.GapBelow, p.StrengthAt)
	}
	return nil
}
