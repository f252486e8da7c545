package scoring

import (
	"fmt"
	"maps"
)

// DefaultTopicWeight applies to topics absent from the weight table.
const DefaultTopicWeight = 1.0

// Readiness normalization assumes each question can contribute at most
// maxDifficultyWeight × readinessTopicFactor points. The topic factor is a fixed
// constant, not the largest entry in the configured table.
const (
	maxDifficultyWeight  = 2.0
	readinessTopicFactor = 1.5
)

// MaxTopicWeight bounds configured topic weights so weighted scores and
// points stay finite for any bank size.
const MaxTopicWeight = 1e6

// DifficultyWeights holds the multiplier for each difficulty level.
type DifficultyWeights struct {
	Basic        float64 `yaml:"basic" json:"basic"`
	Intermediate float64 `yaml:"intermediate" json:"intermediate"`
	Advanced     float64 `yaml:"advanced" json:"advanced"`
}

// DefaultDifficultyWeights returns 1.0 / 1.5 / 2.0.
func DefaultDifficultyWeights() DifficultyWeights {
	return DifficultyWeights{Basic: 1.0, Intermediate: 1.5, Advanced: 2.0}
}

// Of returns the weight for d.
func (w DifficultyWeights) Of(d Difficulty) float64 {
	switch d {
	case Basic:
		return w.Basic
	case Intermediate:
		return w.Intermediate
	case Advanced:
		return w.Advanced
	default:
		return 0
	}
}

// Sum returns the weighted sum of the level counts.
func (w DifficultyWeights) Sum(c LevelCounts) float64 {
	return float64(c.Basic)*w.Basic +
		float64(c.Intermediate)*w.Intermediate +
		float64(c.Advanced)*w.Advanced
}

// validate rejects weights above maxDifficultyWeight: the readiness
// denominator is fixed at that value per question.
func (w DifficultyWeights) validate() error {
	for _, d := range Difficulties {
		v := w.Of(d)
		if !(v > 0) || v > maxDifficultyWeight {
			return fmt.Errorf("difficulty weight for %s must be in (0, %v], got %v", d, maxDifficultyWeight, v)
		}
	}
	return nil
}

// TopicWeights maps topic names to multipliers. Entries are optional: a
// topic with no entry resolves to Default unless DisableDefault is set.
type TopicWeights struct {
	Weights        map[string]float64
	Default        float64
	DisableDefault bool
}

// DefaultTopicWeights returns the built-in weight table.
func DefaultTopicWeights() TopicWeights {
	return TopicWeights{
		Weights: map[string]float64{
			"ML Concepts":               1.2,
			"Python":                    1.0,
			"Cloud & Deployment":        1.5,
			"Tools & Git":               1.1,
			"AI Use Cases":              1.1,
			"Projects":                  0.9,
			"Math":                      0.8,
			"Modern AI Stack Awareness": 1.5,
		},
		Default: DefaultTopicWeight,
	}
}

// Lookup resolves the weight for topic.
func (w TopicWeights) Lookup(topic string) (float64, error) {
	if v, ok := w.Weights[topic]; ok {
		return v, nil
	}
	if w.DisableDefault {
		return 0, &ConfigurationError{Topic: topic}
	}
	if w.Default > 0 {
		return w.Default, nil
	}
	return DefaultTopicWeight, nil
}

func (w TopicWeights) clone() TopicWeights {
	w.Weights = maps.Clone(w.Weights)
	return w
}

func (w TopicWeights) validate() error {
	for topic, v := range w.Weights {
		if !validWeight(v) {
			return fmt.Errorf("topic weight for %q must be in (0, %g], got %v", topic, MaxTopicWeight, v)
		}
	}
	if w.Default != 0 && !validWeight(w.Default) {
		return fmt.Errorf("default topic weight must be in (0, %g], got %v", MaxTopicWeight, w.Default)
	}
	return nil
}

// validWeight rejects zero, negative, NaN and oversized multipliers.
func validWeight(v float64) bool {
	return v > 0 && v <= MaxTopicWeight
}
