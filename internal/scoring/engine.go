package scoring

import (
	"fmt"
	"math"
)

// Config holds every table the engine scores with.
type Config struct {
	TopicWeights      TopicWeights
	DifficultyWeights DifficultyWeights
	StoragePolicy     ClassificationPolicy
	SummaryPolicy     ClassificationPolicy
	Advisor           Advisor
}

// DefaultConfig returns the built-in tables.
func DefaultConfig() Config {
	return Config{
		TopicWeights:      DefaultTopicWeights(),
		DifficultyWeights: DefaultDifficultyWeights(),
		StoragePolicy:     StorageClassificationPolicy,
		SummaryPolicy:     SummaryClassificationPolicy,
		Advisor:           DefaultAdvisor(),
	}
}

// Engine scores assessment attempts. It is safe for concurrent use.
type Engine struct {
	cfg         Config
	fingerprint string
}

// NewEngine validates cfg and returns an engine holding a private copy of
// its tables. Zero-valued difficulty weights and policies take the defaults.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.DifficultyWeights == (DifficultyWeights{}) {
		cfg.DifficultyWeights = DefaultDifficultyWeights()
	}
	if cfg.StoragePolicy == (ClassificationPolicy{}) {
		cfg.StoragePolicy = StorageClassificationPolicy
	}
	if cfg.SummaryPolicy == (ClassificationPolicy{}) {
		cfg.SummaryPolicy = SummaryClassificationPolicy
	}

	if err := cfg.DifficultyWeights.validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	if err := cfg.TopicWeights.validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	for _, p := range []ClassificationPolicy{cfg.StoragePolicy, cfg.SummaryPolicy} {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("invalid scoring config: %w", err)
		}
	}

	cfg = cfg.clone()
	return &Engine{cfg: cfg, fingerprint: cfg.Fingerprint()}, nil
}

// Config returns a copy of the engine's tables.
func (e *Engine) Config() Config {
	return e.cfg.clone()
}

// Fingerprint returns the fingerprint of the engine's tables.
func (e *Engine) Fingerprint() string {
	return e.fingerprint
}

// Compute scores one attempt. It either returns a complete result or an
// error, never both.
func (e *Engine) Compute(bank []Question, answers Answers) (*Result, error) {
	tallies, err := Aggregate(bank, answers)
	if err != nil {
		return nil, err
	}

	res := &Result{
		QuestionCount: len(bank),
		Topics:        make([]TopicScore, 0, len(tallies)),
		Strengths:     []string{},
		Gaps:          []string{},
		Fingerprint:   e.fingerprint,
	}

	var points float64
	for _, t := range tallies {
		weight, err := e.cfg.TopicWeights.Lookup(t.Topic)
		if err != nil {
			return nil, err
		}
		score := e.scoreTopic(t, weight)
		points += score.Points
		res.CorrectCount += score.Correct
		res.Topics = append(res.Topics, score)
	}

	maxPoints := float64(len(bank)) * maxDifficultyWeight * readinessTopicFactor
	res.Readiness = clampPercent(points / maxPoints * 100)
	res.ScorePercent = float64(res.CorrectCount) / float64(len(bank)) * 100

	for _, s := range res.Topics {
		switch e.cfg.SummaryPolicy.Classify(s.NormalizedScore) {
		case Strength:
			res.Strengths = append(res.Strengths, s.Topic)
		case Gap:
			res.Gaps = append(res.Gaps, s.Topic)
		}
	}
	res.Recommendations = e.cfg.Advisor.Recommend(res.Topics, e.cfg.SummaryPolicy)

	return res, nil
}

// scoreTopic weights one tally. A topic with no correct answers scores zero
// outright; there are no correct answers to average a difficulty over.
func (e *Engine) scoreTopic(t TopicTally, topicWeight float64) TopicScore {
	s := TopicScore{
		Topic:       t.Topic,
		Correct:     t.Correct,
		Total:       t.Total,
		Levels:      t.Levels,
		TopicWeight: topicWeight,
	}

	if t.Correct > 0 {
		ratio := float64(t.Correct) / float64(t.Total)
		avgDifficulty := e.cfg.DifficultyWeights.Sum(t.Levels) / float64(t.Correct)

		s.WeightedScore = ratio * avgDifficulty * topicWeight * 100
		s.Points = float64(t.Correct) * avgDifficulty * topicWeight
	}

	s.NormalizedScore = clampPercent(s.WeightedScore)
	s.Classification = e.cfg.StoragePolicy.Classify(s.NormalizedScore)
	return s
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func (c Config) clone() Config {
	c.TopicWeights = c.TopicWeights.clone()
	c.Advisor = c.Advisor.clone()
	return c
}
