package questionbank

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xworks/readiness/internal/scoring"
)

type scoringDoc struct {
	DefaultTopicWeight        float64                    `yaml:"default_topic_weight"`
	DisableDefaultTopicWeight bool                       `yaml:"disable_default_topic_weight"`
	TopicWeights              map[string]float64         `yaml:"topic_weights"`
	DifficultyWeights         *scoring.DifficultyWeights `yaml:"difficulty_weights"`
	Recommendations           map[string]string          `yaml:"recommendations"`
	FallbackRecommendation    string                     `yaml:"fallback_recommendation"`
}

// LoadScoringConfig reads the scoring tables from a YAML file. An empty path
// yields the built-in defaults. Tables present in the file replace the
// corresponding built-in table as a whole.
func LoadScoringConfig(path string) (scoring.Config, error) {
	cfg := scoring.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Config{}, fmt.Errorf("reading scoring config: %w", err)
	}
	cfg, err = ParseScoringConfig(data)
	if err != nil {
		return scoring.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseScoringConfig decodes a scoring config document on top of the defaults.
func ParseScoringConfig(data []byte) (scoring.Config, error) {
	cfg := scoring.DefaultConfig()

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return scoring.Config{}, fmt.Errorf("parsing yaml: %w", err)
	}
	if raw == nil {
		return cfg, nil
	}
	if err := validateDoc(scoringSchema, raw); err != nil {
		return scoring.Config{}, err
	}

	var doc scoringDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return scoring.Config{}, fmt.Errorf("decoding scoring config: %w", err)
	}

	if doc.TopicWeights != nil {
		weights := make(map[string]float64, len(doc.TopicWeights))
		for topic, w := range doc.TopicWeights {
			weights[NormalizeTopic(topic)] = w
		}
		cfg.TopicWeights.Weights = weights
	}
	if doc.DefaultTopicWeight > 0 {
		cfg.TopicWeights.Default = doc.DefaultTopicWeight
	}
	cfg.TopicWeights.DisableDefault = doc.DisableDefaultTopicWeight

	if doc.DifficultyWeights != nil {
		cfg.DifficultyWeights = *doc.DifficultyWeights
	}

	if doc.Recommendations != nil {
		texts := make(map[string]string, len(doc.Recommendations))
		for topic, text := range doc.Recommendations {
			texts[NormalizeTopic(topic)] = text
		}
		cfg.Advisor.Texts = texts
	}
	if doc.FallbackRecommendation != "" {
		cfg.Advisor.Fallback = doc.FallbackRecommendation
	}

	return cfg, nil
}
