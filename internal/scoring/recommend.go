package scoring

import (
	"maps"
	"strings"
)

// TopicPlaceholder is replaced with the topic name in the fallback advice.
const TopicPlaceholder = "{topic}"

const defaultFallbackAdvice = "Practice and deepen understanding of " + TopicPlaceholder + "."

// Advisor produces advisory text for topics that need work.
type Advisor struct {
	Texts    map[string]string
	Fallback string
}

// DefaultAdvisor returns the built-in advisory table.
func DefaultAdvisor() Advisor {
	return Advisor{
		Texts: map[string]string{
			"Python":                    "Practice basic Python syntax and build small CLI apps.",
			"Math":                      "Brush up on linear algebra, stats, and derivatives.",
			"Projects":                  "Work on hands-on mini-projects to apply concepts.",
			"Cloud & Deployment":        "Try deploying apps to AWS/GCP.",
			"ML Concepts":               "Study supervised/unsupervised algorithms.",
			"Tools & Git":               "Learn Git basics with real collaborative projects.",
			"AI Use Cases":              "Explore real-world applications and case studies.",
			"Modern AI Stack Awareness": "Understand tools like LangChain, Vector DBs, and inference APIs.",
		},
		Fallback: defaultFallbackAdvice,
	}
}

// Advice returns the text for topic, falling back to the generic template.
func (a Advisor) Advice(topic string) string {
	if text, ok := a.Texts[topic]; ok && text != "" {
		return text
	}
	fallback := a.Fallback
	if fallback == "" {
		fallback = defaultFallbackAdvice
	}
	return strings.ReplaceAll(fallback, TopicPlaceholder, topic)
}

// Recommend returns one entry per topic that the summary policy labels Gap
// (High) or Optional (Medium), in input order. The result is never nil.
func (a Advisor) Recommend(scores []TopicScore, policy ClassificationPolicy) []Recommendation {
	recs := []Recommendation{}
	for _, s := range scores {
		var priority Priority
		switch policy.Classify(s.NormalizedScore) {
		case Gap:
			priority = PriorityHigh
		case Optional:
			priority = PriorityMedium
		default:
			continue
		}
		recs = append(recs, Recommendation{
			Topic:    s.Topic,
			Text:     a.Advice(s.Topic),
			Priority: priority,
		})
	}
	return recs
}

func (a Advisor) clone() Advisor {
	a.Texts = maps.Clone(a.Texts)
	return a
}
