package scoring

import (
	"encoding/hex"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint identifies the exact weight tables, thresholds and advisory
// texts in c. Two computation sites that report the same fingerprint score
// and advise identically.
func (c Config) Fingerprint() string {
	var b strings.Builder

	b.WriteString("difficulty")
	for _, d := range Difficulties {
		writeField(&b, string(d), c.DifficultyWeights.Of(d))
	}

	b.WriteString("|topics")
	topics := make([]string, 0, len(c.TopicWeights.Weights))
	for t := range c.TopicWeights.Weights {
		topics = append(topics, t)
	}
	slices.Sort(topics)
	for _, t := range topics {
		writeField(&b, t, c.TopicWeights.Weights[t])
	}
	writeField(&b, "default", c.TopicWeights.Default)
	b.WriteString(";strict=" + strconv.FormatBool(c.TopicWeights.DisableDefault))

	for _, p := range []ClassificationPolicy{c.StoragePolicy, c.SummaryPolicy} {
		b.WriteString("|" + p.Name)
		writeField(&b, "strength", p.StrengthAt)
		writeField(&b, "gap", p.GapBelow)
	}

	b.WriteString("|advice")
	advised := make([]string, 0, len(c.Advisor.Texts))
	for t, text := range c.Advisor.Texts {
		if text != "" {
			advised = append(advised, t)
		}
	}
	slices.Sort(advised)
	for _, t := range advised {
		b.WriteString(";" + strconv.Quote(t) + "=" + strconv.Quote(c.Advisor.Texts[t]))
	}
	fallback := c.Advisor.Fallback
	if fallback == "" {
		fallback = defaultFallbackAdvice
	}
	b.WriteString(";fallback=" + strconv.Quote(fallback))

	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}

func writeField(b *strings.Builder, key string, v float64) {
	b.WriteString(";")
	b.WriteString(strconv.Quote(key))
	b.WriteString("=")
	b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
}
