package scoring

import "testing"

func TestAdvisor_Advice(t *testing.T) {
	a := DefaultAdvisor()

	if got := a.Advice("Math"); got != "Brush up on linear algebra, stats, and derivatives." {
		t.Errorf("Advice(Math) = %q", got)
	}
	if got := a.Advice("Rust"); got != "Practice and deepen understanding of Rust." {
		t.Errorf("Advice(Rust) = %q, want interpolated fallback", got)
	}
}

func TestAdvisor_ZeroValueFallback(t *testing.T) {
	var a Advisor
	if got := a.Advice("Go"); got != "Practice and deepen understanding of Go." {
		t.Errorf("Advice(Go) = %q, want default fallback", got)
	}

	a.Fallback = "Spend a week on {topic}, then retake the {topic} section."
	if got := a.Advice("SQL"); got != "Spend a week on SQL, then retake the SQL section." {
		t.Errorf("Advice(SQL) = %q", got)
	}
}

func TestAdvisor_Recommend(t *testing.T) {
	scores := []TopicScore{
		{Topic: "Python", NormalizedScore: 90},
		{Topic: "Math", NormalizedScore: 10},
		{Topic: "Projects", NormalizedScore: 55},
		{Topic: "Tools & Git", NormalizedScore: 70},
		{Topic: "AI Use Cases", NormalizedScore: 50},
	}

	recs := DefaultAdvisor().Recommend(scores, SummaryClassificationPolicy)

	want := []struct {
		topic    string
		priority Priority
	}{
		{"Math", PriorityHigh},
		{"Projects", PriorityMedium},
		{"AI Use Cases", PriorityMedium},
	}
	if len(recs) != len(want) {
		t.Fatalf("len(recs) = %d, want %d: %+v", len(recs), len(want), recs)
	}
	for i, w := range want {
		if recs[i].Topic != w.topic || recs[i].Priority != w.priority {
			t.Errorf("recs[%d] = %s/%s, want %s/%s", i, recs[i].Topic, recs[i].Priority, w.topic, w.priority)
		}
	}
}

func TestAdvisor_Recommend_Empty(t *testing.T) {
	recs := DefaultAdvisor().Recommend([]TopicScore{{Topic: "Python", NormalizedScore: 100}}, SummaryClassificationPolicy)
	if recs == nil {
		t.Fatal("Recommend() = nil, want empty non-nil slice")
	}
	if len(recs) != 0 {
		t.Errorf("len(recs) = %d, want 0", len(recs))
	}
}
