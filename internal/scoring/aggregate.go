package scoring

import (
	"fmt"
	"strings"
)

// TopicTally holds the raw counts for one topic before weighting.
type TopicTally struct {
	Topic   string
	Correct int
	Total   int
	Levels  LevelCounts
}

// Aggregate groups the bank by topic and counts correct answers per
// difficulty. Every topic present in the bank gets a tally, in order of first
// appearance.
//
// A question with no entry in answers counts toward Total but never toward
// Correct: skipped is scored as wrong.
func Aggregate(bank []Question, answers Answers) ([]TopicTally, error) {
	if len(bank) == 0 {
		return nil, ErrEmptyBank
	}

	seen := make(map[string]struct{}, len(bank))
	index := make(map[string]int)
	var tallies []TopicTally

	for _, q := range bank {
		if err := validateQuestion(q); err != nil {
			return nil, err
		}
		if _, dup := seen[q.ID]; dup {
			return nil, &MalformedQuestionError{QuestionID: q.ID, Reason: "duplicate question id"}
		}
		seen[q.ID] = struct{}{}

		i, ok := index[q.Topic]
		if !ok {
			i = len(tallies)
			index[q.Topic] = i
			tallies = append(tallies, TopicTally{Topic: q.Topic})
		}

		t := &tallies[i]
		t.Total++
		if selected, answered := answers[q.ID]; answered && q.IsCorrect(selected) {
			t.Correct++
			t.Levels.add(q.Difficulty)
		}
	}

	return tallies, nil
}

func validateQuestion(q Question) error {
	switch {
	case q.ID == "":
		return &MalformedQuestionError{Reason: "missing question id"}
	case strings.TrimSpace(q.Topic) == "":
		return &MalformedQuestionError{QuestionID: q.ID, Reason: "missing topic"}
	case !q.Difficulty.Valid():
		return &MalformedQuestionError{QuestionID: q.ID, Reason: fmt.Sprintf("unknown difficulty %q", q.Difficulty)}
	case len(q.Options) < 2:
		return &MalformedQuestionError{QuestionID: q.ID, Reason: "fewer than two options"}
	case q.CorrectOption < 0 || q.CorrectOption >= len(q.Options):
		return &MalformedQuestionError{QuestionID: q.ID, Reason: "correct option out of range"}
	}
	return nil
}
