package scoring

import (
	"errors"
	"fmt"
)

// ErrEmptyBank is returned when the question bank has no questions.
var ErrEmptyBank = errors.New("question bank is empty")

// MalformedQuestionError reports a question that cannot be scored.
type MalformedQuestionError struct {
	QuestionID string
	Reason     string
}

func (e *MalformedQuestionError) Error() string {
	return fmt.Sprintf("malformed question %q: %s", e.QuestionID, e.Reason)
}

// ConfigurationError reports a topic with no resolvable weight.
type ConfigurationError struct {
	Topic string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no weight configured for topic %q and default weight is disabled", e.Topic)
}
