package questionbank

import "github.com/xworks/readiness/internal/scoring"

// Bank is a loaded, validated question bank.
type Bank struct {
	ID          string
	Title       string
	Description string
	Questions   []scoring.Question
}

// Topics returns the bank's topic names in order of first appearance.
func (b *Bank) Topics() []string {
	seen := make(map[string]bool)
	var topics []string
	for _, q := range b.Questions {
		if !seen[q.Topic] {
			seen[q.Topic] = true
			topics = append(topics, q.Topic)
		}
	}
	return topics
}

// PublicQuestion is a question as shown to a student, without the answer key.
type PublicQuestion struct {
	ID       string   `json:"id"`
	Topic    string   `json:"topic"`
	Level    string   `json:"level"`
	Section  string   `json:"section,omitempty"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// PublicBank is the student-facing view of a bank.
type PublicBank struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Questions   []PublicQuestion `json:"questions"`
}

// Public strips the answer key.
func (b *Bank) Public() PublicBank {
	pb := PublicBank{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Questions:   make([]PublicQuestion, len(b.Questions)),
	}
	for i, q := range b.Questions {
		pb.Questions[i] = PublicQuestion{
			ID:       q.ID,
			Topic:    q.Topic,
			Level:    string(q.Difficulty),
			Section:  q.Section,
			Question: q.Text,
			Options:  append([]string(nil), q.Options...),
		}
	}
	return pb
}

// bankDoc is the YAML shape of a question bank file.
type bankDoc struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Questions   []questionDoc `yaml:"questions"`
}

type questionDoc struct {
	ID            string   `yaml:"id"`
	Topic         string   `yaml:"topic"`
	Level         string   `yaml:"level"`
	Section       string   `yaml:"section"`
	Question      string   `yaml:"question"`
	Options       []string `yaml:"options"`
	CorrectAnswer int      `yaml:"correct_answer"`
}
