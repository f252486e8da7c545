package questionbank_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xworks/readiness/internal/questionbank"
	"github.com/xworks/readiness/internal/scoring"
)

const sampleBank = `
id: ai-readiness
title: AI Readiness
questions:
  - id: "1"
    topic: Python
    level: Basic
    section: Foundational
    question: What does len([1, 2, 3]) return?
    options: ["2", "3", "4", "An error"]
    correct_answer: 1
  - id: "2"
    topic: "  Cloud   &  Deployment "
    level: Advanced
    section: Industrial
    question: Which service runs containers without managing servers?
    options: ["EC2", "Fargate", "S3", "Route 53"]
    correct_answer: 1
  - id: "3"
    topic: Python
    level: Intermediate
    question: Which keyword defines a generator?
    options: ["return", "yield", "async"]
    correct_answer: 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoader_LoadBanks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nested/ai.bank.yaml", sampleBank)
	writeFile(t, dir, "README.md", "# not a bank")
	writeFile(t, dir, "notes.yaml", "id: ignored")

	loader, err := questionbank.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	banks := loader.All()
	if len(banks) != 1 {
		t.Fatalf("len(All()) = %d, want 1", len(banks))
	}

	bank, ok := loader.Get("ai-readiness")
	if !ok {
		t.Fatal("Get(ai-readiness) not found")
	}
	if len(bank.Questions) != 3 {
		t.Fatalf("len(Questions) = %d, want 3", len(bank.Questions))
	}
	if got := bank.Questions[1].Topic; got != "Cloud & Deployment" {
		t.Errorf("topic = %q, want whitespace collapsed", got)
	}
	if got := bank.Questions[1].Difficulty; got != scoring.Advanced {
		t.Errorf("difficulty = %q, want Advanced", got)
	}

	topics := bank.Topics()
	if len(topics) != 2 || topics[0] != "Python" || topics[1] != "Cloud & Deployment" {
		t.Errorf("Topics() = %v", topics)
	}
}

func TestLoader_GetNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ai.bank.yaml", sampleBank)

	loader, err := questionbank.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if _, ok := loader.Get("nope"); ok {
		t.Error("Get(nope) should not be found")
	}
}

func TestLoader_DuplicateBankID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.bank.yaml", sampleBank)
	writeFile(t, dir, "b.bank.yml", sampleBank)

	_, err := questionbank.NewLoader(dir)
	if err == nil || !strings.Contains(err.Error(), "duplicate bank id") {
		t.Errorf("NewLoader() error = %v, want duplicate bank id", err)
	}
}

func TestParseBank_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "not yaml",
			doc:  "id: [",
			want: "parsing yaml",
		},
		{
			name: "no questions",
			doc:  "id: x\nquestions: []",
			want: "schema validation failed",
		},
		{
			name: "unknown level",
			doc: `id: x
questions:
  - {id: "1", topic: Python, level: Expert, options: [a, b], correct_answer: 0}`,
			want: "schema validation failed",
		},
		{
			name: "one option",
			doc: `id: x
questions:
  - {id: "1", topic: Python, level: Basic, options: [a], correct_answer: 0}`,
			want: "schema validation failed",
		},
		{
			name: "blank topic",
			doc: `id: x
questions:
  - {id: "1", topic: "   ", level: Basic, options: [a, b], correct_answer: 0}`,
			want: "schema validation failed",
		},
		{
			name: "missing answer key",
			doc: `id: x
questions:
  - {id: "1", topic: Python, level: Basic, options: [a, b]}`,
			want: "schema validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := questionbank.ParseBank([]byte(tt.doc))
			if err == nil {
				t.Fatal("ParseBank() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseBank() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestParseBank_AnswerOutOfRange(t *testing.T) {
	doc := `id: x
questions:
  - {id: "1", topic: Python, level: Basic, options: [a, b], correct_answer: 5}`

	_, err := questionbank.ParseBank([]byte(doc))
	var mqe *scoring.MalformedQuestionError
	if !errors.As(err, &mqe) {
		t.Fatalf("ParseBank() error = %v, want MalformedQuestionError", err)
	}
	if mqe.QuestionID != "1" {
		t.Errorf("QuestionID = %q, want 1", mqe.QuestionID)
	}
}

func TestParseBank_DuplicateQuestionID(t *testing.T) {
	doc := `id: x
questions:
  - {id: "1", topic: Python, level: Basic, options: [a, b], correct_answer: 0}
  - {id: "1", topic: Math, level: Basic, options: [a, b], correct_answer: 1}`

	var mqe *scoring.MalformedQuestionError
	if _, err := questionbank.ParseBank([]byte(doc)); !errors.As(err, &mqe) {
		t.Fatalf("ParseBank() error = %v, want MalformedQuestionError", err)
	}
}

func TestBank_Public(t *testing.T) {
	bank, err := questionbank.ParseBank([]byte(sampleBank))
	if err != nil {
		t.Fatalf("ParseBank() error = %v", err)
	}

	pub := bank.Public()
	if len(pub.Questions) != len(bank.Questions) {
		t.Fatalf("len(Public().Questions) = %d", len(pub.Questions))
	}
	if pub.Questions[0].Level != "Basic" || pub.Questions[0].Question == "" {
		t.Errorf("Public().Questions[0] = %+v", pub.Questions[0])
	}

	pub.Questions[0].Options[0] = "mutated"
	if bank.Questions[0].Options[0] == "mutated" {
		t.Error("Public() shares option slices with the bank")
	}
}

func TestFromBanks_Duplicate(t *testing.T) {
	b := &questionbank.Bank{ID: "x"}
	if _, err := questionbank.FromBanks(b, b); err == nil {
		t.Error("FromBanks() with duplicate ids should fail")
	}
}

func TestNormalizeTopic(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Python", "Python"},
		{"  Tools   & Git\t", "Tools & Git"},
		{"Café", "Café"},
	}
	for _, tt := range tests {
		if got := questionbank.NormalizeTopic(tt.in); got != tt.want {
			t.Errorf("NormalizeTopic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
