package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xworks/readiness/internal/scoring"
)

const contentDir = "../../content"

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "",
		"validate",
		"--banks", filepath.Join(contentDir, "banks"),
		"--scoring", filepath.Join(contentDir, "scoring.yaml"),
		"--roster", filepath.Join(contentDir, "roster.yaml"),
		"--strict-topics",
	)
	if err != nil {
		t.Fatalf("validate error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok  ai-readiness") {
		t.Errorf("output missing bank line:\n%s", out)
	}
	if !strings.Contains(out, "roster 2 colleges  3 students") {
		t.Errorf("output missing roster line:\n%s", out)
	}
}

func TestValidate_StrictTopicsRejectsUnknownTopic(t *testing.T) {
	dir := t.TempDir()
	bank := `
id: extra
questions:
  - id: "1"
    topic: Rust
    level: Basic
    options: ["a", "b"]
    correct_answer: 0
`
	if err := os.WriteFile(filepath.Join(dir, "extra.bank.yaml"), []byte(bank), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "", "validate", "--banks", dir); err != nil {
		t.Fatalf("validate without strict topics error = %v", err)
	}
	if _, err := execute(t, "", "validate", "--banks", dir, "--strict-topics"); err == nil {
		t.Fatal("validate --strict-topics should fail on a topic without a weight")
	}
}

func TestScore_Stdin(t *testing.T) {
	out, err := execute(t, `{"1": 1, "2": 1, "3": 0}`,
		"score", "--banks", filepath.Join(contentDir, "banks"), "--bank", "ai-readiness",
	)
	if err != nil {
		t.Fatalf("score error = %v\n%s", err, out)
	}

	var res scoring.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not a result: %v\n%s", err, out)
	}
	if res.CorrectCount != 2 {
		t.Errorf("CorrectCount = %d, want 2", res.CorrectCount)
	}
	if res.QuestionCount != 16 {
		t.Errorf("QuestionCount = %d, want 16", res.QuestionCount)
	}
	if res.Fingerprint == "" {
		t.Error("result should carry the config fingerprint")
	}
}

func TestScore_UnknownBank(t *testing.T) {
	_, err := execute(t, `{}`, "score", "--banks", filepath.Join(contentDir, "banks"), "--bank", "nope")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("score error = %v, want not found", err)
	}
}

func TestFingerprint_MatchesEngine(t *testing.T) {
	out, err := execute(t, "", "fingerprint")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(out), scoring.DefaultConfig().Fingerprint(); got != want {
		t.Errorf("fingerprint = %q, want %q", got, want)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "readinessctl ") {
		t.Errorf("version output = %q", out)
	}
}
