// Package questionbank loads question banks from YAML files on disk.
package questionbank

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/xworks/readiness/internal/scoring"
)

// Loader loads and caches question banks from the filesystem.
type Loader struct {
	rootDir string
	banks   map[string]*Bank
	mu      sync.RWMutex
}

// NewLoader creates a new loader and loads every *.bank.yaml under rootDir.
// Any invalid bank fails the whole load.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir: rootDir,
		banks:   make(map[string]*Bank),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading question banks: %w", err)
	}

	slog.Info("question banks loaded", "banks", len(l.banks), "dir", rootDir)
	return l, nil
}

// FromBanks builds a loader over banks already in memory.
func FromBanks(banks ...*Bank) (*Loader, error) {
	l := &Loader{banks: make(map[string]*Bank)}
	for _, b := range banks {
		if err := l.add(b, "memory"); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Get returns a bank by ID.
func (l *Loader) Get(id string) (*Bank, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.banks[id]
	return b, ok
}

// All returns every loaded bank sorted by ID.
func (l *Loader) All() []*Bank {
	l.mu.RLock()
	defer l.mu.RUnlock()
	banks := make([]*Bank, 0, len(l.banks))
	for _, b := range l.banks {
		banks = append(banks, b)
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].ID < banks[j].ID })
	return banks
}

func (l *Loader) loadAll() error {
	return filepath.WalkDir(l.rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".bank.yaml") || strings.HasSuffix(path, ".bank.yml") {
			return l.loadBank(path)
		}
		return nil
	})
}

func (l *Loader) loadBank(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	bank, err := ParseBank(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return l.add(bank, path)
}

func (l *Loader) add(b *Bank, source string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, dup := l.banks[b.ID]; dup {
		return fmt.Errorf("%s: duplicate bank id %q", source, b.ID)
	}
	l.banks[b.ID] = b
	return nil
}

// ParseBank decodes and validates a single bank document. Questions are
// checked against the same rules the scoring engine applies, so a bank that
// loads can always be scored.
func ParseBank(data []byte) (*Bank, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if err := validateDoc(bankSchema, raw); err != nil {
		return nil, err
	}

	var doc bankDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding bank: %w", err)
	}

	bank := &Bank{
		ID:          strings.TrimSpace(doc.ID),
		Title:       doc.Title,
		Description: doc.Description,
		Questions:   make([]scoring.Question, 0, len(doc.Questions)),
	}
	for _, qd := range doc.Questions {
		level, err := scoring.ParseDifficulty(qd.Level)
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", qd.ID, err)
		}
		bank.Questions = append(bank.Questions, scoring.Question{
			ID:            strings.TrimSpace(qd.ID),
			Topic:         NormalizeTopic(qd.Topic),
			Difficulty:    level,
			Section:       qd.Section,
			Text:          qd.Question,
			Options:       qd.Options,
			CorrectOption: qd.CorrectAnswer,
		})
	}

	if _, err := scoring.Aggregate(bank.Questions, nil); err != nil {
		return nil, err
	}
	return bank, nil
}

// NormalizeTopic trims and collapses whitespace and applies Unicode NFC so
// topic names match weight table keys regardless of how they were typed.
func NormalizeTopic(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
