package assessment

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Roster is the colleges and students seeded into a store at startup.
type Roster struct {
	Colleges []RosterCollege `yaml:"colleges"`
}

// RosterCollege is one college with its students.
type RosterCollege struct {
	ID       int64           `yaml:"id"`
	Name     string          `yaml:"name"`
	Students []RosterStudent `yaml:"students"`
}

// RosterStudent is one student entry. The college comes from the enclosing entry.
type RosterStudent struct {
	ID                 int64  `yaml:"id"`
	Name               string `yaml:"name"`
	Email              string `yaml:"email"`
	RegistrationNumber string `yaml:"registration_number"`
}

// LoadRoster reads a roster file. An empty path yields an empty roster.
func LoadRoster(path string) (*Roster, error) {
	if path == "" {
		return &Roster{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	return ParseRoster(data)
}

// ParseRoster decodes and checks a roster document.
func ParseRoster(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}

	colleges := make(map[int64]bool)
	students := make(map[int64]bool)
	for _, c := range r.Colleges {
		if c.ID <= 0 {
			return nil, fmt.Errorf("roster: college %q has no positive id", c.Name)
		}
		if colleges[c.ID] {
			return nil, fmt.Errorf("roster: duplicate college id %d", c.ID)
		}
		colleges[c.ID] = true
		for _, s := range c.Students {
			if s.ID <= 0 {
				return nil, fmt.Errorf("roster: student %q in college %d has no positive id", s.Name, c.ID)
			}
			if students[s.ID] {
				return nil, fmt.Errorf("roster: duplicate student id %d", s.ID)
			}
			students[s.ID] = true
		}
	}
	return &r, nil
}

// Seed writes every college and student into store. Existing rows are updated.
func (r *Roster) Seed(ctx context.Context, store Store) (colleges, students int, err error) {
	for _, c := range r.Colleges {
		if err := store.PutCollege(ctx, College{ID: c.ID, Name: c.Name}); err != nil {
			return colleges, students, fmt.Errorf("seeding college %d: %w", c.ID, err)
		}
		colleges++
		for _, s := range c.Students {
			st := Student{
				ID:                 s.ID,
				CollegeID:          c.ID,
				Name:               s.Name,
				Email:              s.Email,
				RegistrationNumber: s.RegistrationNumber,
			}
			if err := store.PutStudent(ctx, st); err != nil {
				return colleges, students, fmt.Errorf("seeding student %d: %w", s.ID, err)
			}
			students++
		}
	}
	return colleges, students, nil
}
