package assessment

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists attempts and the reference data they hang off.
type Store interface {
	SaveAttempt(ctx context.Context, a *Attempt) (string, error)
	GetAttempt(ctx context.Context, id string) (*Attempt, error)
	ListAttempts(ctx context.Context, studentID int64) ([]AttemptSummary, error)
	ListTopicScores(ctx context.Context, studentID int64) ([]StudentTopicScore, error)

	GetStudent(ctx context.Context, id int64) (*Student, error)
	PutStudent(ctx context.Context, s Student) error
	ListColleges(ctx context.Context) ([]College, error)
	PutCollege(ctx context.Context, c College) error
	ListCollegeStudents(ctx context.Context, collegeID int64) ([]CollegeStudent, error)
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	attempts map[string]*Attempt
	students map[int64]Student
	colleges map[int64]College
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		attempts: make(map[string]*Attempt),
		students: make(map[int64]Student),
		colleges: make(map[int64]College),
	}
}

func (s *MemoryStore) SaveAttempt(_ context.Context, a *Attempt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[a.StudentID]; !ok {
		return "", fmt.Errorf("student %d: %w", a.StudentID, ErrNotFound)
	}

	stored := cloneAttempt(a)
	stored.ID = uuid.NewString()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.attempts[stored.ID] = stored
	return stored.ID, nil
}

func (s *MemoryStore) GetAttempt(_ context.Context, id string) (*Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.attempts[id]
	if !ok {
		return nil, fmt.Errorf("attempt %s: %w", id, ErrNotFound)
	}
	return cloneAttempt(a), nil
}

func (s *MemoryStore) ListAttempts(_ context.Context, studentID int64) ([]AttemptSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summariesLocked(studentID), nil
}

func (s *MemoryStore) ListTopicScores(_ context.Context, studentID int64) ([]StudentTopicScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type positioned struct {
		StudentTopicScore
		position int
	}
	var rows []positioned
	for _, a := range s.attempts {
		if a.StudentID != studentID {
			continue
		}
		for i, ts := range a.Result.Topics {
			rows = append(rows, positioned{
				StudentTopicScore: StudentTopicScore{
					AttemptID:   a.ID,
					TopicScore:  ts,
					AttemptedAt: a.CompletedAt,
				},
				position: i,
			})
		}
	}
	// Same order as the Postgres query: score, newest attempt, attempt id, bank position.
	slices.SortFunc(rows, func(x, y positioned) int {
		if c := cmp.Compare(y.NormalizedScore, x.NormalizedScore); c != 0 {
			return c
		}
		if c := y.AttemptedAt.Compare(x.AttemptedAt); c != 0 {
			return c
		}
		if c := cmp.Compare(x.AttemptID, y.AttemptID); c != 0 {
			return c
		}
		return cmp.Compare(x.position, y.position)
	})

	scores := make([]StudentTopicScore, 0, len(rows))
	for _, r := range rows {
		scores = append(scores, r.StudentTopicScore)
	}
	return scores, nil
}

func (s *MemoryStore) GetStudent(_ context.Context, id int64) (*Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return nil, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	return &st, nil
}

func (s *MemoryStore) PutStudent(_ context.Context, st Student) error {
	if st.ID <= 0 {
		return fmt.Errorf("student id must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.CollegeID != 0 {
		if _, ok := s.colleges[st.CollegeID]; !ok {
			return fmt.Errorf("college %d: %w", st.CollegeID, ErrNotFound)
		}
	}
	s.students[st.ID] = st
	return nil
}

func (s *MemoryStore) ListColleges(_ context.Context) ([]College, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	colleges := make([]College, 0, len(s.colleges))
	for _, c := range s.colleges {
		colleges = append(colleges, c)
	}
	slices.SortFunc(colleges, func(a, b College) int { return cmp.Compare(a.Name, b.Name) })
	return colleges, nil
}

func (s *MemoryStore) PutCollege(_ context.Context, c College) error {
	if c.ID <= 0 {
		return fmt.Errorf("college id must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colleges[c.ID] = c
	return nil
}

func (s *MemoryStore) ListCollegeStudents(_ context.Context, collegeID int64) ([]CollegeStudent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.colleges[collegeID]; !ok {
		return nil, fmt.Errorf("college %d: %w", collegeID, ErrNotFound)
	}

	out := []CollegeStudent{}
	for _, st := range s.students {
		if st.CollegeID != collegeID {
			continue
		}
		out = append(out, CollegeStudent{
			Student:     st,
			Assessments: s.summariesLocked(st.ID),
		})
	}
	slices.SortFunc(out, func(a, b CollegeStudent) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// summariesLocked returns a student's attempts newest first. Callers hold mu.
func (s *MemoryStore) summariesLocked(studentID int64) []AttemptSummary {
	var attempts []*Attempt
	for _, a := range s.attempts {
		if a.StudentID == studentID {
			attempts = append(attempts, a)
		}
	}
	slices.SortFunc(attempts, func(a, b *Attempt) int {
		if c := b.CompletedAt.Compare(a.CompletedAt); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	out := make([]AttemptSummary, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, a.Summary())
	}
	return out
}

// cloneAttempt copies a so the store and its callers never share slices.
func cloneAttempt(a *Attempt) *Attempt {
	out := *a
	out.Result = a.Result.Clone()
	out.Answers = slices.Clone(a.Answers)
	for i, rec := range out.Answers {
		if rec.Selected != nil {
			selected := *rec.Selected
			rec.Selected = &selected
		}
		out.Answers[i] = rec
	}
	return &out
}
