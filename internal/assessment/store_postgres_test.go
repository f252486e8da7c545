package assessment_test

import (
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xworks/readiness/internal/assessment"
	"github.com/xworks/readiness/internal/platform/database"
	"github.com/xworks/readiness/internal/scoring"
)

func startPostgres(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := t.Context()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("readiness"),
		postgres.WithUsername("readiness"),
		postgres.WithPassword("readiness"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}

	db, err := database.New(ctx, url, 5, 1)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	// Migrations are idempotent.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	return db
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	db := startPostgres(t)
	ctx := t.Context()

	store, err := assessment.NewPostgresStore(db.Pool)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}
	if err := store.PutCollege(ctx, assessment.College{ID: 1, Name: "North Campus"}); err != nil {
		t.Fatalf("PutCollege() error = %v", err)
	}
	if err := store.PutStudent(ctx, assessment.Student{ID: 7, CollegeID: 1, Name: "Asha", Email: "asha@example.edu"}); err != nil {
		t.Fatalf("PutStudent() error = %v", err)
	}
	if err := store.PutStudent(ctx, assessment.Student{ID: 8, CollegeID: 1, Name: "Ben"}); err != nil {
		t.Fatalf("PutStudent() error = %v", err)
	}
	if err := store.PutStudent(ctx, assessment.Student{ID: 9, CollegeID: 404, Name: "Nobody"}); !errors.Is(err, assessment.ErrNotFound) {
		t.Errorf("PutStudent() unknown college error = %v, want ErrNotFound", err)
	}

	engine, err := scoring.NewEngine(scoring.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	events := assessment.NewPostgresEventLogger(db.Pool)
	svc := assessment.NewService(engine, mustBanks(t), store, events, nil)

	attempt, err := svc.Submit(ctx, submission(scoring.Answers{"1": 0, "2": 1, "3": 0}))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	got, err := store.GetAttempt(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("GetAttempt() error = %v", err)
	}
	if got.Result.Readiness != attempt.Result.Readiness {
		t.Errorf("Readiness = %v, want %v", got.Result.Readiness, attempt.Result.Readiness)
	}
	if len(got.Answers) != 4 || got.Answers[1].Option != "B" || got.Answers[3].Selected != nil {
		t.Errorf("Answers = %+v", got.Answers)
	}
	if !got.StartedAt.Equal(attempt.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, attempt.StartedAt)
	}

	scores, err := store.ListTopicScores(ctx, 7)
	if err != nil {
		t.Fatalf("ListTopicScores() error = %v", err)
	}
	if len(scores) != 2 || scores[0].Topic != "Python" || scores[0].Classification != scoring.Strength {
		t.Errorf("ListTopicScores() = %+v", scores)
	}

	students, err := store.ListCollegeStudents(ctx, 1)
	if err != nil {
		t.Fatalf("ListCollegeStudents() error = %v", err)
	}
	if len(students) != 2 || len(students[0].Assessments) != 1 || len(students[1].Assessments) != 0 {
		t.Errorf("ListCollegeStudents() = %+v", students)
	}

	var legacy, stored int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM student_results WHERE student_id = 7`).Scan(&legacy); err != nil {
		t.Fatal(err)
	}
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE event_type = $1`, assessment.EventAssessmentScored).Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if legacy != 1 || stored != 1 {
		t.Errorf("student_results = %d, events = %d; want 1 each", legacy, stored)
	}
}

func TestPostgresStore_NotFound(t *testing.T) {
	db := startPostgres(t)
	ctx := t.Context()

	store, err := assessment.NewPostgresStore(db.Pool)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"00000000-0000-0000-0000-000000000000", "not-a-uuid"} {
		if _, err := store.GetAttempt(ctx, id); !errors.Is(err, assessment.ErrNotFound) {
			t.Errorf("GetAttempt(%q) error = %v, want ErrNotFound", id, err)
		}
	}
	if _, err := store.GetStudent(ctx, 1); !errors.Is(err, assessment.ErrNotFound) {
		t.Errorf("GetStudent() error = %v, want ErrNotFound", err)
	}
	if _, err := store.ListCollegeStudents(ctx, 1); !errors.Is(err, assessment.ErrNotFound) {
		t.Errorf("ListCollegeStudents() error = %v, want ErrNotFound", err)
	}
	if _, err := store.SaveAttempt(ctx, &assessment.Attempt{StudentID: 1, BankID: "x", StartedAt: time.Now(), CompletedAt: time.Now()}); !errors.Is(err, assessment.ErrNotFound) {
		t.Errorf("SaveAttempt() unknown student error = %v, want ErrNotFound", err)
	}
}

func TestNewPostgresStore_NilPool(t *testing.T) {
	if _, err := assessment.NewPostgresStore(nil); err == nil {
		t.Error("NewPostgresStore(nil) should fail")
	}
}
