package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xworks/readiness/internal/scoring"
)

const dbTimeout = 5 * time.Second

// Postgres error codes the store translates.
const (
	pgForeignKeyViolation = "23503"
	pgInvalidTextRep      = "22P02"
)

// PostgresStore is a PostgreSQL-backed Store implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

// SaveAttempt writes the attempt, its answers, its topic scores and the
// legacy result row in one transaction.
func (s *PostgresStore) SaveAttempt(ctx context.Context, a *Attempt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	result, err := json.Marshal(a.Result)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	status := a.Status
	if status == "" {
		status = StatusCompleted
	}

	var id string
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO student_assessments (
			   student_id, bank_id, status, started_at, completed_at,
			   correct_answers, total_questions, total_score, readiness_score,
			   config_fingerprint, result)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb)
			 RETURNING id::text`,
			a.StudentID,
			a.BankID,
			status,
			a.StartedAt,
			a.CompletedAt,
			a.Result.CorrectCount,
			a.Result.QuestionCount,
			a.Result.ScorePercent,
			a.Result.Readiness,
			a.Result.Fingerprint,
			string(result),
		).Scan(&id)
		if err != nil {
			if isPgError(err, pgForeignKeyViolation) {
				return fmt.Errorf("student %d: %w", a.StudentID, ErrNotFound)
			}
			return fmt.Errorf("insert assessment: %w", err)
		}

		batch := &pgx.Batch{}
		for i, ans := range a.Answers {
			batch.Queue(
				`INSERT INTO student_answers (
				   student_assessment_id, position, question_id, selected_index,
				   selected_option, is_correct, answered_at)
				 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)`,
				id, i, ans.QuestionID, ans.Selected, nullIfEmpty(ans.Option), ans.Correct, a.CompletedAt,
			)
		}
		for i, ts := range a.Result.Topics {
			batch.Queue(
				`INSERT INTO student_topic_scores (
				   student_assessment_id, position, topic, correct_answers, total_questions,
				   basic_correct, intermediate_correct, advanced_correct,
				   topic_weight, weighted_score, normalized_score, points, classification)
				 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
				id, i, ts.Topic, ts.Correct, ts.Total,
				ts.Levels.Basic, ts.Levels.Intermediate, ts.Levels.Advanced,
				ts.TopicWeight, ts.WeightedScore, ts.NormalizedScore, ts.Points, string(ts.Classification),
			)
		}
		batch.Queue(
			`INSERT INTO student_results (student_id, student_assessment_id, correct_answers, total_questions, score_percent)
			 VALUES ($1, $2::uuid, $3, $4, $5)`,
			a.StudentID, id, a.Result.CorrectCount, a.Result.QuestionCount, a.Result.ScorePercent,
		)

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert attempt detail: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) GetAttempt(ctx context.Context, id string) (*Attempt, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	a := &Attempt{ID: id}
	var result []byte
	err := s.pool.QueryRow(ctx,
		`SELECT student_id, bank_id, status, started_at, completed_at, result, created_at
		 FROM student_assessments
		 WHERE id = $1::uuid`,
		id,
	).Scan(&a.StudentID, &a.BankID, &a.Status, &a.StartedAt, &a.CompletedAt, &result, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isPgError(err, pgInvalidTextRep) {
			return nil, fmt.Errorf("attempt %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if err := json.Unmarshal(result, &a.Result); err != nil {
		return nil, fmt.Errorf("decode attempt result: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT question_id, selected_index, selected_option, is_correct
		 FROM student_answers
		 WHERE student_assessment_id = $1::uuid
		 ORDER BY position ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	a.Answers = []AnswerRecord{}
	for rows.Next() {
		var rec AnswerRecord
		var option *string
		if err := rows.Scan(&rec.QuestionID, &rec.Selected, &option, &rec.Correct); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		if option != nil {
			rec.Option = *option
		}
		a.Answers = append(a.Answers, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}

	return a, nil
}

func (s *PostgresStore) ListAttempts(ctx context.Context, studentID int64) ([]AttemptSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, bank_id, correct_answers, total_questions, total_score, readiness_score, completed_at
		 FROM student_assessments
		 WHERE student_id = $1
		 ORDER BY completed_at DESC, created_at DESC, id::text ASC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	out := []AttemptSummary{}
	for rows.Next() {
		var sum AttemptSummary
		if err := rows.Scan(&sum.ID, &sum.BankID, &sum.CorrectCount, &sum.QuestionCount,
			&sum.ScorePercent, &sum.Readiness, &sum.AttemptedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListTopicScores(ctx context.Context, studentID int64) ([]StudentTopicScore, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT sa.id::text, sa.completed_at, st.topic, st.correct_answers, st.total_questions,
		        st.basic_correct, st.intermediate_correct, st.advanced_correct,
		        st.topic_weight, st.weighted_score, st.normalized_score, st.points, st.classification
		 FROM student_topic_scores st
		 JOIN student_assessments sa ON sa.id = st.student_assessment_id
		 WHERE sa.student_id = $1
		 ORDER BY st.normalized_score DESC, sa.completed_at DESC, sa.id::text ASC, st.position ASC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query topic scores: %w", err)
	}
	defer rows.Close()

	out := []StudentTopicScore{}
	for rows.Next() {
		var ts StudentTopicScore
		var classification string
		if err := rows.Scan(&ts.AttemptID, &ts.AttemptedAt, &ts.Topic, &ts.Correct, &ts.Total,
			&ts.Levels.Basic, &ts.Levels.Intermediate, &ts.Levels.Advanced,
			&ts.TopicWeight, &ts.WeightedScore, &ts.NormalizedScore, &ts.Points, &classification); err != nil {
			return nil, fmt.Errorf("scan topic score: %w", err)
		}
		ts.Classification = scoring.Classification(classification)
		out = append(out, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topic scores: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetStudent(ctx context.Context, id int64) (*Student, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	st := &Student{}
	var collegeID *int64
	var email, regNo *string
	err := s.pool.QueryRow(ctx,
		`SELECT id, college_id, name, email, registration_number
		 FROM students
		 WHERE id = $1`,
		id,
	).Scan(&st.ID, &collegeID, &st.Name, &email, &regNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("student %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	if collegeID != nil {
		st.CollegeID = *collegeID
	}
	st.Email = deref(email)
	st.RegistrationNumber = deref(regNo)
	return st, nil
}

func (s *PostgresStore) PutStudent(ctx context.Context, st Student) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if st.ID <= 0 {
		return fmt.Errorf("student id must be positive")
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO students (id, college_id, name, email, registration_number)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET college_id = EXCLUDED.college_id,
		     name = EXCLUDED.name,
		     email = EXCLUDED.email,
		     registration_number = EXCLUDED.registration_number`,
		st.ID,
		nullIfZero(st.CollegeID),
		st.Name,
		nullIfEmpty(st.Email),
		nullIfEmpty(st.RegistrationNumber),
	)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return fmt.Errorf("college %d: %w", st.CollegeID, ErrNotFound)
		}
		return fmt.Errorf("put student: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListColleges(ctx context.Context) ([]College, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT id, name FROM colleges ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query colleges: %w", err)
	}
	defer rows.Close()

	out := []College{}
	for rows.Next() {
		var c College
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan college: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate colleges: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) PutCollege(ctx context.Context, c College) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if c.ID <= 0 {
		return fmt.Errorf("college id must be positive")
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO colleges (id, name) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		c.ID, c.Name,
	)
	if err != nil {
		return fmt.Errorf("put college: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCollegeStudents(ctx context.Context, collegeID int64) ([]CollegeStudent, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM colleges WHERE id = $1)`,
		collegeID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("lookup college: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("college %d: %w", collegeID, ErrNotFound)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT s.id, s.name, s.email, s.registration_number,
		        sa.id::text, sa.bank_id, sa.correct_answers, sa.total_questions,
		        sa.total_score, sa.readiness_score, sa.completed_at
		 FROM students s
		 LEFT JOIN student_assessments sa ON sa.student_id = s.id
		 WHERE s.college_id = $1
		 ORDER BY s.id, sa.completed_at DESC, sa.created_at DESC, sa.id::text ASC`,
		collegeID,
	)
	if err != nil {
		return nil, fmt.Errorf("query college students: %w", err)
	}
	defer rows.Close()

	out := []CollegeStudent{}
	for rows.Next() {
		var (
			studentID           int64
			name                string
			email, regNo        *string
			attemptID, bankID   *string
			correct, total      *int
			scorePct, readiness *float64
			completedAt         *time.Time
		)
		if err := rows.Scan(&studentID, &name, &email, &regNo,
			&attemptID, &bankID, &correct, &total, &scorePct, &readiness, &completedAt); err != nil {
			return nil, fmt.Errorf("scan college student: %w", err)
		}

		if len(out) == 0 || out[len(out)-1].ID != studentID {
			out = append(out, CollegeStudent{
				Student: Student{
					ID:                 studentID,
					CollegeID:          collegeID,
					Name:               name,
					Email:              deref(email),
					RegistrationNumber: deref(regNo),
				},
				Assessments: []AttemptSummary{},
			})
		}
		if attemptID == nil {
			continue
		}
		cs := &out[len(out)-1]
		cs.Assessments = append(cs.Assessments, AttemptSummary{
			ID:            *attemptID,
			BankID:        deref(bankID),
			CorrectCount:  *correct,
			QuestionCount: *total,
			ScorePercent:  *scorePct,
			Readiness:     *readiness,
			AttemptedAt:   *completedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate college students: %w", err)
	}
	return out, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullIfZero(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
