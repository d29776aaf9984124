package selection

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/neet-prep/backend/internal/models"
)

// Store is the Postgres-backed Repository. Free-text subject and difficulty
// labels are normalized once here, at scan time; nothing downstream sees raw
// labels.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) EligiblePool(ctx context.Context, topicIDs []int64, excludeIDs []int64) ([]models.QuestionRef, error) {
	query := `SELECT q.id, q.topic_id, t.subject, q.difficulty
	          FROM questions q
	          JOIN topics t ON t.id = q.topic_id`
	var conds []string
	var args []interface{}

	if len(topicIDs) > 0 {
		args = append(args, pq.Array(topicIDs))
		conds = append(conds, fmt.Sprintf("q.topic_id = ANY($%d)", len(args)))
	}
	if len(excludeIDs) > 0 {
		args = append(args, pq.Array(excludeIDs))
		conds = append(conds, fmt.Sprintf("NOT (q.id = ANY($%d))", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("eligible pool: %w", err)
	}
	defer rows.Close()

	var refs []models.QuestionRef
	for rows.Next() {
		var r models.QuestionRef
		var subject, difficulty string
		if err := rows.Scan(&r.ID, &r.TopicID, &subject, &difficulty); err != nil {
			return nil, fmt.Errorf("scan pool row: %w", err)
		}
		r.Subject = models.NormalizeSubject(subject)
		r.Difficulty = models.NormalizeDifficulty(difficulty)
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

func (s *Store) RandomByDifficulty(ctx context.Context, d models.Difficulty, excludeIDs []int64, limit int) ([]models.QuestionRef, error) {
	if limit <= 0 {
		return nil, nil
	}
	// Difficulty is stored as free text; match it the same way the
	// normalizer does.
	query := `SELECT q.id, q.topic_id, t.subject, q.difficulty
	          FROM questions q
	          JOIN topics t ON t.id = q.topic_id
	          WHERE LOWER(q.difficulty) LIKE '%' || $1 || '%'`
	args := []interface{}{string(d)}
	if len(excludeIDs) > 0 {
		args = append(args, pq.Array(excludeIDs))
		query += fmt.Sprintf(" AND NOT (q.id = ANY($%d))", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY RANDOM() LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("random by difficulty: %w", err)
	}
	defer rows.Close()

	var refs []models.QuestionRef
	for rows.Next() {
		var r models.QuestionRef
		var subject, difficulty string
		if err := rows.Scan(&r.ID, &r.TopicID, &subject, &difficulty); err != nil {
			return nil, fmt.Errorf("scan random row: %w", err)
		}
		r.Subject = models.NormalizeSubject(subject)
		r.Difficulty = models.NormalizeDifficulty(difficulty)
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

func (s *Store) SessionAnswers(ctx context.Context, sessionID int64, limit int) ([]models.AnswerEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.session_id, a.question_id, q.topic_id, a.is_correct, a.time_taken_seconds, a.answered_at
		 FROM test_answers a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.session_id = $1 AND a.selected_answer IS NOT NULL
		 ORDER BY a.answered_at DESC
		 LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("session answers: %w", err)
	}
	defer rows.Close()
	return scanAnswerEvents(rows)
}

func (s *Store) CompletedAttempts(ctx context.Context, studentID string) ([]models.AnswerEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.session_id, a.question_id, q.topic_id, a.is_correct, a.time_taken_seconds, a.answered_at
		 FROM test_answers a
		 JOIN test_sessions s ON s.id = a.session_id
		 JOIN questions q ON q.id = a.question_id
		 WHERE s.student_id = $1 AND s.status = 'completed' AND a.selected_answer IS NOT NULL`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("completed attempts: %w", err)
	}
	defer rows.Close()
	return scanAnswerEvents(rows)
}

func (s *Store) AnsweredQuestionIDs(ctx context.Context, studentID string, since time.Time) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT a.question_id
		 FROM test_answers a
		 JOIN test_sessions s ON s.id = a.session_id
		 WHERE s.student_id = $1 AND a.answered_at >= $2`,
		studentID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("answered question ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan answered id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) TopicIDsByName(ctx context.Context, names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(strings.TrimSpace(n))
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM topics WHERE LOWER(name) = ANY($1)`,
		pq.Array(lowered),
	)
	if err != nil {
		return nil, fmt.Errorf("topic ids by name: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan topic id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListTopics returns the full topic catalog for the topics endpoint.
func (s *Store) ListTopics(ctx context.Context) ([]models.Topic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, subject, chapter FROM topics ORDER BY subject, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var t models.Topic
		var subject string
		if err := rows.Scan(&t.ID, &t.Name, &subject, &t.Chapter); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		t.Subject = models.NormalizeSubject(subject)
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func scanAnswerEvents(rows *sql.Rows) ([]models.AnswerEvent, error) {
	var events []models.AnswerEvent
	for rows.Next() {
		var e models.AnswerEvent
		var correct sql.NullBool
		var timeTaken sql.NullFloat64
		if err := rows.Scan(&e.SessionID, &e.QuestionID, &e.TopicID, &correct, &timeTaken, &e.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		if correct.Valid {
			v := correct.Bool
			e.Correct = &v
		}
		if timeTaken.Valid {
			e.TimeTakenSeconds = timeTaken.Float64
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
