package selection

import (
	"context"
	"time"

	"github.com/neet-prep/backend/internal/models"
)

// Repository is the engine's view of the question/answer store. The engine
// never writes; all methods are plain reads and every call recomputes from
// scratch, so implementations need no locking on the engine's behalf.
type Repository interface {
	// EligiblePool returns the selection view of every question belonging to
	// the given topics, minus excludeIDs. An empty topicIDs slice means the
	// whole bank.
	EligiblePool(ctx context.Context, topicIDs []int64, excludeIDs []int64) ([]models.QuestionRef, error)

	// RandomByDifficulty draws up to limit random questions of the given
	// difficulty from the whole bank, minus excludeIDs.
	RandomByDifficulty(ctx context.Context, d models.Difficulty, excludeIDs []int64, limit int) ([]models.QuestionRef, error)

	// SessionAnswers returns the most recent attempted answers of a session,
	// most-recent-first, at most limit rows.
	SessionAnswers(ctx context.Context, sessionID int64, limit int) ([]models.AnswerEvent, error)

	// CompletedAttempts returns every attempted answer the student gave in
	// completed sessions, across the whole history.
	CompletedAttempts(ctx context.Context, studentID string) ([]models.AnswerEvent, error)

	// AnsweredQuestionIDs returns the distinct question ids the student
	// answered (attempted or not) since the cutoff.
	AnsweredQuestionIDs(ctx context.Context, studentID string, since time.Time) ([]int64, error)

	// TopicIDsByName resolves topic names (case-insensitive) to ids. Unknown
	// names are silently skipped.
	TopicIDsByName(ctx context.Context, names []string) ([]int64, error)
}
