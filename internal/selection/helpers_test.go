package selection

import (
	"context"
	"math/rand"
	"time"

	"github.com/neet-prep/backend/internal/models"
)

// fakeRepo is an in-memory Repository for engine tests. Slices are returned
// in insertion order so tests stay deterministic together with a seeded rng.
type fakeRepo struct {
	bank           []models.QuestionRef
	sessionAnswers map[int64][]models.AnswerEvent
	attempts       map[string][]models.AnswerEvent
	recent         map[string][]int64
	topicIDsByName map[string]int64

	poolErr     error
	attemptsErr error
	sessionErr  error
	recentErr   error
}

func (f *fakeRepo) EligiblePool(ctx context.Context, topicIDs []int64, excludeIDs []int64) ([]models.QuestionRef, error) {
	if f.poolErr != nil {
		return nil, f.poolErr
	}
	topics := make(map[int64]bool, len(topicIDs))
	for _, id := range topicIDs {
		topics[id] = true
	}
	excluded := make(map[int64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []models.QuestionRef
	for _, r := range f.bank {
		if len(topics) > 0 && !topics[r.TopicID] {
			continue
		}
		if excluded[r.ID] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRepo) RandomByDifficulty(ctx context.Context, d models.Difficulty, excludeIDs []int64, limit int) ([]models.QuestionRef, error) {
	excluded := make(map[int64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []models.QuestionRef
	for _, r := range f.bank {
		if len(out) >= limit {
			break
		}
		if r.Difficulty == d && !excluded[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) SessionAnswers(ctx context.Context, sessionID int64, limit int) ([]models.AnswerEvent, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	answers := f.sessionAnswers[sessionID]
	if len(answers) > limit {
		answers = answers[:limit]
	}
	return answers, nil
}

func (f *fakeRepo) CompletedAttempts(ctx context.Context, studentID string) ([]models.AnswerEvent, error) {
	if f.attemptsErr != nil {
		return nil, f.attemptsErr
	}
	return f.attempts[studentID], nil
}

func (f *fakeRepo) AnsweredQuestionIDs(ctx context.Context, studentID string, since time.Time) ([]int64, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recent[studentID], nil
}

func (f *fakeRepo) TopicIDsByName(ctx context.Context, names []string) ([]int64, error) {
	var ids []int64
	for _, n := range names {
		if id, ok := f.topicIDsByName[n]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// newTestEngine pins the engine's rand seed so draws are reproducible.
func newTestEngine(repo Repository, cfg Config) *Engine {
	e := NewEngine(repo, cfg)
	e.seed = func() int64 { return 42 }
	return e
}

// newTestState builds a drawState the way Engine.Select does, for testing
// phases in isolation.
func newTestState(req models.SelectionRequest, cfg Config, pool []models.QuestionRef) *drawState {
	st := &drawState{
		req:           req,
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(42)),
		pool:          pool,
		poolByID:      make(map[int64]models.QuestionRef, len(pool)),
		highWeightage: make(map[int64]bool),
		selected:      make(map[int64]bool),
		excluded:      make(map[int64]bool),
	}
	for _, r := range pool {
		st.poolByID[r.ID] = r
	}
	for _, id := range req.ExcludeIDs {
		st.excluded[id] = true
	}
	return st
}

// questions generates n refs for one topic with the given difficulty,
// numbering ids from start.
func questions(start int64, n int, topicID int64, subject models.Subject, d models.Difficulty) []models.QuestionRef {
	refs := make([]models.QuestionRef, 0, n)
	for i := 0; i < n; i++ {
		refs = append(refs, models.QuestionRef{
			ID:         start + int64(i),
			TopicID:    topicID,
			Subject:    subject,
			Difficulty: d,
		})
	}
	return refs
}

// mixedTopic generates nEasy+nModerate+nHard refs for one topic.
func mixedTopic(start int64, topicID int64, subject models.Subject, nEasy, nModerate, nHard int) []models.QuestionRef {
	var refs []models.QuestionRef
	refs = append(refs, questions(start, nEasy, topicID, subject, models.DifficultyEasy)...)
	refs = append(refs, questions(start+int64(nEasy), nModerate, topicID, subject, models.DifficultyModerate)...)
	refs = append(refs, questions(start+int64(nEasy+nModerate), nHard, topicID, subject, models.DifficultyHard)...)
	return refs
}

func answered(sessionID, questionID, topicID int64, correct bool, secondsAgo int) models.AnswerEvent {
	c := correct
	return models.AnswerEvent{
		SessionID:        sessionID,
		QuestionID:       questionID,
		TopicID:          topicID,
		Correct:          &c,
		TimeTakenSeconds: 45,
		AnsweredAt:       time.Now().Add(-time.Duration(secondsAgo) * time.Second),
	}
}

func boolPtr(b bool) *bool { return &b }
