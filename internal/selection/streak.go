package selection

import (
	"context"
	"fmt"

	"github.com/neet-prep/backend/internal/models"
)

// streakEvaluator reacts to short-term patterns inside the current session:
//
//   - last answer wrong            → up to 2 easy questions, same topic
//   - last 3 all correct           → 1 hard question, most recent topic
//   - last 3 all incorrect         → 1 easy question from anywhere (rebuild)
//   - last 2 correct, same topic   → 1 hard question, that topic
//
// Rules are checked in that priority order and the first one that actually
// yields candidates wins; a matching pattern with an empty draw falls through
// (otherwise the wrong-answer rule would permanently shadow the three-wrong
// rule, since three wrong answers imply the last one was wrong).
type streakEvaluator struct {
	repo Repository
}

func (s *streakEvaluator) Name() string { return "streak_rules" }

func (s *streakEvaluator) Propose(ctx context.Context, st *drawState) ([]int64, error) {
	if !st.cfg.EnableStreakRules || st.req.StudentID == "" || st.req.SessionID == 0 {
		return nil, nil
	}

	answers, err := s.repo.SessionAnswers(ctx, st.req.SessionID, st.cfg.StreakWindow)
	if err != nil {
		return nil, fmt.Errorf("session answers: %w", err)
	}
	if len(answers) == 0 {
		return nil, nil
	}

	last := answers[0]
	streak := st.cfg.StreakLength

	// Wrong answer: offer easier footing on the same topic, excluding the
	// question just answered.
	if last.Attempted() && !*last.Correct {
		ids := takeFromTopic(st, last.TopicID, models.DifficultyEasy, 2, last.QuestionID)
		if len(ids) > 0 {
			return ids, nil
		}
	}

	if runOf(answers, streak, true) {
		if ids := takeFromTopic(st, last.TopicID, models.DifficultyHard, 1, 0); len(ids) > 0 {
			return ids, nil
		}
	}

	if runOf(answers, streak, false) {
		// Confidence rebuild: one easy question from the whole bank,
		// regardless of the test's topic filter.
		refs, err := s.repo.RandomByDifficulty(ctx, models.DifficultyEasy, st.excludedList(), 1)
		if err != nil {
			return nil, fmt.Errorf("confidence rebuild draw: %w", err)
		}
		if len(refs) > 0 {
			return []int64{refs[0].ID}, nil
		}
	}

	if runOf(answers, 2, true) && answers[0].TopicID == answers[1].TopicID {
		if ids := takeFromTopic(st, last.TopicID, models.DifficultyHard, 1, 0); len(ids) > 0 {
			return ids, nil
		}
	}

	return nil, nil
}

// runOf reports whether the n most recent answers were all attempted with the
// given outcome.
func runOf(answers []models.AnswerEvent, n int, correct bool) bool {
	if len(answers) < n {
		return false
	}
	for _, a := range answers[:n] {
		if !a.Attempted() || *a.Correct != correct {
			return false
		}
	}
	return true
}

// takeFromTopic draws up to limit free pool questions of one topic and
// difficulty, skipping skipID.
func takeFromTopic(st *drawState, topicID int64, d models.Difficulty, limit int, skipID int64) []int64 {
	cands := st.candidatesWhere(func(r models.QuestionRef) bool {
		return r.TopicID == topicID && r.Difficulty == d && r.ID != skipID
	})
	if len(cands) == 0 {
		return nil
	}
	st.shuffle(cands)
	if len(cands) > limit {
		cands = cands[:limit]
	}
	ids := make([]int64, 0, len(cands))
	for _, r := range cands {
		ids = append(ids, r.ID)
	}
	return ids
}
