package selection

import (
	"context"

	"github.com/neet-prep/backend/internal/models"
)

// feedbackEvaluator approximates the explicit too-easy/too-hard feedback
// rules. No feedback signal is collected anywhere in the system yet, so the
// evaluator falls back to overall accuracy: a struggling student (below the
// bridge threshold) gets up to two extra easy questions to keep the test
// approachable.
type feedbackEvaluator struct{}

func (f *feedbackEvaluator) Name() string { return "feedback_rules" }

func (f *feedbackEvaluator) Propose(ctx context.Context, st *drawState) ([]int64, error) {
	if !st.cfg.EnableFeedbackRules || st.req.StudentID == "" || len(st.perf) == 0 {
		return nil, nil
	}
	if st.remaining() <= 0 {
		return nil, nil
	}

	overall := OverallAccuracy(st.perf)
	if overall < 0 || overall >= st.cfg.LowAccuracyBridge {
		return nil, nil
	}

	limit := 2
	if r := st.remaining(); r < limit {
		limit = r
	}
	cands := st.candidatesWhere(func(r models.QuestionRef) bool {
		return r.Difficulty == models.DifficultyEasy
	})
	st.shuffle(cands)
	if len(cands) > limit {
		cands = cands[:limit]
	}
	ids := make([]int64, 0, len(cands))
	for _, r := range cands {
		ids = append(ids, r.ID)
	}
	return ids, nil
}
