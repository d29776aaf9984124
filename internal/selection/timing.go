package selection

import (
	"context"

	"github.com/neet-prep/backend/internal/models"
)

// timingEvaluator supplements an under-delivered draw using average response
// times: topics the student answers slowly get easy follow-ups (capped at
// half the remaining need), topics answered fast but inaccurately get hard
// ones. Purely additive — earlier picks are never touched.
type timingEvaluator struct{}

func (t *timingEvaluator) Name() string { return "timing_rules" }

func (t *timingEvaluator) Propose(ctx context.Context, st *drawState) ([]int64, error) {
	if !st.cfg.EnableTimingRules || st.req.StudentID == "" || len(st.perf) == 0 {
		return nil, nil
	}
	need := st.remaining()
	if need <= 0 {
		return nil, nil
	}

	slow := make(map[int64]bool)
	fastWrong := make(map[int64]bool)
	for topicID, p := range st.perf {
		if p.AvgTimeSeconds == nil {
			continue
		}
		avg := *p.AvgTimeSeconds
		if avg > st.cfg.SlowTopicSeconds {
			slow[topicID] = true
		}
		if avg < st.cfg.FastTopicSeconds && p.Accuracy < st.cfg.AccuracyThreshold {
			fastWrong[topicID] = true
		}
	}

	var ids []int64
	taken := make(map[int64]bool)

	easyCap := need / 2
	ids = append(ids, t.draw(st, taken, slow, models.DifficultyEasy, easyCap)...)
	ids = append(ids, t.draw(st, taken, fastWrong, models.DifficultyHard, need-len(ids))...)
	return ids, nil
}

func (t *timingEvaluator) draw(st *drawState, taken map[int64]bool, topics map[int64]bool, d models.Difficulty, limit int) []int64 {
	if limit <= 0 || len(topics) == 0 {
		return nil
	}
	cands := st.candidatesWhere(func(r models.QuestionRef) bool {
		return !taken[r.ID] && topics[r.TopicID] && r.Difficulty == d
	})
	st.shuffle(cands)
	if len(cands) > limit {
		cands = cands[:limit]
	}
	ids := make([]int64, 0, len(cands))
	for _, r := range cands {
		taken[r.ID] = true
		ids = append(ids, r.ID)
	}
	return ids
}
