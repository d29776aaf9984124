package selection

import (
	"context"
	"math/rand"

	"github.com/neet-prep/backend/internal/models"
)

// phase is one step of the selection ladder. Phases propose candidate ids;
// the engine owns merging, deduplication and the exclusion set. A phase whose
// preconditions do not hold returns (nil, nil).
type phase interface {
	Name() string
	Propose(ctx context.Context, st *drawState) ([]int64, error)
}

// drawState is the per-invocation working set. It is built fresh on every
// Select call and never shared across invocations.
type drawState struct {
	req  models.SelectionRequest
	cfg  Config
	rng  *rand.Rand
	pool []models.QuestionRef

	poolByID      map[int64]models.QuestionRef
	perf          map[int64]models.TopicPerformance
	highWeightage map[int64]bool

	picked   []int64
	selected map[int64]bool
	excluded map[int64]bool
}

func (st *drawState) remaining() int {
	return st.req.Count - len(st.picked)
}

// isFree reports whether a question id may still be offered.
func (st *drawState) isFree(id int64) bool {
	return !st.selected[id] && !st.excluded[id]
}

// accept merges a proposed id into the result, enforcing the no-duplicate and
// exclusion invariants. Returns false when the id was already taken.
func (st *drawState) accept(id int64) bool {
	if !st.isFree(id) {
		return false
	}
	st.selected[id] = true
	st.picked = append(st.picked, id)
	return true
}

// excludedList flattens the accumulated exclusion set (caller excludes,
// recency window, everything already selected) for repository queries.
func (st *drawState) excludedList() []int64 {
	ids := make([]int64, 0, len(st.excluded)+len(st.selected))
	for id := range st.excluded {
		ids = append(ids, id)
	}
	for id := range st.selected {
		if !st.excluded[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// candidatesWhere returns the free pool questions matching pred.
func (st *drawState) candidatesWhere(pred func(models.QuestionRef) bool) []models.QuestionRef {
	var out []models.QuestionRef
	for _, r := range st.pool {
		if !st.isFree(r.ID) {
			continue
		}
		if pred == nil || pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func (st *drawState) shuffle(refs []models.QuestionRef) {
	st.rng.Shuffle(len(refs), func(i, j int) { refs[i], refs[j] = refs[j], refs[i] })
}
