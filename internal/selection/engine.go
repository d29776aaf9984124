package selection

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/neet-prep/backend/internal/models"
)

// Engine draws a personalized question set for a new test attempt by running
// an ordered ladder of rule phases: in-session streak rules, session
// allocation (subject/difficulty/topic-category quotas), timing rules,
// feedback rules, then a uniform random fallback. Each phase consumes the
// exclusion set grown by the phases before it.
//
// The engine never fails for sparse data: a phase error degrades to a zero
// contribution and a starved pool yields a short (or empty) result. Every call
// works on its own state and rand source, so concurrent calls are independent
// and need no locking.
type Engine struct {
	repo   Repository
	cfg    Config
	seed   func() int64
	phases []phase
}

func NewEngine(repo Repository, cfg Config) *Engine {
	e := &Engine{
		repo: repo,
		cfg:  cfg,
		seed: func() int64 { return time.Now().UnixNano() },
	}
	e.phases = []phase{
		&streakEvaluator{repo: repo},
		&sessionAllocator{},
		&timingEvaluator{},
		&feedbackEvaluator{},
		&fallbackSelector{},
	}
	return e
}

// Select runs the phase ladder and returns up to req.Count distinct question
// ids. It assumes a pre-validated request; a non-positive count yields an
// empty result rather than an error.
func (e *Engine) Select(ctx context.Context, req models.SelectionRequest) *models.SelectionResult {
	result := &models.SelectionResult{
		QuestionIDs:   []int64{},
		Requested:     req.Count,
		Contributions: make(map[string]int),
		Outcome:       models.OutcomeEmpty,
	}
	if req.Count <= 0 {
		return result
	}

	st := &drawState{
		req:           req,
		cfg:           e.cfg,
		rng:           rand.New(rand.NewSource(e.seed())),
		perf:          nil,
		highWeightage: make(map[int64]bool),
		selected:      make(map[int64]bool),
		excluded:      make(map[int64]bool),
	}
	for _, id := range req.ExcludeIDs {
		st.excluded[id] = true
	}

	// Recency exclusion: anything the student saw inside the window is
	// withheld, attempted or not.
	if req.StudentID != "" {
		since := time.Now().AddDate(0, 0, -e.cfg.ExclusionWindowDays)
		recent, err := e.repo.AnsweredQuestionIDs(ctx, req.StudentID, since)
		if err != nil {
			log.Printf("WARN: [selection] recency lookup failed for student=%s: %v", req.StudentID, err)
		}
		for _, id := range recent {
			st.excluded[id] = true
		}
	}

	// Base eligible pool. An empty topic set or a random test draws from the
	// whole bank.
	topicIDs := req.TopicIDs
	if req.TestType == models.TestTypeRandom {
		topicIDs = nil
	}
	pool, err := e.repo.EligiblePool(ctx, topicIDs, st.excludedList())
	if err != nil {
		log.Printf("WARN: [selection] pool load failed: %v — returning empty set", err)
		return result
	}
	st.pool = pool
	st.poolByID = make(map[int64]models.QuestionRef, len(pool))
	for _, r := range pool {
		st.poolByID[r.ID] = r
	}

	// Personalization signals. Failures here degrade to an unpersonalized
	// draw, never an error.
	if req.StudentID != "" {
		events, err := e.repo.CompletedAttempts(ctx, req.StudentID)
		if err != nil {
			log.Printf("WARN: [selection] history aggregation failed for student=%s: %v", req.StudentID, err)
		} else {
			st.perf = AggregatePerformance(events)
		}
	}
	if len(e.cfg.HighWeightageTopics) > 0 {
		hwIDs, err := e.repo.TopicIDsByName(ctx, e.cfg.HighWeightageTopics)
		if err != nil {
			log.Printf("WARN: [selection] high-weightage topic lookup failed: %v", err)
		}
		for _, id := range hwIDs {
			st.highWeightage[id] = true
		}
	}

	for _, p := range e.phases {
		if st.remaining() <= 0 {
			break
		}
		ids, err := p.Propose(ctx, st)
		if err != nil {
			log.Printf("WARN: [selection] phase %s failed: %v — contributed 0", p.Name(), err)
			continue
		}
		added := 0
		for _, id := range ids {
			if st.accept(id) {
				added++
			}
		}
		if added > 0 {
			result.Contributions[p.Name()] = added
			log.Printf("[selection] phase %s contributed %d (total %d/%d)",
				p.Name(), added, len(st.picked), req.Count)
		}
	}

	// The high-weightage swap can momentarily overshoot; clamp to the exact
	// requested count.
	if len(st.picked) > req.Count {
		st.picked = st.picked[:req.Count]
	}
	result.QuestionIDs = st.picked

	switch {
	case len(st.picked) >= req.Count:
		result.Outcome = models.OutcomeSatisfied
	case len(st.picked) > 0:
		result.Outcome = models.OutcomePartial
	default:
		result.Outcome = models.OutcomeEmpty
	}

	log.Printf("[selection] student=%s requested=%d delivered=%d outcome=%s",
		req.StudentID, req.Count, len(st.picked), result.Outcome)
	return result
}
