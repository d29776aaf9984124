package selection

import (
	"context"

	"github.com/neet-prep/backend/internal/models"
)

// canonicalSubjectOrder fixes iteration order for deterministic quota math.
var canonicalSubjectOrder = []models.Subject{
	models.SubjectPhysics,
	models.SubjectChemistry,
	models.SubjectBiology,
	models.SubjectMath,
	models.SubjectUnknown,
}

// canonicalDifficultyOrder fixes tie-breaking when several difficulty buckets
// have equal remaining quota.
var canonicalDifficultyOrder = []models.Difficulty{
	models.DifficultyEasy,
	models.DifficultyModerate,
	models.DifficultyHard,
	models.DifficultyUnknown,
}

// difficultyFallback defines, per target difficulty, the order in which
// substitutes are tried so a bucket is never starved merely because its exact
// difficulty ran out.
var difficultyFallback = map[models.Difficulty][]models.Difficulty{
	models.DifficultyHard:     {models.DifficultyHard, models.DifficultyModerate, models.DifficultyEasy, models.DifficultyUnknown},
	models.DifficultyModerate: {models.DifficultyModerate, models.DifficultyEasy, models.DifficultyHard, models.DifficultyUnknown},
	models.DifficultyEasy:     {models.DifficultyEasy, models.DifficultyModerate, models.DifficultyHard, models.DifficultyUnknown},
	models.DifficultyUnknown:  {models.DifficultyUnknown, models.DifficultyEasy, models.DifficultyModerate, models.DifficultyHard},
}

// sessionAllocator fills the bulk of the test: it splits the remaining need
// across subjects (45:45:90), then within each subject across weak/strong/
// random topic categories (70/20/10), drawing against global difficulty
// quotas (30/40/30) with per-difficulty fallback chains, and finally enforces
// the high-weightage topic guarantee.
type sessionAllocator struct{}

func (a *sessionAllocator) Name() string { return "session_allocation" }

func (a *sessionAllocator) Propose(ctx context.Context, st *drawState) ([]int64, error) {
	need := st.remaining()
	if need <= 0 || len(st.pool) == 0 {
		return nil, nil
	}

	taken := make(map[int64]bool)
	free := func(r models.QuestionRef) bool { return st.isFree(r.ID) && !taken[r.ID] }

	var picked []int64
	pick := func(r models.QuestionRef) {
		taken[r.ID] = true
		picked = append(picked, r.ID)
	}

	diffRemaining := difficultyTargets(need, st.cfg.DifficultyDistribution, st.req.DifficultyOverride)

	bySubject := make(map[models.Subject][]models.QuestionRef)
	for _, r := range st.pool {
		if !st.isFree(r.ID) {
			continue
		}
		subj := r.Subject.Canonical()
		bySubject[subj] = append(bySubject[subj], r)
	}
	subjects := orderedSubjects(bySubject)
	quotas := subjectQuotas(need, subjects, st.cfg)

	noHistory := len(st.perf) == 0

	for _, subj := range subjects {
		quota := quotas[subj]
		if quota <= 0 {
			continue
		}
		refs := bySubject[subj]
		weakTopics, strongTopics := classifyTopics(refs, st.perf, st.cfg.AccuracyThreshold)
		weakN, strongN, randomN := categoryQuotas(quota, st.cfg, noHistory)

		// Any weak/strong shortfall is redirected to the random bucket.
		got := drawQuota(st, filterRefs(refs, free, inTopics(weakTopics)), weakN, diffRemaining, pick)
		randomN += weakN - got
		got = drawQuota(st, filterRefs(refs, free, inTopics(strongTopics)), strongN, diffRemaining, pick)
		randomN += strongN - got
		drawQuota(st, filterRefs(refs, free, nil), randomN, diffRemaining, pick)
	}

	// Slots no subject bucket could fill: any remaining eligible question,
	// uniformly at random.
	if len(picked) < need {
		rest := st.candidatesWhere(func(r models.QuestionRef) bool { return !taken[r.ID] })
		st.shuffle(rest)
		for _, r := range rest {
			if len(picked) >= need {
				break
			}
			pick(r)
		}
	}

	picked = a.ensureHighWeightage(st, picked, taken)
	return picked, nil
}

// ensureHighWeightage swaps one arbitrary pick for a high-weightage question
// when the accumulated selection contains none and the pool still has one.
func (a *sessionAllocator) ensureHighWeightage(st *drawState, picked []int64, taken map[int64]bool) []int64 {
	if len(st.highWeightage) == 0 {
		return picked
	}
	covered := func(ids []int64) bool {
		for _, id := range ids {
			if r, ok := st.poolByID[id]; ok && st.highWeightage[r.TopicID] {
				return true
			}
		}
		return false
	}
	if covered(st.picked) || covered(picked) {
		return picked
	}

	cands := st.candidatesWhere(func(r models.QuestionRef) bool {
		return !taken[r.ID] && st.highWeightage[r.TopicID]
	})
	if len(cands) == 0 {
		return picked
	}
	hw := cands[st.rng.Intn(len(cands))]
	taken[hw.ID] = true

	if len(picked) == 0 {
		return []int64{hw.ID}
	}
	idx := st.rng.Intn(len(picked))
	delete(taken, picked[idx])
	picked[idx] = hw.ID
	return picked
}

// drawQuota draws up to n questions from cands, consuming the shared
// difficulty quota map: each draw targets the difficulty with the largest
// remaining quota and walks its fallback chain when the exact difficulty is
// unavailable. Returns the number actually drawn.
func drawQuota(st *drawState, cands []models.QuestionRef, n int, diffRemaining map[models.Difficulty]int, pick func(models.QuestionRef)) int {
	if n <= 0 || len(cands) == 0 {
		return 0
	}
	st.shuffle(cands)
	buckets := make(map[models.Difficulty][]models.QuestionRef)
	for _, r := range cands {
		buckets[r.Difficulty] = append(buckets[r.Difficulty], r)
	}

	drawn := 0
	for drawn < n {
		target := nextTargetDifficulty(diffRemaining)
		r, ok := popWithFallback(buckets, target)
		if !ok {
			break
		}
		pick(r)
		drawn++
		if target != "" {
			diffRemaining[target]--
		}
	}
	return drawn
}

// nextTargetDifficulty returns the difficulty with the largest remaining
// quota, or "" when all quotas are spent.
func nextTargetDifficulty(remaining map[models.Difficulty]int) models.Difficulty {
	var best models.Difficulty
	bestN := 0
	for _, d := range canonicalDifficultyOrder {
		if remaining[d] > bestN {
			best = d
			bestN = remaining[d]
		}
	}
	return best
}

// popWithFallback removes and returns one question for the target difficulty,
// trying the target's fallback chain in order. A "" target means quotas are
// spent and any difficulty will do.
func popWithFallback(buckets map[models.Difficulty][]models.QuestionRef, target models.Difficulty) (models.QuestionRef, bool) {
	chain := difficultyFallback[target]
	if target == "" {
		chain = canonicalDifficultyOrder
	}
	for _, d := range chain {
		if refs := buckets[d]; len(refs) > 0 {
			r := refs[len(refs)-1]
			buckets[d] = refs[:len(refs)-1]
			return r, true
		}
	}
	return models.QuestionRef{}, false
}

// subjectQuotas splits count across the subjects present in the pool in
// proportion to their canonical weights. The rounding remainder goes to the
// largest-weight present subject (Biology when it is there), and every
// present subject is guaranteed at least one slot while a donor exists.
func subjectQuotas(count int, subjects []models.Subject, cfg Config) map[models.Subject]int {
	quotas := make(map[models.Subject]int, len(subjects))
	if len(subjects) == 0 {
		return quotas
	}

	weight := func(s models.Subject) int {
		if w, ok := cfg.SubjectWeights[s]; ok {
			return w
		}
		return cfg.DefaultSubjectWeight
	}

	total := 0
	for _, s := range subjects {
		total += weight(s)
	}

	assigned := 0
	var largest models.Subject
	largestW := -1
	for _, s := range subjects {
		quotas[s] = count * weight(s) / total
		assigned += quotas[s]
		if weight(s) > largestW {
			largest = s
			largestW = weight(s)
		}
	}
	quotas[largest] += count - assigned

	// Each present subject gets at least one slot while some other quota can
	// spare one.
	for _, s := range subjects {
		if quotas[s] > 0 {
			continue
		}
		donor, donorN := models.Subject(""), 1
		for _, d := range subjects {
			if quotas[d] > donorN {
				donor, donorN = d, quotas[d]
			}
		}
		if donor == "" {
			break
		}
		quotas[donor]--
		quotas[s]++
	}
	return quotas
}

// categoryQuotas splits a subject quota into weak/strong/random counts
// (70/20/10, floor-rounded, remainder to weak). Without any performance
// history the whole quota is random.
func categoryQuotas(quota int, cfg Config, noHistory bool) (weak, strong, random int) {
	if noHistory {
		return 0, 0, quota
	}
	weak = int(float64(quota) * cfg.WeakShare)
	strong = int(float64(quota) * cfg.StrongShare)
	random = int(float64(quota) * cfg.RandomShare)
	weak += quota - weak - strong - random
	return weak, strong, random
}

// classifyTopics buckets the pool's topics for one subject: weak when
// historical accuracy is below the threshold or the topic has no history at
// all (new topics get prioritized exposure), strong otherwise.
func classifyTopics(refs []models.QuestionRef, perf map[int64]models.TopicPerformance, threshold float64) (weak, strong map[int64]bool) {
	weak = make(map[int64]bool)
	strong = make(map[int64]bool)
	for _, r := range refs {
		if weak[r.TopicID] || strong[r.TopicID] {
			continue
		}
		p, ok := perf[r.TopicID]
		if ok && p.Accuracy >= threshold {
			strong[r.TopicID] = true
		} else {
			weak[r.TopicID] = true
		}
	}
	return weak, strong
}

// difficultyTargets computes per-difficulty slot counts for need questions,
// honoring a request-level override. Floors first, remainder to Moderate,
// then each core bucket is guaranteed one slot while a donor can spare one.
func difficultyTargets(need int, dist map[models.Difficulty]float64, override map[string]float64) map[models.Difficulty]int {
	shares := make(map[models.Difficulty]float64, len(dist))
	for d, v := range dist {
		shares[d] = v
	}
	for k, v := range override {
		if v <= 0 {
			continue
		}
		if d := models.NormalizeDifficulty(k); d != models.DifficultyUnknown {
			shares[d] = v
		}
	}

	total := 0.0
	for _, v := range shares {
		total += v
	}
	if total <= 0 {
		return map[models.Difficulty]int{models.DifficultyModerate: need}
	}

	targets := make(map[models.Difficulty]int, len(shares))
	assigned := 0
	for _, d := range canonicalDifficultyOrder {
		v, ok := shares[d]
		if !ok {
			continue
		}
		targets[d] = int(float64(need) * v / total)
		assigned += targets[d]
	}
	targets[models.DifficultyModerate] += need - assigned

	core := []models.Difficulty{models.DifficultyEasy, models.DifficultyModerate, models.DifficultyHard}
	for _, d := range core {
		if targets[d] > 0 {
			continue
		}
		donor, donorN := models.Difficulty(""), 1
		for _, c := range canonicalDifficultyOrder {
			if targets[c] > donorN {
				donor, donorN = c, targets[c]
			}
		}
		if donor == "" {
			break
		}
		targets[donor]--
		targets[d]++
	}
	return targets
}

func orderedSubjects(bySubject map[models.Subject][]models.QuestionRef) []models.Subject {
	var out []models.Subject
	for _, s := range canonicalSubjectOrder {
		if len(bySubject[s]) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func inTopics(topics map[int64]bool) func(models.QuestionRef) bool {
	return func(r models.QuestionRef) bool { return topics[r.TopicID] }
}

func filterRefs(refs []models.QuestionRef, free func(models.QuestionRef) bool, pred func(models.QuestionRef) bool) []models.QuestionRef {
	var out []models.QuestionRef
	for _, r := range refs {
		if !free(r) {
			continue
		}
		if pred == nil || pred(r) {
			out = append(out, r)
		}
	}
	return out
}
