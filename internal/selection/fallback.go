package selection

import "context"

// fallbackSelector is the last rung of the ladder: a uniform random draw from
// whatever remains eligible. It never fails — an empty pool just means a
// short result.
type fallbackSelector struct{}

func (f *fallbackSelector) Name() string { return "fallback" }

func (f *fallbackSelector) Propose(ctx context.Context, st *drawState) ([]int64, error) {
	if !st.cfg.EnableFallback {
		return nil, nil
	}
	need := st.remaining()
	if need <= 0 {
		return nil, nil
	}

	cands := st.candidatesWhere(nil)
	st.shuffle(cands)
	if len(cands) > need {
		cands = cands[:need]
	}
	ids := make([]int64, 0, len(cands))
	for _, r := range cands {
		ids = append(ids, r.ID)
	}
	return ids, nil
}
