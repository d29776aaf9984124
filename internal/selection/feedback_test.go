package selection

import (
	"context"
	"testing"

	"github.com/neet-prep/backend/internal/models"
)

func feedbackState(count int, perf map[int64]models.TopicPerformance) *drawState {
	pool := mixedTopic(100, 1, models.SubjectPhysics, 4, 4, 4)
	req := models.SelectionRequest{
		TopicIDs:  []int64{1},
		Count:     count,
		TestType:  models.TestTypeTopic,
		StudentID: "s1",
	}
	st := newTestState(req, DefaultConfig(), pool)
	st.perf = perf
	return st
}

func TestFeedbackBridgesLowAccuracy(t *testing.T) {
	st := feedbackState(10, map[int64]models.TopicPerformance{
		1: {Accuracy: 25, Attempted: 8},
	})

	ids, err := (&feedbackEvaluator{}).Propose(context.Background(), st)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d candidates, want 2 bridge questions", len(ids))
	}
	for _, id := range ids {
		if r := st.poolByID[id]; r.Difficulty != models.DifficultyEasy {
			t.Errorf("candidate %d is %s, want easy", id, r.Difficulty)
		}
	}
}

func TestFeedbackSkippedAboveThreshold(t *testing.T) {
	st := feedbackState(10, map[int64]models.TopicPerformance{
		1: {Accuracy: 75, Attempted: 8},
	})

	ids, err := (&feedbackEvaluator{}).Propose(context.Background(), st)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("got %v, want nothing for an accurate student", ids)
	}
}

func TestFeedbackSkippedWithoutHistory(t *testing.T) {
	st := feedbackState(10, nil)

	ids, err := (&feedbackEvaluator{}).Propose(context.Background(), st)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if ids != nil {
		t.Errorf("got %v, want nil with no history", ids)
	}
}

func TestFeedbackCappedByRemaining(t *testing.T) {
	st := feedbackState(1, map[int64]models.TopicPerformance{
		1: {Accuracy: 25, Attempted: 8},
	})

	ids, err := (&feedbackEvaluator{}).Propose(context.Background(), st)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("got %d candidates, want 1 (only one slot left)", len(ids))
	}
}
