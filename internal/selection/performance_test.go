package selection

import (
	"testing"
	"time"

	"github.com/neet-prep/backend/internal/models"
)

func event(topicID int64, correct *bool, timeTaken float64) models.AnswerEvent {
	return models.AnswerEvent{
		SessionID:        1,
		QuestionID:       topicID * 100,
		TopicID:          topicID,
		Correct:          correct,
		TimeTakenSeconds: timeTaken,
		AnsweredAt:       time.Now(),
	}
}

func TestAggregatePerformanceAccuracy(t *testing.T) {
	events := []models.AnswerEvent{
		event(1, boolPtr(true), 30),
		event(1, boolPtr(true), 60),
		event(1, boolPtr(false), 90),
	}

	perf := AggregatePerformance(events)
	p, ok := perf[1]
	if !ok {
		t.Fatal("topic 1 missing from performance map")
	}
	if p.Accuracy != 66.67 {
		t.Errorf("accuracy = %v, want 66.67", p.Accuracy)
	}
	if p.Attempted != 3 {
		t.Errorf("attempted = %d, want 3", p.Attempted)
	}
	if p.AvgTimeSeconds == nil || *p.AvgTimeSeconds != 60 {
		t.Errorf("avg time = %v, want 60", p.AvgTimeSeconds)
	}
}

func TestAggregatePerformanceSkipsUnattempted(t *testing.T) {
	events := []models.AnswerEvent{
		event(1, boolPtr(true), 30),
		event(1, nil, 0), // shown but never answered
		event(2, nil, 0),
	}

	perf := AggregatePerformance(events)
	if p := perf[1]; p.Attempted != 1 || p.Accuracy != 100 {
		t.Errorf("topic 1 = %+v, want 1 attempt at 100%%", p)
	}
	if _, ok := perf[2]; ok {
		t.Error("topic 2 has no attempts and must be absent, not zero-filled")
	}
}

func TestAggregatePerformanceNoTimeData(t *testing.T) {
	events := []models.AnswerEvent{event(1, boolPtr(false), 0)}
	perf := AggregatePerformance(events)
	if perf[1].AvgTimeSeconds != nil {
		t.Errorf("avg time = %v, want nil when no event carries a time", *perf[1].AvgTimeSeconds)
	}
}

func TestOverallAccuracy(t *testing.T) {
	perf := map[int64]models.TopicPerformance{
		1: {Accuracy: 100, Attempted: 1},
		2: {Accuracy: 0, Attempted: 3},
	}
	if got := OverallAccuracy(perf); got != 25 {
		t.Errorf("overall accuracy = %v, want 25 (attempt-weighted)", got)
	}
	if got := OverallAccuracy(nil); got != -1 {
		t.Errorf("overall accuracy with no history = %v, want -1", got)
	}
}
