package selection

import (
	"math"

	"github.com/neet-prep/backend/internal/models"
)

// AggregatePerformance computes the per-topic accuracy and average response
// time over a student's attempted answers. Unattempted events are ignored and
// topics with zero attempts are absent from the map — never zero-filled, so a
// topic the student has never touched reads as "no history" downstream.
func AggregatePerformance(events []models.AnswerEvent) map[int64]models.TopicPerformance {
	type acc struct {
		attempted int
		correct   int
		timeSum   float64
		timed     int
	}

	byTopic := make(map[int64]*acc)
	for _, e := range events {
		if !e.Attempted() {
			continue
		}
		a := byTopic[e.TopicID]
		if a == nil {
			a = &acc{}
			byTopic[e.TopicID] = a
		}
		a.attempted++
		if *e.Correct {
			a.correct++
		}
		if e.TimeTakenSeconds > 0 {
			a.timeSum += e.TimeTakenSeconds
			a.timed++
		}
	}

	perf := make(map[int64]models.TopicPerformance, len(byTopic))
	for topicID, a := range byTopic {
		p := models.TopicPerformance{
			Accuracy:  round2(float64(a.correct) / float64(a.attempted) * 100),
			Attempted: a.attempted,
		}
		if a.timed > 0 {
			avg := a.timeSum / float64(a.timed)
			p.AvgTimeSeconds = &avg
		}
		perf[topicID] = p
	}
	return perf
}

// OverallAccuracy is the attempt-weighted accuracy across all topics, or -1
// when there is no history at all.
func OverallAccuracy(perf map[int64]models.TopicPerformance) float64 {
	var weighted float64
	var attempts int
	for _, p := range perf {
		weighted += p.Accuracy * float64(p.Attempted)
		attempts += p.Attempted
	}
	if attempts == 0 {
		return -1
	}
	return weighted / float64(attempts)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
