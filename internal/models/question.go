package models

import (
	"strings"
	"time"
)

type Subject string

const (
	SubjectPhysics   Subject = "physics"
	SubjectChemistry Subject = "chemistry"
	SubjectBotany    Subject = "botany"
	SubjectZoology   Subject = "zoology"
	SubjectBiology   Subject = "biology"
	SubjectMath      Subject = "math"
	SubjectUnknown   Subject = "unknown"
)

var ValidSubjects = map[Subject]bool{
	SubjectPhysics:   true,
	SubjectChemistry: true,
	SubjectBotany:    true,
	SubjectZoology:   true,
	SubjectBiology:   true,
	SubjectMath:      true,
}

// NormalizeSubject maps a free-text subject label onto the closed Subject set.
// Matching is keyword-based because the bank carries labels like "Physics I"
// or "NEET Botany".
func NormalizeSubject(raw string) Subject {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "physics"):
		return SubjectPhysics
	case strings.Contains(s, "chem"):
		return SubjectChemistry
	case strings.Contains(s, "botany"):
		return SubjectBotany
	case strings.Contains(s, "zoo"):
		return SubjectZoology
	case strings.Contains(s, "bio"):
		return SubjectBiology
	case strings.Contains(s, "math"):
		return SubjectMath
	}
	return SubjectUnknown
}

// Canonical folds Botany and Zoology into Biology, which is the grouping the
// NEET 45:45:90 subject ratio is defined over.
func (s Subject) Canonical() Subject {
	if s == SubjectBotany || s == SubjectZoology {
		return SubjectBiology
	}
	return s
}

type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
	DifficultyUnknown  Difficulty = "unknown"
)

// NormalizeDifficulty maps a free-text difficulty label onto the closed
// Difficulty set. This runs once at the data-access boundary; everything
// downstream branches on the enum only.
func NormalizeDifficulty(raw string) Difficulty {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "easy"):
		return DifficultyEasy
	case strings.Contains(s, "moderate"), strings.Contains(s, "medium"):
		return DifficultyModerate
	case strings.Contains(s, "hard"), strings.Contains(s, "difficult"):
		return DifficultyHard
	}
	return DifficultyUnknown
}

type Topic struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Subject Subject `json:"subject"`
	Chapter *string `json:"chapter,omitempty"`
}

// QuestionRef is the selection view of a question: just enough to allocate.
// Question text, options and explanations never enter the engine.
type QuestionRef struct {
	ID         int64      `json:"id"`
	TopicID    int64      `json:"topic_id"`
	Subject    Subject    `json:"subject"`
	Difficulty Difficulty `json:"difficulty"`
}

// AnswerEvent is one row of a student's answer record. Correct is nil when
// the question was shown but never attempted (no selected answer).
type AnswerEvent struct {
	SessionID        int64     `json:"session_id"`
	QuestionID       int64     `json:"question_id"`
	TopicID          int64     `json:"topic_id"`
	Correct          *bool     `json:"correct"`
	TimeTakenSeconds float64   `json:"time_taken_seconds"`
	AnsweredAt       time.Time `json:"answered_at"`
}

// Attempted reports whether the event carries an actual answer.
func (e AnswerEvent) Attempted() bool {
	return e.Correct != nil
}

// TopicPerformance is the per-topic aggregate computed from a student's
// completed answer history. Ephemeral: recomputed on every selection call.
type TopicPerformance struct {
	Accuracy       float64  `json:"accuracy"`
	AvgTimeSeconds *float64 `json:"avg_time_seconds,omitempty"`
	Attempted      int      `json:"attempted"`
}
