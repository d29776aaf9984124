package models

type TestType string

const (
	TestTypeTopic  TestType = "topic"
	TestTypeRandom TestType = "random"
)

// SelectionRequest is the engine's input. StudentID empty means no
// personalization; SessionID zero means no in-session streak rules.
type SelectionRequest struct {
	TopicIDs           []int64            `json:"topic_ids"`
	Count              int                `json:"count"`
	TestType           TestType           `json:"test_type"`
	StudentID          string             `json:"student_id,omitempty"`
	SessionID          int64              `json:"session_id,omitempty"`
	ExcludeIDs         []int64            `json:"exclude_ids,omitempty"`
	DifficultyOverride map[string]float64 `json:"difficulty_distribution,omitempty"`
}

type SelectionOutcome string

const (
	OutcomeSatisfied SelectionOutcome = "satisfied"
	OutcomePartial   SelectionOutcome = "partial"
	OutcomeEmpty     SelectionOutcome = "empty"
)

// SelectionResult carries the drawn question ids plus per-phase contribution
// counts for operational visibility. Order of ids has no meaning.
type SelectionResult struct {
	QuestionIDs   []int64          `json:"question_ids"`
	Requested     int              `json:"requested"`
	Contributions map[string]int   `json:"contributions,omitempty"`
	Outcome       SelectionOutcome `json:"outcome"`
}
