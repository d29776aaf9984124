package selection

import (
	"encoding/json"
	"net/http"

	"github.com/neet-prep/backend/internal/middleware"
	"github.com/neet-prep/backend/internal/models"
)

// Handler exposes the selection engine to the test-creation flow. It performs
// the request validation the engine assumes has already happened.
type Handler struct {
	engine *Engine
	store  *Store
}

func NewHandler(engine *Engine, store *Store) *Handler {
	return &Handler{engine: engine, store: store}
}

const maxQuestionCount = 200

type drawRequest struct {
	TopicIDs               []int64            `json:"topic_ids"`
	Count                  int                `json:"count"`
	TestType               string             `json:"test_type"`
	SessionID              int64              `json:"session_id,omitempty"`
	ExcludeIDs             []int64            `json:"exclude_ids,omitempty"`
	DifficultyDistribution map[string]float64 `json:"difficulty_distribution,omitempty"`
}

type drawResponse struct {
	QuestionIDs []int64                 `json:"question_ids"`
	Requested   int                     `json:"requested"`
	Delivered   int                     `json:"delivered"`
	Outcome     models.SelectionOutcome `json:"outcome"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SelectQuestions draws a question set for a new test attempt. The student
// identity comes from the bearer token when present; anonymous callers get an
// unpersonalized draw.
func (h *Handler) SelectQuestions(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	if req.Count <= 0 || req.Count > maxQuestionCount {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "count must be between 1 and 200"})
		return
	}
	testType := models.TestType(req.TestType)
	if testType == "" {
		testType = models.TestTypeTopic
	}
	if testType != models.TestTypeTopic && testType != models.TestTypeRandom {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "test_type must be topic or random"})
		return
	}
	if testType == models.TestTypeTopic && len(req.TopicIDs) == 0 {
		// No topics selected behaves like a random test.
		testType = models.TestTypeRandom
	}

	result := h.engine.Select(r.Context(), models.SelectionRequest{
		TopicIDs:           req.TopicIDs,
		Count:              req.Count,
		TestType:           testType,
		StudentID:          middleware.StudentIDFromContext(r.Context()),
		SessionID:          req.SessionID,
		ExcludeIDs:         req.ExcludeIDs,
		DifficultyOverride: req.DifficultyDistribution,
	})

	writeJSON(w, http.StatusOK, drawResponse{
		QuestionIDs: result.QuestionIDs,
		Requested:   result.Requested,
		Delivered:   len(result.QuestionIDs),
		Outcome:     result.Outcome,
	})
}

// ListTopics returns the topic catalog so clients can build topic tests.
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.store.ListTopics(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to list topics"})
		return
	}
	if topics == nil {
		topics = []models.Topic{}
	}
	writeJSON(w, http.StatusOK, topics)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
