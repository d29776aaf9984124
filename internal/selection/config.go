package selection

import (
	"os"
	"strconv"
	"strings"

	"github.com/neet-prep/backend/internal/models"
)

// Config holds every tunable of the selection engine. Defaults match the NEET
// paper: 45:45:90 subject ratio, 30/40/30 difficulty mix.
type Config struct {
	// ExclusionWindowDays is the lookback during which previously answered
	// questions are withheld from re-selection. Hard rule, no override.
	ExclusionWindowDays int

	// AccuracyThreshold (percent) separates weak topics from strong ones.
	AccuracyThreshold float64

	// SlowTopicSeconds / FastTopicSeconds are the average-response-time cuts
	// for the timing rules.
	SlowTopicSeconds float64
	FastTopicSeconds float64

	// StreakLength is the run length for the all-correct / all-incorrect
	// in-session rules. StreakWindow bounds how many recent answers are read.
	StreakLength int
	StreakWindow int

	// DifficultyDistribution is the target share per difficulty bucket.
	// Shares are re-normalized before use, so they need not sum to 1.
	DifficultyDistribution map[models.Difficulty]float64

	// SubjectWeights drives the proportional subject split. Subjects absent
	// from the map weigh DefaultSubjectWeight.
	SubjectWeights       map[models.Subject]int
	DefaultSubjectWeight int

	// Weak/strong/random topic-category shares within each subject quota.
	WeakShare   float64
	StrongShare float64
	RandomShare float64

	// LowAccuracyBridge (percent): below this overall accuracy the feedback
	// phase injects easy bridge questions.
	LowAccuracyBridge float64

	// HighWeightageTopics are topic names guaranteed minimal representation.
	HighWeightageTopics []string

	// Phase toggles.
	EnableStreakRules   bool
	EnableTimingRules   bool
	EnableFeedbackRules bool
	EnableFallback      bool
}

// DefaultHighWeightageTopics are the chapters that historically dominate the
// NEET paper.
var DefaultHighWeightageTopics = []string{
	"Human Physiology",
	"Organic Chemistry",
	"Mechanics",
	"Coordination Compounds",
	"Thermodynamics",
	"Genetics",
}

func DefaultConfig() Config {
	return Config{
		ExclusionWindowDays: 15,
		AccuracyThreshold:   60,
		SlowTopicSeconds:    120,
		FastTopicSeconds:    60,
		StreakLength:        3,
		StreakWindow:        10,
		DifficultyDistribution: map[models.Difficulty]float64{
			models.DifficultyEasy:     0.30,
			models.DifficultyModerate: 0.40,
			models.DifficultyHard:     0.30,
		},
		SubjectWeights: map[models.Subject]int{
			models.SubjectPhysics:   45,
			models.SubjectChemistry: 45,
			models.SubjectBiology:   90,
		},
		DefaultSubjectWeight: 45,
		WeakShare:            0.70,
		StrongShare:          0.20,
		RandomShare:          0.10,
		LowAccuracyBridge:    40,
		HighWeightageTopics:  DefaultHighWeightageTopics,
		EnableStreakRules:    true,
		EnableTimingRules:    true,
		EnableFeedbackRules:  true,
		EnableFallback:       true,
	}
}

// ConfigFromEnv returns DefaultConfig with SELECTION_* environment overrides
// applied. Unset or malformed values keep their defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.ExclusionWindowDays = envInt("SELECTION_EXCLUSION_DAYS", cfg.ExclusionWindowDays)
	cfg.AccuracyThreshold = envFloat("SELECTION_ACCURACY_THRESHOLD", cfg.AccuracyThreshold)
	cfg.SlowTopicSeconds = envFloat("SELECTION_SLOW_TOPIC_SECONDS", cfg.SlowTopicSeconds)
	cfg.FastTopicSeconds = envFloat("SELECTION_FAST_TOPIC_SECONDS", cfg.FastTopicSeconds)
	cfg.StreakLength = envInt("SELECTION_STREAK_LENGTH", cfg.StreakLength)
	cfg.StreakWindow = envInt("SELECTION_STREAK_WINDOW", cfg.StreakWindow)
	cfg.LowAccuracyBridge = envFloat("SELECTION_LOW_ACCURACY_BRIDGE", cfg.LowAccuracyBridge)

	cfg.EnableStreakRules = envBool("SELECTION_STREAK_RULES", cfg.EnableStreakRules)
	cfg.EnableTimingRules = envBool("SELECTION_TIMING_RULES", cfg.EnableTimingRules)
	cfg.EnableFeedbackRules = envBool("SELECTION_FEEDBACK_RULES", cfg.EnableFeedbackRules)
	cfg.EnableFallback = envBool("SELECTION_FALLBACK", cfg.EnableFallback)

	if v := os.Getenv("SELECTION_HIGH_WEIGHTAGE_TOPICS"); v != "" {
		var names []string
		for _, part := range strings.Split(v, ",") {
			if name := strings.TrimSpace(part); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			cfg.HighWeightageTopics = names
		}
	}

	return cfg
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return fallback
}
