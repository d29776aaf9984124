package selection

import (
	"math"
	"testing"

	"github.com/neet-prep/backend/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ExclusionWindowDays != 15 {
		t.Errorf("exclusion window = %d days, want 15", cfg.ExclusionWindowDays)
	}
	if cfg.SubjectWeights[models.SubjectBiology] != 90 {
		t.Errorf("biology weight = %d, want 90", cfg.SubjectWeights[models.SubjectBiology])
	}
	total := 0.0
	for _, v := range cfg.DifficultyDistribution {
		total += v
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("difficulty distribution sums to %v, want 1.0", total)
	}
	shares := cfg.WeakShare + cfg.StrongShare + cfg.RandomShare
	if math.Abs(shares-1.0) > 1e-9 {
		t.Errorf("category shares sum to %v, want 1.0", shares)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("SELECTION_EXCLUSION_DAYS", "30")
	t.Setenv("SELECTION_ACCURACY_THRESHOLD", "50")
	t.Setenv("SELECTION_TIMING_RULES", "false")
	t.Setenv("SELECTION_HIGH_WEIGHTAGE_TOPICS", "Optics, Genetics")

	cfg := ConfigFromEnv()
	if cfg.ExclusionWindowDays != 30 {
		t.Errorf("exclusion window = %d, want 30", cfg.ExclusionWindowDays)
	}
	if cfg.AccuracyThreshold != 50 {
		t.Errorf("accuracy threshold = %v, want 50", cfg.AccuracyThreshold)
	}
	if cfg.EnableTimingRules {
		t.Error("timing rules still enabled after SELECTION_TIMING_RULES=false")
	}
	if len(cfg.HighWeightageTopics) != 2 || cfg.HighWeightageTopics[0] != "Optics" {
		t.Errorf("high-weightage topics = %v, want [Optics Genetics]", cfg.HighWeightageTopics)
	}
}

func TestConfigFromEnvIgnoresMalformed(t *testing.T) {
	t.Setenv("SELECTION_EXCLUSION_DAYS", "not-a-number")
	t.Setenv("SELECTION_STREAK_LENGTH", "-4")

	cfg := ConfigFromEnv()
	if cfg.ExclusionWindowDays != 15 {
		t.Errorf("exclusion window = %d, want default 15 on malformed input", cfg.ExclusionWindowDays)
	}
	if cfg.StreakLength != 3 {
		t.Errorf("streak length = %d, want default 3 on non-positive input", cfg.StreakLength)
	}
}
