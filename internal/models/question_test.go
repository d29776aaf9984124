package models

import "testing"

func TestNormalizeSubject(t *testing.T) {
	tests := []struct {
		raw  string
		want Subject
	}{
		{"Physics", SubjectPhysics},
		{"  physics I ", SubjectPhysics},
		{"Organic Chemistry", SubjectChemistry},
		{"NEET Botany", SubjectBotany},
		{"Zoology", SubjectZoology},
		{"Biology", SubjectBiology},
		{"Mathematics", SubjectMath},
		{"History", SubjectUnknown},
		{"", SubjectUnknown},
	}
	for _, tt := range tests {
		if got := NormalizeSubject(tt.raw); got != tt.want {
			t.Errorf("NormalizeSubject(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestSubjectCanonical(t *testing.T) {
	if SubjectBotany.Canonical() != SubjectBiology {
		t.Error("botany must fold into biology")
	}
	if SubjectZoology.Canonical() != SubjectBiology {
		t.Error("zoology must fold into biology")
	}
	if SubjectPhysics.Canonical() != SubjectPhysics {
		t.Error("physics must stay physics")
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	tests := []struct {
		raw  string
		want Difficulty
	}{
		{"Easy", DifficultyEasy},
		{"easy-peasy", DifficultyEasy},
		{"Moderate", DifficultyModerate},
		{"Medium", DifficultyModerate},
		{"Hard", DifficultyHard},
		{"Very Difficult", DifficultyHard},
		{"???", DifficultyUnknown},
		{"", DifficultyUnknown},
	}
	for _, tt := range tests {
		if got := NormalizeDifficulty(tt.raw); got != tt.want {
			t.Errorf("NormalizeDifficulty(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestAnswerEventAttempted(t *testing.T) {
	c := true
	if !(AnswerEvent{Correct: &c}).Attempted() {
		t.Error("event with an answer must count as attempted")
	}
	if (AnswerEvent{}).Attempted() {
		t.Error("event without an answer must not count as attempted")
	}
}
