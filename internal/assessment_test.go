package internal

import (
	"testing"
)

func TestParseAssessmentStrictJSON(t *testing.T) {
	text := `{
		"performance_comment": "Good flow",
		"correction": "Watch articles",
		"improvement_areas": "Past tense",
		"encouragement": "Keep going"
	}`

	assessment, mode, err := ParseAssessment(text)
	if err != nil {
		t.Fatalf("ParseAssessment() error: %v", err)
	}
	if mode != ParsedStrict {
		t.Errorf("mode = %v, want ParsedStrict", mode)
	}
	if assessment.PerformanceComment != "Good flow" {
		t.Errorf("PerformanceComment = %q", assessment.PerformanceComment)
	}
	if assessment.Encouragement != "Keep going" {
		t.Errorf("Encouragement = %q", assessment.Encouragement)
	}
}

func TestParseAssessmentMarkedSections(t *testing.T) {
	text := `Here is my evaluation.

PERFORMANCE COMMENT: The student communicated
clearly throughout the session.

CORRECTION: "I goed" should be "I went".

IMPROVEMENT AREAS:
1. Verb tenses
2. Articles
Focus on irregular verbs first.

ENCOURAGEMENT: Great progress this week!`

	assessment, mode, err := ParseAssessment(text)
	if err != nil {
		t.Fatalf("ParseAssessment() error: %v", err)
	}
	if mode != ParsedHeuristic {
		t.Errorf("mode = %v, want ParsedHeuristic", mode)
	}

	if assessment.PerformanceComment != "The student communicated clearly throughout the session." {
		t.Errorf("PerformanceComment = %q", assessment.PerformanceComment)
	}
	if assessment.Correction != `"I goed" should be "I went".` {
		t.Errorf("Correction = %q", assessment.Correction)
	}
	// Numbered list items are dropped; the trailing prose line is kept.
	if assessment.ImprovementAreas != "Focus on irregular verbs first." {
		t.Errorf("ImprovementAreas = %q", assessment.ImprovementAreas)
	}
	if assessment.Encouragement != "Great progress this week!" {
		t.Errorf("Encouragement = %q", assessment.Encouragement)
	}
}

func TestParseAssessmentFailure(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"free text without markers", "The student did fine overall."},
		{"empty response", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment, mode, err := ParseAssessment(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if mode != ParseFailed {
				t.Errorf("mode = %v, want ParseFailed", mode)
			}
			if assessment != nil {
				t.Errorf("assessment = %+v, want nil", assessment)
			}
		})
	}
}

func TestParseAssessmentPartialMarkers(t *testing.T) {
	// A single marker is enough for the heuristic path; the other
	// sections stay empty.
	text := "ENCOURAGEMENT: Well done."

	assessment, mode, err := ParseAssessment(text)
	if err != nil {
		t.Fatalf("ParseAssessment() error: %v", err)
	}
	if mode != ParsedHeuristic {
		t.Errorf("mode = %v, want ParsedHeuristic", mode)
	}
	if assessment.Encouragement != "Well done." {
		t.Errorf("Encouragement = %q", assessment.Encouragement)
	}
	if assessment.PerformanceComment != "" {
		t.Errorf("PerformanceComment = %q, want empty", assessment.PerformanceComment)
	}
}
