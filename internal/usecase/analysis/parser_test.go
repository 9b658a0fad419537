package analysis

import "testing"

const wellFormedAssessment = `{
	"radical_probability": 72,
	"radical_content": 45,
	"overview": "The speaker repeatedly glorifies violence.",
	"analysis": "Across both language tracks the speaker...",
	"risk_factors": ["glorification of violence", "dehumanizing language"],
	"safety_tips": ["report the channel", "avoid sharing"],
	"language_breakdown": {"en-US": "explicit calls", "hi-IN": "milder rhetoric"}
}`

func TestParseRiskAssessment_StructuredJSON(t *testing.T) {
	result := NewParser().ParseRiskAssessment(wellFormedAssessment)

	if result.RadicalProbability != 72 || result.RadicalContent != 45 {
		t.Fatalf("unexpected scores %d/%d", result.RadicalProbability, result.RadicalContent)
	}
	if len(result.RiskFactors) != 2 {
		t.Fatalf("expected 2 risk factors got %d", len(result.RiskFactors))
	}
	if result.LanguageBreakdown["hi-IN"] != "milder rhetoric" {
		t.Fatalf("language breakdown lost: %v", result.LanguageBreakdown)
	}
}

func TestParseRiskAssessment_MarkdownFencedJSON(t *testing.T) {
	fenced := "```json\n" + wellFormedAssessment + "\n```"

	result := NewParser().ParseRiskAssessment(fenced)

	if result.RadicalProbability != 72 {
		t.Fatalf("fenced JSON not parsed, got probability %d", result.RadicalProbability)
	}
}

func TestParseRiskAssessment_JSONWithSurroundingProse(t *testing.T) {
	wrapped := "Here is the assessment you asked for:\n" + wellFormedAssessment + "\nLet me know if you need more detail."

	result := NewParser().ParseRiskAssessment(wrapped)

	if result.RadicalProbability != 72 {
		t.Fatalf("embedded JSON not parsed, got probability %d", result.RadicalProbability)
	}
}

func TestParseRiskAssessment_ClampsOutOfRangeScores(t *testing.T) {
	result := NewParser().ParseRiskAssessment(`{
		"radical_probability": 150,
		"radical_content": -10,
		"overview": "x",
		"analysis": "y"
	}`)

	if result.RadicalProbability != 100 {
		t.Fatalf("probability not clamped: %d", result.RadicalProbability)
	}
	if result.RadicalContent != 0 {
		t.Fatalf("content score not clamped: %d", result.RadicalContent)
	}
}

func TestParseRiskAssessment_ScrapesUnstructuredText(t *testing.T) {
	raw := `Based on my review:
Radical probability: 65
Radical content: 30
Overview: the material contains borderline rhetoric.`

	result := NewParser().ParseRiskAssessment(raw)

	if result.RadicalProbability != 65 {
		t.Fatalf("probability not scraped: %d", result.RadicalProbability)
	}
	if result.RadicalContent != 30 {
		t.Fatalf("content score not scraped: %d", result.RadicalContent)
	}
	if result.Analysis == "" {
		t.Fatal("scraped assessment should keep the raw text as analysis")
	}
}

func TestParseRiskAssessment_GarbageFallsBackToDefault(t *testing.T) {
	result := NewParser().ParseRiskAssessment("I'm sorry, I cannot help with that.")

	def := NewParser().ParseRiskAssessment("")
	if result.Overview != def.Overview {
		t.Fatalf("expected default placeholder, got %q", result.Overview)
	}
	if result.RadicalProbability != 0 || result.RadicalContent != 0 {
		t.Fatalf("default scores should be zero, got %d/%d", result.RadicalProbability, result.RadicalContent)
	}
	if result.RiskFactors == nil || result.SafetyTips == nil {
		t.Fatal("default lists should be empty, not nil")
	}
}

func TestParseRiskAssessment_EmptyStringFieldsRejected(t *testing.T) {
	// Valid JSON with no usable content should not be accepted as structured
	result := NewParser().ParseRiskAssessment(`{"radical_probability": 10}`)

	if result.Overview == "" {
		t.Fatal("expected fallback placeholder overview")
	}
}
