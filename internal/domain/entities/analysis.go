package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RiskAssessment is the structured output of the LLM risk analyzer. Scores
// are on a 0-100 scale.
type RiskAssessment struct {
	RadicalProbability int               `json:"radical_probability"`
	RadicalContent     int               `json:"radical_content"`
	Overview           string            `json:"overview"`
	Analysis           string            `json:"analysis"`
	RiskFactors        []string          `json:"risk_factors"`
	SafetyTips         []string          `json:"safety_tips"`
	LanguageBreakdown  map[string]string `json:"language_breakdown,omitempty"`
}

// DefaultRiskAssessment is the placeholder returned when the analyzer's
// output cannot be parsed even by the fallback scraper. The job still
// completes; only the assessment content is degraded.
func DefaultRiskAssessment() *RiskAssessment {
	return &RiskAssessment{
		RadicalProbability: 0,
		RadicalContent:     0,
		Overview:           "Analysis unavailable",
		Analysis:           "The analyzer did not return a usable assessment for this content.",
		RiskFactors:        []string{},
		SafetyTips:         []string{},
	}
}

// ContentAnalysis is the persisted record of one completed analysis
type ContentAnalysis struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SourceKind         string         `json:"source_kind" gorm:"type:varchar(20);not null"`
	SourceRef          string         `json:"source_ref" gorm:"type:text;not null;index"`
	RadicalProbability int            `json:"radical_probability" gorm:"type:integer;not null"`
	RadicalContent     int            `json:"radical_content" gorm:"type:integer;not null"`
	Overview           string         `json:"overview" gorm:"type:text"`
	Analysis           string         `json:"analysis" gorm:"type:text"`
	RiskFactors        datatypes.JSON `json:"risk_factors,omitempty" gorm:"type:jsonb"`
	SafetyTips         datatypes.JSON `json:"safety_tips,omitempty" gorm:"type:jsonb"`
	Transcripts        datatypes.JSON `json:"transcripts,omitempty" gorm:"type:jsonb"`
	Partial            bool           `json:"partial" gorm:"type:boolean;default:false"`
	ModelUsed          string         `json:"model_used,omitempty" gorm:"type:varchar(50)"`
	ProcessingTimeMs   int            `json:"processing_time_ms,omitempty"`
	CreatedAt          time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for ContentAnalysis
func (ContentAnalysis) TableName() string {
	return "content_analyses"
}

// NewContentAnalysis creates a new ContentAnalysis entity
func NewContentAnalysis(sourceKind, sourceRef string) *ContentAnalysis {
	return &ContentAnalysis{
		ID:         uuid.New(),
		SourceKind: sourceKind,
		SourceRef:  sourceRef,
		ModelUsed:  "groq",
	}
}
