package entities

import (
	"time"

	"github.com/google/uuid"
)

// Feedback captures a user's reaction to a finished analysis
type Feedback struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AnalysisID uuid.UUID `json:"analysis_id" gorm:"type:uuid;not null;index"`
	Helpful    bool      `json:"helpful" gorm:"type:boolean;not null"`
	Comment    string    `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Feedback
func (Feedback) TableName() string {
	return "analysis_feedback"
}

// NewFeedback creates a new Feedback entity
func NewFeedback(analysisID uuid.UUID, helpful bool, comment string) *Feedback {
	return &Feedback{
		ID:         uuid.New(),
		AnalysisID: analysisID,
		Helpful:    helpful,
		Comment:    comment,
	}
}
