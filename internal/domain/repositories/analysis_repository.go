package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/entities"
)

// AnalysisRepository persists completed analyses. The pipeline treats it as
// an external collaborator: a save failure is reported but never fails the
// analysis itself.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *entities.ContentAnalysis) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ContentAnalysis, error)
}

// FeedbackRepository stores user feedback on analyses
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entities.Feedback) error
}
