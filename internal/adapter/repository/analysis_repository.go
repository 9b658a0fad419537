package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/entities"
	domainrepo "github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/repositories"
	usecaseerrors "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/errors"
)

type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new analysis repository backed by GORM
func NewAnalysisRepository(db *gorm.DB) domainrepo.AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, analysis *entities.ContentAnalysis) error {
	return r.db.WithContext(ctx).Create(analysis).Error
}

func (r *analysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ContentAnalysis, error) {
	var analysis entities.ContentAnalysis
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&analysis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseerrors.ErrAnalysisNotFound
		}
		return nil, err
	}
	return &analysis, nil
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository backed by GORM
func NewFeedbackRepository(db *gorm.DB) domainrepo.FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entities.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}
