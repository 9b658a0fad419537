package analysis

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/entities"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/repositories"
	usecaseerrors "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/errors"
	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/config"
)

// PipelineRunner executes the media-to-transcript pipeline for a job
type PipelineRunner interface {
	Run(ctx context.Context, job *entities.MediaJob) (*PipelineResult, error)
}

// RiskAnalyzer produces a raw risk assessment from per-language transcripts
type RiskAnalyzer interface {
	GenerateRiskAssessment(ctx context.Context, transcripts map[string]string) (string, error)
}

// UploadSaver persists an uploaded media stream into job-scoped scratch space
type UploadSaver interface {
	SaveUpload(jobID uuid.UUID, reader io.Reader, originalName string) (entities.LocalArtifact, error)
}

// ResultCache maps a source URL to a previously completed analysis ID
type ResultCache interface {
	Get(ctx context.Context, sourceURL string) (string, error)
	Set(ctx context.Context, sourceURL, analysisID string) error
}

// Service coordinates the pipeline, the risk analyzer and persistence for
// content analysis requests
type Service struct {
	pipeline     PipelineRunner
	analyzer     RiskAnalyzer
	parser       *Parser
	uploads      UploadSaver
	repo         repositories.AnalysisRepository
	feedbackRepo repositories.FeedbackRepository
	cache        ResultCache
	cfg          *config.PipelineConfig
	logger       *zap.Logger
}

// NewService creates the analysis service
func NewService(
	pipeline PipelineRunner,
	analyzer RiskAnalyzer,
	uploads UploadSaver,
	repo repositories.AnalysisRepository,
	feedbackRepo repositories.FeedbackRepository,
	cache ResultCache,
	cfg *config.PipelineConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		pipeline:     pipeline,
		analyzer:     analyzer,
		parser:       NewParser(),
		uploads:      uploads,
		repo:         repo,
		feedbackRepo: feedbackRepo,
		cache:        cache,
		cfg:          cfg,
		logger:       logger,
	}
}

// AnalysisOutcome bundles the persisted analysis with its transcripts for
// the response layer
type AnalysisOutcome struct {
	Analysis    *entities.ContentAnalysis
	Assessment  *entities.RiskAssessment
	Transcripts map[string]entities.Transcript
	Cached      bool
}

// AnalyzeURL runs the full pipeline for a video URL. Results for the same
// URL are served from cache while the cache entry lives.
func (s *Service) AnalyzeURL(ctx context.Context, sourceURL string, languages []string) (*AnalysisOutcome, error) {
	if s.cache != nil {
		if id, err := s.cache.Get(ctx, sourceURL); err != nil {
			s.log().Warn("⚠️ Cache lookup failed", zap.Error(err))
		} else if id != "" {
			if cached := s.fromCache(ctx, id); cached != nil {
				s.log().Info("📦 Serving analysis from cache",
					zap.String("url", sourceURL), zap.String("analysis_id", id))
				return cached, nil
			}
		}
	}

	job := entities.NewMediaJob(sourceURL, s.resolveLanguages(languages), s.cfg.ChunkSeconds)
	outcome, err := s.analyzeJob(ctx, job)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sourceURL, outcome.Analysis.ID.String()); err != nil {
			s.log().Warn("⚠️ Cache write failed", zap.Error(err))
		}
	}
	return outcome, nil
}

// AnalyzeUpload runs the pipeline for an uploaded video file
func (s *Service) AnalyzeUpload(ctx context.Context, reader io.Reader, originalName string, languages []string) (*AnalysisOutcome, error) {
	job := entities.NewUploadJob(originalName, "", s.resolveLanguages(languages), s.cfg.ChunkSeconds)

	saved, err := s.uploads.SaveUpload(job.ID, reader, originalName)
	if err != nil {
		return nil, err
	}
	job.UploadPath = saved.Path

	return s.analyzeJob(ctx, job)
}

// AnalyzeText assesses raw text directly, skipping the media pipeline
func (s *Service) AnalyzeText(ctx context.Context, text string) (*AnalysisOutcome, error) {
	if text == "" {
		return nil, usecaseerrors.ErrEmptyTranscript
	}
	started := time.Now()

	raw, err := s.generateAssessment(ctx, map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	assessment := s.parser.ParseRiskAssessment(raw)

	record := entities.NewContentAnalysis("text", "")
	s.fillRecord(record, assessment, nil, false, started)
	s.persist(ctx, record)

	return &AnalysisOutcome{Analysis: record, Assessment: assessment}, nil
}

// GetAnalysis loads a stored analysis by ID
func (s *Service) GetAnalysis(ctx context.Context, id uuid.UUID) (*entities.ContentAnalysis, error) {
	return s.repo.FindByID(ctx, id)
}

// SubmitFeedback records user feedback against an existing analysis
func (s *Service) SubmitFeedback(ctx context.Context, analysisID uuid.UUID, helpful bool, comment string) (*entities.Feedback, error) {
	if _, err := s.repo.FindByID(ctx, analysisID); err != nil {
		return nil, err
	}

	feedback := entities.NewFeedback(analysisID, helpful, comment)
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *Service) analyzeJob(ctx context.Context, job *entities.MediaJob) (*AnalysisOutcome, error) {
	started := time.Now()

	result, err := s.pipeline.Run(ctx, job)
	if err != nil {
		return nil, err
	}

	transcripts := make(map[string]string, len(result.Transcripts))
	empty := true
	for lang, t := range result.Transcripts {
		transcripts[lang] = t.Text
		if t.Text != "" {
			empty = false
		}
	}
	if empty {
		return nil, usecaseerrors.ErrEmptyTranscript
	}

	raw, err := s.generateAssessment(ctx, transcripts)
	if err != nil {
		return nil, err
	}
	assessment := s.parser.ParseRiskAssessment(raw)

	record := entities.NewContentAnalysis(string(job.SourceKind), job.SourceRef)
	s.fillRecord(record, assessment, result.Transcripts, result.Partial, started)
	s.persist(ctx, record)

	return &AnalysisOutcome{
		Analysis:    record,
		Assessment:  assessment,
		Transcripts: result.Transcripts,
	}, nil
}

func (s *Service) fillRecord(record *entities.ContentAnalysis, assessment *entities.RiskAssessment, transcripts map[string]entities.Transcript, partial bool, started time.Time) {
	record.RadicalProbability = assessment.RadicalProbability
	record.RadicalContent = assessment.RadicalContent
	record.Overview = assessment.Overview
	record.Analysis = assessment.Analysis
	record.Partial = partial
	record.ProcessingTimeMs = int(time.Since(started).Milliseconds())

	if b, err := json.Marshal(assessment.RiskFactors); err == nil {
		record.RiskFactors = b
	}
	if b, err := json.Marshal(assessment.SafetyTips); err == nil {
		record.SafetyTips = b
	}
	if transcripts != nil {
		if b, err := json.Marshal(transcripts); err == nil {
			record.Transcripts = b
		}
	}
}

// generateAssessment calls the analyzer, retrying transient failures once.
func (s *Service) generateAssessment(ctx context.Context, transcripts map[string]string) (string, error) {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(2*time.Second), 1), ctx)
	return backoff.RetryWithData(func() (string, error) {
		return s.analyzer.GenerateRiskAssessment(ctx, transcripts)
	}, policy)
}

// persist stores the record best-effort. A storage failure degrades to an
// unsaved result rather than failing a completed analysis.
func (s *Service) persist(ctx context.Context, record *entities.ContentAnalysis) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.log().Error("❌ Failed to persist analysis",
			zap.String("analysis_id", record.ID.String()), zap.Error(err))
	}
}

func (s *Service) fromCache(ctx context.Context, id string) *AnalysisOutcome {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	record, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return nil
	}
	return &AnalysisOutcome{
		Analysis: record,
		Assessment: &entities.RiskAssessment{
			RadicalProbability: record.RadicalProbability,
			RadicalContent:     record.RadicalContent,
			Overview:           record.Overview,
			Analysis:           record.Analysis,
		},
		Cached: true,
	}
}

func (s *Service) resolveLanguages(languages []string) []string {
	if len(languages) > 0 {
		return languages
	}
	return s.cfg.DefaultLanguages
}

func (s *Service) log() *zap.Logger {
	if s.logger == nil {
		return zap.NewNop()
	}
	return s.logger
}
