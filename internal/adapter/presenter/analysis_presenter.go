package presenter

import (
	"encoding/json"

	dto "github.com/rraj-official/radical-content-analyzer-sub000/internal/adapter/dto/analysis"
	"github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/entities"
	analysisUsecase "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/analysis"
)

// ToAnalysisResponse converts a fresh analysis outcome to its API view
func ToAnalysisResponse(outcome *analysisUsecase.AnalysisOutcome) *dto.AnalysisResponse {
	resp := FromRecord(outcome.Analysis)
	resp.Cached = outcome.Cached

	if outcome.Assessment != nil {
		resp.RiskFactors = outcome.Assessment.RiskFactors
		resp.SafetyTips = outcome.Assessment.SafetyTips
	}
	if len(outcome.Transcripts) > 0 {
		resp.Transcripts = make(map[string]dto.TranscriptResponse, len(outcome.Transcripts))
		for lang, t := range outcome.Transcripts {
			resp.Transcripts[lang] = dto.TranscriptResponse{
				LanguageCode: t.LanguageCode,
				Text:         t.Text,
				Partial:      t.Partial,
			}
		}
	}
	return resp
}

// FromRecord converts a persisted analysis record to its API view
func FromRecord(record *entities.ContentAnalysis) *dto.AnalysisResponse {
	resp := &dto.AnalysisResponse{
		ID:                 record.ID.String(),
		SourceKind:         record.SourceKind,
		SourceRef:          record.SourceRef,
		RadicalProbability: record.RadicalProbability,
		RadicalContent:     record.RadicalContent,
		Overview:           record.Overview,
		Analysis:           record.Analysis,
		RiskFactors:        []string{},
		SafetyTips:         []string{},
		Partial:            record.Partial,
		ModelUsed:          record.ModelUsed,
		ProcessingTimeMs:   record.ProcessingTimeMs,
		CreatedAt:          record.CreatedAt,
	}

	if len(record.RiskFactors) > 0 {
		var factors []string
		if err := json.Unmarshal(record.RiskFactors, &factors); err == nil {
			resp.RiskFactors = factors
		}
	}
	if len(record.SafetyTips) > 0 {
		var tips []string
		if err := json.Unmarshal(record.SafetyTips, &tips); err == nil {
			resp.SafetyTips = tips
		}
	}
	if len(record.Transcripts) > 0 {
		var transcripts map[string]entities.Transcript
		if err := json.Unmarshal(record.Transcripts, &transcripts); err == nil {
			resp.Transcripts = make(map[string]dto.TranscriptResponse, len(transcripts))
			for lang, t := range transcripts {
				resp.Transcripts[lang] = dto.TranscriptResponse{
					LanguageCode: t.LanguageCode,
					Text:         t.Text,
					Partial:      t.Partial,
				}
			}
		}
	}
	return resp
}

// ToFeedbackResponse converts a stored feedback entity to its API view
func ToFeedbackResponse(feedback *entities.Feedback) *dto.FeedbackResponse {
	return &dto.FeedbackResponse{
		ID:         feedback.ID.String(),
		AnalysisID: feedback.AnalysisID.String(),
		Helpful:    feedback.Helpful,
		Comment:    feedback.Comment,
		CreatedAt:  feedback.CreatedAt,
	}
}
