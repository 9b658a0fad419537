package analysis

import "time"

// TranscriptResponse is the per-language transcript view in a response
type TranscriptResponse struct {
	LanguageCode string `json:"language_code"`
	Text         string `json:"text"`
	Partial      bool   `json:"partial"`
}

// AnalysisResponse is the full analysis result view
type AnalysisResponse struct {
	ID                 string                        `json:"id"`
	SourceKind         string                        `json:"source_kind"`
	SourceRef          string                        `json:"source_ref,omitempty"`
	RadicalProbability int                           `json:"radical_probability"`
	RadicalContent     int                           `json:"radical_content"`
	Overview           string                        `json:"overview"`
	Analysis           string                        `json:"analysis"`
	RiskFactors        []string                      `json:"risk_factors"`
	SafetyTips         []string                      `json:"safety_tips"`
	Transcripts        map[string]TranscriptResponse `json:"transcripts,omitempty"`
	Partial            bool                          `json:"partial"`
	ModelUsed          string                        `json:"model_used,omitempty"`
	ProcessingTimeMs   int                           `json:"processing_time_ms,omitempty"`
	Cached             bool                          `json:"cached,omitempty"`
	CreatedAt          time.Time                     `json:"created_at"`
}

// FeedbackResponse confirms a stored feedback entry
type FeedbackResponse struct {
	ID         string    `json:"id"`
	AnalysisID string    `json:"analysis_id"`
	Helpful    bool      `json:"helpful"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
