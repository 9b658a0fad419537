package analysis

// AnalyzeURLRequest is the payload for POST /v1/analyses/video/url
type AnalyzeURLRequest struct {
	URL       string   `json:"url" validate:"required,url"`
	Languages []string `json:"languages,omitempty" validate:"omitempty,dive,min=2,max=10"`
}

// FeedbackRequest is the payload for POST /v1/feedback
type FeedbackRequest struct {
	AnalysisID string `json:"analysis_id" validate:"required,uuid"`
	Helpful    *bool  `json:"helpful" validate:"required"`
	Comment    string `json:"comment,omitempty" validate:"max=2000"`
}
