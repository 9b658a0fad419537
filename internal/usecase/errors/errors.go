package errors

import "errors"

// Pipeline errors. Failures in the first three stages are fatal for a job;
// everything after the chunking stage degrades instead of aborting.
var (
	ErrAcquisitionFailed = errors.New("source media could not be acquired")
	ErrExtractionFailed  = errors.New("audio could not be extracted from media")
	ErrChunkingFailed    = errors.New("audio duration could not be probed")
)

// Analysis errors
var (
	ErrAnalysisNotFound  = errors.New("analysis not found")
	ErrEmptyTranscript   = errors.New("transcript is empty")
	ErrMalformedAnalysis = errors.New("analyzer returned malformed response")
)
