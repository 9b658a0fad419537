package entities

import (
	"github.com/google/uuid"
)

// JobState represents the lifecycle stage of a media analysis job
type JobState string

const (
	JobStateAcquiring    JobState = "acquiring"
	JobStateExtracting   JobState = "extracting"
	JobStateChunking     JobState = "chunking"
	JobStateTranscribing JobState = "transcribing"
	JobStateAssembling   JobState = "assembling"
	JobStateDone         JobState = "done"
	JobStateFailed       JobState = "failed"
)

// SourceKind distinguishes how the media was supplied
type SourceKind string

const (
	SourceKindURL    SourceKind = "url"
	SourceKindUpload SourceKind = "upload"
)

// MediaJob is one end-to-end analysis request. Immutable once created.
type MediaJob struct {
	ID           uuid.UUID
	SourceKind   SourceKind
	SourceRef    string // URL, or original filename for uploads
	UploadPath   string // local path of an already-saved upload, empty for URLs
	Languages    []string
	ChunkSeconds int
}

// NewMediaJob creates a job for a video URL
func NewMediaJob(url string, languages []string, chunkSeconds int) *MediaJob {
	return &MediaJob{
		ID:           uuid.New(),
		SourceKind:   SourceKindURL,
		SourceRef:    url,
		Languages:    languages,
		ChunkSeconds: chunkSeconds,
	}
}

// NewUploadJob creates a job for an already-saved upload
func NewUploadJob(originalName, uploadPath string, languages []string, chunkSeconds int) *MediaJob {
	return &MediaJob{
		ID:           uuid.New(),
		SourceKind:   SourceKindUpload,
		SourceRef:    originalName,
		UploadPath:   uploadPath,
		Languages:    languages,
		ChunkSeconds: chunkSeconds,
	}
}

// ArtifactKind classifies a transient local file
type ArtifactKind string

const (
	ArtifactKindMedia ArtifactKind = "media"
	ArtifactKindAudio ArtifactKind = "audio"
	ArtifactKindChunk ArtifactKind = "chunk"
)

// LocalArtifact is a file materialized on local transient storage during a
// job. Owned by the orchestrator for the job's duration and deleted by
// cleanup on both success and failure paths.
type LocalArtifact struct {
	Path       string
	Kind       ArtifactKind
	OwnerJobID uuid.UUID
}

// AudioChunk is the unit of transcription work. Index values are contiguous
// starting at 0; concatenated in index order the chunks reconstruct the full
// audio timeline, with only the final chunk allowed to run short.
type AudioChunk struct {
	Index              int
	StartOffsetSeconds float64
	DurationSeconds    float64
	Artifact           LocalArtifact
	RemoteRef          string // set after upload
	// Missing marks a chunk whose file failed to materialize during the
	// split. It keeps its index slot so transcript alignment is preserved.
	Missing bool
}
