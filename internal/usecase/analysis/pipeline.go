package analysis

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/entities"
	usecaseerrors "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/errors"
	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/config"
)

// MediaAcquirer materializes the source media as a local file
type MediaAcquirer interface {
	Acquire(ctx context.Context, job *entities.MediaJob) (entities.LocalArtifact, error)
}

// AudioExtractor produces a normalized audio track from a media file
type AudioExtractor interface {
	Extract(ctx context.Context, media entities.LocalArtifact) (entities.LocalArtifact, error)
}

// AudioChunker splits an audio track into fixed-duration chunks
type AudioChunker interface {
	Split(ctx context.Context, audio entities.LocalArtifact, chunkSeconds int) ([]entities.AudioChunk, error)
}

// ObjectStore holds chunk audio where the transcription backend can fetch it.
// Upload returns the remote ref even when the upload itself failed, so the
// pipeline can keep the chunk's slot and degrade instead of aborting.
type ObjectStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
	SignedURL(ctx context.Context, remoteRef string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, remoteRef string) error
}

// Transcriber converts one audio resource into text for one language
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL, language, altLanguage string) (string, error)
}

// ScratchCleaner releases a job's transient local files
type ScratchCleaner interface {
	Cleanup(jobID string)
}

// PipelineResult is the transcription outcome for one job, one transcript
// per requested language
type PipelineResult struct {
	Transcripts map[string]entities.Transcript
	ChunkCount  int
	// Partial is true when any chunk in any language failed and the
	// transcripts therefore have gaps
	Partial bool
}

const signedURLExpiry = 2 * time.Hour

// Pipeline drives a media job through acquisition, audio extraction,
// chunking, upload and per-language transcription. Failures before chunking
// abort the job; everything after degrades per chunk.
type Pipeline struct {
	acquirer    MediaAcquirer
	extractor   AudioExtractor
	chunker     AudioChunker
	store       ObjectStore
	transcriber Transcriber
	scratch     ScratchCleaner
	cfg         *config.PipelineConfig
	logger      *zap.Logger
}

// NewPipeline wires a pipeline from its stage implementations
func NewPipeline(
	acquirer MediaAcquirer,
	extractor AudioExtractor,
	chunker AudioChunker,
	store ObjectStore,
	transcriber Transcriber,
	scratch ScratchCleaner,
	cfg *config.PipelineConfig,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		acquirer:    acquirer,
		extractor:   extractor,
		chunker:     chunker,
		store:       store,
		transcriber: transcriber,
		scratch:     scratch,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run executes the full pipeline for one job. Local scratch files and
// uploaded chunk objects are released before Run returns, on success and
// failure alike.
func (p *Pipeline) Run(ctx context.Context, job *entities.MediaJob) (*PipelineResult, error) {
	state := entities.JobStateAcquiring
	var uploaded []string

	defer func() {
		p.scratch.Cleanup(job.ID.String())
		for _, ref := range uploaded {
			if err := p.store.Remove(context.Background(), ref); err != nil {
				p.log().Warn("⚠️ Failed to remove uploaded chunk",
					zap.String("ref", ref), zap.Error(err))
			}
		}
	}()

	p.log().Info("🎬 Pipeline started",
		zap.String("job_id", job.ID.String()),
		zap.String("source_kind", string(job.SourceKind)),
		zap.Strings("languages", job.Languages))

	media, err := p.acquire(ctx, job)
	if err != nil {
		return nil, p.fail(job, state, err)
	}

	state = entities.JobStateExtracting
	audio, err := p.extract(ctx, media)
	if err != nil {
		return nil, p.fail(job, state, err)
	}

	state = entities.JobStateChunking
	chunks, err := p.split(ctx, audio, job.ChunkSeconds)
	if err != nil {
		return nil, p.fail(job, state, err)
	}

	state = entities.JobStateTranscribing
	transcribeCtx, cancel := p.stageContext(ctx, p.cfg.TranscribeTimeout)
	defer cancel()

	// Segments accumulate per language, indexed by chunk, and are assembled
	// in index order regardless of completion order.
	segments := make(map[string][]entities.TranscriptSegment, len(job.Languages))
	var segMu sync.Mutex

	for i := range chunks {
		chunk := &chunks[i]

		if !chunk.Missing {
			ref, uerr := p.store.Upload(transcribeCtx, chunk.Artifact.Path)
			chunk.RemoteRef = ref
			if uerr != nil {
				p.log().Warn("⚠️ Chunk upload failed, continuing degraded",
					zap.Int("chunk", chunk.Index), zap.Error(uerr))
			} else {
				uploaded = append(uploaded, ref)
			}
		}

		var wg sync.WaitGroup
		for _, lang := range job.Languages {
			wg.Add(1)
			go func(lang string) {
				defer wg.Done()
				seg := p.transcribeChunk(transcribeCtx, chunk, lang)
				segMu.Lock()
				segments[lang] = append(segments[lang], seg)
				segMu.Unlock()
			}(lang)
		}
		wg.Wait()
	}

	state = entities.JobStateAssembling
	result := &PipelineResult{
		Transcripts: make(map[string]entities.Transcript, len(job.Languages)),
		ChunkCount:  len(chunks),
	}
	for _, lang := range job.Languages {
		t := entities.AssembleTranscript(lang, segments[lang])
		if t.Partial {
			result.Partial = true
		}
		result.Transcripts[lang] = t
	}

	p.log().Info("✅ Pipeline finished",
		zap.String("job_id", job.ID.String()),
		zap.Int("chunks", len(chunks)),
		zap.Bool("partial", result.Partial))
	return result, nil
}

func (p *Pipeline) acquire(ctx context.Context, job *entities.MediaJob) (entities.LocalArtifact, error) {
	// Uploads were already written to scratch when the request was read;
	// only URL sources need the downloader.
	if job.SourceKind == entities.SourceKindUpload && job.UploadPath != "" {
		return entities.LocalArtifact{
			Path:       job.UploadPath,
			Kind:       entities.ArtifactKindMedia,
			OwnerJobID: job.ID,
		}, nil
	}

	stageCtx, cancel := p.stageContext(ctx, p.cfg.DownloadTimeout)
	defer cancel()

	media, err := p.acquirer.Acquire(stageCtx, job)
	if err != nil {
		return entities.LocalArtifact{}, wrapStage(usecaseerrors.ErrAcquisitionFailed, err)
	}
	return media, nil
}

func (p *Pipeline) extract(ctx context.Context, media entities.LocalArtifact) (entities.LocalArtifact, error) {
	stageCtx, cancel := p.stageContext(ctx, p.cfg.ExtractTimeout)
	defer cancel()

	audio, err := p.extractor.Extract(stageCtx, media)
	if err != nil {
		return entities.LocalArtifact{}, wrapStage(usecaseerrors.ErrExtractionFailed, err)
	}
	return audio, nil
}

func (p *Pipeline) split(ctx context.Context, audio entities.LocalArtifact, chunkSeconds int) ([]entities.AudioChunk, error) {
	stageCtx, cancel := p.stageContext(ctx, p.cfg.ChunkTimeout)
	defer cancel()

	chunks, err := p.chunker.Split(stageCtx, audio, chunkSeconds)
	if err != nil {
		return nil, wrapStage(usecaseerrors.ErrChunkingFailed, err)
	}
	return chunks, nil
}

// wrapStage tags err with the stage sentinel unless the implementation
// already did
func wrapStage(sentinel, err error) error {
	if stderrors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

// transcribeChunk produces the segment for one chunk in one language. A
// transcription error is retried exactly once; a second failure yields an
// empty failed segment so the rest of the transcript survives.
func (p *Pipeline) transcribeChunk(ctx context.Context, chunk *entities.AudioChunk, lang string) entities.TranscriptSegment {
	seg := entities.TranscriptSegment{
		ChunkIndex:   chunk.Index,
		LanguageCode: lang,
	}
	if chunk.Missing {
		return seg
	}

	url, err := p.store.SignedURL(ctx, chunk.RemoteRef, signedURLExpiry)
	if err != nil {
		p.log().Warn("⚠️ Signed URL failed for chunk",
			zap.Int("chunk", chunk.Index), zap.String("language", lang), zap.Error(err))
		return seg
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(2*time.Second), 1), ctx)
	text, err := backoff.RetryWithData(func() (string, error) {
		return p.transcriber.Transcribe(ctx, url, lang, p.cfg.AltLanguage)
	}, policy)
	if err != nil {
		p.log().Warn("⚠️ Transcription failed after retry",
			zap.Int("chunk", chunk.Index), zap.String("language", lang), zap.Error(err))
		return seg
	}

	seg.Text = text
	seg.Succeeded = true
	return seg
}

func (p *Pipeline) stageContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (p *Pipeline) fail(job *entities.MediaJob, state entities.JobState, err error) error {
	p.log().Error("❌ Pipeline failed",
		zap.String("job_id", job.ID.String()),
		zap.String("state", string(state)),
		zap.Error(err))
	return err
}

func (p *Pipeline) log() *zap.Logger {
	if p.logger == nil {
		return zap.NewNop()
	}
	return p.logger
}
