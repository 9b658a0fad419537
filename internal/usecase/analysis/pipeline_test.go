package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/entities"
	usecaseerrors "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/errors"
	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/config"
	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/scratch"
)

type fakeAcquirer struct {
	artifact entities.LocalArtifact
	err      error
}

func (f *fakeAcquirer) Acquire(ctx context.Context, job *entities.MediaJob) (entities.LocalArtifact, error) {
	if f.err != nil {
		return entities.LocalArtifact{}, f.err
	}
	f.artifact.OwnerJobID = job.ID
	return f.artifact, nil
}

type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, media entities.LocalArtifact) (entities.LocalArtifact, error) {
	if f.err != nil {
		return entities.LocalArtifact{}, f.err
	}
	return entities.LocalArtifact{
		Path:       strings.TrimSuffix(media.Path, ".mp4") + "_16k.wav",
		Kind:       entities.ArtifactKindAudio,
		OwnerJobID: media.OwnerJobID,
	}, nil
}

type fakeChunker struct {
	chunks []entities.AudioChunk
	err    error
}

func (f *fakeChunker) Split(ctx context.Context, audio entities.LocalArtifact, chunkSeconds int) ([]entities.AudioChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

type fakeStore struct {
	mu        sync.Mutex
	uploadErr func(path string) error
	uploads   []string
	removed   []string
}

func (f *fakeStore) Upload(ctx context.Context, localPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref := "s3://test-bucket/" + localPath
	if f.uploadErr != nil {
		if err := f.uploadErr(localPath); err != nil {
			return ref, err
		}
	}
	f.uploads = append(f.uploads, ref)
	return ref, nil
}

func (f *fakeStore) SignedURL(ctx context.Context, remoteRef string, expiry time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ref := range f.uploads {
		if ref == remoteRef {
			return "https://signed.example.com/" + strings.TrimPrefix(remoteRef, "s3://test-bucket/"), nil
		}
	}
	return "", fmt.Errorf("object %s does not exist", remoteRef)
}

func (f *fakeStore) Remove(ctx context.Context, remoteRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, remoteRef)
	return nil
}

type fakeTranscriber struct {
	mu sync.Mutex
	// respond decides the outcome per (audioURL, language) call; attempts
	// counts calls per key so tests can fail the first attempt only
	respond  func(url, lang string, attempt int) (string, error)
	attempts map[string]int
	altHints []string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioURL, language, altLanguage string) (string, error) {
	f.mu.Lock()
	if f.attempts == nil {
		f.attempts = make(map[string]int)
	}
	key := audioURL + "|" + language
	f.attempts[key]++
	attempt := f.attempts[key]
	f.altHints = append(f.altHints, altLanguage)
	f.mu.Unlock()
	return f.respond(audioURL, language, attempt)
}

// attemptsForLanguage sums attempts across all chunks of one language.
func (f *fakeTranscriber) attemptsForLanguage(lang string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for key, n := range f.attempts {
		if strings.HasSuffix(key, "|"+lang) {
			total += n
		}
	}
	return total
}

type fakeCleaner struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeCleaner) Cleanup(jobID string) {
	f.mu.Lock()
	f.calls = append(f.calls, jobID)
	f.mu.Unlock()
}

func testChunks(n int) []entities.AudioChunk {
	chunks := make([]entities.AudioChunk, n)
	for i := range chunks {
		chunks[i] = entities.AudioChunk{
			Index:              i,
			StartOffsetSeconds: float64(i * 60),
			DurationSeconds:    60,
			Artifact:           entities.LocalArtifact{Path: fmt.Sprintf("chunk_%03d.wav", i), Kind: entities.ArtifactKindChunk},
		}
	}
	return chunks
}

func testPipelineConfig() *config.PipelineConfig {
	return &config.PipelineConfig{
		ChunkSeconds:     60,
		DefaultLanguages: []string{"en-US", "hi-IN"},
	}
}

func newTestPipeline(acq MediaAcquirer, ext AudioExtractor, ch AudioChunker, store ObjectStore, tr Transcriber, cleaner ScratchCleaner) *Pipeline {
	return NewPipeline(acq, ext, ch, store, tr, cleaner, testPipelineConfig(), nil)
}

func TestPipeline_HappyPathTwoLanguages(t *testing.T) {
	store := &fakeStore{}
	transcriber := &fakeTranscriber{
		respond: func(url, lang string, attempt int) (string, error) {
			return lang + " text for " + url, nil
		},
	}
	cleaner := &fakeCleaner{}

	p := newTestPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4", Kind: entities.ArtifactKindMedia}},
		&fakeExtractor{},
		&fakeChunker{chunks: testChunks(3)},
		store, transcriber, cleaner,
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US", "hi-IN"}, 60)
	result, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if result.ChunkCount != 3 {
		t.Fatalf("expected 3 chunks got %d", result.ChunkCount)
	}
	if result.Partial {
		t.Fatal("expected complete result")
	}
	if len(result.Transcripts) != 2 {
		t.Fatalf("expected 2 transcripts got %d", len(result.Transcripts))
	}
	for _, lang := range []string{"en-US", "hi-IN"} {
		tr, ok := result.Transcripts[lang]
		if !ok {
			t.Fatalf("missing transcript for %s", lang)
		}
		if tr.Partial {
			t.Fatalf("%s transcript marked partial", lang)
		}
		if len(tr.Segments) != 3 {
			t.Fatalf("%s has %d segments", lang, len(tr.Segments))
		}
	}

	if len(cleaner.calls) != 1 || cleaner.calls[0] != job.ID.String() {
		t.Fatalf("scratch not cleaned exactly once: %v", cleaner.calls)
	}
	if len(store.removed) != 3 {
		t.Fatalf("expected 3 remote removals got %d", len(store.removed))
	}
}

func TestPipeline_SegmentsAssembleInChunkOrder(t *testing.T) {
	store := &fakeStore{}
	transcriber := &fakeTranscriber{
		respond: func(url, lang string, attempt int) (string, error) {
			// later chunks answer faster than earlier ones
			if strings.Contains(url, "chunk_000") {
				time.Sleep(30 * time.Millisecond)
			}
			switch {
			case strings.Contains(url, "chunk_000"):
				return "one", nil
			case strings.Contains(url, "chunk_001"):
				return "two", nil
			default:
				return "three", nil
			}
		},
	}

	p := newTestPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4"}},
		&fakeExtractor{},
		&fakeChunker{chunks: testChunks(3)},
		store, transcriber, &fakeCleaner{},
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	result, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if got := result.Transcripts["en-US"].Text; got != "one two three" {
		t.Fatalf("unexpected transcript order: %q", got)
	}
}

func TestPipeline_TranscriptionRetriedOnce(t *testing.T) {
	store := &fakeStore{}
	transcriber := &fakeTranscriber{
		respond: func(url, lang string, attempt int) (string, error) {
			if attempt == 1 {
				return "", errors.New("backend hiccup")
			}
			return "recovered", nil
		},
	}

	p := newTestPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4"}},
		&fakeExtractor{},
		&fakeChunker{chunks: testChunks(1)},
		store, transcriber, &fakeCleaner{},
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	result, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if result.Partial {
		t.Fatal("retry should have recovered the segment")
	}
	if got := result.Transcripts["en-US"].Text; got != "recovered" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestPipeline_SecondFailureDegradesSegmentOnly(t *testing.T) {
	store := &fakeStore{}
	transcriber := &fakeTranscriber{
		respond: func(url, lang string, attempt int) (string, error) {
			if strings.Contains(url, "chunk_001") {
				return "", errors.New("backend down")
			}
			return "ok", nil
		},
	}

	p := newTestPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4"}},
		&fakeExtractor{},
		&fakeChunker{chunks: testChunks(3)},
		store, transcriber, &fakeCleaner{},
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	result, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	tr := result.Transcripts["en-US"]
	if !tr.Partial || !result.Partial {
		t.Fatal("failed chunk should mark result partial")
	}
	if tr.Text != "ok ok" {
		t.Fatalf("unexpected text %q", tr.Text)
	}
	if tr.Segments[1].Succeeded || tr.Segments[1].Text != "" {
		t.Fatalf("failed segment not empty: %+v", tr.Segments[1])
	}
	if !tr.Segments[0].Succeeded || !tr.Segments[2].Succeeded {
		t.Fatal("neighbor segments affected by failure")
	}
}

func TestPipeline_FailingLanguageDoesNotDegradeOthers(t *testing.T) {
	store := &fakeStore{}
	transcriber := &fakeTranscriber{
		respond: func(url, lang string, attempt int) (string, error) {
			if lang == "hi-IN" {
				return "", errors.New("backend down")
			}
			return "english text", nil
		},
	}

	p := newTestPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4"}},
		&fakeExtractor{},
		&fakeChunker{chunks: testChunks(1)},
		store, transcriber, &fakeCleaner{},
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US", "hi-IN"}, 60)
	result, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	en := result.Transcripts["en-US"]
	if en.Partial {
		t.Fatal("en-US transcript degraded by hi-IN failure")
	}
	if en.Text != "english text" {
		t.Fatalf("unexpected en-US text %q", en.Text)
	}

	hi := result.Transcripts["hi-IN"]
	if !hi.Partial || hi.Text != "" {
		t.Fatalf("expected empty partial hi-IN transcript, got %+v", hi)
	}
	if !result.Partial {
		t.Fatal("result should be partial when one language failed")
	}

	if got := transcriber.attemptsForLanguage("hi-IN"); got != 2 {
		t.Fatalf("expected hi-IN attempted twice, got %d", got)
	}
	if got := transcriber.attemptsForLanguage("en-US"); got != 1 {
		t.Fatalf("expected en-US attempted once, got %d", got)
	}
}

func TestPipeline_AltLanguageHintForwarded(t *testing.T) {
	store := &fakeStore{}
	transcriber := &fakeTranscriber{
		respond: func(url, lang string, attempt int) (string, error) {
			return "text", nil
		},
	}

	cfg := testPipelineConfig()
	cfg.AltLanguage = "hi-IN"
	p := NewPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4"}},
		&fakeExtractor{},
		&fakeChunker{chunks: testChunks(1)},
		store, transcriber, &fakeCleaner{}, cfg, nil,
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	if _, err := p.Run(context.Background(), job); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if len(transcriber.altHints) != 1 || transcriber.altHints[0] != "hi-IN" {
		t.Fatalf("alt language hint not forwarded: %v", transcriber.altHints)
	}
}

func TestPipeline_MissingChunkKeepsSlot(t *testing.T) {
	chunks := testChunks(3)
	chunks[1].Missing = true
	chunks[1].Artifact = entities.LocalArtifact{}

	store := &fakeStore{}
	transcriber := &fakeTranscriber{
		respond: func(url, lang string, attempt int) (string, error) { return "ok", nil },
	}

	p := newTestPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4"}},
		&fakeExtractor{},
		&fakeChunker{chunks: chunks},
		store, transcriber, &fakeCleaner{},
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	result, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	tr := result.Transcripts["en-US"]
	if !tr.Partial {
		t.Fatal("missing chunk should mark transcript partial")
	}
	if len(tr.Segments) != 3 {
		t.Fatalf("expected 3 segments got %d", len(tr.Segments))
	}
	if tr.Segments[1].Succeeded {
		t.Fatal("missing chunk segment marked succeeded")
	}
	if len(store.uploads) != 2 {
		t.Fatalf("missing chunk should not be uploaded, got %d uploads", len(store.uploads))
	}
}

func TestPipeline_UploadFailureDegradesNotAborts(t *testing.T) {
	store := &fakeStore{
		uploadErr: func(path string) error {
			if strings.Contains(path, "chunk_000") {
				return errors.New("connection refused")
			}
			return nil
		},
	}
	transcriber := &fakeTranscriber{
		respond: func(url, lang string, attempt int) (string, error) { return "ok", nil },
	}

	p := newTestPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4"}},
		&fakeExtractor{},
		&fakeChunker{chunks: testChunks(2)},
		store, transcriber, &fakeCleaner{},
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	result, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	tr := result.Transcripts["en-US"]
	if !tr.Partial {
		t.Fatal("unreachable chunk should mark transcript partial")
	}
	if tr.Segments[0].Succeeded {
		t.Fatal("segment for failed upload marked succeeded")
	}
	if !tr.Segments[1].Succeeded {
		t.Fatal("healthy chunk affected by neighbor upload failure")
	}
}

func TestPipeline_AcquisitionFailureIsFatalAndCleansUp(t *testing.T) {
	cleaner := &fakeCleaner{}
	p := newTestPipeline(
		&fakeAcquirer{err: errors.New("all download strategies exhausted")},
		&fakeExtractor{},
		&fakeChunker{},
		&fakeStore{}, &fakeTranscriber{}, cleaner,
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	_, err := p.Run(context.Background(), job)
	if !errors.Is(err, usecaseerrors.ErrAcquisitionFailed) {
		t.Fatalf("expected acquisition error, got %v", err)
	}
	if len(cleaner.calls) != 1 {
		t.Fatalf("cleanup not run on failure path: %v", cleaner.calls)
	}
}

func TestPipeline_ExtractionFailureIsFatal(t *testing.T) {
	p := newTestPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4"}},
		&fakeExtractor{err: errors.New("no audio stream")},
		&fakeChunker{},
		&fakeStore{}, &fakeTranscriber{}, &fakeCleaner{},
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	_, err := p.Run(context.Background(), job)
	if !errors.Is(err, usecaseerrors.ErrExtractionFailed) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestPipeline_ChunkingFailureIsFatal(t *testing.T) {
	p := newTestPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4"}},
		&fakeExtractor{},
		&fakeChunker{err: errors.New("ffprobe failed")},
		&fakeStore{}, &fakeTranscriber{}, &fakeCleaner{},
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	_, err := p.Run(context.Background(), job)
	if !errors.Is(err, usecaseerrors.ErrChunkingFailed) {
		t.Fatalf("expected chunking error, got %v", err)
	}
}

func TestPipeline_UploadJobSkipsDownloader(t *testing.T) {
	store := &fakeStore{}
	transcriber := &fakeTranscriber{
		respond: func(url, lang string, attempt int) (string, error) { return "ok", nil },
	}

	// a downloader invocation for an upload job is a wiring mistake
	p := newTestPipeline(
		&fakeAcquirer{err: errors.New("downloader must not run for uploads")},
		&fakeExtractor{},
		&fakeChunker{chunks: testChunks(1)},
		store, transcriber, &fakeCleaner{},
	)

	job := entities.NewUploadJob("clip.mp4", "/scratch/job/downloads/clip.mp4", []string{"en-US"}, 60)
	result, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if result.Transcripts["en-US"].Text != "ok" {
		t.Fatalf("unexpected text %q", result.Transcripts["en-US"].Text)
	}
}

func TestPipeline_SilentChunkIsValidNotPartial(t *testing.T) {
	store := &fakeStore{}
	transcriber := &fakeTranscriber{
		respond: func(url, lang string, attempt int) (string, error) { return "", nil },
	}

	p := newTestPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4"}},
		&fakeExtractor{},
		&fakeChunker{chunks: testChunks(2)},
		store, transcriber, &fakeCleaner{},
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	result, err := p.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if result.Partial {
		t.Fatal("zero recognized text is a valid outcome, not a degradation")
	}
	if result.Transcripts["en-US"].Text != "" {
		t.Fatalf("unexpected text %q", result.Transcripts["en-US"].Text)
	}
}

type leakyAcquirer struct {
	root string
}

// leaves a partial download behind before failing, like an interrupted
// downloader would
func (f *leakyAcquirer) Acquire(ctx context.Context, job *entities.MediaJob) (entities.LocalArtifact, error) {
	dir := filepath.Join(f.root, job.ID.String(), "downloads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return entities.LocalArtifact{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, "partial.mp4"), []byte("trunc"), 0o644); err != nil {
		return entities.LocalArtifact{}, err
	}
	return entities.LocalArtifact{}, errors.New("connection reset mid-download")
}

func TestPipeline_FatalFailureLeavesNoScratchFiles(t *testing.T) {
	root := t.TempDir()
	provider := scratch.NewProvider(root, nil)

	p := NewPipeline(&leakyAcquirer{root: root}, &fakeExtractor{}, &fakeChunker{},
		&fakeStore{}, &fakeTranscriber{}, provider, testPipelineConfig(), nil)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	_, err := p.Run(context.Background(), job)
	if !errors.Is(err, usecaseerrors.ErrAcquisitionFailed) {
		t.Fatalf("expected acquisition error, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, job.ID.String())); !os.IsNotExist(err) {
		t.Fatalf("scratch tree for failed job still present: %v", err)
	}
}

func TestPipeline_RemovesUploadedObjectsOnSuccess(t *testing.T) {
	store := &fakeStore{}
	transcriber := &fakeTranscriber{
		respond: func(url, lang string, attempt int) (string, error) { return "ok", nil },
	}

	p := newTestPipeline(
		&fakeAcquirer{artifact: entities.LocalArtifact{Path: "video.mp4"}},
		&fakeExtractor{},
		&fakeChunker{chunks: testChunks(2)},
		store, transcriber, &fakeCleaner{},
	)

	job := entities.NewMediaJob("https://example.com/v", []string{"en-US"}, 60)
	if _, err := p.Run(context.Background(), job); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if len(store.removed) != len(store.uploads) {
		t.Fatalf("uploaded %d objects but removed %d", len(store.uploads), len(store.removed))
	}
}
