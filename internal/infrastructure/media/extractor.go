package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/entities"
	usecaseerrors "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/errors"
	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/scratch"
)

// Extractor transcodes a media container to the one audio format every
// downstream stage assumes: mono, 16 kHz, 16-bit linear PCM WAV.
type Extractor struct {
	runner  Runner
	scratch *scratch.Provider
	logger  *zap.Logger
}

// NewExtractor creates an audio extractor
func NewExtractor(runner Runner, provider *scratch.Provider, logger *zap.Logger) *Extractor {
	return &Extractor{runner: runner, scratch: provider, logger: logger}
}

// Extract derives the normalized audio stream from a media artifact.
// The input path is checked before invoking the transcoder and the output
// is checked after it: ffmpeg can exit 0 without producing a file on some
// inputs, and that must surface as an extraction error rather than an
// eventual empty transcript.
func (e *Extractor) Extract(ctx context.Context, media entities.LocalArtifact) (entities.LocalArtifact, error) {
	if _, err := os.Stat(media.Path); err != nil {
		return entities.LocalArtifact{}, fmt.Errorf("%w: input %s: %v", usecaseerrors.ErrExtractionFailed, media.Path, err)
	}

	dir, err := e.scratch.SubDir(media.OwnerJobID.String(), scratch.DirAudio)
	if err != nil {
		return entities.LocalArtifact{}, fmt.Errorf("%w: %v", usecaseerrors.ErrExtractionFailed, err)
	}

	base := strings.TrimSuffix(filepath.Base(media.Path), filepath.Ext(media.Path))
	outPath := filepath.Join(dir, base+"_16k.wav")

	if e.logger != nil {
		e.logger.Info("🎞️ Extracting audio",
			zap.String("job_id", media.OwnerJobID.String()),
			zap.String("input", media.Path),
		)
	}

	err = e.runner.Run(ctx, "ffmpeg",
		"-y", "-i", media.Path,
		"-vn",
		"-ac", "1", "-ar", "16000",
		"-c:a", "pcm_s16le",
		outPath,
	)
	if err != nil {
		return entities.LocalArtifact{}, fmt.Errorf("%w: %v", usecaseerrors.ErrExtractionFailed, err)
	}

	if _, err := os.Stat(outPath); err != nil {
		return entities.LocalArtifact{}, fmt.Errorf("%w: transcoder produced no output at %s", usecaseerrors.ErrExtractionFailed, outPath)
	}

	return entities.LocalArtifact{
		Path:       outPath,
		Kind:       entities.ArtifactKindAudio,
		OwnerJobID: media.OwnerJobID,
	}, nil
}
