package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/entities"
	usecaseerrors "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/errors"
	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/scratch"
)

const fallbackUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// AcquireStrategy is one way of turning a URL into a local media file.
// Strategies are tried in order; adding a new fallback is a data change.
type AcquireStrategy struct {
	Name string
	Args func(url, outPath string) []string
}

// DefaultStrategies returns the yt-dlp strategies tried for video URLs:
// a plain invocation first, then one with an alternate player client and
// browser user agent for hosts that reject the default.
func DefaultStrategies() []AcquireStrategy {
	return []AcquireStrategy{
		{
			Name: "yt-dlp",
			Args: func(url, outPath string) []string {
				return []string{"-f", "mp4/best", "--no-playlist", "-o", outPath, url}
			},
		},
		{
			Name: "yt-dlp-alt-client",
			Args: func(url, outPath string) []string {
				return []string{
					"--user-agent", fallbackUserAgent,
					"--extractor-args", "youtube:player_client=android",
					"-f", "best", "--no-playlist", "-o", outPath, url,
				}
			},
		},
	}
}

// Acquirer obtains a local media file from a URL or an uploaded stream
type Acquirer struct {
	runner     Runner
	scratch    *scratch.Provider
	strategies []AcquireStrategy
	logger     *zap.Logger
}

// NewAcquirer creates an acquirer with the given download strategies
func NewAcquirer(runner Runner, provider *scratch.Provider, strategies []AcquireStrategy, logger *zap.Logger) *Acquirer {
	return &Acquirer{
		runner:     runner,
		scratch:    provider,
		strategies: strategies,
		logger:     logger,
	}
}

// Acquire downloads the job's source URL into the job's downloads/ scratch
// directory. Each strategy is tried in order; only when all are exhausted
// does the job fail with an acquisition error.
func (a *Acquirer) Acquire(ctx context.Context, job *entities.MediaJob) (entities.LocalArtifact, error) {
	dir, err := a.scratch.SubDir(job.ID.String(), scratch.DirDownloads)
	if err != nil {
		return entities.LocalArtifact{}, fmt.Errorf("%w: %v", usecaseerrors.ErrAcquisitionFailed, err)
	}
	outPath := filepath.Join(dir, uuid.NewString()+".mp4")

	var lastErr error
	for _, strategy := range a.strategies {
		if a.logger != nil {
			a.logger.Info("📥 Downloading source media",
				zap.String("job_id", job.ID.String()),
				zap.String("strategy", strategy.Name),
			)
		}

		err := a.runner.Run(ctx, "yt-dlp", strategy.Args(job.SourceRef, outPath)...)
		if err == nil {
			if _, statErr := os.Stat(outPath); statErr == nil {
				return entities.LocalArtifact{
					Path:       outPath,
					Kind:       entities.ArtifactKindMedia,
					OwnerJobID: job.ID,
				}, nil
			}
			err = fmt.Errorf("downloader exited cleanly but produced no file at %s", outPath)
		}

		lastErr = err
		if a.logger != nil {
			a.logger.Warn("⚠️ Download strategy failed",
				zap.String("job_id", job.ID.String()),
				zap.String("strategy", strategy.Name),
				zap.Error(err),
			)
		}
	}

	return entities.LocalArtifact{}, fmt.Errorf("%w: %v", usecaseerrors.ErrAcquisitionFailed, lastErr)
}

// SaveUpload writes an uploaded stream to a collision-free path in the
// job's downloads/ scratch directory. No retry: no network is involved.
func (a *Acquirer) SaveUpload(jobID uuid.UUID, reader io.Reader, originalName string) (entities.LocalArtifact, error) {
	dir, err := a.scratch.SubDir(jobID.String(), scratch.DirDownloads)
	if err != nil {
		return entities.LocalArtifact{}, fmt.Errorf("%w: %v", usecaseerrors.ErrAcquisitionFailed, err)
	}

	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".mp4"
	}
	outPath := filepath.Join(dir, uuid.NewString()+ext)

	out, err := os.Create(outPath)
	if err != nil {
		return entities.LocalArtifact{}, fmt.Errorf("%w: %v", usecaseerrors.ErrAcquisitionFailed, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return entities.LocalArtifact{}, fmt.Errorf("%w: %v", usecaseerrors.ErrAcquisitionFailed, err)
	}

	return entities.LocalArtifact{
		Path:       outPath,
		Kind:       entities.ArtifactKindMedia,
		OwnerJobID: jobID,
	}, nil
}
