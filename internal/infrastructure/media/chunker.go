package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/rraj-official/radical-content-analyzer-sub000/internal/domain/entities"
	usecaseerrors "github.com/rraj-official/radical-content-analyzer-sub000/internal/usecase/errors"
	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/scratch"
)

// ChunkPlan describes one slice of the audio timeline before extraction
type ChunkPlan struct {
	Index              int
	StartOffsetSeconds float64
	DurationSeconds    float64
}

// PlanChunks computes ceil(total/chunk) contiguous slices covering the
// whole timeline. Every slice has the full chunk duration except possibly
// the last, which takes whatever remains.
func PlanChunks(totalSeconds float64, chunkSeconds int) []ChunkPlan {
	if totalSeconds <= 0 || chunkSeconds <= 0 {
		return nil
	}

	count := int(math.Ceil(totalSeconds / float64(chunkSeconds)))
	plans := make([]ChunkPlan, 0, count)
	for i := 0; i < count; i++ {
		start := float64(i * chunkSeconds)
		duration := float64(chunkSeconds)
		if remaining := totalSeconds - start; remaining < duration {
			duration = remaining
		}
		plans = append(plans, ChunkPlan{
			Index:              i,
			StartOffsetSeconds: start,
			DurationSeconds:    duration,
		})
	}
	return plans
}

// Chunker splits normalized audio into fixed-duration segments
type Chunker struct {
	runner  Runner
	scratch *scratch.Provider
	logger  *zap.Logger
}

// NewChunker creates an audio chunker
func NewChunker(runner Runner, provider *scratch.Provider, logger *zap.Logger) *Chunker {
	return &Chunker{runner: runner, scratch: provider, logger: logger}
}

// ProbeDuration returns the total duration of an audio stream in seconds
func (c *Chunker) ProbeDuration(ctx context.Context, audioPath string) (float64, error) {
	out, err := c.runner.Output(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	)
	if err != nil {
		return 0, err
	}
	duration, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable duration %q: %w", out, err)
	}
	return duration, nil
}

// Split cuts the audio into chunkSeconds-sized segments by offset-and-
// duration stream copy; the source is already PCM, so no re-encode is
// needed and boundaries align exactly with the probed offsets.
//
// Only a failed duration probe aborts the split. A chunk whose file fails
// to materialize is marked Missing and keeps its index slot, so transcript
// alignment downstream is preserved.
func (c *Chunker) Split(ctx context.Context, audio entities.LocalArtifact, chunkSeconds int) ([]entities.AudioChunk, error) {
	total, err := c.ProbeDuration(ctx, audio.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseerrors.ErrChunkingFailed, err)
	}

	dir, err := c.scratch.SubDir(audio.OwnerJobID.String(), scratch.DirChunks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseerrors.ErrChunkingFailed, err)
	}

	plans := PlanChunks(total, chunkSeconds)
	if c.logger != nil {
		c.logger.Info("✂️ Splitting audio",
			zap.String("job_id", audio.OwnerJobID.String()),
			zap.Float64("total_seconds", total),
			zap.Int("chunk_count", len(plans)),
		)
	}

	chunks := make([]entities.AudioChunk, 0, len(plans))
	for _, plan := range plans {
		chunkPath := filepath.Join(dir, fmt.Sprintf("%s_chunk_%03d.wav", audio.OwnerJobID.String(), plan.Index))

		chunk := entities.AudioChunk{
			Index:              plan.Index,
			StartOffsetSeconds: plan.StartOffsetSeconds,
			DurationSeconds:    plan.DurationSeconds,
			Artifact: entities.LocalArtifact{
				Path:       chunkPath,
				Kind:       entities.ArtifactKindChunk,
				OwnerJobID: audio.OwnerJobID,
			},
		}

		err := c.runner.Run(ctx, "ffmpeg",
			"-y",
			"-ss", formatSeconds(plan.StartOffsetSeconds),
			"-t", formatSeconds(plan.DurationSeconds),
			"-i", audio.Path,
			"-c", "copy",
			chunkPath,
		)
		if err == nil {
			if _, statErr := os.Stat(chunkPath); statErr != nil {
				err = statErr
			}
		}
		if err != nil {
			chunk.Missing = true
			if c.logger != nil {
				c.logger.Warn("⚠️ Chunk failed to materialize",
					zap.String("job_id", audio.OwnerJobID.String()),
					zap.Int("chunk_index", plan.Index),
					zap.Error(err),
				)
			}
		}

		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
