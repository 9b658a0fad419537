package scratch

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Subdirectory names inside a job's scratch tree.
const (
	DirDownloads = "downloads"
	DirAudio     = "audio"
	DirChunks    = "chunks"
)

// Provider hands out job-scoped directories under a shared scratch root.
// Every transient artifact a job creates lives under <root>/<jobID>/, so
// artifact lifetime and cleanup scope are tied to one owning object.
type Provider struct {
	root   string
	logger *zap.Logger
}

// NewProvider creates a scratch provider rooted at root
func NewProvider(root string, logger *zap.Logger) *Provider {
	return &Provider{root: root, logger: logger}
}

// Root returns the scratch root directory
func (p *Provider) Root() string {
	return p.root
}

// JobDir returns the scratch directory for a job, creating it if needed
func (p *Provider) JobDir(jobID string) (string, error) {
	dir := filepath.Join(p.root, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create job scratch dir: %w", err)
	}
	return dir, nil
}

// SubDir returns a named subdirectory of a job's scratch tree, creating it
// if needed (downloads/, audio/, chunks/)
func (p *Provider) SubDir(jobID, name string) (string, error) {
	base, err := p.JobDir(jobID)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s scratch dir: %w", name, err)
	}
	return dir, nil
}

// Cleanup removes a job's entire scratch subtree. Removal is best-effort:
// a subtree that is already gone is a no-op and a failed delete is logged,
// never returned. Safe to call more than once for the same job.
func (p *Provider) Cleanup(jobID string) {
	dir := filepath.Join(p.root, jobID)
	if err := os.RemoveAll(dir); err != nil {
		if p.logger != nil {
			p.logger.Warn("failed to remove job scratch dir",
				zap.String("job_id", jobID),
				zap.String("dir", dir),
				zap.Error(err),
			)
		}
	}
}

// Remove deletes a single artifact file. Missing files are not errors.
func (p *Provider) Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		if p.logger != nil {
			p.logger.Warn("failed to remove artifact",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}
}
