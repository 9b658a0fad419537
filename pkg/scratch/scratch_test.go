package scratch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSubDir_CreatesNestedTree(t *testing.T) {
	provider := NewProvider(t.TempDir(), nil)

	dir, err := provider.SubDir("job-1", DirChunks)
	if err != nil {
		t.Fatalf("subdir failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("expected a directory")
	}
}

func TestCleanup_RemovesWholeJobTree(t *testing.T) {
	root := t.TempDir()
	provider := NewProvider(root, nil)

	for _, name := range []string{DirDownloads, DirAudio, DirChunks} {
		dir, err := provider.SubDir("job-1", name)
		if err != nil {
			t.Fatalf("subdir failed: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "artifact.bin"), []byte("x"), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	provider.Cleanup("job-1")

	if _, err := os.Stat(filepath.Join(root, "job-1")); !os.IsNotExist(err) {
		t.Fatalf("job tree still present: %v", err)
	}
}

func TestCleanup_IsIdempotent(t *testing.T) {
	provider := NewProvider(t.TempDir(), nil)

	if _, err := provider.SubDir("job-1", DirDownloads); err != nil {
		t.Fatalf("subdir failed: %v", err)
	}

	provider.Cleanup("job-1")
	provider.Cleanup("job-1")
	provider.Cleanup("never-existed")
}

func TestCleanup_LeavesOtherJobsAlone(t *testing.T) {
	root := t.TempDir()
	provider := NewProvider(root, nil)

	if _, err := provider.SubDir("job-1", DirAudio); err != nil {
		t.Fatalf("subdir failed: %v", err)
	}
	if _, err := provider.SubDir("job-2", DirAudio); err != nil {
		t.Fatalf("subdir failed: %v", err)
	}

	provider.Cleanup("job-1")

	if _, err := os.Stat(filepath.Join(root, "job-2")); err != nil {
		t.Fatalf("unrelated job tree removed: %v", err)
	}
}

func TestRemove_MissingFileIsNoOp(t *testing.T) {
	provider := NewProvider(t.TempDir(), nil)
	provider.Remove("/nonexistent/file.wav")
}
