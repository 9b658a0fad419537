package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rraj-official/radical-content-analyzer-sub000/pkg/config"
)

// RefScheme prefixes every remote chunk reference
const RefScheme = "s3://"

// ChunkStore uploads audio chunks to a MinIO bucket and hands out
// references of the form s3://bucket/objectName.
type ChunkStore struct {
	client *minio.Client
	bucket string
}

// NewChunkStore creates a MinIO-backed chunk store and ensures the bucket exists
func NewChunkStore(cfg *config.StorageConfig) (*ChunkStore, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &ChunkStore{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return store, nil
}

func (s *ChunkStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Upload stores a chunk file under an object name derived from its local
// filename (unique because chunk filenames embed the job ID and index).
// On failure the synthetic reference for that object name is still returned
// alongside the error, so the caller can degrade instead of aborting.
func (s *ChunkStore) Upload(ctx context.Context, localPath string) (string, error) {
	objectName := filepath.Base(localPath)
	ref := s.Ref(objectName)

	_, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: "audio/wav",
	})
	if err != nil {
		return ref, fmt.Errorf("failed to upload chunk: %w", err)
	}

	return ref, nil
}

// SignedURL produces a time-limited HTTP URL for a previously uploaded
// reference, suitable for handing to the transcription backend.
func (s *ChunkStore) SignedURL(ctx context.Context, remoteRef string, expiry time.Duration) (string, error) {
	objectName, err := s.objectName(remoteRef)
	if err != nil {
		return "", err
	}
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}

// Remove deletes an uploaded chunk object. Best-effort: the caller logs
// failures and moves on.
func (s *ChunkStore) Remove(ctx context.Context, remoteRef string) error {
	objectName, err := s.objectName(remoteRef)
	if err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}

// Ref builds the reference URI for an object name
func (s *ChunkStore) Ref(objectName string) string {
	return RefScheme + s.bucket + "/" + objectName
}

func (s *ChunkStore) objectName(remoteRef string) (string, error) {
	trimmed := strings.TrimPrefix(remoteRef, RefScheme)
	if trimmed == remoteRef {
		return "", fmt.Errorf("unrecognized remote ref %q", remoteRef)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("malformed remote ref %q", remoteRef)
	}
	return parts[1], nil
}
