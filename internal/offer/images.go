package offer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ImageStore abstracts object storage for offer images.
type ImageStore interface {
	Put(ctx context.Context, objectName, contentType string, reader io.Reader, size int64) (string, error)
	Remove(ctx context.Context, objectName string) error
}

// MinIOImageStore stores offer images in a MinIO bucket and returns
// publicly servable URLs.
type MinIOImageStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinIOImageStore wraps a MinIO client for image storage.
func NewMinIOImageStore(client *minio.Client, bucket, publicBaseURL string) *MinIOImageStore {
	return &MinIOImageStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Put uploads an image and returns its public URL.
func (s *MinIOImageStore) Put(ctx context.Context, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, opts); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return s.publicBaseURL + "/" + objectName, nil
}

// Remove deletes an image object. The object name is derived from the
// public URL when a full URL is passed.
func (s *MinIOImageStore) Remove(ctx context.Context, objectName string) error {
	objectName = strings.TrimPrefix(objectName, s.publicBaseURL+"/")
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
