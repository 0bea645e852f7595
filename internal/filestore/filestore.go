// Package filestore persists uploaded statement files in Google Cloud
// Storage and fetches them back for processing.
package filestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// BlobStore is the storage surface the upload handler and the ingestion
// pipeline depend on.
type BlobStore interface {
	Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error)
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Store implements BlobStore against a single GCS bucket. It assumes
// Application Default Credentials are configured.
type Store struct {
	client *storage.Client
	bucket string
}

// New creates a Store writing to the given bucket.
func New(ctx context.Context, bucket string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Store{client: client, bucket: bucket}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Upload streams r into the bucket under objectName and returns the
// gs:// URI of the stored object.
func (s *Store) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// Fetch downloads the object bytes from a gs:// URI. The URI's bucket is
// honored even when it differs from the store's own bucket.
func (s *Store) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := splitURI(uri)
	if err != nil {
		return nil, err
	}

	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}

// FilenameFromURI returns the final path segment of a gs:// URI, or the
// input unchanged when it is not a gs:// URI.
func FilenameFromURI(uri string) string {
	if !strings.HasPrefix(uri, "gs://") {
		return uri
	}
	return path.Base(uri)
}

func splitURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}
