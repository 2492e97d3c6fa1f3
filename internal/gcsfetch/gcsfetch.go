// Package gcsfetch resolves uploaded files stored in Google Cloud Storage
// to bytes. Fetching is the only asynchronous boundary of the pipeline:
// it completes (or fails) before extraction begins.
package gcsfetch

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
)

// ByteSource resolves a file reference to its content.
type ByteSource interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
	Filename(uri string) string
}

// GCSSource fetches gs:// URIs. It assumes Application Default Credentials
// are configured.
type GCSSource struct{}

func NewGCSSource() *GCSSource {
	return &GCSSource{}
}

// Fetch downloads the file bytes from the given GCS URI,
// e.g. "gs://my-bucket/uploads/statement.csv".
func (s *GCSSource) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "gs://") {
		return nil, fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	bucketName, objectPath := parts[0], parts[1]

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcsfetch: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcsfetch: reading object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("gcsfetch: reading bytes: %w", err)
	}

	return data, nil
}

// Filename extracts the file name from a GCS URI.
// e.g. "gs://bucket/folder/file.csv" -> "file.csv".
func (s *GCSSource) Filename(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

// Ensure GCSSource implements ByteSource.
var _ ByteSource = (*GCSSource)(nil)
