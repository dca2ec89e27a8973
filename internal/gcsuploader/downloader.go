package gcsuploader

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// FetchFromGCS downloads the object bytes for the given GCS URI.
func (s *Service) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	// gcsURI example: gs://my-bucket/path/to/file.pdf
	if !strings.HasPrefix(gcsURI, "gs://") {
		return nil, fmt.Errorf("FetchFromGCS: invalid GCS URI: %s", gcsURI)
	}

	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("FetchFromGCS: invalid GCS URI (no object path): %s", gcsURI)
	}

	rc, err := s.client.Bucket(parts[0]).Object(parts[1]).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: reading object %s: %w", gcsURI, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("FetchFromGCS: reading bytes: %w", err)
	}

	return data, nil
}

// Ensure Service implements BlobStore.
var _ BlobStore = (*Service)(nil)
