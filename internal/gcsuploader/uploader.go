package gcsuploader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const uploadTimeout = 2 * time.Minute

// Service stores uploaded statement PDFs in a GCS bucket.
// It assumes Application Default Credentials are configured
// (gcloud auth application-default login).
type Service struct {
	client *storage.Client
	bucket string
}

func NewService(client *storage.Client, bucket string) *Service {
	return &Service{client: client, bucket: bucket}
}

// UploadStatement writes the PDF bytes under a per-business prefix with a
// UUID to keep repeated uploads of the same filename distinct. It returns
// the gs:// URI of the stored object.
func (s *Service) UploadStatement(ctx context.Context, businessID, filename string, content []byte) (string, error) {
	objectName := fmt.Sprintf("statements/%s/%s_%s", businessID, uuid.New().String(), path.Base(filename))

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "application/pdf"

	if _, err := io.Copy(w, bytes.NewReader(content)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("UploadStatement: copy to GCS writer: %w", err)
	}

	// Close to finalize the upload
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("UploadStatement: finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName), nil
}

// ExtractFilenameFromGCSURI extracts the original filename from a GCS URI,
// dropping the UUID prefix UploadStatement added.
// e.g., "gs://bucket/statements/biz/123e4567_jan.pdf" → "jan.pdf"
func ExtractFilenameFromGCSURI(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}

	base := path.Base(parts[1])
	if i := strings.Index(base, "_"); i >= 0 && i+1 < len(base) {
		return base[i+1:]
	}
	return base
}
