package gcsuploader

import "context"

// BlobStore is the storage surface the API and worker share: the API stashes
// an uploaded PDF, the worker fetches it back by URI.
type BlobStore interface {
	UploadStatement(ctx context.Context, businessID, filename string, content []byte) (string, error)
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
}
