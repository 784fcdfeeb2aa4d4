package service

import (
	"context"
)

// StoredObject describes an uploaded blob.
type StoredObject struct {
	URL         string `json:"url"`
	Key         string `json:"publicId"`
	Size        int64  `json:"size"`
	ContentType string `json:"format"`
}

// ObjectStorage stores uploaded images and serves them from a public URL.
type ObjectStorage interface {
	// Upload writes data under folder and returns its public location.
	Upload(ctx context.Context, folder, filename, contentType string, data []byte) (*StoredObject, error)

	// Delete removes the blob behind a public URL. Failures are logged, never returned.
	Delete(ctx context.Context, url string)
}
