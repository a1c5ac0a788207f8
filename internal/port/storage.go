package port

import (
	"context"
	"io"
)

// UploadInput carries the data for an object storage upload.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
}

// UploadOutput carries the result of an object storage upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage defines the contract for attachment blob storage.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
}
