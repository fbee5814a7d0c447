package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// NewStorageClient creates the Cloud Storage client used when the checkpoint
// lives in a bucket object.
func NewStorageClient(ctx context.Context) (*storage.Client, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}
