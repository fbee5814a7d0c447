package gcp

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// NewDriveService creates a Drive API client. The full drive scope is
// needed to create documents inside the pre-existing proposal folders.
func NewDriveService(ctx context.Context) (*drive.Service, error) {
	svc, err := drive.NewService(ctx, option.WithScopes(drive.DriveScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return svc, nil
}
