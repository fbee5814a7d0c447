// Package gdrive files rendered proposal documents into Drive folders.
package gdrive

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/cots-conf/proposal-filer/internal/models"
)

// googleDocMimeType makes Drive convert the uploaded HTML into a native
// Google Doc instead of storing it as a file.
const googleDocMimeType = "application/vnd.google-apps.document"

// Sink creates documents through the Drive API.
type Sink struct {
	svc *drive.Service
}

// NewSink returns a Sink on top of the given Drive service.
func NewSink(svc *drive.Service) *Sink {
	return &Sink{svc: svc}
}

// Create uploads doc into the folder and returns the new file's ID. One
// attempt only; the scheduler re-running the whole job is the retry path.
// Nothing checks whether a document of the same name already exists, so
// re-processing a row produces a duplicate.
func (s *Sink) Create(ctx context.Context, folderID string, doc models.Document) (string, error) {
	meta := &drive.File{
		Name:     doc.Name,
		MimeType: googleDocMimeType,
		Parents:  []string{folderID},
	}

	file, err := s.svc.Files.Create(meta).
		Media(strings.NewReader(doc.HTML), googleapi.ContentType("text/html")).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to create document %q in folder %s: %w", doc.Name, folderID, err)
	}
	return file.Id, nil
}
