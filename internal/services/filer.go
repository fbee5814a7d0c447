package services

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"

	"github.com/cots-conf/proposal-filer/internal/checkpoint"
	"github.com/cots-conf/proposal-filer/internal/config"
	"github.com/cots-conf/proposal-filer/internal/filer"
	"github.com/cots-conf/proposal-filer/internal/gcp"
	"github.com/cots-conf/proposal-filer/internal/gdrive"
	"github.com/cots-conf/proposal-filer/internal/models"
	"github.com/cots-conf/proposal-filer/internal/sheet"
)

// FilerFunction holds the assembled job: configuration, API clients and the
// row processor they feed.
type FilerFunction struct {
	cfg       *config.Config
	processor *filer.Processor

	firestoreClient *firestore.Client
	storageClient   *storage.Client
}

// NewFiler connects the Google API clients and wires the processor from the
// given configuration.
func NewFiler(ctx context.Context, cfg *config.Config) (*FilerFunction, error) {
	f := &FilerFunction{cfg: cfg}

	sheetsService, err := gcp.NewSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	driveService, err := gcp.NewDriveService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	store, err := f.newCheckpointStore(ctx)
	if err != nil {
		return nil, err
	}

	f.processor = &filer.Processor{
		Source:      sheet.NewSource(sheetsService, cfg.SpreadsheetID, cfg.SheetName),
		Sink:        gdrive.NewSink(driveService),
		Checkpoints: store,
		Folders:     cfg.Folders,
		MaxRows:     cfg.MaxRows,
		Pause:       cfg.RowPause,
	}

	slog.Info("Proposal filer initialized.",
		"spreadsheetId", cfg.SpreadsheetID,
		"sheet", cfg.SheetName,
		"workingStorage", cfg.Storage.Type,
	)
	return f, nil
}

// newCheckpointStore opens the configured working storage, the same switch
// the deployment has always had: firestore in production, a GCS object or a
// local file elsewhere.
func (f *FilerFunction) newCheckpointStore(ctx context.Context) (checkpoint.Store, error) {
	st := f.cfg.Storage
	switch st.Type {
	case config.StorageFirestore:
		client, err := gcp.NewFirestoreClient(ctx, st.ProjectID)
		if err != nil {
			return nil, err
		}
		f.firestoreClient = client
		return checkpoint.NewFirestore(client, st.Collection, st.Document), nil
	case config.StorageGCS:
		client, err := gcp.NewStorageClient(ctx)
		if err != nil {
			return nil, err
		}
		f.storageClient = client
		return checkpoint.NewGCS(client, st.Bucket, st.Object), nil
	case config.StorageFile:
		return checkpoint.NewFile(st.Path), nil
	}
	return nil, fmt.Errorf("unknown working storage type %q", st.Type)
}

// Process runs the filer once and returns its report. The report is also
// returned on failure, reflecting the rows handled before the stop.
func (f *FilerFunction) Process(ctx context.Context, req *models.FileRequest) (*models.Report, error) {
	// Copy the processor so a per-request cap does not stick.
	proc := *f.processor
	if req != nil && req.MaxRows > 0 {
		proc.MaxRows = req.MaxRows
	}

	report, err := proc.Run(ctx)
	if err != nil {
		slog.Error("Filer run failed.",
			"error", err,
			"created", report.Created,
			"skipped", report.Skipped,
			"checkpoint", report.Checkpoint,
		)
		return &report, err
	}

	slog.Info("Filer run complete.",
		"rowsFound", report.RowsFound,
		"created", report.Created,
		"skipped", report.Skipped,
		"checkpoint", report.Checkpoint,
	)
	return &report, nil
}

// Close releases the clients owned by the function.
func (f *FilerFunction) Close() error {
	var firstErr error
	if f.firestoreClient != nil {
		if err := f.firestoreClient.Close(); err != nil {
			firstErr = err
		}
	}
	if f.storageClient != nil {
		if err := f.storageClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
