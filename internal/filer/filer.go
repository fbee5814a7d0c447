// Package filer holds the row-processing loop at the heart of the job: walk
// every submission row past the checkpoint, file a document for each, and
// advance the checkpoint one row at a time.
//
// The loop is strictly sequential and fail-fast. A row's document is created
// before its checkpoint is saved, so a crash between the two re-processes
// that row on the next invocation (at-least-once); a row is never silently
// skipped. Unrecognized categories are the one exception: they are counted
// as skipped and the checkpoint moves past them without a sink call.
package filer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cots-conf/proposal-filer/internal/checkpoint"
	"github.com/cots-conf/proposal-filer/internal/models"
	"github.com/cots-conf/proposal-filer/internal/render"
)

// SubmissionSource lists the submitted proposal rows, in sheet order.
type SubmissionSource interface {
	Fetch(ctx context.Context) ([]models.Proposal, error)
}

// DocumentSink materializes one payload as a stored document in the given
// destination folder and returns the created document's ID.
type DocumentSink interface {
	Create(ctx context.Context, folderID string, doc models.Document) (string, error)
}

// Processor wires the source, sink and checkpoint store together. All
// collaborators are handles passed in by the caller, so the loop runs the
// same against the real APIs and against in-memory fakes.
type Processor struct {
	Source      SubmissionSource
	Sink        DocumentSink
	Checkpoints checkpoint.Store

	// Folders maps each known category to its destination folder ID.
	Folders map[models.Category]string

	// MaxRows caps how many rows one invocation handles; 0 means no cap.
	MaxRows int

	// Pause is idle time between consecutive rows, a courtesy to the APIs.
	Pause time.Duration
}

// Run processes every row past the checkpoint, ascending, one at a time,
// and returns a report of what happened. On the first failed row it stops
// and returns the error together with the partial report; the checkpoint is
// left at the last success so the failed row is retried next invocation.
func (p *Processor) Run(ctx context.Context) (models.Report, error) {
	var (
		rows []models.Proposal
		last int
	)

	// The full row list and the checkpoint are both needed before the first
	// row; fetch them concurrently.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		rows, err = p.Source.Fetch(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		last, err = p.Checkpoints.Load(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return models.Report{}, err
	}

	report := models.Report{StartCheckpoint: last, Checkpoint: last}
	if last > len(rows) {
		slog.Warn("Checkpoint is beyond the end of the sheet; nothing to process.",
			"checkpoint", last, "rows", len(rows))
		return report, nil
	}
	report.RowsFound = len(rows) - last
	slog.Info("Found new rows.", "count", report.RowsFound, "checkpoint", last)

	handled := 0
	for i := last + 1; i <= len(rows); i++ {
		if p.MaxRows > 0 && handled >= p.MaxRows {
			slog.Info("Row cap reached for this invocation.", "maxRows", p.MaxRows)
			break
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if handled > 0 && p.Pause > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(p.Pause):
			}
		}

		outcome, err := p.processRow(ctx, rows[i-1])
		if err != nil {
			return report, fmt.Errorf("row %d: %w", i, err)
		}
		switch outcome {
		case models.OutcomeCreated:
			report.Created++
		case models.OutcomeSkipped:
			report.Skipped++
		}

		// The row is done; make that durable before looking at the next one.
		if err := p.Checkpoints.Save(ctx, i); err != nil {
			return report, fmt.Errorf("row %d was handled but the checkpoint was not saved: %w", i, err)
		}
		report.Checkpoint = i
		handled++
	}

	return report, nil
}

// processRow files a single row and reports its outcome. Failed outcomes
// carry the error that stops the run.
func (p *Processor) processRow(ctx context.Context, row models.Proposal) (models.Outcome, error) {
	category := row.Category()
	logCtx := slog.With("row", row.Row, "category", string(category))

	if category == models.CategoryUnknown {
		logCtx.Warn("Unrecognized proposal type; skipping row.",
			"outcome", string(models.OutcomeSkipped), "answer", row.CategoryAnswer)
		return models.OutcomeSkipped, nil
	}

	folderID := p.Folders[category]
	if folderID == "" {
		return models.OutcomeFailed, fmt.Errorf("no folder configured for category %s", category)
	}

	doc, err := render.Build(row)
	if err != nil {
		logCtx.Error("Row is malformed.", "outcome", string(models.OutcomeFailed), "error", err)
		return models.OutcomeFailed, fmt.Errorf("malformed row: %w", err)
	}

	docID, err := p.Sink.Create(ctx, folderID, doc)
	if err != nil {
		logCtx.Error("Failed to create document.", "outcome", string(models.OutcomeFailed), "error", err)
		return models.OutcomeFailed, err
	}

	logCtx.Info("Proposal filed.", "outcome", string(models.OutcomeCreated), "docId", docID, "docName", doc.Name)
	return models.OutcomeCreated, nil
}
