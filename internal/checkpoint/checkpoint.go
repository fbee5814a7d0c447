// Package checkpoint persists the filer's single progress marker: the index
// of the last successfully processed row. The marker lives in one of three
// working-storage backends (Firestore, a GCS object, or a local file),
// selected by configuration. All backends treat a missing record as zero so
// a fresh deployment starts from the first row.
package checkpoint

import "context"

// Store reads and writes the last-processed-row marker. Implementations hold
// a single scalar slot; Save overwrites it. The filer only ever saves values
// greater than or equal to the one it loaded, so the marker is monotonically
// non-decreasing over the life of the system.
type Store interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, row int) error
}

// state is the stored record. The field name matches the original
// deployment's Firestore document, so existing checkpoints keep working.
type state struct {
	LastProcessedRow int `firestore:"last_processed_row" json:"last_processed_row"`
}
