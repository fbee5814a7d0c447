package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCSStore keeps the marker as a small JSON object in a bucket. Useful where
// the job runs without a durable disk (Cloud Run jobs) but Firestore is not
// provisioned.
type GCSStore struct {
	bucket *storage.BucketHandle
	object string
}

// NewGCS returns a store backed by gs://<bucket>/<object>.
func NewGCS(client *storage.Client, bucket, object string) *GCSStore {
	return &GCSStore{bucket: client.Bucket(bucket), object: object}
}

// Load reads and decodes the object. A missing object reads as 0.
func (s *GCSStore) Load(ctx context.Context) (int, error) {
	rdr, err := s.bucket.Object(s.object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to open checkpoint object %s: %w", s.object, err)
	}
	defer rdr.Close()

	var st state
	if err := json.NewDecoder(rdr).Decode(&st); err != nil {
		return 0, fmt.Errorf("checkpoint object %s is malformed: %w", s.object, err)
	}
	if st.LastProcessedRow < 0 {
		return 0, fmt.Errorf("checkpoint object %s holds negative row %d", s.object, st.LastProcessedRow)
	}
	return st.LastProcessedRow, nil
}

// Save rewrites the object with row.
func (s *GCSStore) Save(ctx context.Context, row int) error {
	wr := s.bucket.Object(s.object).NewWriter(ctx)
	wr.ContentType = "application/json"
	// The record is a few bytes; upload it in one request instead of a
	// chunked session.
	wr.ChunkSize = 0
	if err := json.NewEncoder(wr).Encode(state{LastProcessedRow: row}); err != nil {
		_ = wr.Close()
		return fmt.Errorf("failed to write checkpoint object %s: %w", s.object, err)
	}
	if err := wr.Close(); err != nil {
		return fmt.Errorf("failed to finalize checkpoint object %s: %w", s.object, err)
	}
	return nil
}
