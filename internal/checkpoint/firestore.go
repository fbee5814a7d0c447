package checkpoint

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

// FirestoreStore keeps the marker in a single Firestore document, the
// production backend. The document is created on first Save.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
	document   string
}

// NewFirestore returns a store backed by the document collection/document.
func NewFirestore(client *firestore.Client, collection, document string) *FirestoreStore {
	return &FirestoreStore{client: client, collection: collection, document: document}
}

func (s *FirestoreStore) ref() *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(s.document)
}

// Load reads the marker. A document that does not exist yet reads as 0.
func (s *FirestoreStore) Load(ctx context.Context) (int, error) {
	snap, err := s.ref().Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read checkpoint %s/%s: %w", s.collection, s.document, err)
	}

	var st state
	if err := snap.DataTo(&st); err != nil {
		return 0, fmt.Errorf("checkpoint %s/%s is malformed: %w", s.collection, s.document, err)
	}
	if st.LastProcessedRow < 0 {
		return 0, fmt.Errorf("checkpoint %s/%s holds negative row %d", s.collection, s.document, st.LastProcessedRow)
	}
	return st.LastProcessedRow, nil
}

// Save overwrites the marker with row.
func (s *FirestoreStore) Save(ctx context.Context, row int) error {
	if _, err := s.ref().Set(ctx, state{LastProcessedRow: row}); err != nil {
		return fmt.Errorf("failed to write checkpoint %s/%s: %w", s.collection, s.document, err)
	}
	return nil
}
