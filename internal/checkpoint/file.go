package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the marker in a local JSON file. Meant for development
// runs; the file does not survive a container teardown.
type FileStore struct {
	path string
}

// NewFile returns a store backed by the file at path.
func NewFile(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the file. A missing file reads as 0.
func (s *FileStore) Load(_ context.Context) (int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read checkpoint file %s: %w", s.path, err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return 0, fmt.Errorf("checkpoint file %s is malformed: %w", s.path, err)
	}
	if st.LastProcessedRow < 0 {
		return 0, fmt.Errorf("checkpoint file %s holds negative row %d", s.path, st.LastProcessedRow)
	}
	return st.LastProcessedRow, nil
}

// Save writes row to a temp file and renames it into place, so a crash
// mid-write cannot leave a truncated checkpoint.
func (s *FileStore) Save(_ context.Context, row int) error {
	data, err := json.Marshal(state{LastProcessedRow: row})
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".checkpoint-*")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write checkpoint temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close checkpoint temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace checkpoint file %s: %w", s.path, err)
	}
	return nil
}
