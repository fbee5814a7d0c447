package checkpoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewFile(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 7))

	row, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, row)
}

func TestFileStoreMissingFileReadsZero(t *testing.T) {
	store := NewFile(filepath.Join(t.TempDir(), "never-written.json"))

	row, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, row)
}

func TestFileStoreOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewFile(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 1))
	require.NoError(t, store.Save(ctx, 2))

	row, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, row)
}

func TestFileStoreFieldNameIsStable(t *testing.T) {
	// The deployed job already persists this field name; renaming it would
	// reset every checkpoint on upgrade.
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, NewFile(path).Save(context.Background(), 42))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"last_processed_row":42}`, string(data))
}

func TestFileStoreMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewFile(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestFileStoreRejectsNegativeRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"last_processed_row":-3}`), 0o644))

	_, err := NewFile(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

func TestFileStoreLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkpoint.json")
	store := NewFile(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 1))
	require.NoError(t, store.Save(ctx, 2))
	require.NoError(t, store.Save(ctx, 3))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "checkpoint.json", entries[0].Name())
}
