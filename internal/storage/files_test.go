package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreSaveReadDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	fileID, err := store.Save([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NotEmpty(t, fileID)

	data, err := store.Read(fileID)
	require.NoError(t, err)
	require.Equal(t, []byte("%PDF-1.4 fake"), data)

	require.NoError(t, store.Delete(fileID))
	_, err = store.Read(fileID)
	require.Error(t, err)

	// Deleting an already-deleted file is not an error.
	require.NoError(t, store.Delete(fileID))
}

func TestFileStoreIDsAreUnique(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	a, err := store.Save([]byte("same bytes"))
	require.NoError(t, err)
	b, err := store.Save([]byte("same bytes"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestFileStorePathCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)

	outside := filepath.Join(filepath.Dir(root), "victim.pdf")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	_, err = store.Read("../victim")
	require.Error(t, err)
	require.NoError(t, store.Delete("../victim"))

	_, statErr := os.Stat(outside)
	require.NoError(t, statErr)
}
