package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore keeps uploaded papers on disk under opaque IDs until the
// analysis that references them completes.
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

// Save writes the bytes under a fresh ID. The write goes through a temp
// file and a rename so a crashed upload never leaves a readable partial.
func (s *FileStore) Save(data []byte) (string, error) {
	fileID := uuid.NewString()

	tmp, err := os.CreateTemp(s.root, "upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(fileID)); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("atomic move upload: %w", err)
	}
	return fileID, nil
}

func (s *FileStore) Read(fileID string) ([]byte, error) {
	data, err := os.ReadFile(s.path(fileID))
	if err != nil {
		return nil, fmt.Errorf("read stored file %s: %w", fileID, err)
	}
	return data, nil
}

func (s *FileStore) Delete(fileID string) error {
	if err := os.Remove(s.path(fileID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete stored file %s: %w", fileID, err)
	}
	return nil
}

func (s *FileStore) path(fileID string) string {
	// IDs are uuids we generated, but base-name them anyway so a crafted ID
	// can never escape the root.
	return filepath.Join(s.root, filepath.Base(strings.TrimSpace(fileID))+".pdf")
}
