package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps each slot in its own file under a state directory. This
// is the default backend: the process-local equivalent of browser storage.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Get(_ context.Context, slot string) ([]byte, error) {
	data, err := os.ReadFile(f.path(slot))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return data, nil
}

// Set writes through a temp file and renames it into place, so a crash
// mid-write leaves the previous value intact.
func (f *FileStore) Set(_ context.Context, slot string, data []byte) error {
	tmp := f.path(slot) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	if err := os.Rename(tmp, f.path(slot)); err != nil {
		return fmt.Errorf("rename slot %s: %w", slot, err)
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, slot string) error {
	err := os.Remove(f.path(slot))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

func (f *FileStore) path(slot string) string {
	return filepath.Join(f.dir, slot+".json")
}
