package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// DiskStore writes uploaded media to a local directory. Filenames are
// server-generated, so client-controlled paths never reach the filesystem.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the uploads directory if needed and returns a store
// rooted there
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory uploads are stored in
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save writes the reader's contents under a generated collision-free name
// and returns that name
func (s *DiskStore) Save(src io.Reader, originalName string) (string, error) {
	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Base(originalName))

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *DiskStore) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
