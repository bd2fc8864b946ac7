package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Manaswi925/ChimeIn/internal/utils"
)

// Media stores uploaded files on local disk and exposes delete-by-path so
// callers can roll back an upload when moderation flags the content it
// belongs to.
type Media struct {
	dir string
}

func NewMedia(dir string) (*Media, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}
	return &Media{dir: dir}, nil
}

// Save writes the upload under a random name and returns the stored path.
func (m *Media) Save(r io.Reader, originalName string) (string, error) {
	name := utils.GenToken(16) + filepath.Ext(originalName)
	path := filepath.Join(m.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Remove deletes a stored file by path. Removing a path that is already
// gone is not an error.
func (m *Media) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
