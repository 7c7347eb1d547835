// Package fs stores uploaded account images on the local filesystem.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Storage struct {
	rootPath string
}

func New(rootPath string) (*Storage, error) {
	// filepath.Clean prevents path traversal like "images/../"
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p}, nil
}

// SaveImage writes the upload under a generated name and returns that name.
// The account record stores the returned filename, never the client's one.
func (s *Storage) SaveImage(data io.Reader, originalExtension string) (string, error) {
	ext := filepath.Clean(originalExtension)
	if !strings.HasPrefix(ext, ".") {
		ext = ""
	}
	filename := fmt.Sprintf("img-%s%s", uuid.NewString(), ext)
	fullPath := filepath.Join(s.rootPath, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		os.Remove(fullPath) // best effort
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return filename, nil
}

// ReadImage opens a stored image by the name SaveImage returned.
func (s *Storage) ReadImage(filename string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.rootPath, filepath.Base(filename))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found: %w", err)
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return file, nil
}

// DeleteImage removes a stored image. A missing file is not an error.
func (s *Storage) DeleteImage(filename string) error {
	fullPath := filepath.Join(s.rootPath, filepath.Base(filename))

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
