package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Saver materializes downloaded content under a name and returns where it went.
type Saver interface {
	Save(filename string, r io.Reader) (string, error)
}

// FileStore saves downloaded files to disk under a base directory.
type FileStore struct {
	basePath string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Save writes r to basePath/filename, replacing an existing file.
func (f *FileStore) Save(filename string, r io.Reader) (string, error) {
	target := filepath.Join(f.basePath, SafeFilename(filename))
	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return target, nil
}

// SafeFilename strips directories so a server-supplied name cannot escape the base dir.
func SafeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "download"
	}
	return name
}
