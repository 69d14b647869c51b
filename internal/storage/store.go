// Package storage writes acquired media into the configured output directory.
package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// unsafeChars matches every character replaced by SanitizeFilename.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeFilename replaces every character outside [a-zA-Z0-9] with an
// underscore and lower-cases the result. Distinct titles may collide.
func SanitizeFilename(title string) string {
	return strings.ToLower(unsafeChars.ReplaceAllString(title, "_"))
}

// FileStore saves streams as files under a single output directory.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first write if it does not exist.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the destination path for a file name inside the store.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// EnsureDir creates the output directory if it is missing.
func (s *FileStore) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// Save streams r into name. Bytes land in a temporary .part file that is
// renamed into place on success and removed on any failure, so a
// destination path never holds a truncated file. An existing file with the
// same name is replaced.
func (s *FileStore) Save(name string, r io.Reader) (string, int64, error) {
	if err := s.EnsureDir(); err != nil {
		return "", 0, err
	}

	dest := s.Path(name)
	tmp := fmt.Sprintf("%s.%s.part", dest, uuid.New().String()[:8])

	f, err := os.Create(tmp)
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		s.discard(tmp)
		return "", written, fmt.Errorf("write %s: %w", filepath.Base(dest), err)
	}

	if err := f.Close(); err != nil {
		s.discard(tmp)
		return "", written, fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		s.discard(tmp)
		return "", written, fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("file saved", "path", dest, "bytes", written)
	return dest, written, nil
}

// Writable checks that a file can be created in the output directory.
func (s *FileStore) Writable() error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	f, err := os.CreateTemp(s.dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("output dir not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func (s *FileStore) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove partial file", "path", path, "error", err)
	}
}
