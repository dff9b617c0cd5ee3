package gateway

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"settlement-profit/internal/domain"
)

// DefaultMaxUploadBytes is the upload size limit used when none is configured.
const DefaultMaxUploadBytes = 10 << 20

var zipSignature = []byte("PK\x03\x04")

// FileChecker accepts only .xlsx workbooks within the size limit.
type FileChecker struct {
	maxBytes int64
}

// NewFileChecker creates a checker; a non-positive limit uses DefaultMaxUploadBytes.
func NewFileChecker(maxBytes int64) *FileChecker {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &FileChecker{maxBytes: maxBytes}
}

// Check validates the file name, declared size and leading bytes of an upload.
// The reader is only read up to the signature length.
func (c *FileChecker) Check(filename string, size int64, r io.Reader) error {
	if !strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return fmt.Errorf("%w: %q is not an .xlsx file", domain.ErrUnsupportedFile, filename)
	}
	if size > c.maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrFileTooLarge, size, c.maxBytes)
	}
	head := make([]byte, len(zipSignature))
	if _, err := io.ReadFull(r, head); err != nil || !bytes.Equal(head, zipSignature) {
		return fmt.Errorf("%w: %q is not a workbook", domain.ErrUnsupportedFile, filename)
	}
	return nil
}

// FileStore keeps uploaded and exported files in one directory.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save stores r under a new id derived from a random uuid and the base name of filename.
func (s *FileStore) Save(filename string, r io.Reader) (string, error) {
	base := filepath.Base(filepath.Clean("/" + filename))
	if base == "/" || base == "." {
		base = "upload.xlsx"
	}
	id := uuid.NewString() + "_" + base

	dst, err := os.OpenFile(filepath.Join(s.dir, id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create upload %s: %w", id, err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to store upload %s: %w", id, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to store upload %s: %w", id, err)
	}
	return id, nil
}

// Path resolves a stored id to its file path.
func (s *FileStore) Path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: invalid id %q", domain.ErrUploadNotFound, id)
	}
	path := filepath.Join(s.dir, id)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", domain.ErrUploadNotFound, id)
	}
	return path, nil
}

// Remove deletes a file; a missing file is not an error.
func (s *FileStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// CleanupExpired removes files last modified more than maxAge ago and returns how many
// were removed. Files deleted concurrently are skipped.
func (s *FileStore) CleanupExpired(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}
	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("failed to remove expired file %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}
