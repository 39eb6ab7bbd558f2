package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage writes uploads to a directory on disk. Stored names combine a
// uuid with the sanitized original name so uploads never collide and the
// original name stays recognizable on disk.
type Storage struct {
	dir     string
	maxSize int64
}

func NewStorage(dir string, maxSize int64) *Storage {
	return &Storage{dir: dir, maxSize: maxSize}
}

// Dir returns the storage root directory.
func (s *Storage) Dir() string {
	return s.dir
}

// Save streams an upload to disk and returns the generated stored name
// and the byte count. An upload over the size limit is removed and
// rejected with ErrFileTooLarge.
func (s *Storage) Save(r io.Reader, originalName string) (string, int64, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create upload dir: %w", err)
	}

	stored := uuid.New().String() + "_" + SanitizeFilename(originalName)
	path := filepath.Join(s.dir, stored)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}

	limit := io.Reader(r)
	if s.maxSize > 0 {
		limit = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(f, limit)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	if s.maxSize > 0 && n > s.maxSize {
		os.Remove(path)
		return "", 0, ErrFileTooLarge
	}

	return stored, n, nil
}

// Open opens a stored file for reading.
func (s *Storage) Open(storedName string) (*os.File, error) {
	f, err := os.Open(s.Path(storedName))
	if os.IsNotExist(err) {
		return nil, ErrMissingOnDisk
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Remove deletes a stored file. A file already gone is not an error.
func (s *Storage) Remove(storedName string) error {
	err := os.Remove(s.Path(storedName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Path returns the on-disk path for a stored name. The name is passed
// through filepath.Base so a crafted value cannot escape the directory.
func (s *Storage) Path(storedName string) string {
	return filepath.Join(s.dir, filepath.Base(storedName))
}

// SanitizeFilename strips path components and replaces characters that
// are unsafe in a filename. An empty result becomes "file".
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "file"
	}
	return out
}

// AllowedExtension reports whether a filename's extension is on the
// allowlist. A file with no extension is never allowed.
func AllowedExtension(name string, allowed []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}
