// Package storage manages the upload and processed directories. Every
// request gets its own UUID-named subdirectory so concurrent uploads of the
// same filename never collide.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store struct {
	uploadDir    string
	processedDir string
}

func NewStore(uploadDir, processedDir string) (*Store, error) {
	for _, dir := range []string{uploadDir, processedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return &Store{uploadDir: uploadDir, processedDir: processedDir}, nil
}

// NewBatchID returns a fresh identifier for a single upload request.
func (s *Store) NewBatchID() string {
	return uuid.NewString()
}

// SaveUpload writes an uploaded file under uploads/<batchID>/ and returns
// its path. The filename is sanitized to its base name first.
func (s *Store) SaveUpload(batchID, filename string, r io.Reader) (string, error) {
	name, err := sanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.uploadDir, batchID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

// Promote moves a processed file from uploads/<batchID>/ into
// processed/<batchID>/ and returns the new path. Sidecar metadata files
// created during tagging travel with it.
func (s *Store) Promote(batchID, filename string) (string, error) {
	name, err := sanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.processedDir, batchID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create processed directory: %w", err)
	}

	src := filepath.Join(s.uploadDir, batchID, name)
	dst := filepath.Join(dir, name)
	if err := moveFile(src, dst); err != nil {
		return "", fmt.Errorf("failed to move processed file: %w", err)
	}

	if sidecar := src + ".metadata"; fileExists(sidecar) {
		if err := moveFile(sidecar, dst+".metadata"); err != nil {
			return "", fmt.Errorf("failed to move metadata sidecar: %w", err)
		}
	}

	return dst, nil
}

// ProcessedPath resolves a download request to a file under the processed
// directory. Both path segments are validated so the lookup can never
// escape it.
func (s *Store) ProcessedPath(batchID, filename string) (string, error) {
	if _, err := uuid.Parse(batchID); err != nil {
		return "", fmt.Errorf("invalid download identifier")
	}
	name, err := sanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.processedDir, batchID, name)
	if !fileExists(path) {
		return "", fmt.Errorf("file not found")
	}
	return path, nil
}

// CleanupBatch removes the upload directory of a finished request.
func (s *Store) CleanupBatch(batchID string) {
	if _, err := uuid.Parse(batchID); err != nil {
		return
	}
	_ = os.RemoveAll(filepath.Join(s.uploadDir, batchID))
}

func sanitizeFilename(filename string) (string, error) {
	name := filepath.Base(filepath.Clean(filename))
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("invalid filename")
	}
	return name, nil
}

// moveFile renames when possible and falls back to copy+remove for
// cross-device moves.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
