// Package local stores recordings on the local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/logger"
	"github.com/kbukum/transcribekit/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(_ context.Context, cfg storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return NewStorage(cfg.BasePath)
	})
}

// Storage implements storage.Storage using the local filesystem.
type Storage struct {
	basePath string
}

var _ storage.Storage = (*Storage)(nil)

// NewStorage creates a new local filesystem storage rooted at basePath.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("storage: base path is required")
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Storage{basePath: abs}, nil
}

// resolve maps a storage path to a file under basePath. Paths that would
// escape the base directory are rejected.
func (s *Storage) resolve(path string) (string, error) {
	full := filepath.Join(s.basePath, filepath.FromSlash(path))
	if full != s.basePath && !strings.HasPrefix(full, s.basePath+string(filepath.Separator)) {
		return "", apperrors.InvalidInput("path", "escapes storage root")
	}
	return full, nil
}

// Upload writes data from reader to a local file. The content type is
// implied by the file extension.
func (s *Storage) Upload(_ context.Context, path string, reader io.Reader, _ string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("storage: create file: %w", err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		return fmt.Errorf("storage: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("storage: close file: %w", err)
	}
	return nil
}

// Download returns a reader for the local file at the given path.
func (s *Storage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("object", path).WithCause(err)
		}
		return nil, fmt.Errorf("storage: open file: %w", err)
	}
	return f, nil
}

// Delete removes a local file. Returns nil if the file does not exist.
func (s *Storage) Delete(_ context.Context, path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

// Exists checks whether a local file exists.
func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat file: %w", err)
	}
	return true, nil
}

// List returns metadata for all files whose slash-separated relative path starts with prefix.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	files := []storage.FileInfo{}

	err := filepath.WalkDir(s.basePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		ct := mime.TypeByExtension(filepath.Ext(path))
		if ct == "" {
			ct = "application/octet-stream"
		}
		files = append(files, storage.FileInfo{
			Path:         rel,
			Size:         info.Size(),
			LastModified: info.ModTime(),
			ContentType:  ct,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list files: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}
