package filestorage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/yigit/curriculum/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
}

var _ FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "."
	}
	// Ensure the base path exists
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Debug().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// GetFullPath returns the full filesystem path for a given file name.
func (ls *LocalStorage) GetFullPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(ls.basePath, name)
}

// Exists reports whether name is present in storage.
func (ls *LocalStorage) Exists(name string) (bool, error) {
	_, err := os.Stat(ls.GetFullPath(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", name, err)
}

// ReadFile returns the content of name.
func (ls *LocalStorage) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(ls.GetFullPath(name))
}

// WriteFileAtomic writes data to a uniquely named temporary file next to the
// target, syncs it and renames it into place. On any failure the temporary
// file is removed and the previous content stays intact.
func (ls *LocalStorage) WriteFileAtomic(name string, data []byte, perm fs.FileMode) (*FileInfo, error) {
	dstPath := ls.GetFullPath(name)
	dir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Generate a unique filename to prevent collisions
	tmpPath := filepath.Join(dir, "."+filepath.Base(dstPath)+"."+uuid.NewString()+".tmp")

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		logger.Error().Err(err).Str("path", tmpPath).Msg("Failed to create temporary file")
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		logger.Error().Err(err).Str("path", tmpPath).Msg("Failed to write temporary file")
		return nil, fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to move file into place")
		return nil, fmt.Errorf("failed to replace %s: %w", dstPath, err)
	}

	logger.Debug().Str("path", dstPath).Int("bytes", len(data)).Msg("File written")
	return &FileInfo{Path: dstPath, FileSize: int64(len(data))}, nil
}
