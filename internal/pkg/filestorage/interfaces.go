package filestorage

import "io/fs"

// FileInfo represents information about a stored file
type FileInfo struct {
	Path     string // Full path where the file is stored
	FileSize int64  // Size in bytes
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// WriteFileAtomic replaces name with data so that readers observe either
	// the old or the new content, never a partial write.
	WriteFileAtomic(name string, data []byte, perm fs.FileMode) (*FileInfo, error)

	// ReadFile returns the content of name.
	ReadFile(name string) ([]byte, error)

	// Exists reports whether name is present.
	Exists(name string) (bool, error)

	// GetFullPath returns the full filesystem path for a given file name
	GetFullPath(name string) string
}
