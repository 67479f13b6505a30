package fsutil

// FileStore provides an interface for file system operations
type FileStore interface {
	// ReadFile reads a file and returns its contents
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary
	WriteFile(path string, data []byte) error

	// MakeDirectory creates a new directory and all necessary parents
	MakeDirectory(path string) error

	// RemoveAll removes a path and any children it contains
	RemoveAll(path string) error

	// Exists reports whether a path exists
	Exists(path string) bool

	// ListFiles walks root and returns slash-separated relative paths of
	// regular files whose extension is in exts (all files when exts is empty)
	ListFiles(root string, exts ...string) ([]string, error)
}
