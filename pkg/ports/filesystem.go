package ports

// FileSystem is how stages reach the disk: the raw YUV input is read
// through it and every output (stream, container, preview, summary,
// debug dumps) is written through it.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces any existing file at path. Implementations
	// must not leave a truncated file behind on failure.
	WriteFile(path string, data []byte) error

	MkdirAll(path string) error

	// Exists reports whether path names a file or directory. A missing
	// path is (false, nil); other stat failures are returned.
	Exists(path string) (bool, error)

	Remove(path string) error
}
