// Package fs defines the small filesystem surface eventseed reads templates
// from and writes audit copies to. The billy subpackage implements it over
// go-billy OS and in-memory filesystems.
package fs

import "os"

// Filesystem is a rooted filesystem.
type Filesystem interface {
	// Exists reports whether path exists. A missing path is (false, nil).
	Exists(path string) (bool, error)

	// MkdirAll creates path and any missing parents.
	MkdirAll(path string, perm os.FileMode) error

	// ReadFile returns the contents of path.
	ReadFile(path string) ([]byte, error)

	// Stat returns file information for path.
	Stat(name string) (os.FileInfo, error)

	// WriteFile creates or truncates filename and writes data to it.
	WriteFile(filename string, data []byte, perm os.FileMode) error
}
