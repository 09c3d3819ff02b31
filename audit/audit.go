// Package audit keeps before and after copies of each remapped aggregate
// document on the local filesystem.
package audit

import (
	"path"
	"strings"
	"time"

	"github.com/alpha-prosoft/eventseed/errors"
	"github.com/alpha-prosoft/eventseed/fs"
)

// SuffixLayout is the time layout of audit file names (day/hour-minute).
// Slashes are replaced by hyphens when the name is built.
const SuffixLayout = "02/15-04"

// DefaultDir is the directory audit copies are written to.
const DefaultDir = "tmp"

// Writer writes audit copies into a directory of a Filesystem.
type Writer struct {
	fs  fs.Filesystem
	dir string
}

// NewWriter returns a Writer for dir on fsys.
func NewWriter(fsys fs.Filesystem, dir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{fs: fsys, dir: dir}
}

// Suffix returns the file name stem for a run started at t.
func Suffix(t time.Time) string {
	return strings.ReplaceAll(t.Format(SuffixLayout), "/", "-")
}

// Paths returns the pre- and post-remap file paths for suffix.
func (w *Writer) Paths(suffix string) (before, after string) {
	return path.Join(w.dir, suffix+".old.json"), path.Join(w.dir, suffix+".new.json")
}

// WriteBefore writes the document as it was before remapping.
func (w *Writer) WriteBefore(suffix string, data []byte) (string, error) {
	p, _ := w.Paths(suffix)
	return p, w.write(p, data)
}

// WriteAfter writes the remapped document.
func (w *Writer) WriteAfter(suffix string, data []byte) (string, error) {
	_, p := w.Paths(suffix)
	return p, w.write(p, data)
}

func (w *Writer) write(p string, data []byte) error {
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "create audit directory",
			map[string]interface{}{"dir": w.dir})
	}
	if err := w.fs.WriteFile(p, data, 0o644); err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "write audit file",
			map[string]interface{}{"path": p})
	}
	return nil
}
