// Package rawfile wraps an os.File with offset-addressed reads and
// writes plus the chunked in-place shift operations the save pipeline
// relies on. Every operation names its offset explicitly; there is no
// stream position for callers to track.
package rawfile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the shift chunk used by action materialization.
// The value trades buffer memory against syscall count; correctness
// does not depend on it.
const DefaultChunkSize = 120

var (
	// ErrFailedToOpen wraps any failure to open the backing file.
	ErrFailedToOpen = errors.New("failed to open file")
	// ErrOutOfBounds is returned when a shift is requested past the
	// current end of the file.
	ErrOutOfBounds = errors.New("position past end of file")
)

// File is an open raw file handle.
type File struct {
	f        *os.File
	path     string
	writable bool
}

// Open opens the file at path. The file is always opened for reading;
// writable additionally opens it for writing. The path is used as given,
// canonicalization is the view's job.
func Open(path string, writable bool) (*File, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFailedToOpen, path, err)
	}
	return &File{f: f, path: path, writable: writable}, nil
}

// Close closes the underlying handle.
func (f *File) Close() error {
	return f.f.Close()
}

// Path returns the path the file was opened with.
func (f *File) Path() string {
	return f.path
}

// Writable reports whether the file was opened for writing.
func (f *File) Writable() bool {
	return f.writable
}

// ReadAt reads len(buf) bytes starting at off. A short read at EOF is
// not an error: the byte count is returned with a nil error, matching
// how callers probe past the end of the file.
func (f *File) ReadAt(off uint64, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	n, err := f.f.ReadAt(buf, int64(off))
	if err == io.EOF {
		return n, nil
	}
	if err != nil {
		return n, fmt.Errorf("read at %d: %w", off, err)
	}
	// More bytes than requested would mean garbage; clamp defensively.
	if n > len(buf) {
		n = len(buf)
	}
	return n, nil
}

// WriteAt writes data starting at off, extending the file if needed.
func (f *File) WriteAt(off uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if _, err := f.f.WriteAt(data, int64(off)); err != nil {
		return fmt.Errorf("write at %d: %w", off, err)
	}
	return nil
}

// Size returns the current file size in bytes.
func (f *File) Size() (uint64, error) {
	info, err := f.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", f.path, err)
	}
	return uint64(info.Size()), nil
}

// Resize truncates or extends the file to exactly n bytes.
func (f *File) Resize(n uint64) error {
	if err := f.f.Truncate(int64(n)); err != nil {
		return fmt.Errorf("resize %s to %d: %w", f.path, n, err)
	}
	return nil
}

// Sync flushes written data to disk.
func (f *File) Sync() error {
	return f.f.Sync()
}
