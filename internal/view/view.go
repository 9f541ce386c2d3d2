// Package view restricts a raw file to a half-open byte window
// [start, end) and translates the natural positions callers use into
// absolute offsets of the backing file. A view with no window is the
// whole file.
package view

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bethropolis/ebb/internal/rawfile"
	"github.com/bethropolis/ebb/internal/types"
)

var (
	// ErrFileDoesNotExist is returned when the target path cannot be resolved.
	ErrFileDoesNotExist = errors.New("file does not exist")
	// ErrUnopenableFile is returned for filesystem nodes that cannot be
	// edited: directories, character devices, fifos and sockets.
	ErrUnopenableFile = errors.New("file cannot be opened")
	// ErrZeroSpan rejects construction with start == end; a zero-byte
	// window is useless.
	ErrZeroSpan = errors.New("window start and end are equal")
	// ErrInvalidSpan rejects construction with end < start.
	ErrInvalidSpan = errors.New("window end before start")
	// ErrPositionRange is returned when a natural position translates
	// outside the window.
	ErrPositionRange = errors.New("natural position outside of range")
)

// View is a constrained handle on a raw file.
type View struct {
	path string // canonical absolute path
	file *rawfile.File

	start, end *types.Absolute // optional window bounds, [start, end)

	writable bool
}

// Open resolves and validates path, then opens it restricted to the
// optional window. Symlinks are followed; the canonical path is what the
// view reports afterwards.
func Open(path string, start, end *types.Absolute, writable bool) (*View, error) {
	if start != nil && end != nil {
		if *start == *end {
			return nil, ErrZeroSpan
		}
		if *end < *start {
			return nil, ErrInvalidSpan
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileDoesNotExist, path, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileDoesNotExist, path)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileDoesNotExist, path)
	}
	if reason := unopenableReason(info.Mode()); reason != "" {
		return nil, fmt.Errorf("%w: %s is a %s", ErrUnopenableFile, canonical, reason)
	}

	file, err := rawfile.Open(canonical, writable)
	if err != nil {
		return nil, err
	}

	return &View{
		path:     canonical,
		file:     file,
		start:    start,
		end:      end,
		writable: writable,
	}, nil
}

func unopenableReason(mode os.FileMode) string {
	switch {
	case mode.IsDir():
		return "directory"
	case mode&os.ModeCharDevice != 0:
		return "character device"
	case mode&os.ModeNamedPipe != 0:
		return "fifo"
	case mode&os.ModeSocket != 0:
		return "socket"
	}
	return ""
}

// Close releases the underlying file.
func (v *View) Close() error {
	return v.file.Close()
}

// Path returns the canonical path the view was opened on.
func (v *View) Path() string {
	return v.path
}

// File exposes the raw handle for save materialization.
func (v *View) File() *rawfile.File {
	return v.file
}

// Writable reports whether edits can reach the disk.
func (v *View) Writable() bool {
	return v.writable
}

// Start returns the window start, or 0 when unbounded.
func (v *View) Start() types.Absolute {
	if v.start == nil {
		return 0
	}
	return *v.start
}

// Convert translates a natural position to an absolute offset, failing
// with ErrPositionRange when the result falls outside [start, end).
func (v *View) Convert(pos types.Natural) (types.Absolute, error) {
	abs := types.Absolute(uint64(v.Start()) + uint64(pos))
	if v.end != nil && abs >= *v.end {
		return 0, fmt.Errorf("%w: natural %d maps to %d, window ends at %d", ErrPositionRange, pos, abs, *v.end)
	}
	return abs, nil
}

// CanConvert reports whether pos falls inside the window.
func (v *View) CanConvert(pos types.Natural) bool {
	_, err := v.Convert(pos)
	return err == nil
}

// ReadByte reads the single byte at pos. The bool is false past EOF.
func (v *View) ReadByte(pos types.Natural) (byte, bool, error) {
	data, err := v.Read(pos, 1)
	if err != nil {
		return 0, false, err
	}
	if len(data) == 0 {
		return 0, false, nil
	}
	return data[0], true, nil
}

// Read reads up to amount bytes starting at pos. The result is shorter
// when the window or the file ends first, and empty at EOF.
func (v *View) Read(pos types.Natural, amount uint64) ([]byte, error) {
	abs, err := v.Convert(pos)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, nil
	}
	// Clamp at the window end so no byte outside [start, end) ever
	// leaks into a caller's buffer.
	if v.end != nil {
		room := uint64(*v.end) - uint64(abs)
		if amount > room {
			amount = room
		}
	}
	buf := make([]byte, amount)
	n, err := v.file.ReadAt(uint64(abs), buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Write overwrites bytes at pos, translated through the window.
func (v *View) Write(pos types.Natural, data []byte) error {
	abs, err := v.Convert(pos)
	if err != nil {
		return err
	}
	return v.file.WriteAt(uint64(abs), data)
}

// Insert shifts the file tail rightward at the translated position.
func (v *View) Insert(pos types.Natural, amount, chunk uint64) error {
	abs, err := v.Convert(pos)
	if err != nil {
		return err
	}
	return v.file.ShiftInsert(uint64(abs), amount, chunk)
}

// Delete shifts the file tail leftward at the translated position. The
// file is not truncated; the caller resizes once it is done deleting.
func (v *View) Delete(pos types.Natural, amount, chunk uint64) error {
	abs, err := v.Convert(pos)
	if err != nil {
		return err
	}
	return v.file.ShiftDelete(uint64(abs), amount, chunk)
}

// Size returns the underlying file size, not the window length.
func (v *View) Size() (uint64, error) {
	return v.file.Size()
}

// EditableSize returns how many bytes the window exposes:
// min(end, size) - start.
func (v *View) EditableSize() (uint64, error) {
	size, err := v.file.Size()
	if err != nil {
		return 0, err
	}
	limit := size
	if v.end != nil && uint64(*v.end) < limit {
		limit = uint64(*v.end)
	}
	start := uint64(v.Start())
	if start >= limit {
		return 0, nil
	}
	return limit - start, nil
}
