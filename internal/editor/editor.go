// Package editor is the top-level facade of the library. An Editor
// composes a constrained view, a block cache, the action log and a
// mode into the public byte-editing API: reads resolve against the
// pending-edit overlay, writes accumulate as actions, and nothing
// touches the backing file until save.
package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/bethropolis/ebb/internal/action"
	"github.com/bethropolis/ebb/internal/blockcache"
	"github.com/bethropolis/ebb/internal/event"
	"github.com/bethropolis/ebb/internal/logger"
	"github.com/bethropolis/ebb/internal/mode"
	"github.com/bethropolis/ebb/internal/types"
	"github.com/bethropolis/ebb/internal/view"
)

var (
	// ErrInsertNotAllowed is returned when the mode forbids insertion.
	ErrInsertNotAllowed = errors.New("insertion is unsupported in this mode")
	// ErrDeleteNotAllowed is returned when the mode forbids deletion.
	ErrDeleteNotAllowed = errors.New("deletion is unsupported in this mode")
	// ErrLocked means another session holds the advisory lock on the file.
	ErrLocked = errors.New("file is locked by another session")
)

const (
	defaultLockTimeout = time.Second
	lockPollInterval   = 10 * time.Millisecond
)

// Options configure a new Editor. The zero value opens the whole file
// writable with default cache and chunk parameters.
type Options struct {
	Mode          mode.Info
	BlockSize     uint64
	MaxBlockCount int
	ChunkSize     uint64
	ReadOnly      bool
	LockTimeout   time.Duration

	// Events receives the editor's events; a TypeEdit subscriber can
	// rewrite bytes before they are recorded. Nil gets a fresh manager.
	Events *event.Manager
}

// Editor is a single-owner editing session on one file.
type Editor struct {
	mode   mode.Info
	view   *view.View
	cache  *blockcache.Cache
	log    *action.Log
	events *event.Manager
	lock   *flock.Flock
	chunk  uint64
}

// New opens path under the given options. Writable sessions take an
// exclusive advisory lock next to the file and fail with ErrLocked if
// another session already holds it.
func New(path string, opts Options) (*Editor, error) {
	writable := !opts.ReadOnly

	v, err := view.Open(path, opts.Mode.StartPtr(), opts.Mode.EndPtr(), writable)
	if err != nil {
		return nil, err
	}

	var lk *flock.Flock
	if writable {
		lk = flock.New(v.Path() + ".lock")
		timeout := opts.LockTimeout
		if timeout <= 0 {
			timeout = defaultLockTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		locked, lockErr := lk.TryLockContext(ctx, lockPollInterval)
		cancel()
		if lockErr != nil || !locked {
			v.Close()
			if lockErr != nil && !errors.Is(lockErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", ErrLocked, lockErr)
			}
			return nil, ErrLocked
		}
	}

	events := opts.Events
	if events == nil {
		events = event.NewManager()
	}

	e := &Editor{
		mode:   opts.Mode,
		view:   v,
		cache:  blockcache.New(v, opts.BlockSize, opts.MaxBlockCount),
		log:    action.NewLog(),
		events: events,
		lock:   lk,
		chunk:  opts.ChunkSize,
	}

	logger.Infof("editor: opened %s (%s, writable=%v)", v.Path(), e.mode, writable)
	events.Dispatch(event.TypeFileOpened, event.FileOpenedData{Path: v.Path(), Writable: writable})
	return e, nil
}

// Close releases the lock and the backing file. Pending actions are
// discarded.
func (e *Editor) Close() error {
	if e.lock != nil {
		if err := e.lock.Unlock(); err != nil {
			logger.Warnf("editor: releasing lock: %v", err)
		}
	}
	return e.view.Close()
}

// Path returns the canonical path of the backing file.
func (e *Editor) Path() string {
	return e.view.Path()
}

// Mode returns the session's mode.
func (e *Editor) Mode() mode.Info {
	return e.mode
}

// Events returns the editor's event manager.
func (e *Editor) Events() *event.Manager {
	return e.events
}

// IsWritable reports whether the backing file was opened for writing.
// Whole-file saves go through a temp file and a rename and do not
// consult it.
func (e *Editor) IsWritable() bool {
	return e.view.Writable()
}

// Read returns the byte at pos as it appears through the overlay. The
// bool is false past the end of the visible file.
func (e *Editor) Read(pos types.Natural) (byte, bool, error) {
	b, translated, served := e.log.ReadFromStorage(pos)
	if served {
		return b, true, nil
	}
	return e.readSingleRaw(translated)
}

// ReadRange returns up to amount bytes starting at pos, stopping at
// the first position that is past the end of the visible file.
func (e *Editor) ReadRange(pos types.Natural, amount uint64) ([]byte, error) {
	data := make([]byte, 0, amount)
	for i := uint64(0); i < amount; i++ {
		b, ok, err := e.Read(pos.Add(types.Relative(i)))
		if err != nil {
			if errors.Is(err, view.ErrPositionRange) {
				break
			}
			return nil, err
		}
		if !ok {
			break
		}
		data = append(data, b)
	}
	return data, nil
}

// readSingleRaw reads a translated position from the base file through
// the block cache. The window check runs first so out-of-range reads
// report a range error instead of a silent miss.
func (e *Editor) readSingleRaw(pos types.Natural) (byte, bool, error) {
	if _, err := e.view.Convert(pos); err != nil {
		return 0, false, err
	}
	return e.cache.ReadByte(pos)
}

// EditByte records a single-byte overwrite at pos.
func (e *Editor) EditByte(pos types.Natural, value byte) {
	e.Edit(pos, []byte{value})
}

// Edit records an overwrite of len(data) bytes starting at pos. The
// TypeEdit event fires first; whatever bytes its handlers leave behind
// are what gets stored. The editor owns data afterwards.
func (e *Editor) Edit(pos types.Natural, data []byte) {
	payload := &event.EditData{Position: pos, Bytes: data}
	e.events.Dispatch(event.TypeEdit, payload)
	e.log.Do(action.NewEdit(pos, payload.Bytes))
	e.cache.InvalidateFrom(pos)
}

// Insert records an insertion of amount copies of fill before pos.
// A zero fill stores a bare insertion; anything else bundles the
// insertion with an edit that paints the gap.
func (e *Editor) Insert(pos types.Natural, amount uint64, fill byte) error {
	if !e.mode.SupportsInsertion() {
		return ErrInsertNotAllowed
	}
	ins := &action.Insertion{Position: pos, Amount: amount, Chunk: e.chunk}
	if fill == action.InsertionFill {
		e.log.Do(ins)
	} else {
		data := bytes.Repeat([]byte{fill}, int(amount))
		e.log.Do(action.NewBundled(ins, action.NewEdit(pos, data)))
	}
	e.cache.InvalidateFrom(pos)
	return nil
}

// InsertPattern records an insertion of amount bytes before pos filled
// by tiling pattern. An empty pattern degrades to the zero fill.
func (e *Editor) InsertPattern(pos types.Natural, amount uint64, pattern []byte) error {
	if !e.mode.SupportsInsertion() {
		return ErrInsertNotAllowed
	}
	ins := &action.Insertion{Position: pos, Amount: amount, Chunk: e.chunk}
	if len(pattern) == 0 {
		e.log.Do(ins)
	} else {
		data := make([]byte, amount)
		for i := range data {
			data[i] = pattern[i%len(pattern)]
		}
		e.log.Do(action.NewBundled(ins, action.NewEdit(pos, data)))
	}
	e.cache.InvalidateFrom(pos)
	return nil
}

// Delete records the removal of amount bytes starting at pos.
func (e *Editor) Delete(pos types.Natural, amount uint64) error {
	if !e.mode.SupportsDeletion() {
		return ErrDeleteNotAllowed
	}
	e.log.Do(&action.Deletion{Position: pos, Amount: amount, Chunk: e.chunk})
	e.cache.InvalidateFrom(pos)
	return nil
}

// Undo steps the history back one action.
func (e *Editor) Undo() action.Status {
	st := e.log.Undo()
	if st == action.StatusSuccess {
		e.events.Dispatch(event.TypeUndo, nil)
	}
	return st
}

// Redo reapplies the most recently undone action.
func (e *Editor) Redo() action.Status {
	st := e.log.Redo()
	if st == action.StatusSuccess {
		e.events.Dispatch(event.TypeRedo, nil)
	}
	return st
}

// CanUndo reports whether an undo would do anything.
func (e *Editor) CanUndo() bool {
	return e.log.CanUndo()
}

// CanRedo reports whether a redo would do anything.
func (e *Editor) CanRedo() bool {
	return e.log.CanRedo()
}

// VisibleSize is the size of the file as the overlay presents it:
// the editable window size plus the applied actions' deltas.
func (e *Editor) VisibleSize() (uint64, error) {
	base, err := e.view.EditableSize()
	if err != nil {
		return 0, err
	}
	result := int64(base) + e.log.SizeDelta()
	if result < 0 {
		// Deletions past the start cannot shrink below empty.
		result = 0
	}
	return uint64(result), nil
}
