package editor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/ebb/internal/action"
	"github.com/bethropolis/ebb/internal/event"
	"github.com/bethropolis/ebb/internal/mode"
	"github.com/bethropolis/ebb/internal/view"
)

func newEditor(t *testing.T, content string, opts Options) *Editor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	e, err := New(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func readAll(t *testing.T, e *Editor, amount uint64) string {
	t.Helper()
	data, err := e.ReadRange(0, amount)
	require.NoError(t, err)
	return string(data)
}

func diskContents(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestEditThenSave(t *testing.T) {
	// File "ABCDEFG", whole mode: edit one byte, check the overlay,
	// save, check the disk.
	e := newEditor(t, "ABCDEFG", Options{})
	e.EditByte(2, 'Z')

	assert.Equal(t, "ABZDEFG", readAll(t, e, 7))
	require.Equal(t, SaveSuccess, e.Save())
	assert.Equal(t, "ABZDEFG", diskContents(t, e.Path()))
}

func TestInsertUndoRedoSave(t *testing.T) {
	e := newEditor(t, "HELLO", Options{})
	require.NoError(t, e.Insert(2, 3, 0x00))

	assert.Equal(t, "HE\x00\x00\x00LLO", readAll(t, e, 8))

	require.Equal(t, action.StatusSuccess, e.Undo())
	assert.Equal(t, "HELLO", readAll(t, e, 8))

	require.Equal(t, action.StatusSuccess, e.Redo())
	assert.Equal(t, "HE\x00\x00\x00LLO", readAll(t, e, 8))

	require.Equal(t, SaveSuccess, e.Save())
	info, err := os.Stat(e.Path())
	require.NoError(t, err)
	assert.Equal(t, int64(8), info.Size())
}

func TestDeleteAndSaveAs(t *testing.T) {
	e := newEditor(t, "0123456789", Options{})
	require.NoError(t, e.Delete(3, 4))

	assert.Equal(t, "012789", readAll(t, e, 10))

	dest := filepath.Join(filepath.Dir(e.Path()), "out.bin")
	require.Equal(t, SaveSuccess, e.SaveAs(dest))
	assert.Equal(t, "012789", diskContents(t, dest))

	// The original file is untouched by save-as.
	assert.Equal(t, "0123456789", diskContents(t, e.Path()))
}

func TestInsertPatternAtEnd(t *testing.T) {
	e := newEditor(t, "ABCDE", Options{})
	require.NoError(t, e.InsertPattern(5, 2, []byte{0xAA, 0xBB}))

	data, err := e.ReadRange(0, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte{'A', 'B', 'C', 'D', 'E', 0xAA, 0xBB}, data)

	require.Equal(t, SaveSuccess, e.Save())
	b, err := os.ReadFile(e.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte{'A', 'B', 'C', 'D', 'E', 0xAA, 0xBB}, b)
}

func TestPatternTiling(t *testing.T) {
	e := newEditor(t, "xy", Options{})
	require.NoError(t, e.InsertPattern(0, 5, []byte{1, 2}))
	data, err := e.ReadRange(0, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 1, 2, 1, 'x', 'y'}, data)
}

func TestPartialMode(t *testing.T) {
	e := newEditor(t, "ABCDEFG", Options{Mode: mode.Partial(2, 5)})

	assert.Equal(t, "CDE", readAll(t, e, 3))

	require.ErrorIs(t, e.Insert(0, 1, 0x00), ErrInsertNotAllowed)
	require.ErrorIs(t, e.Delete(0, 1), ErrDeleteNotAllowed)

	_, _, err := e.Read(3)
	require.ErrorIs(t, err, view.ErrPositionRange)

	e.EditByte(1, 'z')
	assert.Equal(t, "CzE", readAll(t, e, 3))

	require.Equal(t, SaveSuccess, e.Save())
	assert.Equal(t, "ABCzEFG", diskContents(t, e.Path()))
}

func TestInsertDeleteUndoChain(t *testing.T) {
	e := newEditor(t, "ABCDEF", Options{})
	require.NoError(t, e.Insert(1, 1, 'X'))
	require.NoError(t, e.Delete(3, 1))

	// The deletion removes the byte the overlay shows at position 3.
	assert.Equal(t, "AXBDEF", readAll(t, e, 6))

	require.Equal(t, action.StatusSuccess, e.Undo())
	assert.Equal(t, "AXBCDEF", readAll(t, e, 7))

	require.Equal(t, action.StatusSuccess, e.Undo())
	assert.Equal(t, "ABCDEF", readAll(t, e, 7))

	// A new action truncates the redo tail.
	e.EditByte(0, 'Q')
	assert.False(t, e.CanRedo())
	assert.Equal(t, "QBCDEF", readAll(t, e, 6))
}

func TestOverlayMatchesSavedBytes(t *testing.T) {
	// Whatever the overlay answers must be exactly what lands on disk.
	e := newEditor(t, "the quick brown fox", Options{})
	require.NoError(t, e.Insert(4, 3, 0x00))
	e.Edit(4, []byte("od "))
	require.NoError(t, e.Delete(0, 4))
	e.EditByte(0, 'G')

	visible, err := e.VisibleSize()
	require.NoError(t, err)
	overlay := readAll(t, e, visible+10)
	assert.Equal(t, int(visible), len(overlay))

	dest := filepath.Join(filepath.Dir(e.Path()), "mirror.bin")
	require.Equal(t, SaveSuccess, e.SaveAs(dest))
	assert.Equal(t, overlay, diskContents(t, dest))
}

func TestVisibleSizeAccounting(t *testing.T) {
	e := newEditor(t, "ABCDEF", Options{})

	size, err := e.VisibleSize()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), size)

	require.NoError(t, e.Insert(0, 4, 0x00))
	require.NoError(t, e.Delete(0, 2))
	size, err = e.VisibleSize()
	require.NoError(t, err)
	assert.Equal(t, uint64(8), size)

	e.Undo()
	size, err = e.VisibleSize()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), size)
}

func TestEditHookRewritesBytes(t *testing.T) {
	events := event.NewManager()
	events.Subscribe(event.TypeEdit, func(ev event.Event) bool {
		data := ev.Data.(*event.EditData)
		data.Bytes = []byte("!!")
		return false
	})

	e := newEditor(t, "ABCDEF", Options{Events: events})
	e.Edit(1, []byte("xy"))

	assert.Equal(t, "A!!DEF", readAll(t, e, 6))
}

func TestFileSavedEvent(t *testing.T) {
	events := event.NewManager()
	var saved []string
	events.Subscribe(event.TypeFileSaved, func(ev event.Event) bool {
		saved = append(saved, ev.Data.(event.FileSavedData).Path)
		return false
	})

	e := newEditor(t, "AB", Options{Events: events})
	e.EditByte(0, 'Z')
	require.Equal(t, SaveSuccess, e.Save())
	require.Len(t, saved, 1)
	assert.Equal(t, e.Path(), saved[0])
}

func TestLockingExcludesSecondWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("AB"), 0o644))

	first, err := New(path, Options{})
	require.NoError(t, err)
	defer first.Close()

	_, err = New(path, Options{LockTimeout: 50 * time.Millisecond})
	require.ErrorIs(t, err, ErrLocked)

	// Read-only sessions do not take the lock.
	ro, err := New(path, Options{ReadOnly: true})
	require.NoError(t, err)
	ro.Close()
}

func TestReadPastEOF(t *testing.T) {
	e := newEditor(t, "AB", Options{})
	_, ok, err := e.Read(5)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, "AB", readAll(t, e, 100))
}

func TestReadOnlyEditorStillOverlays(t *testing.T) {
	e := newEditor(t, "ABC", Options{ReadOnly: true})
	assert.False(t, e.IsWritable())

	e.EditByte(0, 'z')
	assert.Equal(t, "zBC", readAll(t, e, 3))
}
