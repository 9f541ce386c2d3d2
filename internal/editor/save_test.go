package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/ebb/internal/mode"
)

func tmpFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var tmps []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			tmps = append(tmps, entry.Name())
		}
	}
	return tmps
}

func TestSaveAsRejectsBadFilenames(t *testing.T) {
	e := newEditor(t, "AB", Options{})
	assert.Equal(t, SaveInvalidFilename, e.SaveAs(""))
	assert.Equal(t, SaveInvalidFilename, e.SaveAs("."))
	assert.Equal(t, SaveInvalidFilename, e.SaveAs(".."))
	assert.Equal(t, SaveInvalidFilename, e.SaveAs("sub/.."))
}

func TestSaveAsRejectsMissingParent(t *testing.T) {
	e := newEditor(t, "AB", Options{})
	dest := filepath.Join(t.TempDir(), "missing", "out.bin")
	assert.Equal(t, SaveInvalidDestination, e.SaveAs(dest))
}

func TestSaveAsBareNameLandsNextToSource(t *testing.T) {
	e := newEditor(t, "AB", Options{})
	e.EditByte(0, 'Z')
	require.Equal(t, SaveSuccess, e.SaveAs("sibling.bin"))
	assert.Equal(t, "ZB", diskContents(t, filepath.Join(filepath.Dir(e.Path()), "sibling.bin")))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	e := newEditor(t, "ABCDEF", Options{})
	require.NoError(t, e.Insert(0, 2, 0xEE))
	require.Equal(t, SaveSuccess, e.Save())
	assert.Empty(t, tmpFiles(t, filepath.Dir(e.Path())))
}

func TestSaveClearsHistory(t *testing.T) {
	e := newEditor(t, "ABCDEF", Options{})
	e.EditByte(0, 'x')
	require.True(t, e.CanUndo())

	require.Equal(t, SaveSuccess, e.Save())
	assert.False(t, e.CanUndo())
	assert.Equal(t, "xBCDEF", readAll(t, e, 6))
}

func TestSaveSkipsUndoneActions(t *testing.T) {
	e := newEditor(t, "ABCDEF", Options{})
	e.EditByte(0, 'x')
	e.EditByte(1, 'y')
	e.Undo()

	require.Equal(t, SaveSuccess, e.Save())
	assert.Equal(t, "xBCDEF", diskContents(t, e.Path()))
}

func TestSpottySaveWritesWindowInPlace(t *testing.T) {
	e := newEditor(t, "ABCDEFG", Options{Mode: mode.Spotty(2, 5)})
	e.EditByte(0, 'X')
	e.EditByte(2, 'Y')

	require.Equal(t, SaveSuccess, e.Save())
	assert.Equal(t, "ABXDYFG", diskContents(t, e.Path()))
	// In-place writes never go through a temp file.
	assert.Empty(t, tmpFiles(t, filepath.Dir(e.Path())))
}

func TestSpottySaveAsRefused(t *testing.T) {
	e := newEditor(t, "ABCDEFG", Options{Mode: mode.Spotty(2, 5)})
	e.EditByte(0, 'X')
	assert.Equal(t, SaveInvalidMode, e.SaveAs(filepath.Join(t.TempDir(), "out.bin")))
}

func TestOpenPartialInsertAndSave(t *testing.T) {
	e := newEditor(t, "ABCDEFG", Options{Mode: mode.OpenPartial(2)})
	// Natural 0 is absolute 2; growing the tail is allowed here.
	require.NoError(t, e.Insert(1, 2, 0x2D))

	assert.Equal(t, "C--DEFG", readAll(t, e, 10))
	require.Equal(t, SaveSuccess, e.Save())
	assert.Equal(t, "ABC--DEFG", diskContents(t, e.Path()))
}

func TestSaveShrinkClampedAtZero(t *testing.T) {
	e := newEditor(t, "ABC", Options{})
	// Deleting more than the file holds must clamp, not underflow.
	require.NoError(t, e.Delete(0, 3))
	require.NoError(t, e.Delete(0, 2))

	require.Equal(t, SaveSuccess, e.Save())
	info, err := os.Stat(e.Path())
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestSaveOverwritesExistingDestination(t *testing.T) {
	e := newEditor(t, "NEW", Options{})
	dest := filepath.Join(filepath.Dir(e.Path()), "old.bin")
	require.NoError(t, os.WriteFile(dest, []byte("OLDCONTENT"), 0o644))

	require.Equal(t, SaveSuccess, e.SaveAs(dest))
	assert.Equal(t, "NEW", diskContents(t, dest))
}
