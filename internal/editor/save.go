// internal/editor/save.go
package editor

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bethropolis/ebb/internal/event"
	"github.com/bethropolis/ebb/internal/logger"
	"github.com/bethropolis/ebb/internal/mode"
	"github.com/bethropolis/ebb/internal/rawfile"
	"github.com/bethropolis/ebb/internal/view"
)

// SaveStatus is the outcome of Save and SaveAs. Save reports through a
// status rather than an error because most non-success cases (bad
// filename, wrong mode) are ordinary answers, not exceptional ones.
type SaveStatus int

const (
	SaveSuccess SaveStatus = iota
	// SaveInvalidFilename means the destination name was ill-formed,
	// for instance empty or a bare "." or "..".
	SaveInvalidFilename
	// SaveInvalidDestination means the destination's parent directory
	// does not exist.
	SaveInvalidDestination
	// SaveInsufficientPermissions means the filesystem refused us.
	SaveInsufficientPermissions
	// SaveTempFileIterationLimit means no free temp filename was found
	// within the iteration limit. May be a sign of a bug.
	SaveTempFileIterationLimit
	// SaveInvalidMode means the mode does not support this kind of save.
	SaveInvalidMode
	// SaveUnknownFailure covers I/O errors during the pipeline.
	SaveUnknownFailure
)

func (s SaveStatus) String() string {
	switch s {
	case SaveSuccess:
		return "success"
	case SaveInvalidFilename:
		return "invalid filename"
	case SaveInvalidDestination:
		return "invalid destination"
	case SaveInsufficientPermissions:
		return "insufficient permissions"
	case SaveTempFileIterationLimit:
		return "temp filename iteration limit"
	case SaveInvalidMode:
		return "invalid mode"
	case SaveUnknownFailure:
		return "unknown failure"
	}
	return "unknown"
}

const saveMaxTempIterations = 10

// Save materializes the pending actions. Whole-file modes rewrite the
// file through the temp-swap pipeline; spotty mode writes the edits
// straight into the open window since rewriting the rest of the file
// would be wrong there.
func (e *Editor) Save() SaveStatus {
	switch e.mode.SaveMode() {
	case mode.SaveWhole:
		return e.saveAsFile(e.view.Path())
	case mode.SavePartial:
		return e.savePartial()
	}
	return SaveInvalidMode
}

// SaveAs writes the result to a different destination. Spotty mode
// refuses: only the window is writable, so there is no whole file to
// put anywhere else.
func (e *Editor) SaveAs(dest string) SaveStatus {
	switch e.mode.SaveMode() {
	case mode.SaveWhole:
		return e.saveAsFile(dest)
	case mode.SavePartial:
		return SaveInvalidMode
	}
	return SaveInvalidMode
}

// savePartial replays the actions directly against the open view.
// The mode has already forbidden insertion and deletion, so the file
// never changes size.
func (e *Editor) savePartial() SaveStatus {
	if err := e.log.Save(e.view.File(), e.view.Start()); err != nil {
		logger.Errorf("editor: partial save failed: %v", err)
		return SaveUnknownFailure
	}
	e.cache.Clear()
	e.events.Dispatch(event.TypeFileSaved, event.FileSavedData{Path: e.view.Path()})
	return SaveSuccess
}

// saveAsFile is the whole-file pipeline: copy the source to a temp
// file next to the destination, make room, replay the actions, cut the
// result to size, and rename into place. The rename is the commit
// point; everything before it leaves the destination untouched.
func (e *Editor) saveAsFile(initialDest string) SaveStatus {
	if initialDest == "" {
		return SaveInvalidFilename
	}
	dest := filepath.Clean(initialDest)

	name := filepath.Base(dest)
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return SaveInvalidFilename
	}

	// A bare filename saves next to the file being edited.
	if filepath.Dir(dest) == "." {
		dest = filepath.Join(filepath.Dir(e.view.Path()), dest)
	}

	parent := filepath.Dir(dest)
	if info, err := os.Stat(parent); err != nil || !info.IsDir() {
		return SaveInvalidDestination
	}

	previousSize, err := e.view.Size()
	if err != nil {
		logger.Errorf("editor: sizing source for save: %v", err)
		return SaveUnknownFailure
	}
	resultSigned := int64(previousSize) + e.log.SizeDelta()
	if resultSigned < 0 {
		logger.Warnf("editor: save would shrink below zero (%d), clamping", resultSigned)
		resultSigned = 0
	}
	resultSize := uint64(resultSigned)
	largest := previousSize
	if resultSize > largest {
		largest = resultSize
	}

	tempPath, ok := generateTempPath(dest)
	if !ok {
		return SaveTempFileIterationLimit
	}

	status := e.writeTemp(tempPath, largest, resultSize)
	if status != SaveSuccess {
		// Never leave a stray temp file behind.
		os.Remove(tempPath)
		return status
	}

	if err := os.Rename(tempPath, dest); err != nil {
		os.Remove(tempPath)
		if os.IsPermission(err) {
			return SaveInsufficientPermissions
		}
		logger.Errorf("editor: renaming %s to %s: %v", tempPath, dest, err)
		return SaveUnknownFailure
	}

	e.log.Clear()
	e.cache.Clear()

	// The rename put a new file at the view's path; reopen it so later
	// reads and saves see the saved bytes instead of the replaced inode.
	if dest == e.view.Path() {
		reopened, err := view.Open(dest, e.mode.StartPtr(), e.mode.EndPtr(), e.view.Writable())
		if err != nil {
			logger.Errorf("editor: reopening %s after save: %v", dest, err)
			return SaveUnknownFailure
		}
		e.view.Close()
		*e.view = *reopened
	}
	logger.Infof("editor: saved %s (%d bytes)", dest, resultSize)
	e.events.Dispatch(event.TypeFileSaved, event.FileSavedData{Path: dest})
	return SaveSuccess
}

// writeTemp copies the source into tempPath and replays the log there.
func (e *Editor) writeTemp(tempPath string, largest, resultSize uint64) SaveStatus {
	if status := e.copySource(tempPath); status != SaveSuccess {
		return status
	}

	// Grow to whichever of the before/after sizes is larger so the
	// in-place shifts always have room; trailing bytes are cut below.
	if err := os.Truncate(tempPath, int64(largest)); err != nil {
		logger.Errorf("editor: resizing temp file: %v", err)
		return SaveUnknownFailure
	}

	tmp, err := rawfile.Open(tempPath, true)
	if err != nil {
		return SaveUnknownFailure
	}
	defer tmp.Close()

	if err := e.log.Materialize(tmp, e.view.Start()); err != nil {
		logger.Errorf("editor: replaying actions into temp file: %v", err)
		return SaveUnknownFailure
	}

	if err := tmp.Resize(resultSize); err != nil {
		return SaveUnknownFailure
	}
	if err := tmp.Sync(); err != nil {
		return SaveUnknownFailure
	}
	return SaveSuccess
}

func (e *Editor) copySource(tempPath string) SaveStatus {
	src, err := os.Open(e.view.Path())
	if err != nil {
		if os.IsPermission(err) {
			return SaveInsufficientPermissions
		}
		return SaveUnknownFailure
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return SaveUnknownFailure
	}

	dst, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if os.IsPermission(err) {
			return SaveInsufficientPermissions
		}
		return SaveUnknownFailure
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return SaveUnknownFailure
	}
	return SaveSuccess
}

// generateTempPath picks "<name>.<8 hex chars>.tmp" in dest's directory,
// retrying a bounded number of times when the candidate already exists.
func generateTempPath(dest string) (string, bool) {
	parent := filepath.Dir(dest)
	name := filepath.Base(dest)

	for i := 0; i < saveMaxTempIterations; i++ {
		var buf [4]byte
		if _, err := rand.Read(buf[:]); err != nil {
			continue
		}
		candidate := filepath.Join(parent, fmt.Sprintf("%s.%s.tmp", name, hex.EncodeToString(buf[:])))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, true
		}
	}
	return "", false
}
