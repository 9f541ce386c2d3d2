// internal/action/log.go
package action

import (
	"github.com/bethropolis/ebb/internal/logger"
	"github.com/bethropolis/ebb/internal/rawfile"
	"github.com/bethropolis/ebb/internal/types"
)

// Log is the ordered edit history with a cursor separating applied
// actions from redoable ones. With actions {Alpha, Beta} and an index
// of 1, Alpha is applied and Beta is not; index 2 means both are.
type Log struct {
	actions []Action
	index   int
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// HasApplied reports whether anything can be undone.
func (l *Log) HasApplied() bool {
	return l.index > 0
}

// HasUnapplied reports whether anything can be redone.
func (l *Log) HasUnapplied() bool {
	return l.index < len(l.actions)
}

// CanUndo reports whether the newest applied action accepts an undo.
func (l *Log) CanUndo() bool {
	return l.HasApplied() && l.actions[l.index-1].CanUndo()
}

// CanRedo reports whether the oldest unapplied action accepts a redo.
func (l *Log) CanRedo() bool {
	return l.HasUnapplied() && l.actions[l.index].CanRedo()
}

// Len returns the total number of recorded actions.
func (l *Log) Len() int {
	return len(l.actions)
}

// AppliedLen returns the cursor position.
func (l *Log) AppliedLen() int {
	return l.index
}

// Do records a new action: the redoable tail is dropped, the action is
// appended, and it is applied through the same Redo path later redos
// take.
func (l *Log) Do(a Action) Status {
	l.ClearUnapplied()
	l.actions = append(l.actions, a)
	l.index++
	return l.actions[l.index-1].Redo()
}

// Undo steps the cursor back one action.
func (l *Log) Undo() Status {
	if !l.HasApplied() {
		return StatusNothing
	}
	if !l.CanUndo() {
		return StatusUnable
	}
	// Decrement first; the action to undo sits one behind the cursor.
	l.index--
	return l.actions[l.index].Undo()
}

// Redo reapplies the action at the cursor.
func (l *Log) Redo() Status {
	if !l.HasUnapplied() {
		return StatusNothing
	}
	if !l.CanRedo() {
		return StatusUnable
	}
	l.index++
	return l.actions[l.index-1].Redo()
}

// ClearUnapplied drops the redoable tail.
func (l *Log) ClearUnapplied() {
	if l.HasUnapplied() {
		l.actions = l.actions[:l.index]
	}
}

// Clear empties the log entirely. Called after a save consumes it.
func (l *Log) Clear() {
	l.actions = l.actions[:0]
	l.index = 0
}

// ReadFromStorage walks the applied actions newest to oldest. Each one
// either answers the read outright or rewrites the position to what an
// older layer should be asked; a position surviving every layer is the
// right place to read in the backing file. Unapplied actions do not
// participate: an undone edit must not shadow the read.
func (l *Log) ReadFromStorage(pos types.Natural) (byte, types.Natural, bool) {
	for i := l.index - 1; i >= 0; i-- {
		b, out, served := l.actions[i].ReversePosition(pos)
		if served {
			return b, 0, true
		}
		pos = out
	}
	return 0, pos, false
}

// SizeDelta sums the size change of the applied actions.
func (l *Log) SizeDelta() int64 {
	var sum int64
	for i := 0; i < l.index; i++ {
		sum += l.actions[i].SizeDelta()
	}
	return sum
}

// Materialize replays the applied actions in order into f without
// touching the log. base is the window start of the view the positions
// are relative to.
func (l *Log) Materialize(f *rawfile.File, base types.Absolute) error {
	for i := 0; i < l.index; i++ {
		if err := l.actions[i].Materialize(f, base); err != nil {
			return err
		}
	}
	logger.Debugf("action log: materialized %d action(s)", l.index)
	return nil
}

// Save materializes the applied actions into f, then clears the log.
// The save pipeline uses Materialize directly so a failed rename does
// not lose the history.
func (l *Log) Save(f *rawfile.File, base types.Absolute) error {
	if err := l.Materialize(f, base); err != nil {
		return err
	}
	l.Clear()
	return nil
}
