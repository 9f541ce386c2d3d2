// Package action holds the edit history of an editor: the four action
// kinds, and the log that orders them and answers reads through the
// overlay they form.
//
// An action never touches the disk until save. Until then it only knows
// how to translate a read position "back" through itself: either the
// action owns the byte (an edit or the fill of an insertion) and
// answers directly, or it rewrites the position to the coordinate an
// older layer should be asked about.
package action

import (
	"github.com/bethropolis/ebb/internal/rawfile"
	"github.com/bethropolis/ebb/internal/types"
)

// InsertionFill is the byte value an insertion gap reads as before any
// edit overwrites it.
const InsertionFill byte = 0x00

// Action is one reversible entry in the edit history.
type Action interface {
	CanUndo() bool
	CanRedo() bool
	Undo() Status
	Redo() Status

	// ReversePosition translates a natural read position back through
	// this action. When served is true the byte came straight from the
	// action; otherwise pos is the position to ask the next-older
	// layer about.
	ReversePosition(pos types.Natural) (b byte, out types.Natural, served bool)

	// SizeDelta is the change in visible file size this action causes.
	SizeDelta() int64

	// Materialize applies the action to an open raw file. base is the
	// window start of the view the action's positions are relative to.
	Materialize(f *rawfile.File, base types.Absolute) error
}

// Edit replaces len(Data) bytes starting at Position.
type Edit struct {
	Position types.Natural
	Data     []byte
}

// NewEdit builds an edit action. The data slice is owned by the action
// afterwards.
func NewEdit(pos types.Natural, data []byte) *Edit {
	return &Edit{Position: pos, Data: data}
}

func (e *Edit) CanUndo() bool { return true }
func (e *Edit) CanRedo() bool { return true }

// The three basic actions exist to store data; applying them is a
// matter of where the log cursor sits, so undo and redo have no work.
func (e *Edit) Undo() Status { return StatusSuccess }
func (e *Edit) Redo() Status { return StatusSuccess }

func (e *Edit) ReversePosition(pos types.Natural) (byte, types.Natural, bool) {
	if len(e.Data) == 0 {
		return 0, pos, false
	}
	if pos >= e.Position && pos < e.Position.Add(types.Relative(len(e.Data))) {
		return e.Data[pos.Diff(e.Position)], 0, true
	}
	return 0, pos, false
}

func (e *Edit) SizeDelta() int64 { return 0 }

func (e *Edit) Materialize(f *rawfile.File, base types.Absolute) error {
	return f.WriteAt(uint64(base)+uint64(e.Position), e.Data)
}

// Insertion inserts Amount fill bytes before Position. Chunk is the
// shift chunk used at materialization time; zero means the default.
type Insertion struct {
	Position types.Natural
	Amount   uint64
	Chunk    uint64
}

func NewInsertion(pos types.Natural, amount uint64) *Insertion {
	return &Insertion{Position: pos, Amount: amount}
}

func (i *Insertion) CanUndo() bool { return true }
func (i *Insertion) CanRedo() bool { return true }
func (i *Insertion) Undo() Status  { return StatusSuccess }
func (i *Insertion) Redo() Status  { return StatusSuccess }

func (i *Insertion) ReversePosition(pos types.Natural) (byte, types.Natural, bool) {
	if pos >= i.Position && pos < i.Position.Add(types.Relative(i.Amount)) {
		return InsertionFill, 0, true
	}
	if pos >= i.Position {
		// Past the gap: older layers never saw the inserted bytes.
		return 0, pos.Sub(types.Relative(i.Amount)), false
	}
	return 0, pos, false
}

func (i *Insertion) SizeDelta() int64 { return int64(i.Amount) }

func (i *Insertion) Materialize(f *rawfile.File, base types.Absolute) error {
	return f.InsertZero(uint64(base)+uint64(i.Position), i.Amount, chunkOrDefault(i.Chunk))
}

// Deletion removes Amount bytes starting at Position. Chunk is as on
// Insertion.
type Deletion struct {
	Position types.Natural
	Amount   uint64
	Chunk    uint64
}

func NewDeletion(pos types.Natural, amount uint64) *Deletion {
	return &Deletion{Position: pos, Amount: amount}
}

func (d *Deletion) CanUndo() bool { return true }
func (d *Deletion) CanRedo() bool { return true }
func (d *Deletion) Undo() Status  { return StatusSuccess }
func (d *Deletion) Redo() Status  { return StatusSuccess }

func (d *Deletion) ReversePosition(pos types.Natural) (byte, types.Natural, bool) {
	if pos >= d.Position {
		// Everything at or after the cut reads from beyond it.
		return 0, pos.Add(types.Relative(d.Amount)), false
	}
	return 0, pos, false
}

func (d *Deletion) SizeDelta() int64 { return -int64(d.Amount) }

func (d *Deletion) Materialize(f *rawfile.File, base types.Absolute) error {
	// The trailing garbage left behind is cut by the save pipeline's
	// final resize, so several deletions truncate only once.
	return f.ShiftDelete(uint64(base)+uint64(d.Position), d.Amount, chunkOrDefault(d.Chunk))
}

func chunkOrDefault(chunk uint64) uint64 {
	if chunk == 0 {
		return rawfile.DefaultChunkSize
	}
	return chunk
}

// Bundled groups actions into one atomic history entry. Reads consult
// children newest-first, exactly like the log itself.
type Bundled struct {
	Children []Action
}

func NewBundled(children ...Action) *Bundled {
	return &Bundled{Children: children}
}

func (b *Bundled) CanUndo() bool {
	for _, c := range b.Children {
		if !c.CanUndo() {
			// One child refusing blocks the whole bundle.
			return false
		}
	}
	return true
}

func (b *Bundled) CanRedo() bool {
	for _, c := range b.Children {
		if !c.CanRedo() {
			return false
		}
	}
	return true
}

// Undo unwinds the children in reverse order. A child failing midway
// is rolled forward again; if that recovery also fails the bundle is
// stuck between states.
func (b *Bundled) Undo() Status {
	if !b.CanUndo() {
		return StatusUnable
	}
	for i := len(b.Children) - 1; i >= 0; i-- {
		if st := b.Children[i].Undo(); st != StatusSuccess {
			for j := i + 1; j < len(b.Children); j++ {
				if rst := b.Children[j].Redo(); rst != StatusSuccess {
					return StatusInvalidState
				}
			}
			return st
		}
	}
	return StatusSuccess
}

// Redo reapplies the children in forward order.
func (b *Bundled) Redo() Status {
	if !b.CanRedo() {
		return StatusUnable
	}
	for i := 0; i < len(b.Children); i++ {
		if st := b.Children[i].Redo(); st != StatusSuccess {
			for j := i - 1; j >= 0; j-- {
				if ust := b.Children[j].Undo(); ust != StatusSuccess {
					return StatusInvalidState
				}
			}
			return st
		}
	}
	return StatusSuccess
}

func (b *Bundled) ReversePosition(pos types.Natural) (byte, types.Natural, bool) {
	for i := len(b.Children) - 1; i >= 0; i-- {
		bt, out, served := b.Children[i].ReversePosition(pos)
		if served {
			return bt, 0, true
		}
		pos = out
	}
	return 0, pos, false
}

func (b *Bundled) SizeDelta() int64 {
	var sum int64
	for _, c := range b.Children {
		sum += c.SizeDelta()
	}
	return sum
}

func (b *Bundled) Materialize(f *rawfile.File, base types.Absolute) error {
	for _, c := range b.Children {
		if err := c.Materialize(f, base); err != nil {
			return err
		}
	}
	return nil
}
