// Package mode describes what an editor session is allowed to do with
// its file. Some operations cannot be done reasonably in certain
// situations: a window into the middle of a file cannot grow or
// shrink, and a spotty file must never be rewritten outside the bytes
// the caller was given.
package mode

import (
	"fmt"

	"github.com/bethropolis/ebb/internal/types"
)

// Kind selects one of the four closed mode variants.
type Kind int

const (
	// KindWhole edits the entire file; insertion, deletion and
	// whole-file save are all allowed.
	KindWhole Kind = iota
	// KindPartial edits a [start, end) window; no insertion or
	// deletion, save rewrites the whole file.
	KindPartial
	// KindOpenPartial edits [start, end-of-file); insertion and
	// deletion are allowed since nothing follows the window.
	KindOpenPartial
	// KindSpotty edits a [start, end) window of a file that must not
	// be read or written outside those bounds; save writes only the
	// window back in place.
	KindSpotty
)

// SaveMode is how a save materializes.
type SaveMode int

const (
	// SaveWhole rewrites the entire file via the temp-file swap.
	SaveWhole SaveMode = iota
	// SavePartial writes only the window back in place.
	SavePartial
)

// Info is the tagged mode variant carried by an editor.
type Info struct {
	kind       Kind
	start, end types.Absolute
	hasStart   bool
	hasEnd     bool
}

// Whole returns the unrestricted mode.
func Whole() Info {
	return Info{kind: KindWhole}
}

// Partial returns a windowed mode over [start, end).
func Partial(start, end types.Absolute) Info {
	return Info{kind: KindPartial, start: start, end: end, hasStart: true, hasEnd: true}
}

// OpenPartial returns a mode over [start, end-of-file).
func OpenPartial(start types.Absolute) Info {
	return Info{kind: KindOpenPartial, start: start, hasStart: true}
}

// Spotty returns a windowed mode whose save never leaves [start, end).
func Spotty(start, end types.Absolute) Info {
	return Info{kind: KindSpotty, start: start, end: end, hasStart: true, hasEnd: true}
}

// Kind returns the variant tag.
func (i Info) Kind() Kind {
	return i.kind
}

// Start returns the window start, if the mode has one.
func (i Info) Start() (types.Absolute, bool) {
	return i.start, i.hasStart
}

// End returns the window end, if the mode has one.
func (i Info) End() (types.Absolute, bool) {
	return i.end, i.hasEnd
}

// StartPtr and EndPtr adapt the bounds to the view's optional form.
func (i Info) StartPtr() *types.Absolute {
	if !i.hasStart {
		return nil
	}
	s := i.start
	return &s
}

func (i Info) EndPtr() *types.Absolute {
	if !i.hasEnd {
		return nil
	}
	e := i.end
	return &e
}

// SupportsInsertion reports whether inserting bytes is legal.
func (i Info) SupportsInsertion() bool {
	switch i.kind {
	case KindWhole, KindOpenPartial:
		return true
	}
	return false
}

// SupportsDeletion reports whether deleting bytes is legal.
func (i Info) SupportsDeletion() bool {
	switch i.kind {
	case KindWhole, KindOpenPartial:
		return true
	}
	return false
}

// SaveMode returns how a save should materialize in this mode.
func (i Info) SaveMode() SaveMode {
	if i.kind == KindSpotty {
		return SavePartial
	}
	return SaveWhole
}

func (i Info) String() string {
	switch i.kind {
	case KindWhole:
		return "whole"
	case KindPartial:
		return fmt.Sprintf("partial[%d,%d)", i.start, i.end)
	case KindOpenPartial:
		return fmt.Sprintf("open-partial[%d,eof)", i.start)
	case KindSpotty:
		return fmt.Sprintf("spotty[%d,%d)", i.start, i.end)
	}
	return "unknown"
}
