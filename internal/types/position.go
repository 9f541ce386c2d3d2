// internal/types/position.go
package types

// The three position flavors are distinct types on purpose. A Natural
// position is what callers address: the file as it appears through the
// currently applied actions. An Absolute position is an offset into the
// raw backing file, only produced by a view conversion. Mixing the two
// without converting is the classic bug in this kind of editor, so no
// arithmetic is defined between them.

// Natural is a zero-based byte index into the editable view.
type Natural uint64

// Absolute is a byte offset into the raw backing file. No arithmetic is
// defined on it; producing one goes through view.Convert.
type Absolute uint64

// Relative is a byte delta between two positions of the same flavor.
type Relative uint64

// Add moves the position forward by an offset.
func (n Natural) Add(r Relative) Natural {
	return n + Natural(r)
}

// Sub moves the position backward by an offset. The caller guarantees
// r <= n.
func (n Natural) Sub(r Relative) Natural {
	return n - Natural(r)
}

// Diff returns the offset from other up to n. The caller guarantees
// other <= n.
func (n Natural) Diff(other Natural) Relative {
	return Relative(n - other)
}

// RoundDown rounds the position down to a multiple of size. Used by the
// block cache to find the aligned block start.
func (n Natural) RoundDown(size uint64) Natural {
	return n - (n % Natural(size))
}
