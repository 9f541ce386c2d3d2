// internal/event/event.go
package event

import "github.com/bethropolis/ebb/internal/types"

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	// TypeEdit fires before an edit is recorded in the action log. The
	// payload is a *EditData; handlers may rewrite Bytes and the
	// replacement is what gets stored.
	TypeEdit

	// Lifecycle events.
	TypeFileOpened // Fired after the backing file is opened
	TypeFileSaved  // Fired after a save materializes successfully
	TypeUndo       // Fired after a successful undo
	TypeRedo       // Fired after a successful redo
)

// Event is the structure passed through the event bus.
type Event struct {
	Type Type        // The kind of event
	Data interface{} // Payload carrying event-specific data
}

// --- Specific Event Data Structures ---

// EditData is the mutable payload of a TypeEdit event. Bytes is the
// buffer about to be recorded; a handler may modify it in place or
// replace it entirely, and the buffer left behind is what the editor
// stores.
type EditData struct {
	Position types.Natural
	Bytes    []byte
}

// FileOpenedData describes the newly opened file.
type FileOpenedData struct {
	Path     string
	Writable bool
}

// FileSavedData describes the destination a save landed in.
type FileSavedData struct {
	Path string
}
