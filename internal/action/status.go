// internal/action/status.go
package action

// Status is the result of doing, undoing or redoing an action. Anything
// other than StatusSuccess is some form of failure; callers check with
// `if log.Undo() != action.StatusSuccess { ... }`.
type Status int

const (
	StatusSuccess Status = iota
	StatusUnknownFailure
	// StatusNothing means there was nothing to undo or redo.
	StatusNothing
	// StatusUnable means the action at the cursor refuses to be undone
	// or redone.
	StatusUnable
	// StatusInvalidState means a partial undo of a bundle left the
	// world neither fully undone nor fully redone and recovery failed.
	StatusInvalidState
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUnknownFailure:
		return "unknown failure"
	case StatusNothing:
		return "nothing"
	case StatusUnable:
		return "unable"
	case StatusInvalidState:
		return "invalid state"
	}
	return "unknown"
}
