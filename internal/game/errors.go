package game

import "errors"

var (
	// ErrNotFound marks an unknown station, team, player or success id.
	ErrNotFound = errors.New("not found")
	// ErrIllegalTransition marks a neutralization or conquest that
	// violates the current-ownership precondition.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrStaleDeletion marks an undo whose target is not the latest
	// success of its station.
	ErrStaleDeletion = errors.New("stale deletion")
)

// PhaseError reports a success submitted outside the running window. It
// carries the phase so the console can tell "pending" from "finished".
type PhaseError struct {
	Phase Phase
}

func (e *PhaseError) Error() string {
	return "game is " + string(e.Phase)
}
