// Package interact implements the shape-editing state machine.
//
// A Machine turns pointer presses, pointer motion and the Enter, Escape
// and Delete keys into point-buffer edits and canvas operations. Positions
// are texture pixels; the caller converts window pixels first.
//
// Shapes are drawn in three states. Init waits for the first press, which
// seeds the point buffer. AddPoints tracks the pointer with the last point
// and previews the shape. EditPoints lets the user grab and move any point
// until the shape is committed with Enter or discarded with Escape.
//
// Preview works by restoring the committed artwork from the back texture
// and rasterizing the in-progress shape on top of it. Committing copies the
// front texture to the back.
package interact

// State is the editing state.
type State uint8

const (
	// StateInit waits for the first press of a shape.
	StateInit State = iota

	// StateAddPoints tracks the pointer with the last point.
	StateAddPoints

	// StateEditPoints allows grabbing and moving existing points.
	StateEditPoints
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateAddPoints:
		return "AddPoints"
	case StateEditPoints:
		return "EditPoints"
	default:
		return "Unknown"
	}
}
