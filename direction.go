package paint

import "strconv"

// CopyDirection selects the direction of a full-surface copy between the
// two canvas textures.
//
// The front texture holds what is displayed, including any uncommitted
// preview. The back texture holds the last committed artwork.
type CopyDirection uint8

const (
	// BackToFront discards the preview by restoring the committed artwork.
	BackToFront CopyDirection = iota

	// FrontToBack commits the front texture.
	FrontToBack
)

// String returns the direction name.
func (d CopyDirection) String() string {
	switch d {
	case BackToFront:
		return "BackToFront"
	case FrontToBack:
		return "FrontToBack"
	default:
		return "CopyDirection(" + strconv.Itoa(int(d)) + ")"
	}
}
