package paint

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ErrUnknownAction is returned when an action name or code is not recognized.
var ErrUnknownAction = errors.New("paint: unknown action")

// Action selects what a pointer press does on the canvas.
//
// The numeric value of an Action is part of the GPU binding contract: it is
// written verbatim into the shape and display uniform blocks and compared
// against the constants generated for the WGSL kernels. Never reorder the
// constants below.
type Action uint32

const (
	// ActionInit is the neutral action used to clear the canvas at startup.
	ActionInit Action = iota
	ActionDrawLine
	ActionDrawRectangle
	ActionDrawCircle
	// ActionDrawEllipse is reserved. It behaves as a single-shape action
	// but the kernels do not rasterize it yet.
	ActionDrawEllipse
	ActionDrawPolygon
	ActionErase
	ActionFill
	// ActionCutRectangle is reserved, see ActionDrawEllipse.
	ActionCutRectangle

	actionCount
)

var actionNames = [actionCount]string{
	ActionInit:          "Init",
	ActionDrawLine:      "DrawLine",
	ActionDrawRectangle: "DrawRectangle",
	ActionDrawCircle:    "DrawCircle",
	ActionDrawEllipse:   "DrawEllipse",
	ActionDrawPolygon:   "DrawPolygon",
	ActionErase:         "Erase",
	ActionFill:          "Fill",
	ActionCutRectangle:  "CutRectangle",
}

// Actions returns every defined action in encoding order.
func Actions() []Action {
	out := make([]Action, 0, actionCount)
	for a := range actionCount {
		out = append(out, a)
	}
	return out
}

// Valid reports whether a is a defined action.
func (a Action) Valid() bool { return a < actionCount }

// String returns the action name, e.g. "DrawLine".
func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Action(%d)", uint32(a))
	}
	return actionNames[a]
}

// SingleShape reports whether the action places exactly one shape defined
// by two points (line, rectangle, circle, ellipse, cut rectangle).
func (a Action) SingleShape() bool {
	switch a {
	case ActionDrawLine, ActionDrawRectangle, ActionDrawCircle, ActionDrawEllipse, ActionCutRectangle:
		return true
	}
	return false
}

// ConstName returns the identifier used for this action in generated
// shader constants, e.g. "ACTION_DRAW_LINE".
func (a Action) ConstName() string {
	name := a.String()
	var b strings.Builder
	b.WriteString("ACTION_")
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, uint32(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction parses an action name. Matching ignores case as well as
// '-', '_' and space separators, so "draw-line", "draw_line" and
// "DrawLine" are equivalent.
func ParseAction(s string) (Action, error) {
	key := normalizeActionName(s)
	for a, name := range actionNames {
		if normalizeActionName(name) == key {
			return Action(a), nil
		}
	}
	return ActionInit, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

func normalizeActionName(s string) string {
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	return cases.Fold().String(s)
}
