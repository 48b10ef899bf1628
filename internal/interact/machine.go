package interact

import (
	"errors"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/internal/params"
	"github.com/gogpu/paint/internal/pointbuf"
)

// Canvas is the GPU side the machine drives. *gpu.Engine implements it.
type Canvas interface {
	// Copy copies one canvas texture over the other.
	Copy(dir paint.CopyDirection) error
	// Dispatch rasterizes the point buffer into the front texture.
	Dispatch() error
	// Fill flood-fills the front texture from (x, y) with an RGBA color.
	Fill(x, y int, c [4]byte) (int, error)
	// RequestRedraw asks the host for a new frame.
	RequestRedraw()
}

// Default grab tolerance, in texture pixels.
const DefaultTolerance = 10

// noGrab marks the absence of a grabbed point.
const noGrab = -1

// Machine is the shape-editing state machine.
//
// The current action and color are read from the shape parameters on
// every event, so panel changes take effect immediately.
//
// Machine is NOT safe for concurrent use.
type Machine struct {
	canvas Canvas
	points *pointbuf.Buffer
	shape  *params.Block[params.ShapeParams]

	state   State
	grabbed int

	// Preview rasterizes the in-progress shape on every change.
	Preview bool

	// Tolerance is the per-axis distance within which a press grabs a point.
	Tolerance float32
}

// New returns a machine in StateInit with preview on.
func New(c Canvas, points *pointbuf.Buffer, shape *params.Block[params.ShapeParams]) *Machine {
	return &Machine{
		canvas:    c,
		points:    points,
		shape:     shape,
		grabbed:   noGrab,
		Preview:   true,
		Tolerance: DefaultTolerance,
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Grabbed returns the index of the grabbed point, if any.
func (m *Machine) Grabbed() (int, bool) {
	return m.grabbed, m.grabbed != noGrab
}

// Action returns the current action.
func (m *Machine) Action() paint.Action {
	return m.shape.Get().Action
}

// Press handles a primary button press at texture position p.
func (m *Machine) Press(p f32.Vec2) error {
	action := m.Action()
	if action == paint.ActionFill {
		return m.fill(p)
	}

	switch m.state {
	case StateInit:
		m.points.Seed(p)
		m.setState(StateAddPoints)

	case StateAddPoints:
		switch {
		case action.SingleShape():
			m.setState(StateEditPoints)
		case action == paint.ActionErase:
			m.points.Shift(p)
		case action == paint.ActionDrawPolygon:
			if err := m.points.Push(p); err != nil {
				if errors.Is(err, pointbuf.ErrFull) {
					paint.Logger().Warn("paint: polygon point dropped", "len", m.points.Len())
					return nil
				}
				return err
			}
		}

	case StateEditPoints:
		if m.grabbed != noGrab {
			m.grabbed = noGrab
			return nil
		}
		if i, ok := m.points.Nearest(p, m.Tolerance); ok {
			m.grabbed = i
		}
	}
	return nil
}

// Move handles pointer motion to texture position p.
func (m *Machine) Move(p f32.Vec2) error {
	switch m.state {
	case StateAddPoints:
		m.points.ReplaceLast(p)
	case StateEditPoints:
		if m.grabbed == noGrab {
			return nil
		}
		if err := m.points.Set(m.grabbed, p); err != nil {
			return err
		}
	default:
		return nil
	}
	return m.refresh()
}

// Retrack moves the tracking point to p after the view changed under a
// still pointer (zoom). It only acts in StateAddPoints; grabbed points
// keep their texture position.
func (m *Machine) Retrack(p f32.Vec2) error {
	if m.state != StateAddPoints {
		return nil
	}
	m.points.ReplaceLast(p)
	return m.refresh()
}

// Enter commits the shape. A polygon in StateAddPoints first moves to
// StateEditPoints; the next Enter commits it.
func (m *Machine) Enter() error {
	action := m.Action()
	switch {
	case action.SingleShape():
		if m.state == StateInit {
			return nil
		}
	case action == paint.ActionDrawPolygon:
		switch m.state {
		case StateInit:
			return nil
		case StateAddPoints:
			m.setState(StateEditPoints)
			return nil
		}
	default:
		return nil
	}
	return m.commit()
}

// Escape discards the shape in progress and restores the committed
// artwork.
func (m *Machine) Escape() error {
	return m.cancel()
}

// Delete discards a single shape, or removes the grabbed polygon point.
// Removing the third point of a polygon discards the whole polygon.
func (m *Machine) Delete() error {
	if m.state == StateInit {
		return nil
	}
	action := m.Action()
	switch {
	case action.SingleShape():
		return m.cancel()
	case action == paint.ActionDrawPolygon:
		if m.grabbed == noGrab {
			return nil
		}
		if m.grabbed == 2 {
			return m.cancel()
		}
		if err := m.points.Remove(m.grabbed); err != nil {
			return err
		}
		m.grabbed--
		return m.refresh()
	}
	return nil
}

// Reset drops the shape in progress without touching the canvas.
func (m *Machine) Reset() {
	m.points.Reset()
	m.setState(StateInit)
}

// refresh previews the shape if enabled and requests a redraw.
func (m *Machine) refresh() error {
	if m.Preview {
		if err := m.canvas.Copy(paint.BackToFront); err != nil {
			return err
		}
		if err := m.canvas.Dispatch(); err != nil {
			return err
		}
	}
	m.canvas.RequestRedraw()
	return nil
}

// commit rasterizes the shape into the front texture and keeps it.
func (m *Machine) commit() error {
	if err := m.canvas.Dispatch(); err != nil {
		return err
	}
	if err := m.canvas.Copy(paint.FrontToBack); err != nil {
		return err
	}
	m.points.Reset()
	m.canvas.RequestRedraw()
	m.setState(StateInit)
	paint.Logger().Debug("paint: shape committed", "action", m.Action())
	return nil
}

// cancel clears the point buffer and restores the committed artwork.
func (m *Machine) cancel() error {
	m.points.Reset()
	m.setState(StateInit)
	if err := m.canvas.Copy(paint.BackToFront); err != nil {
		return err
	}
	if err := m.canvas.Dispatch(); err != nil {
		return err
	}
	if err := m.canvas.Copy(paint.FrontToBack); err != nil {
		return err
	}
	m.canvas.RequestRedraw()
	return nil
}

func (m *Machine) fill(p f32.Vec2) error {
	if p[0] < 0 || p[1] < 0 {
		return nil
	}
	n, err := m.canvas.Fill(int(p[0]), int(p[1]), ColorBytes(m.shape.Get().Color))
	if err != nil {
		return err
	}
	if err := m.canvas.Copy(paint.FrontToBack); err != nil {
		return err
	}
	paint.Logger().Debug("paint: filled", "x", p[0], "y", p[1], "pixels", n)
	m.canvas.RequestRedraw()
	return nil
}

// setState switches state. The grabbed point is released on every
// transition out of StateEditPoints.
func (m *Machine) setState(s State) {
	if s != StateEditPoints {
		m.grabbed = noGrab
	}
	m.state = s
}

// ColorBytes converts a normalized color to 8-bit RGBA, clamping each
// channel to [0,1].
func ColorBytes(c f32.Vec4) [4]byte {
	var out [4]byte
	for i, v := range c {
		out[i] = byte(math32.Round(math32.Min(math32.Max(v, 0), 1) * 255))
	}
	return out
}
