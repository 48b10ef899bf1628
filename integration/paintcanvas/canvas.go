// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package paintcanvas

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/internal/config"
	"github.com/gogpu/paint/internal/gpu"
	"github.com/gogpu/paint/internal/interact"
	"github.com/gogpu/paint/internal/params"
	"github.com/gogpu/paint/internal/pointbuf"
	"github.com/gogpu/paint/internal/transform"
)

// Common errors returned by Canvas operations.
var (
	// ErrNotReady is returned by every operation before Init succeeds.
	ErrNotReady = errors.New("paintcanvas: canvas is not initialized")

	// ErrAlreadyReady is returned by a second Init.
	ErrAlreadyReady = errors.New("paintcanvas: canvas is already initialized")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("paintcanvas: canvas is closed")

	// ErrInvalidDimensions is returned when the window size is not positive.
	ErrInvalidDimensions = errors.New("paintcanvas: invalid dimensions")
)

// engine is the GPU side of a Canvas. *gpu.Engine implements it.
type engine interface {
	interact.Canvas
	Points() *pointbuf.Buffer
	Params() params.Blocks
	TextureSize() (width, height int)
	Resize(width, height int) error
	Present(overlay gpu.Overlay) error
	RenderTo(view *wgpu.TextureView, overlay gpu.Overlay) error
	Snapshot() (*image.RGBA, error)
	Close()
}

// state is notReady, *ready or closed.
type state interface{ isState() }

type notReady struct{}

type closed struct{}

// ready holds everything that exists once the host window does.
type ready struct {
	eng      engine
	blocks   params.Blocks
	machine  *interact.Machine
	settings config.Settings

	window      transform.Size // logical pixels
	texture     transform.Size
	scaleFactor float64

	cursor     f32.Vec2 // last pointer position, window pixels
	panning    bool
	grabCursor f32.Vec2
	grabOffset f32.Vec2
	captured   bool // pointer belongs to the overlay
}

func (notReady) isState() {}
func (closed) isState()   {}
func (*ready) isState()   {}

// Canvas is the paint application context.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	o  options
	st state
}

// New returns a Canvas waiting for Init.
func New(opts ...Option) *Canvas {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Canvas{o: o, st: notReady{}}
}

// Ready reports whether Init succeeded and Close was not called.
func (c *Canvas) Ready() bool {
	_, ok := c.st.(*ready)
	return ok
}

func (c *Canvas) ready() (*ready, error) {
	switch st := c.st.(type) {
	case *ready:
		return st, nil
	case closed:
		return nil, ErrClosed
	default:
		return nil, ErrNotReady
	}
}

// Init creates the GPU engine for a window of the given logical size,
// clears the canvas to white and applies the settings. It succeeds at
// most once.
func (c *Canvas) Init(width, height int) error {
	switch c.st.(type) {
	case *ready:
		return ErrAlreadyReady
	case closed:
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	s := c.o.settings
	if err := s.Validate(); err != nil {
		return err
	}

	sf := 1.0
	if c.o.window != nil {
		sf = c.o.window.ScaleFactor()
	}
	opts := []gpu.Option{
		gpu.WithTextureSize(s.TextureWidth, s.TextureHeight),
		gpu.WithWindowSize(physical(width, sf), physical(height, sf)),
	}
	if c.o.window != nil {
		opts = append(opts, gpu.WithRedraw(c.o.window.RequestRedraw))
	}
	eng, err := c.o.open(append(opts, c.o.engineOpts...)...)
	if err != nil {
		return err
	}

	tw, th := eng.TextureSize()
	r := &ready{
		eng:         eng,
		blocks:      eng.Params(),
		settings:    s,
		window:      transform.SizeOf(width, height),
		texture:     transform.SizeOf(tw, th),
		scaleFactor: sf,
	}
	r.machine = interact.New(eng, eng.Points(), r.blocks.Shape)
	r.machine.Preview = s.Preview
	r.machine.Tolerance = s.GrabTolerance

	if err := r.clear(); err != nil {
		eng.Close()
		return err
	}
	r.blocks.Shape.Set(s.ShapeParams())
	if err := eng.Dispatch(); err != nil {
		eng.Close()
		return err
	}
	r.rescale()
	r.blocks.View.Update(func(v *params.ViewTransform) {
		v.Offset = f32.Vec2{s.Offset[0] * 0.01, s.Offset[1] * 0.01}
	})
	r.blocks.Display.Update(func(d *params.DisplayParams) {
		d.Action = s.Action
		d.Preview = s.Preview
	})
	c.st = r
	c.setCursor(gpucontext.CursorCrosshair)
	eng.RequestRedraw()

	paint.Logger().Info("paint: canvas ready",
		"window", fmt.Sprintf("%dx%d", width, height),
		"texture", fmt.Sprintf("%dx%d", tw, th),
		"scale_factor", sf,
	)
	return nil
}

// clear paints the whole canvas white and commits it.
func (r *ready) clear() error {
	p := r.settings.ShapeParams()
	p.Color = config.White.Vec4()
	p.Action = paint.ActionInit
	r.blocks.Shape.Set(p)
	if err := r.eng.Dispatch(); err != nil {
		return err
	}
	return r.eng.Copy(paint.FrontToBack)
}

// rescale recomputes the view scale for the current window and zoom, and
// the texel size used for handles.
func (r *ready) rescale() {
	scale := transform.ScaleForZoom(r.window, r.texture, r.settings.Zoom)
	r.blocks.View.Update(func(v *params.ViewTransform) { v.Scale = scale })
	r.blocks.Display.Update(func(d *params.DisplayParams) {
		d.GridScale = f32.Vec2{
			r.texture.Width / (r.window.Width * scale[0]),
			r.texture.Height / (r.window.Height * scale[1]),
		}
	})
}

// view returns the current view transform.
func (r *ready) view() transform.View {
	v := r.blocks.View.Get()
	return transform.View{Scale: v.Scale, Offset: v.Offset}
}

// toTexture maps a window position to texture pixels.
func (r *ready) toTexture(p f32.Vec2) f32.Vec2 {
	return transform.ToTexture(p, r.window, r.texture, r.view())
}

// Clear paints the canvas white, discarding the artwork and any shape in
// progress.
func (c *Canvas) Clear() error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	r.machine.Reset()
	shape := r.blocks.Shape.Get()
	if err := r.clear(); err != nil {
		return err
	}
	r.blocks.Shape.Set(shape)
	r.eng.RequestRedraw()
	return nil
}

// Render draws and presents one frame, then runs overlay in the same
// command encoder.
func (c *Canvas) Render(overlay gpu.Overlay) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	return r.eng.Present(overlay)
}

// RenderTo draws one frame into a view owned by the host.
func (c *Canvas) RenderTo(view *wgpu.TextureView, overlay gpu.Overlay) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	return r.eng.RenderTo(view, overlay)
}

// Snapshot returns the committed artwork with any previewed shape as an
// RGBA image of the texture size.
func (c *Canvas) Snapshot() (*image.RGBA, error) {
	r, err := c.ready()
	if err != nil {
		return nil, err
	}
	return r.eng.Snapshot()
}

// Resize handles a window resize to a logical size. Zero sizes (minimized
// windows) are ignored.
func (c *Canvas) Resize(width, height int) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	if err := r.eng.Resize(physical(width, r.scaleFactor), physical(height, r.scaleFactor)); err != nil {
		return err
	}
	r.window = transform.SizeOf(width, height)
	r.rescale()
	r.blocks.View.Update(func(v *params.ViewTransform) {
		v.Offset = f32.Vec2{r.settings.Offset[0] * 0.01, r.settings.Offset[1] * 0.01}
	})
	r.eng.RequestRedraw()
	return nil
}

// HandleScaleFactorChange records a new DPI scale factor and resizes the
// frame to match. Overlays read it through ScaleFactor.
func (c *Canvas) HandleScaleFactorChange(f float64) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	if f <= 0 {
		return fmt.Errorf("%w: scale factor %v", ErrInvalidDimensions, f)
	}
	r.scaleFactor = f
	w, h := int(r.window.Width), int(r.window.Height)
	if err := r.eng.Resize(physical(w, f), physical(h, f)); err != nil {
		return err
	}
	r.eng.RequestRedraw()
	return nil
}

// ScaleFactor returns the current DPI scale factor, or 1 before Init.
func (c *Canvas) ScaleFactor() float64 {
	if r, err := c.ready(); err == nil {
		return r.scaleFactor
	}
	return 1
}

// State returns the editing state.
func (c *Canvas) State() (interact.State, error) {
	r, err := c.ready()
	if err != nil {
		return interact.StateInit, err
	}
	return r.machine.State(), nil
}

// Points returns a copy of the points of the shape in progress.
func (c *Canvas) Points() ([]f32.Vec2, error) {
	r, err := c.ready()
	if err != nil {
		return nil, err
	}
	return r.eng.Points().Points(), nil
}

// Settings returns the current panel settings.
func (c *Canvas) Settings() config.Settings {
	if r, err := c.ready(); err == nil {
		return r.settings
	}
	return c.o.settings
}

// Close releases the engine. Close is idempotent.
func (c *Canvas) Close() {
	if r, ok := c.st.(*ready); ok {
		r.eng.Close()
	}
	c.st = closed{}
}

func (c *Canvas) setCursor(shape gpucontext.CursorShape) {
	if c.o.platform != nil {
		c.o.platform.SetCursor(shape)
	}
}

// report delivers an error from an event callback.
func (c *Canvas) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ErrNotReady) {
		paint.Logger().Warn("paint: event before init ignored")
		return
	}
	if c.o.onError != nil {
		c.o.onError(err)
		return
	}
	paint.Logger().Error("paint: event failed", "err", err)
}

func physical(logical int, scale float64) int {
	return max(int(float64(logical)*scale+0.5), 1)
}
