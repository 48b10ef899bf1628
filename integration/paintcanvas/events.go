// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package paintcanvas

import (
	"github.com/gogpu/gpucontext"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/paint/internal/params"
	"github.com/gogpu/paint/internal/transform"
)

// Bind installs the canvas event handlers on src. Gesture events are used
// when src also implements gpucontext.GestureEventSource. Handler errors
// go to the error handler set with WithErrorHandler.
func (c *Canvas) Bind(src gpucontext.EventSource) {
	src.OnMouseMove(func(x, y float64) { c.report(c.PointerMove(x, y)) })
	src.OnMousePress(func(b gpucontext.MouseButton, x, y float64) { c.report(c.PointerPress(b, x, y)) })
	src.OnMouseRelease(func(b gpucontext.MouseButton, x, y float64) { c.report(c.PointerRelease(b, x, y)) })
	src.OnScroll(func(dx, dy float64) { c.report(c.Scroll(dx, dy)) })
	src.OnKeyPress(func(k gpucontext.Key, _ gpucontext.Modifiers) { c.report(c.KeyPress(k)) })
	src.OnResize(func(w, h int) { c.report(c.Resize(w, h)) })
	if g, ok := src.(gpucontext.GestureEventSource); ok {
		g.OnGesture(func(ev gpucontext.GestureEvent) { c.report(c.Gesture(ev)) })
	}
}

// SetPointerCaptured tells the canvas that the pointer is over an overlay
// (a settings panel). Presses, drawing motion and zoom are ignored while
// captured; an active pan continues.
func (c *Canvas) SetPointerCaptured(captured bool) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	r.captured = captured
	return nil
}

// PointerMove handles pointer motion to window position (x, y).
func (c *Canvas) PointerMove(x, y float64) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	r.cursor = f32.Vec2{float32(x), float32(y)}
	if r.panning {
		off := transform.PanOffset(r.grabOffset, r.grabCursor, r.cursor, r.window, r.blocks.View.Get().Scale)
		r.blocks.View.Update(func(v *params.ViewTransform) { v.Offset = off })
		r.settings.Offset = [2]float32{off[0] * 100, off[1] * 100}
		r.eng.RequestRedraw()
	}
	if r.captured {
		return nil
	}
	return r.machine.Move(r.toTexture(r.cursor))
}

// PointerPress handles a button press at window position (x, y). The left
// button drives the state machine; the right button starts a pan.
func (c *Canvas) PointerPress(b gpucontext.MouseButton, x, y float64) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	r.cursor = f32.Vec2{float32(x), float32(y)}
	if r.captured {
		return nil
	}
	switch b {
	case gpucontext.MouseButtonLeft:
		return r.machine.Press(r.toTexture(r.cursor))
	case gpucontext.MouseButtonRight:
		r.panning = true
		r.grabCursor = r.cursor
		r.grabOffset = r.blocks.View.Get().Offset
		c.setCursor(gpucontext.CursorMove)
	}
	return nil
}

// PointerRelease handles a button release. Releasing the right button ends
// a pan.
func (c *Canvas) PointerRelease(b gpucontext.MouseButton, _, _ float64) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	if b == gpucontext.MouseButtonRight && r.panning {
		r.panning = false
		c.setCursor(gpucontext.CursorCrosshair)
	}
	return nil
}

// Scroll zooms by the dominant scroll axis. Scrolling up zooms in.
func (c *Canvas) Scroll(dx, dy float64) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	if r.captured {
		return nil
	}
	return r.zoomBy(-transform.AbsMax(float32(dx), float32(dy)))
}

// Gesture zooms by a two-finger pinch.
func (c *Canvas) Gesture(ev gpucontext.GestureEvent) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	if r.captured || ev.NumPointers < 2 || ev.ZoomDelta == 1 {
		return nil
	}
	return r.zoomBy(float32((ev.ZoomDelta - 1) * 100))
}

// KeyPress handles Enter (commit), Escape (cancel) and Delete.
func (c *Canvas) KeyPress(k gpucontext.Key) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	switch k {
	case gpucontext.KeyEnter:
		return r.machine.Enter()
	case gpucontext.KeyEscape:
		return r.machine.Escape()
	case gpucontext.KeyDelete:
		return r.machine.Delete()
	}
	return nil
}

// zoomBy applies a zoom delta, keeps the tracking point under the pointer
// and requests a redraw.
func (r *ready) zoomBy(delta float32) error {
	r.settings.Zoom = transform.Zoom(r.settings.Zoom, delta, r.settings.ZoomSpeed)
	r.rescale()
	if err := r.machine.Retrack(r.toTexture(r.cursor)); err != nil {
		return err
	}
	r.eng.RequestRedraw()
	return nil
}
