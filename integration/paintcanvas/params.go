// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package paintcanvas

import (
	"fmt"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/internal/config"
	"github.com/gogpu/paint/internal/params"
)

// updateShape stores the rasterizer parameters derived from the settings.
// When they changed, the shape in progress is re-previewed on top of the
// committed artwork.
func (r *ready) updateShape() error {
	p := r.settings.ShapeParams()
	if p == r.blocks.Shape.Get() {
		return nil
	}
	r.blocks.Shape.Set(p)
	if err := r.eng.Copy(paint.BackToFront); err != nil {
		return err
	}
	if err := r.eng.Dispatch(); err != nil {
		return err
	}
	r.eng.RequestRedraw()
	return nil
}

// edit applies fn to the settings of a ready canvas, validates the result
// and pushes the rasterizer parameters.
func (c *Canvas) edit(fn func(s *config.Settings)) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	s := r.settings
	fn(&s)
	if err := s.Validate(); err != nil {
		return err
	}
	r.settings = s
	return r.updateShape()
}

// SetColor sets the panel color. While the eraser is active the color is
// stored but the rasterizer keeps painting white.
func (c *Canvas) SetColor(col config.Color) error {
	return c.edit(func(s *config.Settings) { s.Color = col })
}

// SetStroke sets the stroke width in texture pixels.
func (c *Canvas) SetStroke(width float32) error {
	return c.edit(func(s *config.Settings) { s.Stroke = width })
}

// SetAntiAliasing enables or disables anti-aliasing. scale is in percent.
func (c *Canvas) SetAntiAliasing(enabled bool, scale float32) error {
	return c.edit(func(s *config.Settings) {
		s.AntiAliasing = enabled
		s.AntiAliasingScale = scale
	})
}

// SetDash enables or disables dashed strokes.
func (c *Canvas) SetDash(enabled bool, dash, gap float32) error {
	return c.edit(func(s *config.Settings) {
		s.Dashed = enabled
		s.DashLength = dash
		s.GapLength = gap
	})
}

// SetAction selects the tool. The shape in progress is kept.
func (c *Canvas) SetAction(a paint.Action) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %d", paint.ErrUnknownAction, uint32(a))
	}
	if err := c.edit(func(s *config.Settings) { s.Action = a }); err != nil {
		return err
	}
	r, _ := c.ready()
	r.blocks.Display.Update(func(d *params.DisplayParams) { d.Action = a })
	r.eng.RequestRedraw()
	return nil
}

// SetZoom sets the zoom in percent. It is clamped to at least 1.
func (c *Canvas) SetZoom(zoom float32) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	r.settings.Zoom = max(zoom, 1)
	r.rescale()
	r.eng.RequestRedraw()
	return nil
}

// SetZoomSpeed sets the zoom change per scroll unit, in percent.
func (c *Canvas) SetZoomSpeed(speed float32) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	if speed <= 0 {
		return fmt.Errorf("%w: zoom speed %v", config.ErrInvalid, speed)
	}
	r.settings.ZoomSpeed = speed
	return nil
}

// SetOffset sets the view offset in percent of the half-window.
func (c *Canvas) SetOffset(x, y float32) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	r.settings.Offset = [2]float32{x, y}
	r.blocks.View.Update(func(v *params.ViewTransform) {
		v.Offset = f32.Vec2{x * 0.01, y * 0.01}
	})
	r.eng.RequestRedraw()
	return nil
}

// SetPreview toggles preview. Enabling it rasterizes the shape in
// progress; disabling it restores the committed artwork.
func (c *Canvas) SetPreview(enabled bool) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	if r.settings.Preview == enabled {
		return nil
	}
	r.settings.Preview = enabled
	r.machine.Preview = enabled
	r.blocks.Display.Update(func(d *params.DisplayParams) { d.Preview = enabled })
	if enabled {
		err = r.eng.Dispatch()
	} else {
		err = r.eng.Copy(paint.BackToFront)
	}
	if err != nil {
		return err
	}
	r.eng.RequestRedraw()
	return nil
}

// SetGrabTolerance sets the distance, in texture pixels, within which a
// press grabs a point.
func (c *Canvas) SetGrabTolerance(tol float32) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	if tol < 0 {
		return fmt.Errorf("%w: grab tolerance %v", config.ErrInvalid, tol)
	}
	r.settings.GrabTolerance = tol
	r.machine.Tolerance = tol
	return nil
}

// ApplySettings applies every panel setting in s. The texture size cannot
// change after Init and is ignored.
func (c *Canvas) ApplySettings(s config.Settings) error {
	r, err := c.ready()
	if err != nil {
		return err
	}
	s.TextureWidth, s.TextureHeight = r.settings.TextureWidth, r.settings.TextureHeight
	if err := s.Validate(); err != nil {
		return err
	}
	if err := c.SetGrabTolerance(s.GrabTolerance); err != nil {
		return err
	}
	if err := c.SetZoomSpeed(s.ZoomSpeed); err != nil {
		return err
	}
	if err := c.SetZoom(s.Zoom); err != nil {
		return err
	}
	if err := c.SetOffset(s.Offset[0], s.Offset[1]); err != nil {
		return err
	}
	if err := c.SetAction(s.Action); err != nil {
		return err
	}
	if err := c.edit(func(cur *config.Settings) {
		preview := cur.Preview
		*cur = s
		cur.Preview = preview
	}); err != nil {
		return err
	}
	return c.SetPreview(s.Preview)
}
