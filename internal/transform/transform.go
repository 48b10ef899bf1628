// Package transform converts between window pixels and canvas texture pixels.
//
// The render kernel maps a texture pixel to clip space as
//
//	quad = (uv.x*2 - 1, 1 - uv.y*2)
//	clip = (quad + offset) * scale
//
// ToTexture is the exact inverse of that mapping and ToWindow mirrors it on
// the CPU. A change to one side must be mirrored in the other and in
// shaders/render.wgsl.
package transform

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float32
}

// SizeOf converts integer dimensions to a Size.
func SizeOf(width, height int) Size {
	return Size{Width: float32(width), Height: float32(height)}
}

// Aspect returns width/height.
func (s Size) Aspect() float32 {
	return s.Width / s.Height
}

// View is the per-axis scale and normalized-device offset applied to the
// canvas quad.
type View struct {
	Scale  f32.Vec2
	Offset f32.Vec2
}

// ToTexture maps a window pixel to a texture pixel. The result is not
// clamped: pointers outside the canvas map outside [0,texture).
func ToTexture(p f32.Vec2, window, texture Size, v View) f32.Vec2 {
	ndcX := 2*(p[0]/window.Width) - 1
	ndcY := 1 - 2*(p[1]/window.Height)

	quadX := ndcX/v.Scale[0] - v.Offset[0]
	quadY := ndcY/v.Scale[1] - v.Offset[1]

	uvX := quadX*0.5 + 0.5
	uvY := -quadY*0.5 + 0.5

	return f32.Vec2{uvX * texture.Width, uvY * texture.Height}
}

// ToWindow maps a texture pixel to a window pixel.
func ToWindow(t f32.Vec2, window, texture Size, v View) f32.Vec2 {
	uvX := t[0] / texture.Width
	uvY := t[1] / texture.Height

	quadX := uvX*2 - 1
	quadY := 1 - uvY*2

	ndcX := (quadX + v.Offset[0]) * v.Scale[0]
	ndcY := (quadY + v.Offset[1]) * v.Scale[1]

	return f32.Vec2{(ndcX + 1) / 2 * window.Width, (1 - ndcY) / 2 * window.Height}
}

// ScaleForZoom fits the texture into the window preserving its aspect ratio
// and applies zoom, given in percent.
func ScaleForZoom(window, texture Size, zoom float32) f32.Vec2 {
	ratio := texture.Aspect() / window.Aspect()
	z := zoom * 0.01
	return f32.Vec2{math32.Min(ratio, 1) * z, math32.Min(1/ratio, 1) * z}
}

// PanOffset returns the view offset after dragging from grab to cursor
// (both window pixels), starting from grabOffset. The texture pixel that was
// under the pointer at grab time stays under the pointer.
func PanOffset(grabOffset, grab, cursor f32.Vec2, window Size, scale f32.Vec2) f32.Vec2 {
	dx := 2 * (cursor[0] - grab[0]) / window.Width
	dy := 2 * (grab[1] - cursor[1]) / window.Height
	return f32.Vec2{grabOffset[0] + dx/scale[0], grabOffset[1] + dy/scale[1]}
}

// AbsMax returns whichever of x and y has the larger magnitude, keeping its
// sign. Scroll and pan gestures use it to pick the dominant axis.
func AbsMax(x, y float32) float32 {
	if math32.Abs(x) > math32.Abs(y) {
		return x
	}
	return y
}

// Zoom applies a scroll or gesture delta to zoom (percent), scaled by speed
// (percent), and clamps the result to at least 1.
func Zoom(zoom, delta, speed float32) float32 {
	return math32.Max(zoom+delta*speed*0.01, 1)
}

// InBounds reports whether the texture pixel p lies inside a texture of the
// given size.
func InBounds(p f32.Vec2, texture Size) bool {
	return p[0] >= 0 && p[1] >= 0 && p[0] < texture.Width && p[1] < texture.Height
}
