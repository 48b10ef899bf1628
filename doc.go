// Package paint is an interactive 2D drawing canvas on the GoGPU stack.
//
// # Overview
//
// Shapes are rasterized by a WGSL compute kernel into an off-screen "front"
// texture and composited onto the window by a small render pipeline. A
// second "back" texture holds the last committed artwork so that a live
// preview can be discarded by copying back to front, and a finished shape
// is committed by copying front to back.
//
// This package holds what every layer shares: the [Action] codes (also
// consumed verbatim by the GPU kernels) and the package logger.
//
// # Architecture
//
//   - internal/transform: window pixel to texture pixel math
//   - internal/params: uniform blocks with dirty-flag flushing
//   - internal/pointbuf: the bounded point buffer read by both kernels
//   - internal/floodfill: CPU flood fill on mapped texture memory
//   - internal/shaders: embedded WGSL kernels
//   - internal/gpu: dual canvas, rasterizer, compositor on gogpu/wgpu
//   - internal/interact: the Init/AddPoints/EditPoints state machine
//   - internal/config: panel settings, file loading and hot reload
//   - integration/paintcanvas: host wiring through gpucontext
//
// # Coordinate System
//
// Pointer events arrive in window pixels with the origin at the top-left.
// Points stored for the kernels are texture pixels, origin top-left,
// X right, Y down.
package paint

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// TextureWidth is the default canvas width in pixels.
	TextureWidth = 1500

	// TextureHeight is the default canvas height in pixels.
	TextureHeight = 1000
)
