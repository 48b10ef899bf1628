// Package gpu owns the GPU resources of the canvas.
//
// An Engine bundles three cooperating parts that share one device:
//
//   - the dual canvas: a front texture (displayed, written by the compute
//     kernel) and a back texture (last committed artwork), with full-surface
//     copies in either direction;
//   - the rasterizer: the compute pipeline that draws the shape described by
//     the point buffer and the shape parameters into the front texture;
//   - the compositor: the render pipeline that draws the front texture on a
//     transformed quad into the frame and hands the pass to an overlay.
//
// Every submission is waited on before the method returns, so CPU-side
// buffers are never mutated while the GPU still reads them.
//
// # Frame targets
//
// With WithSurfaceHandles frames go to a native window surface. Without it
// frames are rendered into an offscreen texture, which is how the replay
// tool and the tests drive the engine. Hosts that own the surface call
// RenderTo with their own view.
package gpu
