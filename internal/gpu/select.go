package gpu

import (
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// Formats the kernels can bind as read-write storage, most preferred first.
var formatPreference = []gputypes.TextureFormat{
	gputypes.TextureFormatRGBA8Unorm,
	gputypes.TextureFormatBGRA8Unorm,
}

// Present modes, most preferred first.
var presentModePreference = []wgpu.PresentMode{
	wgpu.PresentModeMailbox,
	wgpu.PresentModeFifo,
	wgpu.PresentModeFifoRelaxed,
	wgpu.PresentModeImmediate,
}

// chooseFormat picks the first preferred format among the supported ones.
func chooseFormat(supported []gputypes.TextureFormat) (gputypes.TextureFormat, bool) {
	for _, f := range formatPreference {
		if slices.Contains(supported, f) {
			return f, true
		}
	}
	return gputypes.TextureFormatUndefined, false
}

// choosePresentMode picks the first preferred mode among the supported ones.
func choosePresentMode(supported []wgpu.PresentMode) (wgpu.PresentMode, bool) {
	for _, m := range presentModePreference {
		if slices.Contains(supported, m) {
			return m, true
		}
	}
	return 0, false
}

// chooseAlphaMode prefers an opaque surface.
func chooseAlphaMode(supported []gputypes.CompositeAlphaMode) gputypes.CompositeAlphaMode {
	if slices.Contains(supported, gputypes.CompositeAlphaModeOpaque) {
		return gputypes.CompositeAlphaModeOpaque
	}
	if len(supported) > 0 {
		return supported[0]
	}
	return gputypes.CompositeAlphaModeAuto
}

// canCompute reports whether an adapter can write read-write storage
// textures from a compute kernel. The pure-Go software and noop adapters
// register on the empty backend and cannot. CPU drivers behind a native
// API (lavapipe, llvmpipe) can.
func canCompute(info gputypes.AdapterInfo) bool {
	return info.Backend != gputypes.BackendEmpty
}

// alignedBytesPerRow rounds a row of width RGBA texels up to the 256-byte
// alignment required for texture/buffer copies.
func alignedBytesPerRow(width uint32) uint32 {
	const align = 256
	return (width*4 + align - 1) / align * align
}
