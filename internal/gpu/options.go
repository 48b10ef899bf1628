package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/paint"
)

// Option configures an Engine during creation.
//
// Example:
//
//	e, err := gpu.New(
//		gpu.WithWindowSize(1280, 720),
//		gpu.WithSurfaceHandles(display, window),
//	)
type Option func(*options)

type options struct {
	textureWidth  uint32
	textureHeight uint32
	windowWidth   uint32
	windowHeight  uint32

	display, window uintptr
	provider        gpucontext.DeviceProvider

	power    wgpu.PowerPreference
	backends wgpu.Backends
	redraw   func()
}

func defaultOptions() options {
	return options{
		textureWidth:  paint.TextureWidth,
		textureHeight: paint.TextureHeight,
		windowWidth:   paint.TextureWidth,
		windowHeight:  paint.TextureHeight,
		power:         wgpu.PowerPreferenceHighPerformance,
		backends:      wgpu.BackendsPrimary,
	}
}

// WithTextureSize sets the fixed canvas resolution. It is independent of
// the window size and cannot change after creation.
func WithTextureSize(width, height int) Option {
	return func(o *options) {
		o.textureWidth = uint32(max(width, 0))   //nolint:gosec // clamped
		o.textureHeight = uint32(max(height, 0)) //nolint:gosec // clamped
	}
}

// WithWindowSize sets the initial frame size in physical pixels.
func WithWindowSize(width, height int) Option {
	return func(o *options) {
		o.windowWidth = uint32(max(width, 0))   //nolint:gosec // clamped
		o.windowHeight = uint32(max(height, 0)) //nolint:gosec // clamped
	}
}

// WithSurfaceHandles presents frames to a native window. Without it the
// engine renders frames into an offscreen texture.
func WithSurfaceHandles(display, window uintptr) Option {
	return func(o *options) {
		o.display = display
		o.window = window
	}
}

// WithDeviceProvider shares the device of a host application instead of
// creating one. The provider's Device and Queue must be *wgpu.Device and
// *wgpu.Queue.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithPowerPreference selects the adapter power preference.
func WithPowerPreference(p wgpu.PowerPreference) Option {
	return func(o *options) {
		o.power = p
	}
}

// WithBackends restricts the graphics APIs considered for the adapter.
func WithBackends(b wgpu.Backends) Option {
	return func(o *options) {
		o.backends = b
	}
}

// WithRedraw sets the function called after every dispatch to ask the
// host for a new frame.
func WithRedraw(fn func()) Option {
	return func(o *options) {
		o.redraw = fn
	}
}
