package gpu

import "errors"

// Initialization errors. Each is fatal and returned once from New.
var (
	ErrAdapterNotFound       = errors.New("gpu: no suitable adapter")
	ErrDeviceNotFound        = errors.New("gpu: device request failed")
	ErrSurface               = errors.New("gpu: surface creation failed")
	ErrTextureFormatNotFound = errors.New("gpu: no supported surface format")
	ErrPresentModeNotFound   = errors.New("gpu: no supported present mode")
	ErrTextureWidth          = errors.New("gpu: texture width exceeds device limit")
	ErrTextureHeight         = errors.New("gpu: texture height exceeds device limit")
	ErrInvalidSize           = errors.New("gpu: invalid size")
	ErrProvider              = errors.New("gpu: device provider does not expose wgpu types")
)

// ErrPresentation is returned from Present when the frame could not be
// acquired even after reconfiguring the surface.
var ErrPresentation = errors.New("gpu: frame acquisition failed")

// ErrClosed is returned by operations on a closed Engine.
var ErrClosed = errors.New("gpu: engine is closed")
