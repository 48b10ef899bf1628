package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// frameTarget is where the compositor draws a frame.
type frameTarget interface {
	// acquire returns the view for the next frame and a function that
	// presents it. The caller releases the view after presenting.
	acquire() (view *wgpu.TextureView, present func() error, err error)
	configure(width, height uint32) error
	size() (width, height uint32)
	release()
}

// surfaceTarget presents to a native window.
type surfaceTarget struct {
	device  *wgpu.Device
	surface *wgpu.Surface
	config  wgpu.SurfaceConfiguration
}

func newSurfaceTarget(adapter *wgpu.Adapter, device *wgpu.Device, surface *wgpu.Surface,
	format gputypes.TextureFormat, width, height uint32,
) (*surfaceTarget, error) {
	caps := adapter.GetSurfaceCapabilities(surface)
	if caps == nil {
		return nil, fmt.Errorf("%w: no capabilities", ErrSurface)
	}
	mode, ok := choosePresentMode(caps.PresentModes)
	if !ok {
		return nil, fmt.Errorf("%w: supported %v", ErrPresentModeNotFound, caps.PresentModes)
	}
	slogger().Info("paint: surface", "format", format, "present_mode", mode)

	t := &surfaceTarget{
		device:  device,
		surface: surface,
		config: wgpu.SurfaceConfiguration{
			Format:      format,
			Usage:       gputypes.TextureUsageRenderAttachment,
			PresentMode: mode,
			AlphaMode:   chooseAlphaMode(caps.AlphaModes),
		},
	}
	if err := t.configure(width, height); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *surfaceTarget) configure(width, height uint32) error {
	t.config.Width = max(width, 1)
	t.config.Height = max(height, 1)
	if err := t.surface.Configure(t.device, &t.config); err != nil {
		return fmt.Errorf("%w: configure %dx%d: %w", ErrSurface, t.config.Width, t.config.Height, err)
	}
	return nil
}

func (t *surfaceTarget) acquire() (*wgpu.TextureView, func() error, error) {
	st, suboptimal, err := t.surface.GetCurrentTexture()
	if err != nil {
		return nil, nil, err
	}
	if suboptimal {
		slogger().Debug("paint: suboptimal surface texture")
	}
	view, err := st.CreateView(nil)
	if err != nil {
		t.surface.DiscardTexture()
		return nil, nil, fmt.Errorf("create frame view: %w", err)
	}
	return view, func() error { return t.surface.Present(st) }, nil
}

func (t *surfaceTarget) size() (uint32, uint32) { return t.config.Width, t.config.Height }

func (t *surfaceTarget) release() {
	t.surface.Unconfigure()
	t.surface.Release()
}

// textureTarget renders frames into an offscreen texture.
type textureTarget struct {
	device  *wgpu.Device
	format  gputypes.TextureFormat
	texture *wgpu.Texture
	width   uint32
	height  uint32
}

func newTextureTarget(device *wgpu.Device, format gputypes.TextureFormat, width, height uint32) (*textureTarget, error) {
	t := &textureTarget{device: device, format: format}
	if err := t.configure(width, height); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *textureTarget) configure(width, height uint32) error {
	width, height = max(width, 1), max(height, 1)
	tex, err := t.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "paint_frame",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create frame texture %dx%d: %w", width, height, err)
	}
	if t.texture != nil {
		t.texture.Release()
	}
	t.texture, t.width, t.height = tex, width, height
	return nil
}

func (t *textureTarget) acquire() (*wgpu.TextureView, func() error, error) {
	if t.texture == nil {
		return nil, nil, errors.New("frame texture released")
	}
	view, err := t.device.CreateTextureView(t.texture, &wgpu.TextureViewDescriptor{
		Label: "paint_frame_view", Format: t.format,
		Dimension: gputypes.TextureViewDimension2D, Aspect: gputypes.TextureAspectAll,
		MipLevelCount: 1, ArrayLayerCount: 1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create frame view: %w", err)
	}
	return view, func() error { return nil }, nil
}

func (t *textureTarget) size() (uint32, uint32) { return t.width, t.height }

func (t *textureTarget) release() {
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}
