package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	// Register every native backend available on this platform.
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/paint/internal/params"
	"github.com/gogpu/paint/internal/pointbuf"
)

// Engine owns the device, the dual canvas and both pipelines.
//
// Engine is NOT safe for concurrent use. All methods must be called from
// the goroutine driving the event loop.
type Engine struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	shared   bool // device belongs to a DeviceProvider

	format gputypes.TextureFormat
	width  uint32 // canvas texture size
	height uint32

	points *pointbuf.Buffer
	blocks params.Blocks

	canvas *dualCanvas
	raster *rasterizer
	comp   *compositor
	target frameTarget
	fill   *fillBuffer

	redraw func()
	closed bool
}

// New creates an Engine. It selects an adapter and device (or borrows them
// from a DeviceProvider), picks the canvas format and creates all GPU
// resources. Errors are fatal; nothing is retried.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.textureWidth == 0 || o.textureHeight == 0 {
		return nil, fmt.Errorf("%w: texture %dx%d", ErrInvalidSize, o.textureWidth, o.textureHeight)
	}

	e := &Engine{
		width:  o.textureWidth,
		height: o.textureHeight,
		points: &pointbuf.Buffer{},
		blocks: params.NewBlocks(),
		redraw: o.redraw,
	}

	var surface *wgpu.Surface
	var err error
	if o.provider != nil {
		err = e.useProvider(o)
	} else {
		surface, err = e.openDevice(o)
	}
	if err != nil {
		e.Close()
		return nil, err
	}

	if err := e.checkLimits(); err != nil {
		if surface != nil {
			surface.Release()
		}
		e.Close()
		return nil, err
	}

	if err := e.createResources(surface, o); err != nil {
		if surface != nil && e.target == nil {
			surface.Release()
		}
		e.Close()
		return nil, err
	}

	slogger().Info("paint: engine ready",
		"format", e.format,
		"texture", fmt.Sprintf("%dx%d", e.width, e.height),
		"shared", e.shared,
	)
	return e, nil
}

// openDevice creates instance, optional surface, adapter and device.
func (e *Engine) openDevice(o options) (*wgpu.Surface, error) {
	inst, err := wgpu.CreateInstance(&wgpu.InstanceDescriptor{Backends: o.backends})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrAdapterNotFound, err)
	}
	e.instance = inst

	var surface *wgpu.Surface
	if o.window != 0 {
		surface, err = inst.CreateSurface(o.display, o.window)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSurface, err)
		}
	}

	adapter, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:   o.power,
		CompatibleSurface: surface,
	})
	if err != nil {
		releaseSurface(surface)
		return nil, fmt.Errorf("%w: %w", ErrAdapterNotFound, err)
	}
	e.adapter = adapter
	info := adapter.Info()
	slogger().Info("paint: adapter selected", "name", info.Name, "type", info.DeviceType)
	if !canCompute(info) {
		releaseSurface(surface)
		return nil, fmt.Errorf("%w: %s cannot write storage textures", ErrAdapterNotFound, info.Name)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "paint_device",
		RequiredLimits: adapter.Limits(),
	})
	if err != nil {
		releaseSurface(surface)
		return nil, fmt.Errorf("%w: %w", ErrDeviceNotFound, err)
	}
	e.device = device
	e.queue = device.Queue()

	if surface == nil {
		e.format = gputypes.TextureFormatRGBA8Unorm
		return nil, nil
	}
	caps := adapter.GetSurfaceCapabilities(surface)
	if caps == nil {
		surface.Release()
		return nil, fmt.Errorf("%w: no capabilities", ErrSurface)
	}
	format, ok := chooseFormat(caps.Formats)
	if !ok {
		surface.Release()
		return nil, fmt.Errorf("%w: supported %v", ErrTextureFormatNotFound, caps.Formats)
	}
	e.format = format
	return surface, nil
}

// useProvider borrows the device and queue of a host application.
func (e *Engine) useProvider(o options) error {
	device, ok := o.provider.Device().(*wgpu.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: Device is %T", ErrProvider, o.provider.Device())
	}
	queue, ok := o.provider.Queue().(*wgpu.Queue)
	if !ok || queue == nil {
		queue = device.Queue()
	}
	e.device = device
	e.queue = queue
	e.shared = true
	if a, ok := o.provider.Adapter().(*wgpu.Adapter); ok && a != nil {
		e.adapter = a
		if info := a.Info(); !canCompute(info) {
			return fmt.Errorf("%w: %s cannot write storage textures", ErrAdapterNotFound, info.Name)
		}
	}

	e.format = gputypes.TextureFormatRGBA8Unorm
	if f, ok := chooseFormat([]gputypes.TextureFormat{o.provider.SurfaceFormat()}); ok {
		e.format = f
	}
	slogger().Info("paint: using shared device", "adapter", o.provider.AdapterInfo().Name)
	return nil
}

// checkLimits rejects canvas sizes the device cannot allocate.
func (e *Engine) checkLimits() error {
	limit := e.device.Limits().MaxTextureDimension2D
	if e.width > limit {
		return fmt.Errorf("%w: %d > %d", ErrTextureWidth, e.width, limit)
	}
	if e.height > limit {
		return fmt.Errorf("%w: %d > %d", ErrTextureHeight, e.height, limit)
	}
	return nil
}

func (e *Engine) createResources(surface *wgpu.Surface, o options) error {
	var err error
	if e.canvas, err = newDualCanvas(e.device, e.width, e.height, e.format); err != nil {
		return err
	}
	if e.raster, err = newRasterizer(e.device, e.canvas.front, e.format); err != nil {
		return err
	}
	if e.comp, err = newCompositor(e.device, e.queue, e.canvas.frontView, e.format, e.raster.points); err != nil {
		return err
	}
	if e.fill, err = newFillBuffer(e.device, e.width, e.height); err != nil {
		return err
	}

	if surface != nil {
		t, err := newSurfaceTarget(e.adapter, e.device, surface, e.format, o.windowWidth, o.windowHeight)
		if err != nil {
			return err
		}
		e.target = t
	} else {
		t, err := newTextureTarget(e.device, e.format, o.windowWidth, o.windowHeight)
		if err != nil {
			return err
		}
		e.target = t
	}
	return nil
}

// Points returns the point buffer read by both kernels.
func (e *Engine) Points() *pointbuf.Buffer { return e.points }

// Params returns the uniform blocks read by both kernels.
func (e *Engine) Params() params.Blocks { return e.blocks }

// CanCompute reports whether the adapter runs the rasterizer kernel. It is
// true for shared devices whose provider does not expose the adapter.
func (e *Engine) CanCompute() bool {
	return e.adapter == nil || canCompute(e.adapter.Info())
}

// Format returns the canvas texture format.
func (e *Engine) Format() gputypes.TextureFormat { return e.format }

// TextureSize returns the canvas resolution.
func (e *Engine) TextureSize() (width, height int) {
	return int(e.width), int(e.height)
}

// FrameSize returns the current frame size in physical pixels.
func (e *Engine) FrameSize() (width, height int) {
	if e.target == nil {
		return 0, 0
	}
	w, h := e.target.size()
	return int(w), int(h)
}

// Device returns the wgpu device, for overlays that create their own
// resources.
func (e *Engine) Device() *wgpu.Device { return e.device }

// Resize reconfigures the frame target. Zero sizes (minimized windows) are
// ignored.
func (e *Engine) Resize(width, height int) error {
	if e.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	return e.target.configure(uint32(width), uint32(height)) //nolint:gosec // checked positive
}

// RequestRedraw asks the host for a new frame.
func (e *Engine) RequestRedraw() {
	if e.redraw != nil {
		e.redraw()
	}
}

// Close releases every GPU resource. Shared devices are left alive.
// Close is idempotent.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	if e.device != nil {
		_ = e.device.WaitIdle()
	}
	if e.target != nil {
		e.target.release()
		e.target = nil
	}
	if e.fill != nil {
		e.fill.release()
		e.fill = nil
	}
	if e.comp != nil {
		e.comp.release()
		e.comp = nil
	}
	if e.raster != nil {
		e.raster.release()
		e.raster = nil
	}
	if e.canvas != nil {
		e.canvas.release()
		e.canvas = nil
	}
	if !e.shared {
		if e.device != nil {
			e.device.Release()
		}
		if e.adapter != nil {
			e.adapter.Release()
		}
		if e.instance != nil {
			e.instance.Release()
		}
	}
	e.device = nil
	e.queue = nil
	e.adapter = nil
	e.instance = nil
}

// submit records commands with record, submits them and waits for the
// device to finish.
func (e *Engine) submit(label string, record func(enc *wgpu.CommandEncoder) error) error {
	if e.closed {
		return ErrClosed
	}
	enc, err := e.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("%s: create encoder: %w", label, err)
	}
	if err := record(enc); err != nil {
		enc.DiscardEncoding()
		return fmt.Errorf("%s: %w", label, err)
	}
	cmd, err := enc.Finish()
	if err != nil {
		return fmt.Errorf("%s: finish: %w", label, err)
	}
	if _, err := e.queue.Submit(cmd); err != nil {
		return fmt.Errorf("%s: submit: %w", label, err)
	}
	if err := e.device.WaitIdle(); err != nil {
		return fmt.Errorf("%s: wait: %w", label, err)
	}
	return nil
}

// writer returns a flush function writing into buf at offset 0.
func (e *Engine) writer(buf *wgpu.Buffer) func([]byte) error {
	return func(data []byte) error {
		return e.queue.WriteBuffer(buf, 0, data)
	}
}

func releaseSurface(s *wgpu.Surface) {
	if s != nil {
		s.Release()
	}
}
