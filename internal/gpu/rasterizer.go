package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/paint/internal/params"
	"github.com/gogpu/paint/internal/pointbuf"
	"github.com/gogpu/paint/internal/shaders"
)

// rasterizer is the compute pipeline drawing shapes into the front texture.
type rasterizer struct {
	module     *wgpu.ShaderModule
	layout     *wgpu.BindGroupLayout
	pipeLayout *wgpu.PipelineLayout
	pipeline   *wgpu.ComputePipeline
	bindGroup  *wgpu.BindGroup
	view       *wgpu.TextureView // storage view of the front texture

	points *wgpu.Buffer // binding 0, shared with the compositor
	shape  *wgpu.Buffer // binding 1

}

func newRasterizer(device *wgpu.Device, front *wgpu.Texture, format gputypes.TextureFormat) (r *rasterizer, err error) {
	r = &rasterizer{}
	defer func() {
		if err != nil {
			r.release()
		}
	}()

	src, err := shaders.Load(shaders.Compute, format)
	if err != nil {
		return nil, err
	}
	if r.module, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{Label: "paint_compute", WGSL: src}); err != nil {
		return nil, fmt.Errorf("compile compute kernel: %w", err)
	}

	r.layout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "paint_compute_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform, MinBindingSize: params.ShapeParamsSize}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, StorageTexture: &gputypes.StorageTextureBindingLayout{
				Access:        gputypes.StorageTextureAccessReadWrite,
				Format:        format,
				ViewDimension: gputypes.TextureViewDimension2D,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create compute bind group layout: %w", err)
	}
	if r.pipeLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "paint_compute_pipe_layout", BindGroupLayouts: []*wgpu.BindGroupLayout{r.layout},
	}); err != nil {
		return nil, fmt.Errorf("create compute pipeline layout: %w", err)
	}
	if r.pipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "paint_compute_pipeline", Layout: r.pipeLayout,
		Module: r.module, EntryPoint: shaders.ComputeEntry,
	}); err != nil {
		return nil, fmt.Errorf("create compute pipeline: %w", err)
	}

	if r.points, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "paint_points", Size: pointbuf.Size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	}); err != nil {
		return nil, fmt.Errorf("create point buffer: %w", err)
	}
	if r.shape, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "paint_shape_params", Size: params.ShapeParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	}); err != nil {
		return nil, fmt.Errorf("create shape params buffer: %w", err)
	}

	if r.view, err = device.CreateTextureView(front, &wgpu.TextureViewDescriptor{
		Label: "paint_front_storage", Format: format,
		Dimension: gputypes.TextureViewDimension2D, Aspect: gputypes.TextureAspectAll,
		MipLevelCount: 1, ArrayLayerCount: 1,
	}); err != nil {
		return nil, fmt.Errorf("create storage view: %w", err)
	}

	if r.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label: "paint_compute_bind", Layout: r.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.points, Size: pointbuf.Size},
			{Binding: 1, Buffer: r.shape, Size: params.ShapeParamsSize},
			{Binding: 2, TextureView: r.view},
		},
	}); err != nil {
		return nil, fmt.Errorf("create compute bind group: %w", err)
	}

	return r, nil
}

func (r *rasterizer) release() {
	if r.bindGroup != nil {
		r.bindGroup.Release()
	}
	if r.view != nil {
		r.view.Release()
	}
	if r.shape != nil {
		r.shape.Release()
	}
	if r.points != nil {
		r.points.Release()
	}
	if r.pipeline != nil {
		r.pipeline.Release()
	}
	if r.pipeLayout != nil {
		r.pipeLayout.Release()
	}
	if r.layout != nil {
		r.layout.Release()
	}
	if r.module != nil {
		r.module.Release()
	}
}

// flushPoints uploads the point buffer if it changed.
func (e *Engine) flushPoints() error {
	if _, err := e.points.Flush(e.writer(e.raster.points)); err != nil {
		return fmt.Errorf("upload points: %w", err)
	}
	return nil
}

// Dispatch flushes the point buffer and shape parameters if dirty, runs
// the compute kernel over the whole front texture, waits for it and asks
// the host for a redraw.
func (e *Engine) Dispatch() error {
	if e.closed {
		return ErrClosed
	}
	if err := e.flushPoints(); err != nil {
		return err
	}
	if _, err := e.blocks.Shape.Flush(e.writer(e.raster.shape)); err != nil {
		return fmt.Errorf("upload shape params: %w", err)
	}

	x, y := shaders.Workgroups(e.width, e.height)
	err := e.submit("paint_dispatch", func(enc *wgpu.CommandEncoder) error {
		pass, err := enc.BeginComputePass(&wgpu.ComputePassDescriptor{Label: "paint_raster"})
		if err != nil {
			return fmt.Errorf("begin compute pass: %w", err)
		}
		pass.SetPipeline(e.raster.pipeline)
		pass.SetBindGroup(0, e.raster.bindGroup, nil)
		pass.Dispatch(x, y, 1)
		return pass.End()
	})
	if err != nil {
		return err
	}
	slogger().Debug("paint: dispatched",
		"action", e.blocks.Shape.Get().Action,
		"points", e.points.Len(),
		"workgroups", [2]uint32{x, y},
	)
	e.RequestRedraw()
	return nil
}
