package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/paint/internal/params"
	"github.com/gogpu/paint/internal/pointbuf"
	"github.com/gogpu/paint/internal/shaders"
)

// ClearColor is the frame background around the canvas quad.
var ClearColor = gputypes.Color{R: 0.2, G: 0.2, B: 0.2, A: 1}

// quadVertices are two triangles covering clip space.
var quadVertices = [12]float32{
	-1, -1,
	1, -1,
	-1, 1,
	-1, 1,
	1, -1,
	1, 1,
}

// Overlay records extra drawing into the frame after the canvas quad, in
// the same command encoder. A panel or HUD collaborator uses it.
type Overlay func(enc *wgpu.CommandEncoder, view *wgpu.TextureView) error

// compositor is the render pipeline drawing the front texture into a frame.
type compositor struct {
	module     *wgpu.ShaderModule
	layout     *wgpu.BindGroupLayout
	pipeLayout *wgpu.PipelineLayout
	pipeline   *wgpu.RenderPipeline
	sampler    *wgpu.Sampler
	bindGroup  *wgpu.BindGroup

	vertices *wgpu.Buffer
	view     *wgpu.Buffer // binding 0
	display  *wgpu.Buffer // binding 2
}

func newCompositor(device *wgpu.Device, queue *wgpu.Queue, front *wgpu.TextureView,
	format gputypes.TextureFormat, points *wgpu.Buffer,
) (c *compositor, err error) {
	c = &compositor{}
	defer func() {
		if err != nil {
			c.release()
		}
	}()

	src, err := shaders.Load(shaders.Render, format)
	if err != nil {
		return nil, err
	}
	if c.module, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{Label: "paint_render", WGSL: src}); err != nil {
		return nil, fmt.Errorf("compile render kernel: %w", err)
	}

	c.layout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "paint_render_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageVertex, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform, MinBindingSize: params.ViewTransformSize}},
			{Binding: 1, Visibility: gputypes.ShaderStageFragment, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageFragment, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform, MinBindingSize: params.DisplayParamsSize}},
			{Binding: 3, Visibility: gputypes.ShaderStageFragment, Texture: &gputypes.TextureBindingLayout{
				SampleType: gputypes.TextureSampleTypeFloat, ViewDimension: gputypes.TextureViewDimension2D,
			}},
			{Binding: 4, Visibility: gputypes.ShaderStageFragment, Sampler: &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create render bind group layout: %w", err)
	}
	if c.pipeLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "paint_render_pipe_layout", BindGroupLayouts: []*wgpu.BindGroupLayout{c.layout},
	}); err != nil {
		return nil, fmt.Errorf("create render pipeline layout: %w", err)
	}

	blend := gputypes.BlendStateReplace()
	c.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "paint_render_pipeline",
		Layout: c.pipeLayout,
		Vertex: wgpu.VertexState{
			Module:     c.module,
			EntryPoint: shaders.VertexEntry,
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: 8,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				},
			}},
		},
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &wgpu.FragmentState{
			Module:     c.module,
			EntryPoint: shaders.FragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}

	if c.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "paint_canvas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
		Anisotropy:   1,
	}); err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	vertexBytes := make([]byte, len(quadVertices)*4)
	for i, v := range quadVertices {
		binary.LittleEndian.PutUint32(vertexBytes[i*4:], math.Float32bits(v))
	}
	if c.vertices, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "paint_quad", Size: uint64(len(vertexBytes)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	}); err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}
	if err = queue.WriteBuffer(c.vertices, 0, vertexBytes); err != nil {
		return nil, fmt.Errorf("upload vertex buffer: %w", err)
	}
	if c.view, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "paint_view_transform", Size: params.ViewTransformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	}); err != nil {
		return nil, fmt.Errorf("create view transform buffer: %w", err)
	}
	if c.display, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "paint_display_params", Size: params.DisplayParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	}); err != nil {
		return nil, fmt.Errorf("create display params buffer: %w", err)
	}

	if c.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label: "paint_render_bind", Layout: c.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: c.view, Size: params.ViewTransformSize},
			{Binding: 1, Buffer: points, Size: pointbuf.Size},
			{Binding: 2, Buffer: c.display, Size: params.DisplayParamsSize},
			{Binding: 3, TextureView: front},
			{Binding: 4, Sampler: c.sampler},
		},
	}); err != nil {
		return nil, fmt.Errorf("create render bind group: %w", err)
	}
	return c, nil
}

func (c *compositor) release() {
	for _, b := range []*wgpu.Buffer{c.display, c.view, c.vertices} {
		if b != nil {
			b.Release()
		}
	}
	if c.bindGroup != nil {
		c.bindGroup.Release()
	}
	if c.sampler != nil {
		c.sampler.Release()
	}
	if c.pipeline != nil {
		c.pipeline.Release()
	}
	if c.pipeLayout != nil {
		c.pipeLayout.Release()
	}
	if c.layout != nil {
		c.layout.Release()
	}
	if c.module != nil {
		c.module.Release()
	}
}

// flushFrame uploads every block the render kernel reads.
func (e *Engine) flushFrame() error {
	if err := e.flushPoints(); err != nil {
		return err
	}
	if _, err := e.blocks.View.Flush(e.writer(e.comp.view)); err != nil {
		return fmt.Errorf("upload view transform: %w", err)
	}
	if _, err := e.blocks.Display.Flush(e.writer(e.comp.display)); err != nil {
		return fmt.Errorf("upload display params: %w", err)
	}
	return nil
}

// RenderTo draws one frame into view: clear, canvas quad, then overlay.
// Hosts that own the window surface call it with their frame view.
func (e *Engine) RenderTo(view *wgpu.TextureView, overlay Overlay) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.flushFrame(); err != nil {
		return err
	}
	return e.submit("paint_frame", func(enc *wgpu.CommandEncoder) error {
		pass, err := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
			Label: "paint_composite",
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: ClearColor,
			}},
		})
		if err != nil {
			return fmt.Errorf("begin render pass: %w", err)
		}
		pass.SetPipeline(e.comp.pipeline)
		pass.SetBindGroup(0, e.comp.bindGroup, nil)
		pass.SetVertexBuffer(0, e.comp.vertices, 0)
		pass.Draw(uint32(len(quadVertices)/2), 1, 0, 0)
		if err := pass.End(); err != nil {
			return fmt.Errorf("end render pass: %w", err)
		}
		if overlay != nil {
			if err := overlay(enc, view); err != nil {
				return fmt.Errorf("overlay: %w", err)
			}
		}
		return nil
	})
}

// Present acquires a frame from the engine's target, renders it and
// presents it. If the frame cannot be acquired the target is reconfigured
// once and acquisition retried; a second failure returns ErrPresentation.
func (e *Engine) Present(overlay Overlay) error {
	if e.closed {
		return ErrClosed
	}
	view, present, err := e.target.acquire()
	if err != nil {
		slogger().Warn("paint: frame acquisition failed, reconfiguring", "err", err)
		w, h := e.target.size()
		if cerr := e.target.configure(w, h); cerr != nil {
			return fmt.Errorf("%w: %w", ErrPresentation, cerr)
		}
		if view, present, err = e.target.acquire(); err != nil {
			return fmt.Errorf("%w: %w", ErrPresentation, err)
		}
	}
	defer view.Release()

	if err := e.RenderTo(view, overlay); err != nil {
		return err
	}
	return present()
}
