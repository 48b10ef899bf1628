package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/paint"
)

// dualCanvas is the pair of identically sized canvas textures.
type dualCanvas struct {
	front     *wgpu.Texture
	back      *wgpu.Texture
	frontView *wgpu.TextureView // sampled by the compositor
	width     uint32
	height    uint32
}

func newDualCanvas(device *wgpu.Device, width, height uint32, format gputypes.TextureFormat) (*dualCanvas, error) {
	size := wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1}
	front, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "paint_front",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage: gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst |
			gputypes.TextureUsageTextureBinding | gputypes.TextureUsageStorageBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("create front texture: %w", err)
	}
	back, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "paint_back",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		front.Release()
		return nil, fmt.Errorf("create back texture: %w", err)
	}
	view, err := device.CreateTextureView(front, &wgpu.TextureViewDescriptor{
		Label:           "paint_front_view",
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		back.Release()
		front.Release()
		return nil, fmt.Errorf("create front view: %w", err)
	}
	return &dualCanvas{front: front, back: back, frontView: view, width: width, height: height}, nil
}

// encodeCopy records a full-surface copy in direction dir.
func (c *dualCanvas) encodeCopy(enc *wgpu.CommandEncoder, dir paint.CopyDirection) error {
	src, dst := c.back, c.front
	switch dir {
	case paint.BackToFront:
	case paint.FrontToBack:
		src, dst = c.front, c.back
	default:
		return fmt.Errorf("unknown copy direction %v", dir)
	}
	enc.CopyTextureToTexture(src, dst, []wgpu.TextureCopy{{
		Source:      wgpu.ImageCopyTexture{Texture: src, Aspect: gputypes.TextureAspectAll},
		Destination: wgpu.ImageCopyTexture{Texture: dst, Aspect: gputypes.TextureAspectAll},
		Size:        wgpu.Extent3D{Width: c.width, Height: c.height, DepthOrArrayLayers: 1},
	}})
	return nil
}

func (c *dualCanvas) release() {
	c.frontView.Release()
	c.back.Release()
	c.front.Release()
}

// Copy copies one canvas texture over the other and waits for completion.
func (e *Engine) Copy(dir paint.CopyDirection) error {
	err := e.submit("paint_copy", func(enc *wgpu.CommandEncoder) error {
		return e.canvas.encodeCopy(enc, dir)
	})
	if err != nil {
		return err
	}
	slogger().Debug("paint: canvas copied", "direction", dir)
	return nil
}
