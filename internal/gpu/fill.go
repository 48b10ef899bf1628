package gpu

import (
	"context"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/paint/internal/floodfill"
)

// fillBuffer is the MAP_READ staging buffer used to read the front texture
// back for flood fill. Rows are padded to 256 bytes.
type fillBuffer struct {
	buf     *wgpu.Buffer
	bpr     uint32 // padded bytes per row
	width   uint32
	height  uint32
	scratch []byte
}

func newFillBuffer(device *wgpu.Device, width, height uint32) (*fillBuffer, error) {
	bpr := alignedBytesPerRow(width)
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "paint_fill_readback",
		Size:  uint64(bpr) * uint64(height),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w", err)
	}
	return &fillBuffer{buf: buf, bpr: bpr, width: width, height: height}, nil
}

func (f *fillBuffer) size() uint64 { return uint64(f.bpr) * uint64(f.height) }

func (f *fillBuffer) release() {
	f.buf.Release()
	f.scratch = nil
}

// readFront copies the front texture into the staging buffer, maps it and
// copies the padded rows into f.scratch. The buffer is unmapped on every
// return path.
func (e *Engine) readFront(ctx context.Context) (err error) {
	f := e.fill
	err = e.submit("paint_readback", func(enc *wgpu.CommandEncoder) error {
		enc.CopyTextureToBuffer(e.canvas.front, f.buf, []wgpu.BufferTextureCopy{{
			BufferLayout: wgpu.ImageDataLayout{BytesPerRow: f.bpr, RowsPerImage: f.height},
			TextureBase:  wgpu.ImageCopyTexture{Texture: e.canvas.front, Aspect: gputypes.TextureAspectAll},
			Size:         wgpu.Extent3D{Width: f.width, Height: f.height, DepthOrArrayLayers: 1},
		}})
		return nil
	})
	if err != nil {
		return err
	}

	size := f.size()
	if err := f.buf.Map(ctx, wgpu.MapModeRead, 0, size); err != nil {
		return fmt.Errorf("map readback buffer: %w", err)
	}
	defer func() {
		if uerr := f.buf.Unmap(); uerr != nil {
			slogger().Warn("paint: unmap readback buffer", "err", uerr)
		}
	}()

	rng, err := f.buf.MappedRange(0, size)
	if err != nil {
		return fmt.Errorf("mapped range: %w", err)
	}
	defer rng.Release()

	if cap(f.scratch) < int(size) {
		f.scratch = make([]byte, size)
	}
	f.scratch = f.scratch[:size]
	copy(f.scratch, rng.Bytes())
	return nil
}

// writeFront uploads f.scratch into the front texture.
func (e *Engine) writeFront() error {
	f := e.fill
	err := e.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: e.canvas.front, Aspect: gputypes.TextureAspectAll},
		f.scratch,
		&wgpu.ImageDataLayout{BytesPerRow: f.bpr, RowsPerImage: f.height},
		&wgpu.Extent3D{Width: f.width, Height: f.height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("upload filled canvas: %w", err)
	}
	return nil
}

// Fill flood-fills the front texture from pixel (x, y) with c, given as
// RGBA. The color is swizzled for BGRA canvases. It returns the number of
// repainted pixels; a start outside the canvas or on a pixel already
// colored c repaints nothing and skips the upload.
func (e *Engine) Fill(x, y int, c [4]byte) (int, error) {
	if e.closed {
		return 0, ErrClosed
	}
	if x < 0 || y < 0 || x >= int(e.width) || y >= int(e.height) {
		return 0, nil
	}
	if e.format == gputypes.TextureFormatBGRA8Unorm {
		c = floodfill.Swizzle(c)
	}
	if err := e.readFront(context.Background()); err != nil {
		return 0, err
	}
	f := e.fill
	n := floodfill.Fill(f.scratch, int(f.width), int(f.height), int(f.bpr), x, y, c)
	if n == 0 {
		return 0, nil
	}
	if err := e.writeFront(); err != nil {
		return 0, err
	}
	slogger().Debug("paint: flood fill", "x", x, "y", y, "pixels", n)
	e.RequestRedraw()
	return n, nil
}

// ReadPixels returns the front texture as tightly packed rows of 4-byte
// pixels in the canvas format.
func (e *Engine) ReadPixels() ([]byte, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if err := e.readFront(context.Background()); err != nil {
		return nil, err
	}
	f := e.fill
	row := int(f.width) * 4
	out := make([]byte, row*int(f.height))
	for y := 0; y < int(f.height); y++ {
		copy(out[y*row:(y+1)*row], f.scratch[y*int(f.bpr):])
	}
	return out, nil
}

// Snapshot returns the front texture as an RGBA image.
func (e *Engine) Snapshot() (*image.RGBA, error) {
	pix, err := e.ReadPixels()
	if err != nil {
		return nil, err
	}
	img := &image.RGBA{
		Pix:    pix,
		Stride: int(e.fill.width) * 4,
		Rect:   image.Rect(0, 0, int(e.fill.width), int(e.fill.height)),
	}
	if e.format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i+3 < len(pix); i += 4 {
			pix[i], pix[i+2] = pix[i+2], pix[i]
		}
	}
	return img, nil
}
