package params

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/paint"
)

// Encoded sizes of the uniform blocks. Each is a multiple of 16 bytes to
// satisfy uniform buffer layout rules.
const (
	ShapeParamsSize   = 48
	ViewTransformSize = 16
	DisplayParamsSize = 16
)

// ShapeParams drives the compute kernel.
//
// Layout (binding 1 of the compute pipeline):
//
//	offset  0  color              vec4<f32>
//	offset 16  action             u32
//	offset 20  stroke             f32
//	offset 24  anti_aliasing_scale f32
//	offset 28  dash_length        f32
//	offset 32  gap_length         f32
//	offset 36  padding            12 bytes
type ShapeParams struct {
	Color             f32.Vec4
	Action            paint.Action
	Stroke            float32
	AntiAliasingScale float32 // 0 disables anti-aliasing
	DashLength        float32 // 0 draws solid strokes
	GapLength         float32
}

// Bytes encodes the block in GPU layout.
func (p ShapeParams) Bytes() []byte {
	buf := make([]byte, ShapeParamsSize)
	for i, c := range p.Color {
		putFloat(buf[i*4:], c)
	}
	binary.LittleEndian.PutUint32(buf[16:20], uint32(p.Action))
	putFloat(buf[20:], p.Stroke)
	putFloat(buf[24:], p.AntiAliasingScale)
	putFloat(buf[28:], p.DashLength)
	putFloat(buf[32:], p.GapLength)
	return buf
}

// ViewTransform positions the canvas quad in clip space.
//
// Layout (binding 0 of the render pipeline):
//
//	offset 0  scale   vec2<f32>
//	offset 8  offset  vec2<f32>
type ViewTransform struct {
	Scale  f32.Vec2
	Offset f32.Vec2
}

// Bytes encodes the block in GPU layout.
func (v ViewTransform) Bytes() []byte {
	buf := make([]byte, ViewTransformSize)
	putFloat(buf[0:], v.Scale[0])
	putFloat(buf[4:], v.Scale[1])
	putFloat(buf[8:], v.Offset[0])
	putFloat(buf[12:], v.Offset[1])
	return buf
}

// DisplayParams controls how the fragment kernel overlays the in-progress
// shape.
//
// Layout (binding 2 of the render pipeline):
//
//	offset  0  grid_scale vec2<f32>
//	offset  8  action     u32
//	offset 12  preview    u32 (0 or 1)
type DisplayParams struct {
	GridScale f32.Vec2
	Action    paint.Action
	Preview   bool
}

// Bytes encodes the block in GPU layout.
func (d DisplayParams) Bytes() []byte {
	buf := make([]byte, DisplayParamsSize)
	putFloat(buf[0:], d.GridScale[0])
	putFloat(buf[4:], d.GridScale[1])
	binary.LittleEndian.PutUint32(buf[8:12], uint32(d.Action))
	if d.Preview {
		binary.LittleEndian.PutUint32(buf[12:16], 1)
	}
	return buf
}

// Blocks groups the three uniform blocks owned by one canvas.
type Blocks struct {
	Shape   *Block[ShapeParams]
	View    *Block[ViewTransform]
	Display *Block[DisplayParams]
}

// NewBlocks returns zero-valued blocks, all dirty.
func NewBlocks() Blocks {
	return Blocks{
		Shape:   NewBlock(ShapeParams{}),
		View:    NewBlock(ViewTransform{}),
		Display: NewBlock(DisplayParams{}),
	}
}

func putFloat(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b[:4], math.Float32bits(v))
}
