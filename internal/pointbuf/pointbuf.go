// Package pointbuf implements the bounded point list shared by the
// interaction state machine and the GPU kernels.
package pointbuf

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Capacity is the maximum number of points. The kernels declare the same
// array length.
const Capacity = 4096

// HeaderSize is the byte size of the {u32 length; u32 pad} header that
// precedes the point array in GPU memory.
const HeaderSize = 8

// PointSize is the byte size of one encoded point (vec2<f32>).
const PointSize = 8

// Size is the byte size of a GPU buffer able to hold a full Buffer.
const Size = HeaderSize + Capacity*PointSize

// Errors returned by Buffer mutations.
var (
	ErrFull  = errors.New("pointbuf: capacity exceeded")
	ErrIndex = errors.New("pointbuf: index out of range")
)

// Buffer is a fixed-capacity ordered list of points with a dirty flag.
//
// Only the first Len points are meaningful. The zero value is an empty,
// clean buffer ready to use. Buffer is NOT safe for concurrent use.
type Buffer struct {
	pts   [Capacity]f32.Vec2
	n     int
	dirty bool
}

// Len returns the number of valid points.
func (b *Buffer) Len() int { return b.n }

// Cap returns Capacity.
func (b *Buffer) Cap() int { return Capacity }

// At returns point i. It panics if i is out of range, like a slice index.
func (b *Buffer) At(i int) f32.Vec2 {
	if i < 0 || i >= b.n {
		panic(ErrIndex)
	}
	return b.pts[i]
}

// Points returns a copy of the valid points.
func (b *Buffer) Points() []f32.Vec2 {
	out := make([]f32.Vec2, b.n)
	copy(out, b.pts[:b.n])
	return out
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.n = 0
	b.dirty = true
}

// Seed replaces the contents with two copies of p: the anchor and the
// point that follows the pointer.
func (b *Buffer) Seed(p f32.Vec2) {
	b.pts[0] = p
	b.pts[1] = p
	b.n = 2
	b.dirty = true
}

// Push appends p. It returns ErrFull and leaves the buffer unchanged when
// the buffer is at capacity.
func (b *Buffer) Push(p f32.Vec2) error {
	if b.n == Capacity {
		return ErrFull
	}
	b.pts[b.n] = p
	b.n++
	b.dirty = true
	return nil
}

// ReplaceLast overwrites the last point with p. On an empty buffer it
// behaves like Push.
func (b *Buffer) ReplaceLast(p f32.Vec2) {
	if b.n == 0 {
		_ = b.Push(p)
		return
	}
	b.pts[b.n-1] = p
	b.dirty = true
}

// Set overwrites point i.
func (b *Buffer) Set(i int, p f32.Vec2) error {
	if i < 0 || i >= b.n {
		return ErrIndex
	}
	b.pts[i] = p
	b.dirty = true
	return nil
}

// Remove deletes point i, shifting later points down.
func (b *Buffer) Remove(i int) error {
	if i < 0 || i >= b.n {
		return ErrIndex
	}
	copy(b.pts[i:b.n-1], b.pts[i+1:b.n])
	b.n--
	b.dirty = true
	return nil
}

// Shift drops the oldest point and appends p, keeping the length. Used by
// the eraser, which strokes the segment between the last two presses.
// On an empty buffer it behaves like Push.
func (b *Buffer) Shift(p f32.Vec2) {
	if b.n == 0 {
		_ = b.Push(p)
		return
	}
	copy(b.pts[:b.n-1], b.pts[1:b.n])
	b.pts[b.n-1] = p
	b.dirty = true
}

// Nearest returns the index of the point closest to p in Manhattan
// distance among points whose distance on each axis is strictly less than
// tol. Ties resolve to the lowest index.
func (b *Buffer) Nearest(p f32.Vec2, tol float32) (int, bool) {
	best, bestDist := -1, float32(math.MaxFloat32)
	for i := 0; i < b.n; i++ {
		dx := math32.Abs(b.pts[i][0] - p[0])
		dy := math32.Abs(b.pts[i][1] - p[1])
		if dx >= tol || dy >= tol {
			continue
		}
		if d := dx + dy; d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// Dirty reports whether the buffer changed since the last flush.
func (b *Buffer) Dirty() bool { return b.dirty }

// MarkDirty forces the next flush to upload the buffer.
func (b *Buffer) MarkDirty() { b.dirty = true }

// Bytes encodes the header and the valid points in GPU layout.
// Memory past the last valid point is not written; the kernels never read
// beyond length.
func (b *Buffer) Bytes() []byte {
	buf := make([]byte, HeaderSize+b.n*PointSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(b.n))
	for i := 0; i < b.n; i++ {
		off := HeaderSize + i*PointSize
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(b.pts[i][0]))
		binary.LittleEndian.PutUint32(buf[off+4:off+8], math.Float32bits(b.pts[i][1]))
	}
	return buf
}

// Flush writes the encoded buffer through write if it is dirty and clears
// the flag on success.
func (b *Buffer) Flush(write func([]byte) error) (bool, error) {
	if !b.dirty {
		return false, nil
	}
	if err := write(b.Bytes()); err != nil {
		return false, err
	}
	b.dirty = false
	return true, nil
}
