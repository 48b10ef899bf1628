package params

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/paint"
)

func readFloat(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}

func TestShapeParamsLayout(t *testing.T) {
	p := ShapeParams{
		Color:             f32.Vec4{0.1, 0.2, 0.3, 1},
		Action:            paint.ActionDrawCircle,
		Stroke:            10,
		AntiAliasingScale: 0.1,
		DashLength:        50,
		GapLength:         25,
	}
	b := p.Bytes()
	if len(b) != ShapeParamsSize {
		t.Fatalf("len = %d, want %d", len(b), ShapeParamsSize)
	}
	if len(b)%16 != 0 {
		t.Errorf("size %d is not 16-byte aligned", len(b))
	}
	for i, want := range p.Color {
		if got := readFloat(b, i*4); got != want {
			t.Errorf("color[%d] = %v, want %v", i, got, want)
		}
	}
	if got := binary.LittleEndian.Uint32(b[16:20]); got != uint32(paint.ActionDrawCircle) {
		t.Errorf("action = %d, want %d", got, paint.ActionDrawCircle)
	}
	floats := []struct {
		name string
		off  int
		want float32
	}{
		{"stroke", 20, 10},
		{"anti_aliasing_scale", 24, 0.1},
		{"dash_length", 28, 50},
		{"gap_length", 32, 25},
	}
	for _, f := range floats {
		if got := readFloat(b, f.off); got != f.want {
			t.Errorf("%s = %v, want %v", f.name, got, f.want)
		}
	}
	for i := 36; i < ShapeParamsSize; i++ {
		if b[i] != 0 {
			t.Errorf("padding byte %d = %d, want 0", i, b[i])
		}
	}
}

func TestViewTransformLayout(t *testing.T) {
	b := ViewTransform{Scale: f32.Vec2{0.5, 0.75}, Offset: f32.Vec2{-0.25, 0.125}}.Bytes()
	if len(b) != ViewTransformSize {
		t.Fatalf("len = %d, want %d", len(b), ViewTransformSize)
	}
	want := []float32{0.5, 0.75, -0.25, 0.125}
	for i, w := range want {
		if got := readFloat(b, i*4); got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}

func TestDisplayParamsLayout(t *testing.T) {
	tests := []struct {
		preview bool
		want    uint32
	}{
		{true, 1},
		{false, 0},
	}
	for _, tt := range tests {
		b := DisplayParams{GridScale: f32.Vec2{2, 3}, Action: paint.ActionDrawPolygon, Preview: tt.preview}.Bytes()
		if len(b) != DisplayParamsSize {
			t.Fatalf("len = %d, want %d", len(b), DisplayParamsSize)
		}
		if got := readFloat(b, 0); got != 2 {
			t.Errorf("grid_scale.x = %v, want 2", got)
		}
		if got := binary.LittleEndian.Uint32(b[8:12]); got != uint32(paint.ActionDrawPolygon) {
			t.Errorf("action = %d, want %d", got, paint.ActionDrawPolygon)
		}
		if got := binary.LittleEndian.Uint32(b[12:16]); got != tt.want {
			t.Errorf("preview(%v) = %d, want %d", tt.preview, got, tt.want)
		}
	}
}

func TestBlockDirtyDiscipline(t *testing.T) {
	b := NewBlock(ViewTransform{})
	if !b.Dirty() {
		t.Fatal("new block should be dirty")
	}

	writes := 0
	write := func(p []byte) error {
		writes++
		if len(p) != ViewTransformSize {
			t.Errorf("write len = %d, want %d", len(p), ViewTransformSize)
		}
		return nil
	}

	if ok, err := b.Flush(write); !ok || err != nil {
		t.Fatalf("Flush() = %v, %v, want true, nil", ok, err)
	}
	if b.Dirty() {
		t.Error("block should be clean after flush")
	}

	// Clean block: no transfer.
	if ok, _ := b.Flush(write); ok {
		t.Error("Flush() on clean block wrote")
	}

	// Mutations coalesce into one transfer, even when the value is unchanged.
	b.Update(func(v *ViewTransform) { v.Scale[0] = 1 })
	b.Update(func(v *ViewTransform) { v.Scale[1] = 1 })
	b.Set(b.Get())
	if !b.Dirty() {
		t.Fatal("block should be dirty after Update/Set")
	}
	if _, err := b.Flush(write); err != nil {
		t.Fatal(err)
	}
	if writes != 2 {
		t.Errorf("writes = %d, want 2", writes)
	}
	if got := b.Get().Scale; got != (f32.Vec2{1, 1}) {
		t.Errorf("Get().Scale = %v, want [1 1]", got)
	}
}

func TestBlockFlushErrorKeepsDirty(t *testing.T) {
	b := NewBlock(ShapeParams{})
	errWrite := errors.New("device lost")
	ok, err := b.Flush(func([]byte) error { return errWrite })
	if ok || !errors.Is(err, errWrite) {
		t.Fatalf("Flush() = %v, %v, want false, %v", ok, err, errWrite)
	}
	if !b.Dirty() {
		t.Error("block should stay dirty after a failed flush")
	}
}

func TestNewBlocks(t *testing.T) {
	bs := NewBlocks()
	if !bs.Shape.Dirty() || !bs.View.Dirty() || !bs.Display.Dirty() {
		t.Error("NewBlocks() should return dirty blocks")
	}
}
