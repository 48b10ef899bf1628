package gpu

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/wgpu"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/internal/params"
)

const (
	testWidth  = 64
	testHeight = 48
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithTextureSize(testWidth, testHeight), WithWindowSize(80, 60)}, opts...)
	e, err := New(opts...)
	if err != nil {
		t.Skipf("GPU not available: %v", err)
	}
	t.Cleanup(e.Close)
	if !e.CanCompute() {
		t.Skip("compute pipeline not available")
	}
	return e
}

// clearCanvas paints the whole front texture with c.
func clearCanvas(t *testing.T, e *Engine, c f32.Vec4) {
	t.Helper()
	e.Params().Shape.Update(func(p *params.ShapeParams) {
		p.Action = paint.ActionInit
		p.Color = c
	})
	if err := e.Dispatch(); err != nil {
		t.Fatalf("Dispatch(Init) = %v", err)
	}
}

func pixelAt(pix []byte, x, y int) [4]byte {
	i := (y*testWidth + x) * 4
	return [4]byte{pix[i], pix[i+1], pix[i+2], pix[i+3]}
}

func readPixels(t *testing.T, e *Engine) []byte {
	t.Helper()
	pix, err := e.ReadPixels()
	if err != nil {
		t.Fatalf("ReadPixels() = %v", err)
	}
	if len(pix) != testWidth*testHeight*4 {
		t.Fatalf("len(ReadPixels()) = %d, want %d", len(pix), testWidth*testHeight*4)
	}
	return pix
}

func TestEngineHeadless(t *testing.T) {
	e := newTestEngine(t)
	if w, h := e.TextureSize(); w != testWidth || h != testHeight {
		t.Errorf("TextureSize() = %dx%d, want %dx%d", w, h, testWidth, testHeight)
	}
	if w, h := e.FrameSize(); w != 80 || h != 60 {
		t.Errorf("FrameSize() = %dx%d, want 80x60", w, h)
	}
	if err := e.Resize(0, 10); err != nil {
		t.Errorf("Resize(0, 10) = %v, want nil", err)
	}
	if err := e.Resize(100, 70); err != nil {
		t.Fatalf("Resize(100, 70) = %v", err)
	}
	if w, h := e.FrameSize(); w != 100 || h != 70 {
		t.Errorf("FrameSize() after resize = %dx%d, want 100x70", w, h)
	}
}

func TestDispatchInitClears(t *testing.T) {
	redraws := 0
	e := newTestEngine(t, WithRedraw(func() { redraws++ }))
	clearCanvas(t, e, f32.Vec4{1, 1, 1, 1})
	if redraws != 1 {
		t.Errorf("redraws = %d, want 1", redraws)
	}
	if e.Params().Shape.Dirty() || e.Points().Dirty() {
		t.Error("Dispatch should flush shape params and points")
	}

	pix := readPixels(t, e)
	for _, p := range [][2]int{{0, 0}, {testWidth - 1, 0}, {testWidth / 2, testHeight / 2}, {testWidth - 1, testHeight - 1}} {
		if got := pixelAt(pix, p[0], p[1]); got != [4]byte{255, 255, 255, 255} {
			t.Errorf("pixel %v = %v, want white", p, got)
		}
	}
}

func TestCopyRestoresBack(t *testing.T) {
	e := newTestEngine(t)
	clearCanvas(t, e, f32.Vec4{1, 1, 1, 1})
	if err := e.Copy(paint.FrontToBack); err != nil {
		t.Fatalf("Copy(FrontToBack) = %v", err)
	}
	clearCanvas(t, e, f32.Vec4{1, 0, 0, 1})
	if got := pixelAt(readPixels(t, e), 3, 3); got[1] != 0 {
		t.Fatalf("pixel after red clear = %v, want red", got)
	}
	if err := e.Copy(paint.BackToFront); err != nil {
		t.Fatalf("Copy(BackToFront) = %v", err)
	}
	if got := pixelAt(readPixels(t, e), 3, 3); got != [4]byte{255, 255, 255, 255} {
		t.Errorf("pixel after restore = %v, want white", got)
	}
}

func TestCopyUnknownDirection(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Copy(paint.CopyDirection(9)); err == nil {
		t.Error("Copy(9) = nil, want error")
	}
}

func TestEngineFill(t *testing.T) {
	e := newTestEngine(t)
	clearCanvas(t, e, f32.Vec4{1, 1, 1, 1})

	red := [4]byte{255, 0, 0, 255}
	n, err := e.Fill(5, 5, red)
	if err != nil {
		t.Fatalf("Fill() = %v", err)
	}
	if n != testWidth*testHeight {
		t.Errorf("Fill() repainted %d, want %d", n, testWidth*testHeight)
	}
	pix := readPixels(t, e)
	if got := pixelAt(pix, testWidth-1, testHeight-1); got != red {
		t.Errorf("corner after fill = %v, want %v", got, red)
	}

	// Same color again repaints nothing.
	if n, err := e.Fill(5, 5, red); err != nil || n != 0 {
		t.Errorf("second Fill() = %d, %v, want 0, nil", n, err)
	}
	// Outside the canvas is a no-op.
	if n, err := e.Fill(-1, 5, [4]byte{0, 0, 255, 255}); err != nil || n != 0 {
		t.Errorf("Fill(-1, 5) = %d, %v, want 0, nil", n, err)
	}
}

func TestDrawRectangleThenFillInside(t *testing.T) {
	e := newTestEngine(t)
	clearCanvas(t, e, f32.Vec4{1, 1, 1, 1})

	e.Points().Seed(f32.Vec2{10, 10})
	e.Points().ReplaceLast(f32.Vec2{30, 30})
	e.Params().Shape.Update(func(p *params.ShapeParams) {
		p.Action = paint.ActionDrawRectangle
		p.Color = f32.Vec4{0, 0, 0, 1}
		p.Stroke = 2
	})
	if err := e.Dispatch(); err != nil {
		t.Fatalf("Dispatch(DrawRectangle) = %v", err)
	}

	green := [4]byte{0, 255, 0, 255}
	n, err := e.Fill(20, 20, green)
	if err != nil {
		t.Fatalf("Fill() = %v", err)
	}
	if n == 0 || n >= testWidth*testHeight/2 {
		t.Errorf("Fill() inside rectangle repainted %d pixels", n)
	}
	pix := readPixels(t, e)
	if got := pixelAt(pix, 20, 20); got != green {
		t.Errorf("inside = %v, want %v", got, green)
	}
	if got := pixelAt(pix, 2, 2); got != [4]byte{255, 255, 255, 255} {
		t.Errorf("outside = %v, want white", got)
	}
}

func TestPresentOffscreen(t *testing.T) {
	e := newTestEngine(t)
	clearCanvas(t, e, f32.Vec4{1, 1, 1, 1})
	e.Params().View.Set(params.ViewTransform{Scale: f32.Vec2{0.8, 0.8}})
	e.Params().Display.Set(params.DisplayParams{GridScale: f32.Vec2{1, 1}, Action: paint.ActionDrawLine, Preview: true})

	overlays := 0
	if err := e.Present(func(_ *wgpu.CommandEncoder, _ *wgpu.TextureView) error {
		overlays++
		return nil
	}); err != nil {
		t.Fatalf("Present() = %v", err)
	}
	if overlays != 1 {
		t.Errorf("overlay ran %d times, want 1", overlays)
	}
	if e.Params().View.Dirty() || e.Params().Display.Dirty() {
		t.Error("Present should flush view and display params")
	}
}

func TestPresentOverlayError(t *testing.T) {
	e := newTestEngine(t)
	errOverlay := errors.New("panel failed")
	err := e.Present(func(*wgpu.CommandEncoder, *wgpu.TextureView) error { return errOverlay })
	if !errors.Is(err, errOverlay) {
		t.Errorf("Present() = %v, want %v", err, errOverlay)
	}
}

func TestClosedEngine(t *testing.T) {
	e := newTestEngine(t)
	e.Close()
	e.Close()

	if err := e.Dispatch(); !errors.Is(err, ErrClosed) {
		t.Errorf("Dispatch() = %v, want ErrClosed", err)
	}
	if err := e.Copy(paint.FrontToBack); !errors.Is(err, ErrClosed) {
		t.Errorf("Copy() = %v, want ErrClosed", err)
	}
	if _, err := e.Fill(1, 1, [4]byte{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Fill() = %v, want ErrClosed", err)
	}
	if err := e.Present(nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Present() = %v, want ErrClosed", err)
	}
	if err := e.Resize(10, 10); !errors.Is(err, ErrClosed) {
		t.Errorf("Resize() = %v, want ErrClosed", err)
	}
}

func TestNewInvalidSize(t *testing.T) {
	if _, err := New(WithTextureSize(0, 10)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("New(0x10) = %v, want ErrInvalidSize", err)
	}
}

func TestSnapshot(t *testing.T) {
	e := newTestEngine(t)
	clearCanvas(t, e, f32.Vec4{1, 1, 1, 1})
	if _, err := e.Fill(0, 0, [4]byte{0, 0, 255, 255}); err != nil {
		t.Fatal(err)
	}
	img, err := e.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() = %v", err)
	}
	if b := img.Bounds(); b.Dx() != testWidth || b.Dy() != testHeight {
		t.Errorf("bounds = %v, want %dx%d", b, testWidth, testHeight)
	}
	if got, want := img.RGBAAt(3, 7), (color.RGBA{0, 0, 255, 255}); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}
