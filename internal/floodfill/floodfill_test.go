package floodfill

import (
	"bytes"
	"testing"
)

var (
	white = [4]byte{255, 255, 255, 255}
	red   = [4]byte{255, 0, 0, 255}
	blue  = [4]byte{0, 0, 255, 255}
	pad   = byte(0xAB)
)

// newImage returns a width x height image filled with c, with stride
// rounded up to a multiple of align bytes and padding set to pad.
func newImage(width, height, align int, c [4]byte) ([]byte, int) {
	stride := (width*4 + align - 1) / align * align
	pix := bytes.Repeat([]byte{pad}, stride*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			copy(pix[y*stride+x*4:], c[:])
		}
	}
	return pix, stride
}

func at(pix []byte, stride, x, y int) [4]byte {
	var c [4]byte
	copy(c[:], pix[y*stride+x*4:])
	return c
}

func TestFillIdempotent(t *testing.T) {
	pix, stride := newImage(17, 9, 256, white)
	before := bytes.Clone(pix)
	if n := Fill(pix, 17, 9, stride, 3, 4, white); n != 0 {
		t.Errorf("Fill() = %d, want 0", n)
	}
	if !bytes.Equal(pix, before) {
		t.Error("filling with the current color modified the buffer")
	}
}

func TestFillTotality(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		x, y          int
	}{
		{"corner", 32, 20, 0, 0},
		{"center", 32, 20, 16, 10},
		{"last pixel", 32, 20, 31, 19},
		{"single row", 50, 1, 7, 0},
		{"single pixel", 1, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pix, stride := newImage(tt.width, tt.height, 256, white)
			n := Fill(pix, tt.width, tt.height, stride, tt.x, tt.y, blue)
			if n != tt.width*tt.height {
				t.Errorf("Fill() = %d, want %d", n, tt.width*tt.height)
			}
			for y := 0; y < tt.height; y++ {
				for x := 0; x < tt.width; x++ {
					if got := at(pix, stride, x, y); got != blue {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, blue)
					}
				}
				for i := tt.width * 4; i < stride; i++ {
					if pix[y*stride+i] != pad {
						t.Fatalf("row %d padding byte %d modified", y, i)
					}
				}
			}
		})
	}
}

// redRect draws a one-pixel red rectangle outline from (x0,y0) to (x1,y1).
func redRect(pix []byte, stride, x0, y0, x1, y1 int) {
	for x := x0; x <= x1; x++ {
		copy(pix[y0*stride+x*4:], red[:])
		copy(pix[y1*stride+x*4:], red[:])
	}
	for y := y0; y <= y1; y++ {
		copy(pix[y*stride+x0*4:], red[:])
		copy(pix[y*stride+x1*4:], red[:])
	}
}

func TestFillInsideRectangle(t *testing.T) {
	const w, h = 40, 30
	pix, stride := newImage(w, h, 256, white)
	redRect(pix, stride, 5, 5, 20, 15)

	n := Fill(pix, w, h, stride, 10, 10, blue)
	if want := 14 * 9; n != want {
		t.Errorf("Fill() = %d, want %d", n, want)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			got := at(pix, stride, x, y)
			onBorder := (x == 5 || x == 20) && y >= 5 && y <= 15 || (y == 5 || y == 15) && x >= 5 && x <= 20
			inside := x > 5 && x < 20 && y > 5 && y < 15
			var want [4]byte
			switch {
			case onBorder:
				want = red
			case inside:
				want = blue
			default:
				want = white
			}
			if got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFillNoDiagonalLeak(t *testing.T) {
	// A diagonal wall of red separates the two white halves under
	// 4-connectivity.
	const n = 8
	pix, stride := newImage(n, n, 4, white)
	for i := 0; i < n; i++ {
		copy(pix[i*stride+i*4:], red[:])
	}
	got := Fill(pix, n, n, stride, n-1, 0, blue)
	if want := n * (n - 1) / 2; got != want {
		t.Errorf("Fill() = %d, want %d", got, want)
	}
	if c := at(pix, stride, 0, n-1); c != white {
		t.Errorf("pixel across the diagonal = %v, want %v", c, white)
	}
}

func TestFillOutOfBounds(t *testing.T) {
	pix, stride := newImage(4, 4, 16, white)
	before := bytes.Clone(pix)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}} {
		if n := Fill(pix, 4, 4, stride, p[0], p[1], blue); n != 0 {
			t.Errorf("Fill(%v) = %d, want 0", p, n)
		}
	}
	if !bytes.Equal(pix, before) {
		t.Error("out of bounds fill modified the buffer")
	}
}

func TestFillExactMatch(t *testing.T) {
	pix, stride := newImage(3, 1, 12, white)
	copy(pix[4:], []byte{255, 255, 254, 255})
	if n := Fill(pix, 3, 1, stride, 0, 0, blue); n != 1 {
		t.Errorf("Fill() = %d, want 1", n)
	}
	if c := at(pix, stride, 2, 0); c != white {
		t.Errorf("pixel beyond a near-match = %v, want %v", c, white)
	}
}

func TestSwizzle(t *testing.T) {
	if got := Swizzle([4]byte{1, 2, 3, 4}); got != [4]byte{3, 2, 1, 4} {
		t.Errorf("Swizzle() = %v, want [3 2 1 4]", got)
	}
}
