// Package floodfill recolors 4-connected regions of raw RGBA pixel memory.
package floodfill

// Fill repaints the region of pixels that are 4-connected to (x, y) and
// share its exact 4-byte color with c. pix holds height rows of stride
// bytes each; only the first width*4 bytes of a row are pixels, the rest is
// padding and is never touched.
//
// Fill returns the number of repainted pixels. It is a no-op returning 0 if
// the start lies outside the image or already has color c.
func Fill(pix []byte, width, height, stride, x, y int, c [4]byte) int {
	if x < 0 || y < 0 || x >= width || y >= height {
		return 0
	}
	if stride < width*4 || len(pix) < (height-1)*stride+width*4 {
		return 0
	}

	start := y*stride + x*4
	var target [4]byte
	copy(target[:], pix[start:start+4])
	if target == c {
		return 0
	}

	type point struct{ x, y int }
	queue := []point{{x, y}}
	count := 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p.x < 0 || p.y < 0 || p.x >= width || p.y >= height {
			continue
		}
		off := p.y*stride + p.x*4
		px := pix[off : off+4 : off+4]
		if px[0] != target[0] || px[1] != target[1] || px[2] != target[2] || px[3] != target[3] {
			continue
		}
		copy(px, c[:])
		count++
		queue = append(queue,
			point{p.x - 1, p.y},
			point{p.x + 1, p.y},
			point{p.x, p.y - 1},
			point{p.x, p.y + 1},
		)
	}
	return count
}

// Swizzle converts an RGBA color to the byte order of a BGRA surface.
func Swizzle(c [4]byte) [4]byte {
	return [4]byte{c[2], c[1], c[0], c[3]}
}
