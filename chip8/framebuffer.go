package chip8

import "iter"

const (
	DisplayW = 64
	DisplayH = 32
)

// Pixel is one cell of the display as seen by a renderer.
type Pixel struct {
	X, Y int
	On   bool
}

// FrameBuffer is the 64x32 monochrome display.
type FrameBuffer struct {
	px [DisplayW * DisplayH]bool
}

// Write XORs sprite onto the display with its top-left corner at (x, y).
// Each byte is one row of 8 pixels, most significant bit leftmost. Pixels
// falling off an edge wrap around to the opposite edge. The result reports
// whether any lit pixel was turned off.
func (fb *FrameBuffer) Write(x, y int, sprite []byte) bool {
	collided := false
	for iy, row := range sprite {
		ty := mod(y+iy, DisplayH)
		for ix := 0; ix < 8; ix++ {
			if (row>>(7-ix))&0x01 == 0 {
				continue
			}
			tx := mod(x+ix, DisplayW)
			p := &fb.px[ty*DisplayW+tx]
			if *p {
				collided = true
			}
			*p = !*p
		}
	}
	return collided
}

// Reset turns every pixel off.
func (fb *FrameBuffer) Reset() {
	for i := range fb.px {
		fb.px[i] = false
	}
}

// At reports the state of the pixel at (x, y), wrapping out-of-range
// coordinates.
func (fb *FrameBuffer) At(x, y int) bool {
	return fb.px[mod(y, DisplayH)*DisplayW+mod(x, DisplayW)]
}

// Pixels yields every pixel row by row. The sequence does not modify the
// buffer and may be ranged over any number of times.
func (fb *FrameBuffer) Pixels() iter.Seq[Pixel] {
	return func(yield func(Pixel) bool) {
		for y := 0; y < DisplayH; y++ {
			for x := 0; x < DisplayW; x++ {
				if !yield(Pixel{X: x, Y: y, On: fb.px[y*DisplayW+x]}) {
					return
				}
			}
		}
	}
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
