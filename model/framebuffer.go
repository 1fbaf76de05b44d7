package model

import "image"

// FrameBuffer is the ordered set of pixels on the strip. Its length is fixed
// once allocated; index writes are bounds-checked by the caller.
type FrameBuffer []Pixel

func NewFrameBuffer(n int) FrameBuffer {
	if n < 0 {
		n = 0
	}
	return make(FrameBuffer, n)
}

func (fb FrameBuffer) Fill(p Pixel) {
	for i := range fb {
		fb[i] = p
	}
}

func (fb FrameBuffer) Clear() {
	fb.Fill(Black)
}

// FadeToBlackBy dims every pixel by amount/256, leaving a trail.
func (fb FrameBuffer) FadeToBlackBy(amount uint8) {
	keep := 255 - amount
	for i := range fb {
		fb[i] = fb[i].Scale(keep)
	}
}

// IsSolid reports whether every pixel equals p. An empty buffer is solid.
func (fb FrameBuffer) IsSolid(p Pixel) bool {
	for _, v := range fb {
		if v != p {
			return false
		}
	}
	return true
}

// Lit returns the indices of non-black pixels in ascending order.
func (fb FrameBuffer) Lit() []int {
	var out []int
	for i, v := range fb {
		if !v.IsBlack() {
			out = append(out, i)
		}
	}
	return out
}

// Bytes serializes the buffer as packed RGB triplets.
func (fb FrameBuffer) Bytes() []byte {
	buf := make([]byte, 0, len(fb)*3)
	for _, v := range fb {
		buf = append(buf, v.R, v.G, v.B)
	}
	return buf
}

// Image renders the buffer as a 1xN image for display.Drawer sinks.
func (fb FrameBuffer) Image() *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, len(fb), 1))
	for x := range fb {
		im.SetNRGBA(x, 0, fb[x].NRGBA())
	}
	return im
}
