package pixel

import (
	"errors"
	"fmt"
	"math"
)

// BytesPerPixel is the size of one R, G, B, A pixel in Buffer.Pix.
const BytesPerPixel = 4

var ErrInvalidDimension = errors.New("invalid dimension")

// Buffer is a rectangular grid of non-premultiplied RGBA pixels.
// Operations never modify their receiver; they return new buffers.
type Buffer struct {
	// Pix holds the pixels in row-major order. The pixel at (x, y) starts
	// at Pix[(y*Width + x)*4].
	Pix    []uint8
	Width  int
	Height int
}

// New returns a fully transparent buffer of the given size.
func New(width, height int) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}

	return &Buffer{
		Pix:    make([]uint8, width*height*BytesPerPixel),
		Width:  width,
		Height: height,
	}, nil
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.Width + x) * BytesPerPixel
}

// At returns the R, G, B, A components of the pixel at (x, y).
func (b *Buffer) At(x, y int) (r, g, bl, a uint8) {
	i := b.offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Set is only meant for building buffers, before they are handed out.
func (b *Buffer) Set(x, y int, r, g, bl, a uint8) {
	i := b.offset(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = r, g, bl, a
}

func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		Pix:    append(make([]uint8, 0, len(b.Pix)), b.Pix...),
		Width:  b.Width,
		Height: b.Height,
	}
}

// Equal reports whether both buffers have the same size and pixels.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Width != o.Width || b.Height != o.Height {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Mirror returns a copy of b, with every row reversed when horizontal is set.
func (b *Buffer) Mirror(horizontal bool) *Buffer {
	if !horizontal {
		return b.Clone()
	}

	res := &Buffer{
		Pix:    make([]uint8, len(b.Pix)),
		Width:  b.Width,
		Height: b.Height,
	}
	for y := range b.Height {
		for x := range b.Width {
			src := b.offset(x, y)
			dst := res.offset(b.Width-1-x, y)
			copy(res.Pix[dst:dst+BytesPerPixel], b.Pix[src:src+BytesPerPixel])
		}
	}
	return res
}

// CompositeOver draws src over b with source-over alpha compositing and
// returns the result. A nil src yields a plain clone of b.
//
// Wherever src is fully transparent the result is fully transparent too.
// Every channel is truncated to a byte as it is stored.
func (b *Buffer) CompositeOver(src *Buffer) *Buffer {
	res := b.Clone()
	if src == nil {
		return res
	}

	w, h := min(src.Width, b.Width), min(src.Height, b.Height)
	for y := range h {
		for x := range w {
			si, di := src.offset(x, y), b.offset(x, y)

			sa := float64(src.Pix[si+3]) / 0xff
			if sa == 0 {
				res.Pix[di+3] = 0
				continue
			}

			da := float64(b.Pix[di+3]) / 0xff
			ra := sa + da*(1-sa)

			for c := range 3 {
				v := (float64(src.Pix[si+c])*sa + float64(b.Pix[di+c])*da*(1-sa)) / ra
				res.Pix[di+c] = toByte(v)
			}
			res.Pix[di+3] = toByte(ra * 0xff)
		}
	}
	return res
}

func toByte(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(max(0, min(0xff, math.Trunc(v))))
}
