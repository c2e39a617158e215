package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"

	"psprite/pixel"
)

// MaxColors is the largest palette an object may use.
const MaxColors = 11

// Transparent marks a pixel that is not part of the palette.
const Transparent = -1

var ErrPaletteOverflow = errors.New("palette overflow")

// Color is an opaque 0xRRGGBB color.
type Color uint32

func FromColor(c color.Color) Color {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return Color(uint32(rgba.R)<<16 | uint32(rgba.G)<<8 | uint32(rgba.B))
}

// Hex formats c as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xff}.RGBA()
}

// Indexed is a sprite reduced to a palette of opaque colors.
type Indexed struct {
	Name    string
	Palette []Color
	// Pixels holds palette indices, indexed [row][column], or Transparent.
	Pixels [][]int
}

// Encode builds the palette of sprite in first-seen order. Any pixel that
// is not fully opaque becomes Transparent.
func Encode(name string, sprite *pixel.Buffer) (*Indexed, error) {
	res := &Indexed{
		Name:   name,
		Pixels: make([][]int, sprite.Height),
	}

	for y := range sprite.Height {
		res.Pixels[y] = make([]int, sprite.Width)
		for x := range sprite.Width {
			r, g, b, a := sprite.At(x, y)
			if a < 0xff {
				res.Pixels[y][x] = Transparent
				continue
			}

			c := Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
			idx := slices.Index(res.Palette, c)
			if idx < 0 {
				if len(res.Palette) >= MaxColors {
					return nil, fmt.Errorf("%w: object %s has more than %d colors", ErrPaletteOverflow, name, MaxColors)
				}
				idx = len(res.Palette)
				res.Palette = append(res.Palette, c)
			}
			res.Pixels[y][x] = idx
		}
	}

	return res, nil
}

// IsBlank reports whether every pixel is transparent.
func (s *Indexed) IsBlank() bool {
	for _, row := range s.Pixels {
		for _, idx := range row {
			if idx != Transparent {
				return false
			}
		}
	}
	return true
}

// ColorPalette returns the palette as a color.Palette.
func (s *Indexed) ColorPalette() color.Palette {
	pal := make(color.Palette, len(s.Palette))
	for i, c := range s.Palette {
		pal[i] = c
	}
	return pal
}

// Paletted renders the sprite as a paletted image. Transparent pixels use
// an extra, fully transparent, last palette entry.
func (s *Indexed) Paletted() *image.Paletted {
	var w int
	if len(s.Pixels) > 0 {
		w = len(s.Pixels[0])
	}

	pal := append(s.ColorPalette(), color.RGBA{})
	img := image.NewPaletted(image.Rect(0, 0, w, len(s.Pixels)), pal)
	for y, row := range s.Pixels {
		for x, idx := range row {
			if idx == Transparent {
				idx = len(s.Palette)
			}
			img.SetColorIndex(x, y, uint8(idx))
		}
	}
	return img
}
