package pixel

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// Decode reads a sprite sheet in any registered image format.
func Decode(r io.Reader) (*Buffer, string, error) {
	img, imgType, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image: %w", err)
	}

	return FromImage(img), imgType, nil
}

// FromImage converts img to non-premultiplied RGBA, with its top-left
// corner at (0, 0).
func FromImage(img image.Image) *Buffer {
	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != dr.Dx()*BytesPerPixel || sr.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(dr)
		draw.Draw(nrgba, dr, img, sr.Min, draw.Src)
	}

	return &Buffer{
		Pix:    append([]uint8(nil), nrgba.Pix[:dr.Dx()*dr.Dy()*BytesPerPixel]...),
		Width:  dr.Dx(),
		Height: dr.Dy(),
	}
}

// ToImage returns a copy of b as an *image.NRGBA.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}
