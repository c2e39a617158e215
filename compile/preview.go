package compile

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"psprite/palette"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

var previewFormats = map[string]string{
	".png":  "png",
	".gif":  "gif",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
}

func previewFormat(name string) (string, error) {
	format, ok := previewFormats[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", fmt.Errorf("unsupported preview format %q, should be png, gif, jpeg, bmp or tiff", filepath.Ext(name))
	}
	return format, nil
}

// renderPreview lays sprites out left to right, top to bottom, columns
// per row, each enlarged scale times with one transparent pixel of spacing.
func renderPreview(sprites []*palette.Indexed, columns, scale int) *image.NRGBA {
	if len(sprites) == 0 {
		return image.NewNRGBA(image.Rectangle{})
	}

	var cw, ch int
	for _, s := range sprites {
		b := s.Paletted().Bounds()
		cw, ch = max(cw, b.Dx()), max(ch, b.Dy())
	}

	columns = min(columns, len(sprites))
	rows := (len(sprites) + columns - 1) / columns
	stepX, stepY := (cw+1)*scale, (ch+1)*scale

	dest := image.NewNRGBA(image.Rect(0, 0, columns*stepX-scale, rows*stepY-scale))
	for i, s := range sprites {
		src := s.Paletted()
		origin := image.Pt((i%columns)*stepX, (i/columns)*stepY)
		dr := image.Rectangle{Min: origin, Max: origin.Add(src.Bounds().Size().Mul(scale))}
		draw.NearestNeighbor.Scale(dest, dr, src, src.Bounds(), draw.Over, nil)
	}

	return dest
}

func encodePreview(w io.Writer, img image.Image, format string) error {
	switch format {
	case "gif":
		if err := gif.Encode(w, img, nil); err != nil {
			return fmt.Errorf("could not encode GIF preview: %w", err)
		}
	case "jpeg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 100}); err != nil {
			return fmt.Errorf("could not encode JPEG preview: %w", err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode PNG preview: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode BMP preview: %w", err)
		}
	case "tiff":
		if err := tiff.Encode(w, img, nil); err != nil {
			return fmt.Errorf("could not encode TIFF preview: %w", err)
		}
	default:
		return fmt.Errorf("unsupported preview format: %s", format)
	}
	return nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
