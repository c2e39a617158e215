package pixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(t *testing.T, w, h int, r, g, b, a uint8) *Buffer {
	t.Helper()
	buf, err := New(w, h)
	require.NoError(t, err)
	for y := range h {
		for x := range w {
			buf.Set(x, y, r, g, b, a)
		}
	}
	return buf
}

func gradient(t *testing.T, w, h int) *Buffer {
	t.Helper()
	buf, err := New(w, h)
	require.NoError(t, err)
	for y := range h {
		for x := range w {
			buf.Set(x, y, uint8(x*40), uint8(y*40), uint8(x+y), uint8(0x80+x))
		}
	}
	return buf
}

func TestNew(t *testing.T) {
	buf, err := New(3, 2)
	require.NoError(t, err)
	assert.Len(t, buf.Pix, 3*2*BytesPerPixel)
	for _, v := range buf.Pix {
		assert.Zero(t, v)
	}

	empty, err := New(0, 0)
	require.NoError(t, err)
	assert.Empty(t, empty.Pix)

	_, err = New(-1, 2)
	assert.ErrorIs(t, err, ErrInvalidDimension)
	_, err = New(2, -1)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestCloneIsIndependent(t *testing.T) {
	src := gradient(t, 4, 3)
	dup := src.Clone()
	require.True(t, src.Equal(dup))

	dup.Set(0, 0, 1, 2, 3, 4)
	assert.False(t, src.Equal(dup))
}

func TestMirror(t *testing.T) {
	src := gradient(t, 5, 3)

	same := src.Mirror(false)
	assert.True(t, src.Equal(same))
	same.Set(0, 0, 9, 9, 9, 9)
	assert.False(t, src.Equal(same), "unflipped mirror must be a copy")

	flipped := src.Mirror(true)
	for y := range src.Height {
		for x := range src.Width {
			r, g, b, a := src.At(src.Width-1-x, y)
			fr, fg, fb, fa := flipped.At(x, y)
			assert.Equal(t, []uint8{r, g, b, a}, []uint8{fr, fg, fb, fa}, "pixel %d,%d", x, y)
		}
	}

	assert.True(t, src.Equal(flipped.Mirror(true)), "mirroring twice must restore the buffer")
}

func TestCompositeOver(t *testing.T) {
	dst := gradient(t, 4, 4)

	t.Run("nil source", func(t *testing.T) {
		res := dst.CompositeOver(nil)
		assert.True(t, dst.Equal(res))
		assert.NotSame(t, &dst.Pix[0], &res.Pix[0])
	})

	t.Run("transparent source", func(t *testing.T) {
		res := dst.CompositeOver(filled(t, 4, 4, 10, 20, 30, 0))
		for y := range 4 {
			for x := range 4 {
				_, _, _, a := res.At(x, y)
				assert.Zero(t, a)
			}
		}
	})

	t.Run("opaque source", func(t *testing.T) {
		src := gradient(t, 4, 4)
		for y := range 4 {
			for x := range 4 {
				r, g, b, _ := src.At(x, y)
				src.Set(x, y, r, g, b, 0xff)
			}
		}
		assert.True(t, src.Equal(dst.CompositeOver(src)))
	})

	t.Run("half transparent over opaque", func(t *testing.T) {
		res := filled(t, 1, 1, 0, 0, 0xff, 0xff).CompositeOver(filled(t, 1, 1, 0xff, 0, 0, 0x80))
		r, g, b, a := res.At(0, 0)
		// sa = 128/255: 255*sa = 128.0, 255*(1-sa) = 127.0
		assert.Equal(t, uint8(128), r)
		assert.Equal(t, uint8(0), g)
		assert.Equal(t, uint8(127), b)
		assert.Equal(t, uint8(0xff), a)
	})

	t.Run("half transparent over empty", func(t *testing.T) {
		res := filled(t, 1, 1, 0, 0, 0, 0).CompositeOver(filled(t, 1, 1, 200, 100, 50, 0x40))
		r, g, b, a := res.At(0, 0)
		assert.Equal(t, []uint8{200, 100, 50, 0x40}, []uint8{r, g, b, a})
	})

	t.Run("inputs untouched", func(t *testing.T) {
		before := dst.Clone()
		_ = dst.CompositeOver(filled(t, 4, 4, 1, 2, 3, 0x80))
		assert.True(t, before.Equal(dst))
	})
}
