package palette

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRIFFRoundTrip(t *testing.T) {
	pals := []color.Palette{
		{Color(0xff0000), Color(0x00ff00)},
		{Color(0x010203)},
	}

	var buf bytes.Buffer
	n, err := WriteTo(&buf, pals)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	raw := buf.Bytes()
	assert.Equal(t, []byte("RIFF"), raw[:4])
	assert.Equal(t, []byte("PAL data"), raw[8:16])
	assert.Equal(t, len(raw)-8, int(raw[4]))

	got, err := ReadFrom(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, color.Palette{
		color.RGBA{R: 0xff, A: 0xff},
		color.RGBA{G: 0xff, A: 0xff},
	}, got[0])
	assert.Equal(t, color.Palette{color.RGBA{R: 1, G: 2, B: 3, A: 0xff}}, got[1])
}

func TestRIFFInvalid(t *testing.T) {
	_, err := ReadFrom(strings.NewReader("nope"))
	assert.Error(t, err)

	var buf bytes.Buffer
	_, err = WriteTo(&buf, []color.Palette{{Color(0)}})
	require.NoError(t, err)
	raw := buf.Bytes()
	raw[8] = 'W'
	_, err = ReadFrom(bytes.NewReader(raw))
	assert.ErrorContains(t, err, "unsupported RIFF content type")
}
