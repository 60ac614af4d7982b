package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeToJPGResizes(t *testing.T) {
	out, err := NormalizeToJPG(pngBytes(t, 200, 100), 50, 90)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestNormalizeToJPGKeepsSmallImages(t *testing.T) {
	out, err := NormalizeToJPG(pngBytes(t, 20, 10), 512, 0)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
}

func TestNormalizeToJPGRejectsGarbage(t *testing.T) {
	_, err := NormalizeToJPG(nil, 0, 0)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = NormalizeToJPG([]byte("definitely not an image"), 0, 0)
	assert.Error(t, err)
}

func TestOrientRotatesDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})

	rotated := orient(src, 6)
	assert.Equal(t, 2, rotated.Bounds().Dx())
	assert.Equal(t, 4, rotated.Bounds().Dy())
	// top-left moves to top-right on a 90° clockwise turn
	r, _, _, _ := rotated.At(1, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)

	assert.Equal(t, src, orient(src, 1))
}
