package grading

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBufferAndClone(t *testing.T) {
	img := testPattern(12, 7)
	c := Clone(img)
	require.Equal(t, img.Pix, c.Pix)
	c.Pix[0] ^= 0xff
	require.NotEqual(t, img.Pix[0], c.Pix[0], "clone must not share storage")

	// cloning a sub-rectangle re-bases it at the origin
	sub := img.SubImage(image.Rect(3, 2, 9, 6)).(*image.NRGBA)
	cs := Clone(sub)
	require.Equal(t, image.Rect(0, 0, 6, 4), cs.Bounds())
	require.Equal(t, pixel(img, 3, 2), pixel(cs, 0, 0))
	require.Equal(t, pixel(img, 8, 5), pixel(cs, 5, 3))
}

func TestBufferFromPixels(t *testing.T) {
	pix := []uint8{1, 2, 3, 255, 4, 5, 6, 255}
	img, err := BufferFromPixels(pix, 2, 1)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 2, 1), img.Bounds())
	require.Equal(t, [4]uint8{4, 5, 6, 255}, pixel(img, 1, 0))
	// the buffer wraps the slice, it does not copy it
	pix[0] = 99
	require.Equal(t, uint8(99), img.Pix[0])

	_, err = BufferFromPixels(pix, 3, 1)
	require.Error(t, err)
}

func TestAsNRGBA(t *testing.T) {
	n := testPattern(5, 5)
	require.Same(t, n, AsNRGBA(n), "NRGBA input passes through without copying")

	g := image.NewGray(image.Rect(0, 0, 3, 3))
	g.SetGray(1, 1, color.Gray{Y: 77})
	got := AsNRGBA(g)
	require.Equal(t, [4]uint8{77, 77, 77, 255}, pixel(got, 1, 1))
}

func TestClamp8(t *testing.T) {
	testCases := []struct {
		in   float64
		want uint8
	}{
		{-5, 0},
		{0, 0},
		{127.4, 127},
		{127.5, 128},
		{255, 255},
		{300, 255},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, clamp8(tc.in), "clamp8(%v)", tc.in)
	}
}

func TestLuminance(t *testing.T) {
	require.InDelta(t, 0.0, luminance(0, 0, 0), 1e-12)
	require.InDelta(t, 1.0, luminance(255, 255, 255), 1e-9)
	require.InDelta(t, 0.587, luminance(0, 255, 0), 1e-9)
	require.Greater(t, luminance(0, 255, 0), luminance(255, 0, 0))
	require.Greater(t, luminance(255, 0, 0), luminance(0, 0, 255))
}
