package grading

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatFromExtension(t *testing.T) {
	testCases := []struct {
		ext  string
		want Format
		ok   bool
	}{
		{".jpg", JPEG, true},
		{"JPEG", JPEG, true},
		{".PNG", PNG, true},
		{"gif", GIF, true},
		{".tiff", TIFF, true},
		{"tif", TIFF, true},
		{".webp", WEBP, true},
		{".bmp", BMP, true},
		{".txt", UNKNOWN, false},
		{"", UNKNOWN, false},
	}
	for _, tc := range testCases {
		got, err := FormatFromExtension(tc.ext)
		if tc.ok {
			require.NoError(t, err, tc.ext)
		} else {
			require.ErrorIs(t, err, ErrUnsupportedFormat, tc.ext)
		}
		require.Equal(t, tc.want, got, tc.ext)
	}

	f, err := FormatFromFilename("/some/dir/photo.Jpeg")
	require.NoError(t, err)
	require.Equal(t, JPEG, f)
	_, err = FormatFromFilename("noext")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSaveOpenRoundTrip(t *testing.T) {
	src := testPattern(13, 9)
	dir := t.TempDir()
	// lossless formats must round-trip the pixels exactly
	for _, name := range []string{"a.png", "a.bmp", "a.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(src, path))
			got, err := Open(path)
			require.NoError(t, err)
			require.Equal(t, src.Bounds(), got.Bounds())
			if name == "a.bmp" {
				return // BMP has no alpha channel
			}
			require.Equal(t, src.Pix, got.Pix)
		})
	}
	require.ErrorIs(t, Save(src, filepath.Join(dir, "a.xyz")), ErrUnsupportedFormat)
}

func TestEncodeJPEGAndGIF(t *testing.T) {
	src := testPattern(8, 8)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, JPEG, JPEGQuality(80)))
	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), got.Bounds())

	buf.Reset()
	require.NoError(t, Encode(&buf, src, GIF, GIFNumColors(16)))
	got, err = Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), got.Bounds())

	require.ErrorIs(t, Encode(&buf, src, UNKNOWN), ErrUnsupportedFormat)
}

func TestDecodeWithoutAutoOrientation(t *testing.T) {
	src := testPattern(6, 4)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	got, err := Decode(&buf, AutoOrientation(false))
	require.NoError(t, err)
	require.Equal(t, src.Pix, got.Pix)
}

func TestOrientationTransforms(t *testing.T) {
	// a 2x1 image [A B]
	src := NewBuffer(2, 1)
	a := [4]uint8{10, 20, 30, 255}
	b := [4]uint8{40, 50, 60, 255}
	copy(src.Pix[0:4], a[:])
	copy(src.Pix[4:8], b[:])

	got := FlipH(src)
	require.Equal(t, b, pixel(got, 0, 0))
	require.Equal(t, a, pixel(got, 1, 0))

	got = FlipV(src) // single row, nothing moves
	require.Equal(t, a, pixel(got, 0, 0))

	got = Rotate90(src) // counter-clockwise: B ends on top
	require.Equal(t, image.Rect(0, 0, 1, 2), got.Bounds())
	require.Equal(t, b, pixel(got, 0, 0))
	require.Equal(t, a, pixel(got, 0, 1))

	got = Rotate270(src) // clockwise: A ends on top
	require.Equal(t, a, pixel(got, 0, 0))
	require.Equal(t, b, pixel(got, 0, 1))

	got = Rotate180(src)
	require.Equal(t, b, pixel(got, 0, 0))
	require.Equal(t, a, pixel(got, 1, 0))

	got = Transpose(src)
	require.Equal(t, a, pixel(got, 0, 0))
	require.Equal(t, b, pixel(got, 0, 1))

	got = Transverse(src)
	require.Equal(t, b, pixel(got, 0, 0))
	require.Equal(t, a, pixel(got, 0, 1))
}

func TestOrientationRoundTrips(t *testing.T) {
	src := testPattern(7, 5)
	require.Equal(t, src.Pix, FlipH(FlipH(src)).Pix)
	require.Equal(t, src.Pix, FlipV(FlipV(src)).Pix)
	require.Equal(t, src.Pix, Rotate180(Rotate180(src)).Pix)
	require.Equal(t, src.Pix, Rotate270(Rotate90(src)).Pix)
	require.Equal(t, src.Pix, Transpose(Transpose(src)).Pix)
}
