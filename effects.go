package grading

import (
	"image"

	"github.com/kovidgoyal/go-parallel"
)

// GrayscaleEffect replaces every channel with the pixel's luminance
// (0.299/0.587/0.114 weights), in place.
func GrayscaleEffect(img *image.NRGBA) *image.NRGBA {
	return eachOpaquePixel(img, func(r, g, b float64) (float64, float64, float64) {
		gray := 0.299*r + 0.587*g + 0.114*b
		return gray, gray, gray
	})
}

// SepiaEffect applies the fixed sepia matrix, in place.
func SepiaEffect(img *image.NRGBA) *image.NRGBA {
	return eachOpaquePixel(img, func(r, g, b float64) (float64, float64, float64) {
		return 0.393*r + 0.769*g + 0.189*b,
			0.349*r + 0.686*g + 0.168*b,
			0.272*r + 0.534*g + 0.131*b
	})
}

// InvertEffect inverts every channel, in place.
func InvertEffect(img *image.NRGBA) *image.NRGBA {
	return eachOpaquePixel(img, func(r, g, b float64) (float64, float64, float64) {
		return 255 - r, 255 - g, 255 - b
	})
}

// eachOpaquePixel runs fn over the RGB channels of every pixel whose alpha
// is at least the transparency threshold, row-parallel, clamping and
// rounding the result.
func eachOpaquePixel(img *image.NRGBA, fn func(r, g, b float64) (float64, float64, float64)) *image.NRGBA {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			row := img.Pix[y*img.Stride:]
			_ = row[4*(width-1)+3]
			for x := range width {
				s := row[4*x : 4*x+4 : 4*x+4]
				if s[3] < alphaThreshold {
					continue
				}
				r, g, bl := fn(float64(s[0]), float64(s[1]), float64(s[2]))
				s[0], s[1], s[2] = clamp8(r), clamp8(g), clamp8(bl)
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, height)
	return img
}
