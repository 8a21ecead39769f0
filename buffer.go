package grading

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/kovidgoyal/go-parallel"
)

var _ = fmt.Print

// Pixels with alpha below this are fully transparent as far as the engine
// is concerned and are skipped by every operation.
const alphaThreshold = 10

// NewBuffer allocates a width x height NRGBA buffer with origin at (0, 0).
func NewBuffer(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// BufferFromPixels wraps a contiguous RGBA pixel slice in an NRGBA buffer
// without copying. len(p) must be width*height*4.
func BufferFromPixels(p []uint8, width, height int) (*image.NRGBA, error) {
	if expected := 4 * width * height; expected != len(p) {
		return nil, fmt.Errorf("pixel data does not match dimensions: width=%d height=%d sz=%d != %d", width, height, len(p), expected)
	}
	return &image.NRGBA{Pix: p, Stride: 4 * width, Rect: image.Rect(0, 0, width, height)}, nil
}

// Clone converts any image to a fresh *image.NRGBA with origin (0, 0).
// The fast path copies rows directly when the source is already NRGBA.
func Clone(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		width := b.Dx()
		f := func(start, limit int) {
			for y := start; y < limit; y++ {
				copy(dst.Pix[y*dst.Stride:y*dst.Stride+4*width], src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X)*4:])
			}
		}
		_ = parallel.Run_in_parallel_over_range(0, f, 0, b.Dy())
		return dst
	}
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// AsNRGBA returns img unchanged when it already is a zero-origin NRGBA
// buffer and a converted copy otherwise.
func AsNRGBA(img image.Image) *image.NRGBA {
	if p, ok := img.(*image.NRGBA); ok && p.Rect.Min == (image.Point{}) {
		return p
	}
	return Clone(img)
}

func clamp8(x float64) uint8 {
	return uint8(max(0, min(math.Round(x), 255)))
}

func clamp01(x float64) float64 {
	return max(0, min(x, 1))
}

// luminance of unclamped working channel values, clamped to [0, 1].
func luminance(r, g, b float64) float64 {
	return clamp01((0.299*r + 0.587*g + 0.114*b) / 255)
}
