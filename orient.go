package grading

import (
	"image"

	"github.com/kovidgoyal/go-parallel"
)

// Geometric transforms used for EXIF auto-orientation. Each returns a new
// buffer; the source is read only.

func FlipH(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	dst := NewBuffer(width, height)
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			row := src.Pix[y*src.Stride:]
			out := dst.Pix[y*dst.Stride:]
			for x := range width {
				copy(out[4*(width-1-x):4*(width-x):4*(width-x)], row[4*x:4*x+4])
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, height)
	return dst
}

func FlipV(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	dst := NewBuffer(width, height)
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			copy(dst.Pix[(height-1-y)*dst.Stride:(height-1-y)*dst.Stride+4*width], src.Pix[y*src.Stride:])
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, height)
	return dst
}

func Rotate180(src *image.NRGBA) *image.NRGBA {
	return FlipV(FlipH(src))
}

// Rotate90 rotates counter-clockwise.
func Rotate90(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	dst := NewBuffer(height, width)
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			row := src.Pix[y*src.Stride:]
			for x := range width {
				o := (width-1-x)*dst.Stride + 4*y
				copy(dst.Pix[o:o+4:o+4], row[4*x:4*x+4])
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, height)
	return dst
}

// Rotate270 rotates clockwise.
func Rotate270(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	dst := NewBuffer(height, width)
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			row := src.Pix[y*src.Stride:]
			for x := range width {
				o := x*dst.Stride + 4*(height-1-y)
				copy(dst.Pix[o:o+4:o+4], row[4*x:4*x+4])
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, height)
	return dst
}

// Transpose mirrors across the top-left to bottom-right diagonal.
func Transpose(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	dst := NewBuffer(height, width)
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			row := src.Pix[y*src.Stride:]
			for x := range width {
				o := x*dst.Stride + 4*y
				copy(dst.Pix[o:o+4:o+4], row[4*x:4*x+4])
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, height)
	return dst
}

// Transverse mirrors across the bottom-left to top-right diagonal.
func Transverse(src *image.NRGBA) *image.NRGBA {
	return Rotate180(Transpose(src))
}
