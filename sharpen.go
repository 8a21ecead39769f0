package grading

import (
	"image"

	"github.com/kovidgoyal/go-parallel"
)

// Sharpen applies a 4-neighbor unsharp mask to img in place. The average
// of the top/bottom/left/right neighbors approximates a blur; each channel
// becomes center + (center-blur)*strength*1.5 with strength = amount/100.
// Neighbor reads come from an immutable snapshot of the input so the pass
// is order-independent. Border pixels and pixels with alpha below 10 are
// left untouched.
func Sharpen(img *image.NRGBA, amount float64) *image.NRGBA {
	if amount <= 0 {
		return img
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width < 3 || height < 3 {
		return img
	}
	strength := min(amount, 100) / 100 * 1.5
	src := make([]uint8, len(img.Pix))
	copy(src, img.Pix)
	stride := img.Stride
	f := func(start, limit int) {
		for y := max(start, 1); y < min(limit, height-1); y++ {
			row := src[y*stride:]
			above := src[(y-1)*stride:]
			below := src[(y+1)*stride:]
			out := img.Pix[y*stride:]
			for x := 1; x < width-1; x++ {
				o := 4 * x
				if row[o+3] < alphaThreshold {
					continue
				}
				for ch := range 3 {
					center := float64(row[o+ch])
					blur := (float64(row[o-4+ch]) + float64(row[o+4+ch]) +
						float64(above[o+ch]) + float64(below[o+ch])) / 4
					out[o+ch] = clamp8(center + (center-blur)*strength)
				}
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, height)
	return img
}
