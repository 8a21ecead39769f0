package grading

import (
	"image"

	"github.com/kovidgoyal/go-parallel"
	"github.com/kovidgoyal/grading/cube"
)

// ApplyLUT remaps every pixel of img through the 3D lookup table, in
// place. A nil LUT is a no-op, matching the parser's "no LUT" result for
// unusable .cube input. Pixels with alpha below 10 are skipped.
func ApplyLUT(img *image.NRGBA, lut *cube.LUT) *image.NRGBA {
	if lut == nil {
		return img
	}
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
				s[0], s[1], s[2] = lut.Sample8(s[0], s[1], s[2])
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, height)
	return img
}
