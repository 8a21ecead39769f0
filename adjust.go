package grading

import (
	"fmt"
	"image"
	"math"

	"github.com/kovidgoyal/go-parallel"
)

var _ = fmt.Print

// AdjustmentParams is the free-form slider parameter set for Adjust. All
// sliders range -100..100 except Sharpness (0..100). The zero value is the
// identity: a buffer processed with default params is returned unchanged.
type AdjustmentParams struct {
	Temperature float64
	Tint        float64
	Brightness  float64
	Contrast    float64
	Highlights  float64
	Shadows     float64
	Whites      float64
	Blacks      float64
	Vibrance    float64
	Saturation  float64
	Clarity     float64
	Sharpness   float64
	Vignette    float64

	Grayscale bool
	Sepia     bool
	Invert    bool

	// Preset records the id of the preset last merged onto these params,
	// if any.
	Preset string
}

// IsIdentity reports whether applying the params would leave any buffer
// unchanged.
func (p *AdjustmentParams) IsIdentity() bool {
	return *p == AdjustmentParams{Preset: p.Preset}
}

// Channel magnitudes for the stages whose sliders express a relative
// amount rather than a direct factor.
const (
	temperatureMagnitude = 30.0
	tintMagnitude        = 30.0
	highlightsMagnitude  = 30.0
	shadowsMagnitude     = 30.0
	whitesScale          = 0.3
	blacksLiftMagnitude  = 25.0
	blacksCrushScale     = 0.5
	vibranceScale        = 0.5
	clarityScale         = 0.3
)

// midtoneFactor peaks at luminance 0.5 and vanishes at 0 and 1.
func midtoneFactor(lum float64) float64 {
	return 1 - math.Abs(lum-0.5)*2
}

// temperatureShift moves red up and blue down (for positive amounts),
// weighted toward the highlights. amount is in channel units.
func temperatureShift(r, g, b, amount float64) (float64, float64, float64) {
	influence := 0.5 + 0.5*luminance(r, g, b)
	return r + amount*influence, g, b - amount*influence
}

// tintShift moves green toward magenta (positive) or back (negative),
// strongest in the midtones. amount is in channel units.
func tintShift(r, g, b, amount float64) (float64, float64, float64) {
	influence := midtoneFactor(luminance(r, g, b))
	return r, g - amount*influence, b
}

// contrastScale pivots each channel around neutral gray.
func contrastScale(ch, factor float64) float64 {
	return 128 + (ch-128)*factor
}

// saturationScale moves channels away from (or toward) the pixel's
// luminance-weighted gray.
func saturationScale(r, g, b, factor float64) (float64, float64, float64) {
	gray := 0.299*r + 0.587*g + 0.114*b
	return gray + (r-gray)*factor, gray + (g-gray)*factor, gray + (b-gray)*factor
}

// vibranceBoost boosts saturation in proportion to how unsaturated the
// pixel currently is, protecting already-saturated pixels. amount is the
// full boost applied to a fully desaturated pixel.
func vibranceBoost(r, g, b, amount float64) (float64, float64, float64) {
	mx := max(r, g, b)
	if mx <= 0 {
		return r, g, b
	}
	mn := min(r, g, b)
	sat := (mx - mn) / mx
	boost := amount * (1 - sat)
	gray := (r + g + b) / 3
	return r + (r-gray)*boost, g + (g-gray)*boost, b + (b-gray)*boost
}

// clarityBoost is a midtone-weighted contrast boost pivoted at 128.
func clarityBoost(r, g, b, amount float64) (float64, float64, float64) {
	factor := 1 + amount*midtoneFactor(luminance(r, g, b))
	return contrastScale(r, factor), contrastScale(g, factor), contrastScale(b, factor)
}

// vignetteGeometry carries the per-image constants of the vignette stage.
type vignetteGeometry struct {
	cx, cy, maxDist float64
}

func newVignetteGeometry(width, height int) vignetteGeometry {
	cx := float64(width) / 2
	cy := float64(height) / 2
	return vignetteGeometry{cx: cx, cy: cy, maxDist: math.Hypot(cx, cy)}
}

// apply darkens (positive amount) or lightens (negative amount) with
// quadratic falloff from the image center. The darken factor is floored
// at 0.2; lightening blends toward white.
func (vg *vignetteGeometry) apply(r, g, b, amount float64, x, y int) (float64, float64, float64) {
	dist := math.Hypot(float64(x)-vg.cx, float64(y)-vg.cy) / vg.maxDist
	falloff := dist * dist
	if amount > 0 {
		factor := max(1-amount/100*falloff, 0.2)
		return r * factor, g * factor, b * factor
	}
	blend := -amount / 100 * falloff
	return r + (255-r)*blend, g + (255-g)*blend, b + (255-b)*blend
}

// Adjust runs the fixed 14-stage tone/color pipeline over img in place and
// returns it. The stage order is a correctness contract: the operations do
// not commute. Channels are kept as unclamped floats through the first 13
// stages and clamped+rounded once per pixel; sharpening runs last as its
// own pass over the already-rounded buffer. Pixels with alpha below 10 are
// skipped entirely.
func Adjust(img *image.NRGBA, p AdjustmentParams) *image.NRGBA {
	if p.IsIdentity() {
		return img
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	vg := newVignetteGeometry(width, height)
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			row := img.Pix[y*img.Stride:]
			_ = row[4*(width-1)+3]
			for x := range width {
				s := row[4*x : 4*x+4 : 4*x+4]
				if s[3] < alphaThreshold {
					continue
				}
				r, g, bl := float64(s[0]), float64(s[1]), float64(s[2])
				if p.Temperature != 0 {
					r, g, bl = temperatureShift(r, g, bl, p.Temperature/100*temperatureMagnitude)
				}
				if p.Tint != 0 {
					r, g, bl = tintShift(r, g, bl, p.Tint/100*tintMagnitude)
				}
				if p.Brightness != 0 {
					factor := 1 + p.Brightness/100
					r, g, bl = r*factor, g*factor, bl*factor
				}
				if p.Contrast != 0 {
					factor := 1 + p.Contrast/100
					r, g, bl = contrastScale(r, factor), contrastScale(g, factor), contrastScale(bl, factor)
				}
				if p.Highlights != 0 {
					if lum := luminance(r, g, bl); lum > 0.5 {
						amt := p.Highlights / 100 * highlightsMagnitude * (lum - 0.5) * 2
						r, g, bl = r+amt, g+amt, bl+amt
					}
				}
				if p.Shadows != 0 {
					if lum := luminance(r, g, bl); lum < 0.5 {
						amt := p.Shadows / 100 * shadowsMagnitude * (0.5 - lum) * 2
						r, g, bl = r+amt, g+amt, bl+amt
					}
				}
				if p.Whites != 0 {
					if lum := luminance(r, g, bl); lum > 0.8 {
						factor := 1 + p.Whites/100*whitesScale*(lum-0.8)/0.2
						r, g, bl = r*factor, g*factor, bl*factor
					}
				}
				if p.Blacks != 0 {
					if lum := luminance(r, g, bl); lum < 0.2 {
						influence := (0.2 - lum) / 0.2
						if p.Blacks > 0 {
							amt := p.Blacks / 100 * blacksLiftMagnitude * influence
							r, g, bl = r+amt, g+amt, bl+amt
						} else {
							factor := 1 + p.Blacks/100*blacksCrushScale*influence
							r, g, bl = r*factor, g*factor, bl*factor
						}
					}
				}
				if p.Vibrance != 0 {
					r, g, bl = vibranceBoost(r, g, bl, p.Vibrance/100*vibranceScale)
				}
				if p.Saturation != 0 {
					r, g, bl = saturationScale(r, g, bl, 1+p.Saturation/100)
				}
				if p.Invert {
					r, g, bl = 255-r, 255-g, 255-bl
				}
				if p.Clarity != 0 {
					r, g, bl = clarityBoost(r, g, bl, p.Clarity/100*clarityScale)
				}
				if p.Vignette != 0 {
					r, g, bl = vg.apply(r, g, bl, p.Vignette, x, y)
				}
				s[0], s[1], s[2] = clamp8(r), clamp8(g), clamp8(bl)
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, height)
	if p.Grayscale {
		GrayscaleEffect(img)
	}
	if p.Sepia {
		SepiaEffect(img)
	}
	if p.Sharpness > 0 {
		Sharpen(img, p.Sharpness)
	}
	return img
}
