package grading

import (
	"math"
)

// PopEffect selects a ColorPop hue-remapping variant.
type PopEffect string

const (
	// PopDefault pulls hues toward the primary hue along the shortest
	// angular path.
	PopDefault PopEffect = ""
	// PopDuotone blends hue toward a lightness-weighted interpolation
	// between the primary (shadow) and secondary (highlight) hues.
	PopDuotone PopEffect = "duotone"
	// PopPosterize keeps strongly saturated red hues and desaturates
	// everything else by a fixed delta.
	PopPosterize PopEffect = "posterize"
	// PopVintage applies a small hue drift away from the primary's
	// complement.
	PopVintage PopEffect = "vintage"
	// PopCrossProcess shifts hue toward the primary with a saturation
	// boost.
	PopCrossProcess PopEffect = "crossprocess"
)

// PopTuning parameterizes the ColorPop family. Hues are in degrees,
// Contrast is a -100..100 lightness-only adjustment.
type PopTuning struct {
	Effect       PopEffect
	PrimaryHue   float64
	SecondaryHue float64
	Contrast     float64
}

const posterizeDesaturation = 40.0

// rgbToHSLf converts 8-bit-range channel floats to continuous HSL with
// hue in degrees and saturation/lightness in percent. The engine keeps
// this separate from package colorspace, whose conversions round to whole
// units for UI use.
func rgbToHSLf(r, g, b float64) (h, s, l float64) {
	r, g, b = clamp01(r/255), clamp01(g/255), clamp01(b/255)
	mx, mn := max(r, g, b), min(r, g, b)
	l = (mx + mn) / 2
	if mx != mn {
		d := mx - mn
		if l > 0.5 {
			s = d / (2 - mx - mn)
		} else {
			s = d / (mx + mn)
		}
		switch mx {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h *= 60
	}
	return h, s * 100, l * 100
}

func hslToRGBf(h, s, l float64) (float64, float64, float64) {
	h = math.Mod(math.Mod(h, 360)+360, 360) / 360
	s = max(0, min(s, 100)) / 100
	l = max(0, min(l, 100)) / 100
	if s == 0 {
		v := l * 255
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return hueToChannelf(p, q, h+1.0/3) * 255,
		hueToChannelf(p, q, h) * 255,
		hueToChannelf(p, q, h-1.0/3) * 255
}

func hueToChannelf(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

// hueDelta returns the signed shortest angular path from hue a to hue b,
// in (-180, 180].
func hueDelta(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

func isRedHue(h float64) bool {
	return h < 30 || h > 330
}

// pixel remaps a single pixel in HSL space. Only hue (and for some
// variants saturation) is rewritten; lightness receives at most the
// subtle contrast adjustment, so the subject keeps its tonality. The
// remap strength is the product of a saturation factor and a midtone
// factor: saturated midtones (the likely subject) move most, while very
// dark or very bright pixels are heavily protected.
func (p *PopTuning) pixel(r, g, b float64) (float64, float64, float64) {
	h, s, l := rgbToHSLf(r, g, b)
	influence := (s / 100) * midtoneFactor(l/100)
	if l < 15 || l > 90 {
		influence *= 0.1
	}
	switch p.Effect {
	case PopDuotone:
		target := p.PrimaryHue + hueDelta(p.PrimaryHue, p.SecondaryHue)*(l/100)
		h += hueDelta(h, target) * influence
	case PopPosterize:
		if !(isRedHue(h) && s > 50) {
			s = max(0, s-posterizeDesaturation)
		}
	case PopVintage:
		h += (p.PrimaryHue - 180) * 0.15 * influence
	case PopCrossProcess:
		h += hueDelta(h, p.PrimaryHue) * 0.25 * influence
		s = min(100, s*(1+0.3*influence))
	default:
		h += hueDelta(h, p.PrimaryHue) * 0.7 * influence
	}
	if p.Contrast != 0 {
		l = 50 + (l-50)*(1+p.Contrast/200)
	}
	return hslToRGBf(h, s, l)
}
