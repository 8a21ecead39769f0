// Package colorspace implements the color conversions used by the grading
// engine and its callers: RGB <-> HSL, RGB <-> CMYK, hex and CSS-style
// color string parsing, and simple mixing/lighten/darken/palette helpers.
//
// Conventions:
//   - RGB channels are 8 bit (0..255).
//   - HSL hue is in whole degrees (0..360), saturation and lightness in
//     whole percent (0..100). Conversions round to the nearest unit, so
//     RGB -> HSL -> RGB round-trips within a few units per channel.
//   - CMYK components are in whole percent (0..100).
//
// All functions are pure.
package colorspace

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadColor is returned when a color string cannot be parsed.
var ErrBadColor = errors.New("colorspace: unrecognized color format")

type RGB struct {
	R, G, B uint8
}

type HSL struct {
	H, S, L int
}

type CMYK struct {
	C, M, Y, K int
}

func (c RGB) String() string { return c.Hex() }

// Hex formats the color as lowercase #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var hex6 = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)
var hex3 = regexp.MustCompile(`^#?([0-9a-fA-F]{3})$`)
var rgbFunc = regexp.MustCompile(`^rgb\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*\)$`)
var hslFunc = regexp.MustCompile(`^hsl\(\s*(-?\d+)\s*,\s*(\d+)%\s*,\s*(\d+)%\s*\)$`)

// HexToRGB parses a #rrggbb color, case-insensitive. The leading # is
// required.
func HexToRGB(s string) (RGB, error) {
	if !strings.HasPrefix(s, "#") {
		return RGB{}, ErrBadColor
	}
	m := hex6.FindStringSubmatch(s)
	if m == nil {
		return RGB{}, ErrBadColor
	}
	v, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return RGB{}, ErrBadColor
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Parse accepts 6-digit hex (with or without #), 3-digit hex (each digit
// duplicated), rgb(r, g, b) and hsl(h, s%, l%) strings.
func Parse(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if m := hex6.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseUint(m[1], 16, 32)
		return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
	}
	if m := hex3.FindStringSubmatch(s); m != nil {
		expanded := make([]byte, 0, 6)
		for _, c := range []byte(m[1]) {
			expanded = append(expanded, c, c)
		}
		v, _ := strconv.ParseUint(string(expanded), 16, 32)
		return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
	}
	if m := rgbFunc.FindStringSubmatch(s); m != nil {
		r, err1 := strconv.Atoi(m[1])
		g, err2 := strconv.Atoi(m[2])
		b, err3 := strconv.Atoi(m[3])
		if err1 != nil || err2 != nil || err3 != nil || r > 255 || g > 255 || b > 255 {
			return RGB{}, ErrBadColor
		}
		return RGB{uint8(r), uint8(g), uint8(b)}, nil
	}
	if m := hslFunc.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		sat, _ := strconv.Atoi(m[2])
		l, _ := strconv.Atoi(m[3])
		if sat > 100 || l > 100 {
			return RGB{}, ErrBadColor
		}
		return HSLToRGB(HSL{h, sat, l}), nil
	}
	return RGB{}, ErrBadColor
}

// RGBToHSL converts using the standard min/max/delta algorithm. Hue is
// rounded to the nearest degree, saturation and lightness to the nearest
// percent.
func RGBToHSL(c RGB) HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	mx := max(r, g, b)
	mn := min(r, g, b)
	l := (mx + mn) / 2
	var h, s float64
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
	return HSL{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

func hueToChannel(p, q, t float64) float64 {
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

// HSLToRGB is the inverse of RGBToHSL. Hue wraps modulo 360; saturation
// and lightness are clamped to [0, 100].
func HSLToRGB(c HSL) RGB {
	h := float64(((c.H % 360) + 360) % 360)
	s := max(0, min(float64(c.S), 100)) / 100
	l := max(0, min(float64(c.L), 100)) / 100
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return RGB{v, v, v}
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hn := h / 360
	r := hueToChannel(p, q, hn+1.0/3)
	g := hueToChannel(p, q, hn)
	b := hueToChannel(p, q, hn-1.0/3)
	return RGB{
		uint8(math.Round(r * 255)),
		uint8(math.Round(g * 255)),
		uint8(math.Round(b * 255)),
	}
}

// RGBToCMYK converts with k = 1 - max(r, g, b). Pure black maps to
// c=m=y=0, k=100 rather than dividing by zero.
func RGBToCMYK(c RGB) CMYK {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	k := 1 - max(r, g, b)
	if k >= 1 {
		return CMYK{0, 0, 0, 100}
	}
	cy := (1 - r - k) / (1 - k)
	m := (1 - g - k) / (1 - k)
	y := (1 - b - k) / (1 - k)
	return CMYK{
		C: int(math.Round(cy * 100)),
		M: int(math.Round(m * 100)),
		Y: int(math.Round(y * 100)),
		K: int(math.Round(k * 100)),
	}
}

func CMYKToRGB(c CMYK) RGB {
	cy := float64(c.C) / 100
	m := float64(c.M) / 100
	y := float64(c.Y) / 100
	k := float64(c.K) / 100
	return RGB{
		uint8(math.Round(255 * (1 - cy) * (1 - k))),
		uint8(math.Round(255 * (1 - m) * (1 - k))),
		uint8(math.Round(255 * (1 - y) * (1 - k))),
	}
}

// Lighten raises HSL lightness by amount percentage points, clamped to
// [0, 100].
func Lighten(c RGB, amount int) RGB {
	h := RGBToHSL(c)
	h.L = max(0, min(h.L+amount, 100))
	return HSLToRGB(h)
}

// Darken lowers HSL lightness by amount percentage points.
func Darken(c RGB, amount int) RGB {
	return Lighten(c, -amount)
}

// Mix blends b into a by weight, a weighted per-channel average. Weight is
// clamped to [0, 1]; 0 yields a, 1 yields b.
func Mix(a, b RGB, weight float64) RGB {
	w := max(0, min(weight, 1))
	mixc := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x)*(1-w) + float64(y)*w))
	}
	return RGB{mixc(a.R, b.R), mixc(a.G, b.G), mixc(a.B, b.B)}
}

// Palette spreads the base color across n lightness steps, 15 percentage
// points apart and centered on the original, with lightness clamped to
// [10, 90].
func Palette(base RGB, n int) []RGB {
	if n <= 0 {
		return nil
	}
	h := RGBToHSL(base)
	ans := make([]RGB, 0, n)
	for i := range n {
		l := h.L + (i-n/2)*15
		step := h
		step.L = max(10, min(l, 90))
		ans = append(ans, HSLToRGB(step))
	}
	return ans
}
