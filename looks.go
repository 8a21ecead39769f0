package grading

import (
	"fmt"
	"image"
	"sort"

	"github.com/kovidgoyal/go-parallel"
	"github.com/kovidgoyal/grading/colorspace"
)

// Family tags the per-pixel algorithm a Look dispatches to.
type Family int

const (
	FamilyNatural Family = iota
	FamilyWarm
	FamilyCool
	FamilyVivid
	FamilySoft
	FamilyVintage
	FamilyColorPop
)

var familyNames = map[Family]string{
	FamilyNatural:  "Natural",
	FamilyWarm:     "Warm",
	FamilyCool:     "Cool",
	FamilyVivid:    "Vivid",
	FamilySoft:     "Soft",
	FamilyVintage:  "Vintage",
	FamilyColorPop: "ColorPop",
}

func (f Family) String() string { return familyNames[f] }

// Look is a named, immutable filter: a family tag plus the numeric tuning
// its algorithm reads. Each family reads only its own fields; multiplying
// factors are neutral at 1, shift amounts at 0. Looks are process-wide
// constants, Apply never mutates them.
type Look struct {
	ID     string
	Name   string
	Family Family

	// shared tone primitives (Natural/Warm/Cool/Vivid/Soft/Vintage)
	Brightness float64 // multiplicative factor
	Contrast   float64 // pivot-128 factor
	Saturation float64 // gray-relative factor

	// Warm/Cool/Soft/Vintage
	Temperature float64 // channel units, negative shifts cool
	Tint        float64 // channel units toward magenta

	// Vivid
	Vibrance float64 // full boost for a fully desaturated pixel
	// Natural/Vivid
	Clarity float64 // midtone contrast amount

	// Soft/Vintage
	Softness     float64 // highlight roll-off factor above the threshold
	ShadowLift   float64 // channel units, scaled by 1 - ch/255
	Fade         float64 // Vintage black lift, channel units
	TintColor    colorspace.RGB
	TintStrength float64
	Vignette     float64 // Vintage only, same scale as the vignette slider

	// ColorPop
	Pop PopTuning
}

// softThreshold is the channel value above which Soft/Vintage highlight
// roll-off compresses.
const softThreshold = 200

// Apply runs the Look's family algorithm over img in place and returns
// it. Pixels with alpha below 10 are skipped.
func (lk *Look) Apply(img *image.NRGBA) *image.NRGBA {
	switch lk.Family {
	case FamilyNatural:
		return eachOpaquePixel(img, func(r, g, b float64) (float64, float64, float64) {
			r, g, b = contrastScale(r, lk.Contrast), contrastScale(g, lk.Contrast), contrastScale(b, lk.Contrast)
			r, g, b = saturationScale(r, g, b, lk.Saturation)
			r, g, b = r*lk.Brightness, g*lk.Brightness, b*lk.Brightness
			if lk.Clarity != 0 {
				r, g, b = clarityBoost(r, g, b, lk.Clarity)
			}
			return r, g, b
		})
	case FamilyWarm, FamilyCool:
		// Cool is Warm mirrored toward negative temperature, encoded in
		// the tuning values rather than the algorithm.
		return eachOpaquePixel(img, func(r, g, b float64) (float64, float64, float64) {
			r, g, b = temperatureShift(r, g, b, lk.Temperature)
			r, g, b = tintShift(r, g, b, lk.Tint)
			r, g, b = r*lk.Brightness, g*lk.Brightness, b*lk.Brightness
			r, g, b = contrastScale(r, lk.Contrast), contrastScale(g, lk.Contrast), contrastScale(b, lk.Contrast)
			return saturationScale(r, g, b, lk.Saturation)
		})
	case FamilyVivid:
		// Vibrance and saturation stack here, unlike the slider pipeline
		// where they are independent stages.
		return eachOpaquePixel(img, func(r, g, b float64) (float64, float64, float64) {
			r, g, b = r*lk.Brightness, g*lk.Brightness, b*lk.Brightness
			r, g, b = contrastScale(r, lk.Contrast), contrastScale(g, lk.Contrast), contrastScale(b, lk.Contrast)
			r, g, b = vibranceBoost(r, g, b, lk.Vibrance)
			r, g, b = saturationScale(r, g, b, lk.Saturation)
			return clarityBoost(r, g, b, lk.Clarity)
		})
	case FamilySoft:
		return eachOpaquePixel(img, lk.softPixel)
	case FamilyVintage:
		return lk.applyVintage(img)
	case FamilyColorPop:
		return eachOpaquePixel(img, lk.Pop.pixel)
	}
	return img
}

func rollOffHighlight(ch, softness float64) float64 {
	if ch > softThreshold {
		return softThreshold + (ch-softThreshold)*softness
	}
	return ch
}

func (lk *Look) softPixel(r, g, b float64) (float64, float64, float64) {
	r, g, b = contrastScale(r, lk.Contrast), contrastScale(g, lk.Contrast), contrastScale(b, lk.Contrast)
	r, g, b = rollOffHighlight(r, lk.Softness), rollOffHighlight(g, lk.Softness), rollOffHighlight(b, lk.Softness)
	lift := func(ch float64) float64 { return ch + lk.ShadowLift*(1-ch/255) }
	r, g, b = lift(r), lift(g), lift(b)
	r, g, b = saturationScale(r, g, b, lk.Saturation)
	r, g, b = temperatureShift(r, g, b, lk.Temperature)
	mid := midtoneFactor(luminance(r, g, b))
	blend := func(ch float64, target uint8) float64 {
		return ch + (float64(target)-ch)*lk.TintStrength*mid
	}
	return blend(r, lk.TintColor.R), blend(g, lk.TintColor.G), blend(b, lk.TintColor.B)
}

// applyVintage needs pixel coordinates for its built-in vignette, so it
// runs its own row loop instead of going through eachOpaquePixel.
func (lk *Look) applyVintage(img *image.NRGBA) *image.NRGBA {
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
				r, g, bl = contrastScale(r, lk.Contrast), contrastScale(g, lk.Contrast), contrastScale(bl, lk.Contrast)
				fade := func(ch float64) float64 { return ch + lk.Fade*(1-ch/255) }
				r, g, bl = fade(r), fade(g), fade(bl)
				r, g, bl = rollOffHighlight(r, lk.Softness), rollOffHighlight(g, lk.Softness), rollOffHighlight(bl, lk.Softness)
				r, g, bl = saturationScale(r, g, bl, lk.Saturation)
				r, g, bl = temperatureShift(r, g, bl, lk.Temperature)
				mid := midtoneFactor(luminance(r, g, bl))
				blend := func(ch float64, target uint8) float64 {
					return ch + (float64(target)-ch)*lk.TintStrength*mid
				}
				r, g, bl = blend(r, lk.TintColor.R), blend(g, lk.TintColor.G), blend(bl, lk.TintColor.B)
				if lk.Vignette != 0 {
					r, g, bl = vg.apply(r, g, bl, lk.Vignette, x, y)
				}
				s[0], s[1], s[2] = clamp8(r), clamp8(g), clamp8(bl)
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, height)
	return img
}

// Built-in looks. Immutable after init.
var looks = map[string]*Look{}

func registerLook(lk *Look) *Look {
	if _, dup := looks[lk.ID]; dup {
		panic(fmt.Sprintf("duplicate look id %q", lk.ID))
	}
	looks[lk.ID] = lk
	return lk
}

var (
	LookNatural = registerLook(&Look{
		ID: "natural", Name: "Natural", Family: FamilyNatural,
		Brightness: 1.03, Contrast: 1.08, Saturation: 1.12, Clarity: 0.1,
	})
	LookWarm = registerLook(&Look{
		ID: "warm", Name: "Warm", Family: FamilyWarm,
		Temperature: 14, Tint: 4, Brightness: 1.04, Contrast: 1.05, Saturation: 1.1,
	})
	LookIce = registerLook(&Look{
		ID: "ice", Name: "Ice", Family: FamilyCool,
		Temperature: -14, Tint: -3, Brightness: 1.02, Contrast: 1.08, Saturation: 1.05,
	})
	LookBold = registerLook(&Look{
		ID: "bold", Name: "Bold", Family: FamilyVivid,
		Brightness: 1.02, Contrast: 1.12, Vibrance: 0.35, Saturation: 1.2, Clarity: 0.15,
	})
	LookDream = registerLook(&Look{
		ID: "dream", Name: "Dream", Family: FamilySoft,
		Contrast: 0.92, Softness: 0.6, ShadowLift: 18, Saturation: 0.88,
		Temperature: 6, TintColor: colorspace.RGB{R: 255, G: 228, B: 196}, TintStrength: 0.12,
	})
	LookFilm = registerLook(&Look{
		ID: "film", Name: "Film", Family: FamilyVintage,
		Contrast: 0.9, Fade: 22, Softness: 0.7, Saturation: 0.8,
		Temperature: 8, TintColor: colorspace.RGB{R: 222, G: 196, B: 158}, TintStrength: 0.15,
		Vignette: 25,
	})
	LookNeon = registerLook(&Look{
		ID: "neon", Name: "Neon", Family: FamilyColorPop,
		Pop: PopTuning{PrimaryHue: 300, SecondaryHue: 180, Contrast: 20},
	})
	LookNeonDuotone = registerLook(&Look{
		ID: "neon-duotone", Name: "Neon Duotone", Family: FamilyColorPop,
		Pop: PopTuning{Effect: PopDuotone, PrimaryHue: 260, SecondaryHue: 50, Contrast: 15},
	})
	LookNeonCross = registerLook(&Look{
		ID: "neon-cross", Name: "Neon Cross", Family: FamilyColorPop,
		Pop: PopTuning{Effect: PopCrossProcess, PrimaryHue: 120, Contrast: 10},
	})
)

// LookByID returns the built-in look with the given id.
func LookByID(id string) (*Look, bool) {
	lk, ok := looks[id]
	return lk, ok
}

// Looks returns all built-in looks sorted by id.
func Looks() []*Look {
	ans := make([]*Look, 0, len(looks))
	for _, lk := range looks {
		ans = append(ans, lk)
	}
	sort.Slice(ans, func(i, j int) bool { return ans[i].ID < ans[j].ID })
	return ans
}
