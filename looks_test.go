package grading

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookRegistry(t *testing.T) {
	lk, ok := LookByID("film")
	require.True(t, ok)
	require.Equal(t, "Film", lk.Name)
	require.Equal(t, FamilyVintage, lk.Family)

	_, ok = LookByID("does-not-exist")
	require.False(t, ok)

	all := Looks()
	require.GreaterOrEqual(t, len(all), 7)
	for i := 1; i < len(all); i++ {
		require.Less(t, all[i-1].ID, all[i].ID, "Looks() must be sorted by id")
	}
	families := map[Family]bool{}
	for _, lk := range all {
		families[lk.Family] = true
	}
	for _, f := range []Family{FamilyNatural, FamilyWarm, FamilyCool, FamilyVivid, FamilySoft, FamilyVintage, FamilyColorPop} {
		require.True(t, families[f], "no built-in look for family %s", f)
	}
}

func TestAllLooksSkipTransparentPixels(t *testing.T) {
	for _, lk := range Looks() {
		t.Run(lk.ID, func(t *testing.T) {
			img := onePixel(100, 150, 200, 5)
			lk.Apply(img)
			require.Equal(t, [4]uint8{100, 150, 200, 5}, pixel(img, 0, 0))
		})
	}
}

func TestAllLooksPreserveAlphaAndDimensions(t *testing.T) {
	for _, lk := range Looks() {
		t.Run(lk.ID, func(t *testing.T) {
			img := testPattern(17, 13)
			want := Clone(img)
			out := lk.Apply(img)
			require.Equal(t, image.Rect(0, 0, 17, 13), out.Bounds())
			for i := 3; i < len(img.Pix); i += 4 {
				require.Equal(t, want.Pix[i], img.Pix[i])
			}
		})
	}
}

func TestWarmAndIceShiftOppositeWays(t *testing.T) {
	warm := onePixel(120, 120, 120, 255)
	LookWarm.Apply(warm)
	w := pixel(warm, 0, 0)
	require.Greater(t, w[0], w[2], "warm look must favor red over blue")

	cool := onePixel(120, 120, 120, 255)
	LookIce.Apply(cool)
	c := pixel(cool, 0, 0)
	require.Greater(t, c[2], c[0], "ice look must favor blue over red")
}

func TestBoldStacksVibranceAndSaturation(t *testing.T) {
	// a muted color should come out far more saturated than the input
	img := onePixel(150, 140, 130, 255)
	LookBold.Apply(img)
	got := pixel(img, 0, 0)
	require.Greater(t, int(got[0])-int(got[2]), 150-130, "channel spread must widen")
}

func TestDreamRollsOffHighlightsAndLiftsShadows(t *testing.T) {
	bright := onePixel(250, 250, 250, 255)
	LookDream.Apply(bright)
	require.Less(t, pixel(bright, 0, 0)[1], uint8(250), "highlights roll off")

	dark := onePixel(5, 5, 5, 255)
	LookDream.Apply(dark)
	require.Greater(t, pixel(dark, 0, 0)[1], uint8(5), "shadows lift")
}

func TestFilmVignettesCorners(t *testing.T) {
	img := NewBuffer(21, 21)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 150, 150, 150, 255
	}
	LookFilm.Apply(img)
	require.Less(t, pixel(img, 0, 0)[0], pixel(img, 10, 10)[0], "film look darkens corners")
}

func TestNaturalIsGentle(t *testing.T) {
	img := onePixel(100, 150, 200, 255)
	LookNatural.Apply(img)
	got := pixel(img, 0, 0)
	for ch := range 3 {
		in := float64([3]uint8{100, 150, 200}[ch])
		require.InDelta(t, in, float64(got[ch]), 30, "natural look stays close to the input")
	}
}

func TestColorPopPullsHueTowardPrimary(t *testing.T) {
	// a saturated midtone orange pulled toward magenta (primary hue 300)
	img := onePixel(200, 120, 60, 255)
	LookNeon.Apply(img)
	got := pixel(img, 0, 0)
	h0, _, _ := rgbToHSLf(200, 120, 60)
	h1, _, _ := rgbToHSLf(float64(got[0]), float64(got[1]), float64(got[2]))
	d0 := hueDelta(h0, 300)
	d1 := hueDelta(h1, 300)
	require.Less(t, absf(d1), absf(d0), "hue must move toward the primary")
}

func TestColorPopProtectsGraysAndExtremes(t *testing.T) {
	// zero saturation means zero influence: gray passes through except
	// for the lightness-only contrast
	pop := &Look{ID: "t", Family: FamilyColorPop, Pop: PopTuning{PrimaryHue: 300}}
	img := onePixel(128, 128, 128, 255)
	pop.Apply(img)
	require.Equal(t, [4]uint8{128, 128, 128, 255}, pixel(img, 0, 0))

	// near-black saturated pixels are heavily protected
	img = onePixel(20, 4, 4, 255)
	pop.Apply(img)
	got := pixel(img, 0, 0)
	h0, _, _ := rgbToHSLf(20, 4, 4)
	h1, _, _ := rgbToHSLf(float64(got[0]), float64(got[1]), float64(got[2]))
	require.Less(t, absf(hueDelta(h0, h1)), 25.0, "dark pixels keep most of their hue")
}

func TestColorPopDuotoneSplitsByLightness(t *testing.T) {
	pop := &Look{ID: "t", Family: FamilyColorPop, Pop: PopTuning{
		Effect: PopDuotone, PrimaryHue: 240, SecondaryHue: 60,
	}}
	dark := onePixel(90, 60, 30, 255) // saturated dark-ish: pulled toward the shadow hue
	pop.Apply(dark)
	bright := onePixel(230, 200, 170, 255) // bright: pulled toward the highlight hue
	pop.Apply(bright)
	hd, _, _ := rgbToHSLf(pix3f(dark))
	hb, _, _ := rgbToHSLf(pix3f(bright))
	require.Less(t, absf(hueDelta(hd, 240)), absf(hueDelta(hb, 240)), "darker pixel ends nearer the shadow hue")
}

func TestColorPopPosterizeKeepsStrongReds(t *testing.T) {
	pop := &Look{ID: "t", Family: FamilyColorPop, Pop: PopTuning{Effect: PopPosterize}}

	red := onePixel(220, 40, 40, 255)
	pop.Apply(red)
	_, s1, _ := rgbToHSLf(pix3f(red))
	require.Greater(t, s1, 50.0, "strong red keeps its saturation")

	green := onePixel(40, 220, 40, 255)
	pop.Apply(green)
	_, s0, _ := rgbToHSLf(40, 220, 40)
	_, s2, _ := rgbToHSLf(pix3f(green))
	require.InDelta(t, s0-posterizeDesaturation, s2, 2, "non-red hues desaturate by the fixed delta")
}

func TestColorPopCrossProcessBoostsSaturation(t *testing.T) {
	pop := &Look{ID: "t", Family: FamilyColorPop, Pop: PopTuning{Effect: PopCrossProcess, PrimaryHue: 120}}
	img := onePixel(180, 120, 80, 255)
	_, s0, _ := rgbToHSLf(180, 120, 80)
	pop.Apply(img)
	_, s1, _ := rgbToHSLf(pix3f(img))
	require.Greater(t, s1, s0, "cross process boosts saturation")
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func pix3f(img *image.NRGBA) (float64, float64, float64) {
	p := pixel(img, 0, 0)
	return float64(p[0]), float64(p[1]), float64(p[2])
}
