package grading

import (
	"image"
	"sort"
)

// Overrides is a sparse set of AdjustmentParams fields. Nil fields leave
// the caller's value untouched; set fields win on merge. Using explicit
// pointer fields keeps the overridable surface enumerable instead of
// relying on reflection.
type Overrides struct {
	Temperature *float64
	Tint        *float64
	Brightness  *float64
	Contrast    *float64
	Highlights  *float64
	Shadows     *float64
	Whites      *float64
	Blacks      *float64
	Vibrance    *float64
	Saturation  *float64
	Clarity     *float64
	Sharpness   *float64
	Vignette    *float64
	Grayscale   *bool
	Sepia       *bool
	Invert      *bool
}

func f(v float64) *float64 { return &v }
func bp(v bool) *bool      { return &v }

// Preset is a named sparse override set applied through the slider
// pipeline. Presets are process-wide constants.
type Preset struct {
	ID       string
	Name     string
	Category string
	Overrides
}

// Merge returns params with the preset's set fields overriding the
// caller's values, all unset fields retained, and the preset id recorded.
func (pr *Preset) Merge(p AdjustmentParams) AdjustmentParams {
	setf := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setb := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setf(&p.Temperature, pr.Temperature)
	setf(&p.Tint, pr.Tint)
	setf(&p.Brightness, pr.Brightness)
	setf(&p.Contrast, pr.Contrast)
	setf(&p.Highlights, pr.Highlights)
	setf(&p.Shadows, pr.Shadows)
	setf(&p.Whites, pr.Whites)
	setf(&p.Blacks, pr.Blacks)
	setf(&p.Vibrance, pr.Vibrance)
	setf(&p.Saturation, pr.Saturation)
	setf(&p.Clarity, pr.Clarity)
	setf(&p.Sharpness, pr.Sharpness)
	setf(&p.Vignette, pr.Vignette)
	setb(&p.Grayscale, pr.Grayscale)
	setb(&p.Sepia, pr.Sepia)
	setb(&p.Invert, pr.Invert)
	p.Preset = pr.ID
	return p
}

// Built-in preset table. The tone/color equivalents of the Natural, Warm,
// Cool and Vivid families are exposed here as slider presets; the numeric
// tuning intentionally differs from the family algorithms' constants.
var presets = []*Preset{
	{ID: "natural", Name: "Natural", Category: "tone", Overrides: Overrides{
		Contrast: f(8), Saturation: f(12), Brightness: f(3), Clarity: f(10)}},
	{ID: "warm", Name: "Warm", Category: "tone", Overrides: Overrides{
		Temperature: f(40), Tint: f(10), Brightness: f(4), Contrast: f(5), Saturation: f(10)}},
	{ID: "cool", Name: "Cool", Category: "tone", Overrides: Overrides{
		Temperature: f(-40), Tint: f(-8), Brightness: f(2), Contrast: f(8), Saturation: f(5)}},
	{ID: "vivid", Name: "Vivid", Category: "tone", Overrides: Overrides{
		Brightness: f(2), Contrast: f(12), Vibrance: f(45), Saturation: f(20), Clarity: f(15)}},
	{ID: "mono", Name: "Mono", Category: "mono", Overrides: Overrides{
		Grayscale: bp(true), Contrast: f(10)}},
	{ID: "noir", Name: "Noir", Category: "mono", Overrides: Overrides{
		Grayscale: bp(true), Contrast: f(30), Blacks: f(-20), Vignette: f(35)}},
	{ID: "sepia", Name: "Sepia", Category: "mono", Overrides: Overrides{
		Sepia: bp(true), Contrast: f(5)}},
	{ID: "faded", Name: "Faded", Category: "film", Overrides: Overrides{
		Blacks: f(30), Highlights: f(-15), Saturation: f(-20), Temperature: f(10)}},
	{ID: "punch", Name: "Punch", Category: "tone", Overrides: Overrides{
		Contrast: f(25), Vibrance: f(35), Clarity: f(20), Sharpness: f(20)}},
	{ID: "negative", Name: "Negative", Category: "special", Overrides: Overrides{
		Invert: bp(true)}},
}

var presetsByID = func() map[string]*Preset {
	m := make(map[string]*Preset, len(presets))
	for _, pr := range presets {
		m[pr.ID] = pr
	}
	return m
}()

// PresetByID looks up a built-in preset.
func PresetByID(id string) (*Preset, bool) {
	pr, ok := presetsByID[id]
	return pr, ok
}

// Presets returns all built-in presets sorted by id.
func Presets() []*Preset {
	ans := make([]*Preset, len(presets))
	copy(ans, presets)
	sort.Slice(ans, func(i, j int) bool { return ans[i].ID < ans[j].ID })
	return ans
}

// PresetsByCategory returns the presets in the given category, sorted by
// id.
func PresetsByCategory(category string) []*Preset {
	var ans []*Preset
	for _, pr := range Presets() {
		if pr.Category == category {
			ans = append(ans, pr)
		}
	}
	return ans
}

// ApplyPreset merges the named preset onto params and runs the slider
// pipeline. Unknown preset ids are a no-op on the params, the pipeline
// still runs with the caller's values.
func ApplyPreset(img *image.NRGBA, params AdjustmentParams, id string) *image.NRGBA {
	if pr, ok := PresetByID(id); ok {
		params = pr.Merge(params)
	}
	return Adjust(img, params)
}
