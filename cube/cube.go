// Package cube parses Adobe/Resolve style .cube 3D lookup table files and
// samples them with trilinear interpolation.
//
// The file format is line oriented ASCII. Recognized directives are TITLE,
// LUT_3D_SIZE, DOMAIN_MIN and DOMAIN_MAX; other all-caps directive lines
// are ignored. Every remaining non-empty, non-comment line with at least
// three parseable floats is a data row. Rows are stored in file order with
// the blue axis varying fastest, then green, then red.
package cube

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrEmpty is returned when the input contains no usable LUT data.
var ErrEmpty = errors.New("cube: no LUT data found")

// LUT is a parsed 3D lookup table. Data holds Size^3 RGB triples
// flattened as index = (r*Size^2 + g*Size + b) * 3 + channel. A LUT whose
// Data is shorter than Size^3*3 is still usable: missing entries read as
// zero when sampled. Sampling is pure, a LUT may be shared and reused
// freely once parsed.
type LUT struct {
	Title     string
	Size      int
	DomainMin [3]float64
	DomainMax [3]float64
	Data      []float64

	// Diagnostics collects non-fatal parser warnings, e.g. for
	// undersized data sections.
	Diagnostics []string
}

// ParseFile reads and parses a .cube file from disk.
func ParseFile(path string) (*LUT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func isDirective(fields []string) bool {
	w := fields[0]
	if w[0] < 'A' || w[0] > 'Z' {
		return false
	}
	for _, c := range w {
		if !(c >= 'A' && c <= 'Z') && c != '_' && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func parseVec3(fields []string) ([3]float64, error) {
	var v [3]float64
	if len(fields) < 3 {
		return v, fmt.Errorf("cube: expected 3 values, got %d", len(fields))
	}
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

// Parse reads a .cube description from r. Malformed directives cause an
// error (no partial LUT is returned). If LUT_3D_SIZE is absent the size is
// inferred as the rounded cube root of the data row count. Undersized data
// sections are tolerated and reported via Diagnostics.
func Parse(r io.Reader) (*LUT, error) {
	lut := &LUT{DomainMax: [3]float64{1, 1, 1}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if isDirective(fields) {
			switch fields[0] {
			case "TITLE":
				title := strings.TrimSpace(strings.TrimPrefix(line, "TITLE"))
				lut.Title = strings.Trim(title, `"`)
			case "LUT_3D_SIZE":
				if len(fields) < 2 {
					return nil, fmt.Errorf("cube: line %d: LUT_3D_SIZE missing value", lineno)
				}
				n, err := strconv.Atoi(fields[1])
				if err != nil || n < 2 {
					return nil, fmt.Errorf("cube: line %d: bad LUT_3D_SIZE %q", lineno, fields[1])
				}
				lut.Size = n
			case "DOMAIN_MIN":
				v, err := parseVec3(fields[1:])
				if err != nil {
					return nil, fmt.Errorf("cube: line %d: %w", lineno, err)
				}
				lut.DomainMin = v
			case "DOMAIN_MAX":
				v, err := parseVec3(fields[1:])
				if err != nil {
					return nil, fmt.Errorf("cube: line %d: %w", lineno, err)
				}
				lut.DomainMax = v
			}
			// Unrecognized directives (LUT_1D_SIZE etc.) are skipped.
			continue
		}
		row, err := parseVec3(fields)
		if err != nil {
			continue // not a data row
		}
		lut.Data = append(lut.Data, row[0], row[1], row[2])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lut.Data) == 0 {
		return nil, ErrEmpty
	}
	if lut.Size == 0 {
		lut.Size = int(math.Round(math.Cbrt(float64(len(lut.Data) / 3))))
		if lut.Size < 2 {
			return nil, ErrEmpty
		}
	}
	if want := lut.Size * lut.Size * lut.Size * 3; len(lut.Data) < want {
		lut.Diagnostics = append(lut.Diagnostics,
			fmt.Sprintf("data section has %d values, expected %d for size %d; missing entries sample as 0", len(lut.Data), want, lut.Size))
	}
	return lut, nil
}

// at reads a grid value, treating entries past the end of an undersized
// data section as zero.
func (lut *LUT) at(i int) float64 {
	if i < 0 || i >= len(lut.Data) {
		return 0
	}
	return lut.Data[i]
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Sample remaps an RGB triple (each channel in the LUT's domain, normally
// 0..1) through the table with trilinear interpolation over the 8
// surrounding grid cells. Outputs are the raw stored float values.
func (lut *LUT) Sample(r, g, b float64) (float64, float64, float64) {
	n := lut.Size
	scale := float64(n - 1)
	norm := func(v float64, axis int) float64 {
		lo, hi := lut.DomainMin[axis], lut.DomainMax[axis]
		if hi == lo {
			return 0
		}
		p := (v - lo) / (hi - lo) * scale
		return max(0, min(p, scale))
	}
	rp, gp, bp := norm(r, 0), norm(g, 1), norm(b, 2)
	r0, g0, b0 := int(rp), int(gp), int(bp)
	r1, g1, b1 := min(r0+1, n-1), min(g0+1, n-1), min(b0+1, n-1)
	fr, fg, fb := rp-float64(r0), gp-float64(g0), bp-float64(b0)

	idx := func(ri, gi, bi, ch int) int {
		return (ri*n*n+gi*n+bi)*3 + ch
	}
	var out [3]float64
	for ch := range 3 {
		// innermost axis (blue) first, then green, then red
		c00 := lerp(lut.at(idx(r0, g0, b0, ch)), lut.at(idx(r0, g0, b1, ch)), fb)
		c01 := lerp(lut.at(idx(r0, g1, b0, ch)), lut.at(idx(r0, g1, b1, ch)), fb)
		c10 := lerp(lut.at(idx(r1, g0, b0, ch)), lut.at(idx(r1, g0, b1, ch)), fb)
		c11 := lerp(lut.at(idx(r1, g1, b0, ch)), lut.at(idx(r1, g1, b1, ch)), fb)
		c0 := lerp(c00, c01, fg)
		c1 := lerp(c10, c11, fg)
		out[ch] = lerp(c0, c1, fr)
	}
	return out[0], out[1], out[2]
}

// Sample8 remaps 8-bit channels through the LUT, rounding and clamping the
// result back to 8 bits.
func (lut *LUT) Sample8(r, g, b uint8) (uint8, uint8, uint8) {
	ro, go_, bo := lut.Sample(float64(r)/255, float64(g)/255, float64(b)/255)
	c := func(v float64) uint8 {
		return uint8(max(0, min(math.Round(v*255), 255)))
	}
	return c(ro), c(go_), c(bo)
}
