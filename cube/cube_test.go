package cube

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// identityCube builds the text of an n-sized identity LUT, blue varying
// fastest.
func identityCube(n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TITLE \"identity\"\nLUT_3D_SIZE %d\n", n)
	for r := range n {
		for g := range n {
			for b := range n {
				fmt.Fprintf(&sb, "%f %f %f\n",
					float64(r)/float64(n-1), float64(g)/float64(n-1), float64(b)/float64(n-1))
			}
		}
	}
	return sb.String()
}

func TestParseDirectives(t *testing.T) {
	lut, err := Parse(strings.NewReader(`
# a comment
TITLE "My Grade"
LUT_3D_SIZE 2
DOMAIN_MIN 0.0 0.0 0.0
DOMAIN_MAX 1.0 1.0 1.0
LUT_1D_SIZE 4
0 0 0
0 0 1
0 1 0
0 1 1
1 0 0
1 0 1
1 1 0
1 1 1
`))
	require.NoError(t, err)
	require.Equal(t, "My Grade", lut.Title)
	require.Equal(t, 2, lut.Size)
	require.Equal(t, [3]float64{0, 0, 0}, lut.DomainMin)
	require.Equal(t, [3]float64{1, 1, 1}, lut.DomainMax)
	require.Len(t, lut.Data, 8*3)
	require.Empty(t, lut.Diagnostics)
}

func TestParseBareTitle(t *testing.T) {
	lut, err := Parse(strings.NewReader("TITLE grade\nLUT_3D_SIZE 2\n" + strings.Repeat("0 0 0\n", 8)))
	require.NoError(t, err)
	require.Equal(t, "grade", lut.Title)
}

func TestParseSizeInference(t *testing.T) {
	var sb strings.Builder
	for range 27 {
		sb.WriteString("0.5 0.5 0.5\n")
	}
	lut, err := Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Equal(t, 3, lut.Size)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name, in string
	}{
		{"empty", ""},
		{"only comments", "# nothing\n# here\n"},
		{"bad size", "LUT_3D_SIZE x\n0 0 0\n"},
		{"size too small", "LUT_3D_SIZE 1\n0 0 0\n"},
		{"bad domain", "DOMAIN_MIN 0 zero 0\n0 0 0\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lut, err := Parse(strings.NewReader(tc.in))
			require.Error(t, err)
			require.Nil(t, lut)
		})
	}
}

func TestParseUndersized(t *testing.T) {
	lut, err := Parse(strings.NewReader("LUT_3D_SIZE 3\n" + strings.Repeat("1 1 1\n", 8)))
	require.NoError(t, err)
	require.Equal(t, 3, lut.Size)
	require.NotEmpty(t, lut.Diagnostics)
	// entries past the parsed data sample as zero: the last grid vertex
	// lives entirely in the missing region
	r, g, b := lut.Sample(1, 1, 1)
	require.Equal(t, 0.0, r)
	require.Equal(t, 0.0, g)
	require.Equal(t, 0.0, b)
}

func TestIdentitySampling(t *testing.T) {
	lut, err := Parse(strings.NewReader(identityCube(2)))
	require.NoError(t, err)
	for _, in := range [][3]float64{
		{0, 0, 0}, {1, 1, 1}, {0.25, 0.5, 0.75}, {0.1, 0.9, 0.3}, {1, 0, 0.5},
	} {
		r, g, b := lut.Sample(in[0], in[1], in[2])
		require.InDelta(t, in[0], r, 1e-12)
		require.InDelta(t, in[1], g, 1e-12)
		require.InDelta(t, in[2], b, 1e-12)
	}
	// 8-bit channels pass through unchanged
	for v := 0; v < 256; v += 17 {
		r, g, b := lut.Sample8(uint8(v), uint8(255-v), uint8(v/2))
		require.Equal(t, uint8(v), r)
		require.Equal(t, uint8(255-v), g)
		require.Equal(t, uint8(v/2), b)
	}
}

// Sampling at an exact grid vertex must return the stored value with no
// interpolation error.
func TestVertexExactness(t *testing.T) {
	const n = 5
	var sb strings.Builder
	fmt.Fprintf(&sb, "LUT_3D_SIZE %d\n", n)
	value := func(r, g, b, ch int) float64 {
		return float64((r*7+g*3+b*11+ch*5)%13) / 13
	}
	for r := range n {
		for g := range n {
			for b := range n {
				fmt.Fprintf(&sb, "%.10f %.10f %.10f\n", value(r, g, b, 0), value(r, g, b, 1), value(r, g, b, 2))
			}
		}
	}
	lut, err := Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	for ri := range n {
		for gi := range n {
			for bi := range n {
				r, g, b := lut.Sample(float64(ri)/(n-1), float64(gi)/(n-1), float64(bi)/(n-1))
				require.InDelta(t, value(ri, gi, bi, 0), r, 1e-9, "vertex (%d,%d,%d)", ri, gi, bi)
				require.InDelta(t, value(ri, gi, bi, 1), g, 1e-9)
				require.InDelta(t, value(ri, gi, bi, 2), b, 1e-9)
			}
		}
	}
}

func TestDomainNormalization(t *testing.T) {
	// identity over the domain [-1, 1]^3
	const n = 2
	var sb strings.Builder
	sb.WriteString("LUT_3D_SIZE 2\nDOMAIN_MIN -1 -1 -1\nDOMAIN_MAX 1 1 1\n")
	for r := range n {
		for g := range n {
			for b := range n {
				fmt.Fprintf(&sb, "%d %d %d\n", r, g, b)
			}
		}
	}
	lut, err := Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	r, g, b := lut.Sample(0, -1, 1)
	require.InDelta(t, 0.5, r, 1e-12)
	require.InDelta(t, 0.0, g, 1e-12)
	require.InDelta(t, 1.0, b, 1e-12)
	// inputs outside the domain clamp instead of reading past the grid
	r, _, _ = lut.Sample(5, 0, 0)
	require.InDelta(t, 1.0, r, 1e-12)
}

func TestSamplingIsPure(t *testing.T) {
	lut, err := Parse(strings.NewReader(identityCube(3)))
	require.NoError(t, err)
	before := make([]float64, len(lut.Data))
	copy(before, lut.Data)
	for i := range 100 {
		v := float64(i) / 99
		lut.Sample(v, 1-v, math.Mod(v*3, 1))
	}
	require.Equal(t, before, lut.Data)
}
