/*
Package grading provides a deterministic image color-processing engine: a
fixed-order per-pixel tone/color adjustment pipeline, a catalog of filter
"look" families, application of 3D color lookup tables (.cube files, parsed
by the cube subpackage) and an unsharp-mask sharpening pass.

All engine operations work on *image.NRGBA buffers (8 bits per channel,
non-premultiplied alpha). Buffers are owned by the caller for the duration
of a call; engines mutate in place or return a fresh buffer and never
retain a reference. Pixels with alpha below 10 are treated as fully
transparent and skipped by every operation.
*/
package grading

import "fmt"

type GradingVersion struct {
	Major, Minor, Patch uint
}

func (v GradingVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v GradingVersion) Equal(o GradingVersion) bool {
	return v.Major == o.Major && v.Minor == o.Minor && v.Patch == o.Patch
}

var Version = GradingVersion{1, 0, 0}
