package grading

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"time"

	"github.com/kettek/apng"
)

var _ = fmt.Print

// Frame is one still of an animation, already coalesced: its buffer is a
// full snapshot of the animation at that instant.
type Frame struct {
	Number uint
	Image  *image.NRGBA
	Delay  time.Duration
}

// Animation is a decoded frame sequence. Engine operations apply to each
// frame independently via Process.
type Animation struct {
	Frames    []*Frame
	LoopCount uint // 0 means loop forever, 1 means loop once, ...
}

// Process applies fn to every frame buffer in order, storing the result.
// fn receives a buffer it owns for the duration of the call.
func (self *Animation) Process(fn func(*image.NRGBA) *image.NRGBA) {
	for _, f := range self.Frames {
		f.Image = fn(f.Image)
	}
}

func (self *Animation) populate_from_apng(p *apng.APNG) {
	self.LoopCount = p.LoopCount
	var canvas, default_image *image.NRGBA
	for _, f := range p.Frames {
		if f.IsDefault {
			// not part of the animation proper, but a plain PNG decodes
			// as a single default frame
			default_image = AsNRGBA(f.Image)
			continue
		}
		b := f.Image.Bounds()
		if canvas == nil {
			canvas = NewBuffer(f.XOffset+b.Dx(), f.YOffset+b.Dy())
		}
		next := Clone(canvas)
		op := draw.Over
		if f.BlendOp == apng.BLEND_OP_SOURCE {
			op = draw.Src
		}
		draw.Draw(next, image.Rect(f.XOffset, f.YOffset, f.XOffset+b.Dx(), f.YOffset+b.Dy()), f.Image, b.Min, op)
		num, den := f.DelayNumerator, f.DelayDenominator
		if den <= 0 {
			den = 100
		}
		self.Frames = append(self.Frames, &Frame{
			Number: uint(len(self.Frames) + 1),
			Image:  next,
			Delay:  time.Duration(float64(time.Second) * float64(max(0, num)) / float64(den)),
		})
		canvas = next
	}
	if len(self.Frames) == 0 && default_image != nil {
		self.Frames = append(self.Frames, &Frame{Number: 1, Image: default_image})
	}
}

func (self *Animation) populate_from_gif(g *gif.GIF) {
	var canvas *image.NRGBA
	for i, img := range g.Image {
		b := img.Bounds()
		if canvas == nil {
			canvas = NewBuffer(b.Max.X, b.Max.Y)
		}
		next := Clone(canvas)
		draw.Draw(next, b, img, b.Min, draw.Over)
		self.Frames = append(self.Frames, &Frame{
			Number: uint(len(self.Frames) + 1),
			Image:  next,
			Delay:  time.Duration(g.Delay[i]) * 10 * time.Millisecond,
		})
		canvas = next
	}
	switch {
	case g.LoopCount == 0:
		self.LoopCount = 0
	case g.LoopCount < 0:
		self.LoopCount = 1
	default:
		self.LoopCount = uint(g.LoopCount) + 1
	}
}

// DecodeAnimation reads an animated PNG or GIF from r. A still image
// yields a single-frame animation.
func DecodeAnimation(r io.Reader) (*Animation, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, err
	}
	ans := &Animation{}
	switch {
	case bytes.HasPrefix(magic, []byte("\x89PNG")):
		p, err := apng.DecodeAll(br)
		if err != nil {
			return nil, err
		}
		ans.populate_from_apng(&p)
	case bytes.HasPrefix(magic, []byte("GIF8")):
		g, err := gif.DecodeAll(br)
		if err != nil {
			return nil, err
		}
		ans.populate_from_gif(g)
	default:
		img, err := Decode(br)
		if err != nil {
			return nil, err
		}
		ans.Frames = append(ans.Frames, &Frame{Number: 1, Image: img})
	}
	if len(ans.Frames) == 0 {
		return nil, fmt.Errorf("grading: no frames found in animation")
	}
	return ans, nil
}

// delay_as_fraction converts a frame delay to the uint16 numerator and
// denominator APNG stores, at millisecond resolution.
func delay_as_fraction(d time.Duration) (num, den uint16) {
	if d <= 0 {
		return 0, 1
	}
	ms := min(d.Milliseconds(), 65535)
	n, div := ms, int64(1000)
	for _, p := range []int64{2, 2, 2, 5, 5, 5} {
		if n%p == 0 && div%p == 0 {
			n /= p
			div /= p
		}
	}
	return uint16(n), uint16(div)
}

// EncodeAsGIF writes the animation to w as a GIF, quantizing each frame
// with Floyd-Steinberg dithering. Delays are stored at the format's
// centisecond resolution.
func (self *Animation) EncodeAsGIF(w io.Writer) error {
	ans := &gif.GIF{}
	switch self.LoopCount {
	case 0:
		ans.LoopCount = 0 // forever
	case 1:
		ans.LoopCount = -1 // play once
	default:
		ans.LoopCount = int(self.LoopCount) - 1
	}
	for _, f := range self.Frames {
		b := f.Image.Bounds()
		p := image.NewPaletted(b, palette.Plan9)
		draw.FloydSteinberg.Draw(p, b, f.Image, b.Min)
		ans.Image = append(ans.Image, p)
		ans.Delay = append(ans.Delay, int(f.Delay/(10*time.Millisecond)))
		ans.Disposal = append(ans.Disposal, gif.DisposalNone)
	}
	return gif.EncodeAll(w, ans)
}

// EncodeAsPNG writes the animation to w, as a plain PNG for a single
// frame and as an APNG otherwise.
func (self *Animation) EncodeAsPNG(w io.Writer) error {
	if len(self.Frames) < 2 {
		return png.Encode(w, self.Frames[0].Image)
	}
	ans := apng.APNG{LoopCount: self.LoopCount}
	for _, f := range self.Frames {
		d := apng.Frame{
			Image: f.Image, DisposeOp: apng.DISPOSE_OP_NONE, BlendOp: apng.BLEND_OP_SOURCE,
		}
		d.DelayNumerator, d.DelayDenominator = delay_as_fraction(f.Delay)
		ans.Frames = append(ans.Frames, d)
	}
	return apng.Encode(w, ans)
}
