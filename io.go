package grading

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	exif_tiff "github.com/rwcarlsen/goexif/tiff"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type fileSystem interface {
	Create(string) (io.WriteCloser, error)
	Open(string) (io.ReadCloser, error)
}

type localFS struct{}

func (localFS) Create(name string) (io.WriteCloser, error) { return os.Create(name) }
func (localFS) Open(name string) (io.ReadCloser, error)    { return os.Open(name) }

var fs fileSystem = localFS{}

var _ = fmt.Print

// Format is an image file format.
type Format int

const (
	UNKNOWN Format = iota
	JPEG
	PNG
	GIF
	TIFF
	WEBP
	BMP
)

var formatExts = map[string]Format{
	"jpg":  JPEG,
	"jpeg": JPEG,
	"png":  PNG,
	"gif":  GIF,
	"tif":  TIFF,
	"tiff": TIFF,
	"webp": WEBP,
	"bmp":  BMP,
}

var formatNames = map[Format]string{
	JPEG: "JPEG",
	PNG:  "PNG",
	GIF:  "GIF",
	TIFF: "TIFF",
	WEBP: "WEBP",
	BMP:  "BMP",
}

func (f Format) String() string { return formatNames[f] }

// ErrUnsupportedFormat means the given image format is not supported.
var ErrUnsupportedFormat = errors.New("grading: unsupported image format")

// FormatFromExtension parses image format from a filename extension.
func FormatFromExtension(ext string) (Format, error) {
	if f, ok := formatExts[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return f, nil
	}
	return UNKNOWN, ErrUnsupportedFormat
}

// FormatFromFilename parses image format from a filename.
func FormatFromFilename(filename string) (Format, error) {
	return FormatFromExtension(filepath.Ext(filename))
}

type decodeConfig struct {
	autoOrientation bool
}

var defaultDecodeConfig = decodeConfig{
	autoOrientation: true,
}

// DecodeOption sets an optional parameter for the Decode and Open functions.
type DecodeOption func(*decodeConfig)

// AutoOrientation returns a DecodeOption that sets the auto-orientation
// mode. If enabled, the decoded image is transformed according to the EXIF
// orientation tag when one is present. Enabled by default.
func AutoOrientation(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.autoOrientation = enabled
	}
}

// orientation is an EXIF flag that specifies the transformation
// that should be applied to an image to display it correctly.
type orientation int

const (
	orientationUnspecified orientation = 0
	orientationNormal      orientation = 1
	orientationFlipH       orientation = 2
	orientationRotate180   orientation = 3
	orientationFlipV       orientation = 4
	orientationTranspose   orientation = 5
	orientationRotate270   orientation = 6
	orientationTransverse  orientation = 7
	orientationRotate90    orientation = 8
)

func readOrientation(r io.Reader) orientation {
	exif_data, err := exif.Decode(r)
	if err != nil || exif_data == nil {
		return orientationUnspecified
	}
	orient, err := exif_data.Get(exif.Orientation)
	if err != nil || orient == nil || orient.Format() != exif_tiff.IntVal {
		return orientationUnspecified
	}
	if x, err := orient.Int(0); err == nil && x > 0 && x < 9 {
		return orientation(x)
	}
	return orientationUnspecified
}

// fixOrientation applies the transform corresponding to the orientation flag.
func fixOrientation(img *image.NRGBA, o orientation) *image.NRGBA {
	switch o {
	case orientationFlipH:
		return FlipH(img)
	case orientationFlipV:
		return FlipV(img)
	case orientationRotate90:
		return Rotate90(img)
	case orientationRotate180:
		return Rotate180(img)
	case orientationRotate270:
		return Rotate270(img)
	case orientationTranspose:
		return Transpose(img)
	case orientationTransverse:
		return Transverse(img)
	}
	return img
}

// Decode reads an image from r into an engine buffer. With
// auto-orientation enabled the whole stream is buffered so the EXIF block
// can be examined as well.
func Decode(r io.Reader, opts ...DecodeOption) (*image.NRGBA, error) {
	cfg := defaultDecodeConfig
	for _, option := range opts {
		option(&cfg)
	}
	if !cfg.autoOrientation {
		img, _, err := image.Decode(r)
		if err != nil {
			return nil, err
		}
		return AsNRGBA(img), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	ans := AsNRGBA(img)
	if o := readOrientation(bytes.NewReader(data)); o != orientationUnspecified {
		ans = fixOrientation(ans, o)
	}
	return ans, nil
}

// Open loads an image from file.
//
// Examples:
//
//	// Load an image from file.
//	img, err := grading.Open("test.jpg")
func Open(filename string, opts ...DecodeOption) (*image.NRGBA, error) {
	file, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Decode(file, opts...)
}

type encodeConfig struct {
	jpegQuality         int
	gifNumColors        int
	gifQuantizer        draw.Quantizer
	gifDrawer           draw.Drawer
	pngCompressionLevel png.CompressionLevel
}

var defaultEncodeConfig = encodeConfig{
	jpegQuality:         95,
	gifNumColors:        256,
	pngCompressionLevel: png.DefaultCompression,
}

// EncodeOption sets an optional parameter for the Encode and Save functions.
type EncodeOption func(*encodeConfig)

// JPEGQuality returns an EncodeOption that sets the output JPEG quality.
// Quality ranges from 1 to 100 inclusive, higher is better. Default is 95.
func JPEGQuality(quality int) EncodeOption {
	return func(c *encodeConfig) {
		c.jpegQuality = quality
	}
}

// GIFNumColors returns an EncodeOption that sets the maximum number of
// colors used in the GIF-encoded image. It ranges from 1 to 256. Default
// is 256.
func GIFNumColors(numColors int) EncodeOption {
	return func(c *encodeConfig) {
		c.gifNumColors = numColors
	}
}

// PNGCompressionLevel returns an EncodeOption that sets the compression
// level of the PNG-encoded image. Default is png.DefaultCompression.
func PNGCompressionLevel(level png.CompressionLevel) EncodeOption {
	return func(c *encodeConfig) {
		c.pngCompressionLevel = level
	}
}

// Encode writes the image to w in the specified format. PNG is the
// reference encoding; JPEG, GIF, TIFF and BMP are also supported.
func Encode(w io.Writer, img image.Image, format Format, opts ...EncodeOption) error {
	cfg := defaultEncodeConfig
	for _, option := range opts {
		option(&cfg)
	}
	switch format {
	case PNG:
		encoder := png.Encoder{CompressionLevel: cfg.pngCompressionLevel}
		return encoder.Encode(w, img)
	case JPEG:
		if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Opaque() {
			rgba := &image.RGBA{
				Pix:    nrgba.Pix,
				Stride: nrgba.Stride,
				Rect:   nrgba.Rect,
			}
			return jpeg.Encode(w, rgba, &jpeg.Options{Quality: cfg.jpegQuality})
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: cfg.jpegQuality})
	case GIF:
		return gif.Encode(w, img, &gif.Options{
			NumColors: cfg.gifNumColors,
			Quantizer: cfg.gifQuantizer,
			Drawer:    cfg.gifDrawer,
		})
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case BMP:
		return bmp.Encode(w, img)
	}
	return ErrUnsupportedFormat
}

// Save saves the image to file, choosing the format from the filename
// extension.
//
// Examples:
//
//	// Save the image as PNG.
//	err := grading.Save(img, "out.png")
//
//	// Save the image as JPEG with optional quality parameter set to 80.
//	err := grading.Save(img, "out.jpg", grading.JPEGQuality(80))
func Save(img image.Image, filename string, opts ...EncodeOption) (err error) {
	f, err := FormatFromFilename(filename)
	if err != nil {
		return err
	}
	file, err := fs.Create(filename)
	if err != nil {
		return err
	}
	err = Encode(file, img, f, opts...)
	errc := file.Close()
	if err == nil {
		err = errc
	}
	return err
}
