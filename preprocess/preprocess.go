// Package preprocess converts an uploaded photograph into the fixed
// tensor shape the classifier expects. The transform is identical for
// every request: decode, EXIF orientation correction, bilinear resize to
// 224x224, RGB scaled to [0,1].
package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
)

// InputSize is the model input edge length in pixels.
const InputSize = 224

// ErrDecode marks payloads that are not a decodable image. Callers map
// it to a client error, not a server fault.
var ErrDecode = errors.New("image decode failed")

// Tensor holds normalized pixel data, row-major, RGB interleaved.
type Tensor struct {
	Size   int
	Pixels []float32
}

// At returns the normalized channel value at (x, y, c) with c in 0..2.
func (t *Tensor) At(x, y, c int) float32 {
	return t.Pixels[(y*t.Size+x)*3+c]
}

// FromImageBytes decodes raw upload bytes into a model input tensor.
func FromImageBytes(data []byte) (*Tensor, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if o := orientationOf(data); o != 1 {
		img = reorient(img, o)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, InputSize, InputSize))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Over, nil)

	t := &Tensor{
		Size:   InputSize,
		Pixels: make([]float32, InputSize*InputSize*3),
	}
	i := 0
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			off := scaled.PixOffset(x, y)
			t.Pixels[i] = float32(scaled.Pix[off]) / 255.0
			t.Pixels[i+1] = float32(scaled.Pix[off+1]) / 255.0
			t.Pixels[i+2] = float32(scaled.Pix[off+2]) / 255.0
			i += 3
		}
	}
	return t, nil
}

// orientationOf extracts the EXIF orientation tag, defaulting to 1 when
// the data carries no usable EXIF block.
func orientationOf(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// reorient applies the inverse of the camera orientation so the tensor
// always sees the upright photograph. Orientations 5-8 swap the axes.
func reorient(img image.Image, orientation int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	var src func(x, y int) (int, int)

	switch orientation {
	case 2: // mirrored horizontally
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		src = func(x, y int) (int, int) { return w - 1 - x, y }
	case 3: // rotated 180
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		src = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 4: // mirrored vertically
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		src = func(x, y int) (int, int) { return x, h - 1 - y }
	case 5: // mirrored and rotated 270 CW
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		src = func(x, y int) (int, int) { return y, x }
	case 6: // rotated 90 CW
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		src = func(x, y int) (int, int) { return y, h - 1 - x }
	case 7: // mirrored and rotated 90 CW
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		src = func(x, y int) (int, int) { return w - 1 - y, h - 1 - x }
	case 8: // rotated 270 CW
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		src = func(x, y int) (int, int) { return w - 1 - y, x }
	default:
		return img
	}

	db := dst.Bounds()
	for y := db.Min.Y; y < db.Max.Y; y++ {
		for x := db.Min.X; x < db.Max.X; x++ {
			sx, sy := src(x, y)
			dst.Set(x, y, img.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}
