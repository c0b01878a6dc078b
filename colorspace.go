package skintone

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/AydanPirani/skintone/utils"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// ColorSpace names the three channel representation the statistics are computed in.
type ColorSpace string

const (
	RGB   ColorSpace = "rgb"
	YCbCr ColorSpace = "ycbcr"
	YUV   ColorSpace = "yuv"
	HSV   ColorSpace = "hsv"
)

// ParseColorSpace returns the color space with the given name.
func ParseColorSpace(name string) (ColorSpace, error) {
	switch cs := ColorSpace(name); cs {
	case RGB, YCbCr, YUV, HSV:
		return cs, nil
	}
	return "", fmt.Errorf("%w: unsupported color space %q", ErrConfiguration, name)
}

// Convert transforms an RGB color into the color space.
func (cs ColorSpace) Convert(r, g, b uint8) [3]uint8 {
	switch cs {
	case YCbCr:
		y, cb, cr := color.RGBToYCbCr(r, g, b)
		return [3]uint8{y, cb, cr}
	case YUV:
		rf, gf, bf := float64(r), float64(g), float64(b)
		y := 0.299*rf + 0.587*gf + 0.114*bf
		u := 0.492*(bf-y) + 128
		v := 0.877*(rf-y) + 128
		return [3]uint8{toByte(y), toByte(u), toByte(v)}
	case HSV:
		h, s, v := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hsv()
		return [3]uint8{toByte(h / 360 * 255), toByte(s * 255), toByte(v * 255)}
	}
	return [3]uint8{r, g, b}
}

// ToRGB converts a (possibly fractional) sample of the color space back to RGB.
func (cs ColorSpace) ToRGB(s [3]float64) [3]uint8 {
	switch cs {
	case YCbCr:
		r, g, b := color.YCbCrToRGB(toByte(s[0]), toByte(s[1]), toByte(s[2]))
		return [3]uint8{r, g, b}
	case YUV:
		y, u, v := s[0], s[1]-128, s[2]-128
		r := y + v/0.877
		b := y + u/0.492
		g := (y - 0.299*r - 0.114*b) / 0.587
		return [3]uint8{toByte(r), toByte(g), toByte(b)}
	case HSV:
		c := colorful.Hsv(s[0]/255*360, s[1]/255, s[2]/255).Clamped()
		r, g, b := c.RGB255()
		return [3]uint8{r, g, b}
	}
	return [3]uint8{toByte(s[0]), toByte(s[1]), toByte(s[2])}
}

// toByte rounds and clamps a channel value to the [0, 255] range.
func toByte(v float64) uint8 {
	return uint8(utils.Clamp(math.Round(v), 0, 255))
}

// Frame holds the pixels of an image converted to a color space, three bytes per pixel.
// It is read-only once created.
type Frame struct {
	Rect   image.Rectangle
	Space  ColorSpace
	Pix    []uint8
	Stride int
}

// NewFrame converts the image into the color space.
func NewFrame(img image.Image, cs ColorSpace) *Frame {
	src := toNRGBA(img)
	b := src.Bounds()
	f := &Frame{
		Rect:   b,
		Space:  cs,
		Pix:    make([]uint8, b.Dx()*b.Dy()*3),
		Stride: b.Dx() * 3,
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := (y - b.Min.Y) * f.Stride
		for x := b.Min.X; x < b.Max.X; x++ {
			s := cs.Convert(src.Pix[si], src.Pix[si+1], src.Pix[si+2])
			copy(f.Pix[di:di+3], s[:])
			si += 4
			di += 3
		}
	}
	return f
}

// At returns the color sample at the pixel coordinate.
func (f *Frame) At(p image.Point) [3]uint8 {
	i := (p.Y-f.Rect.Min.Y)*f.Stride + (p.X-f.Rect.Min.X)*3
	return [3]uint8{f.Pix[i], f.Pix[i+1], f.Pix[i+2]}
}

// toNRGBA returns the image as *image.NRGBA with the origin at (0, 0),
// copying it only when necessary.
func toNRGBA(img image.Image) *image.NRGBA {
	if src, ok := img.(*image.NRGBA); ok && src.Rect.Min == (image.Point{}) {
		return src
	}
	return imaging.Clone(img)
}
