package skintone

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/AydanPirani/skintone/utils"
)

// Artifacts holds the inspection images derived from the final patch pixels.
type Artifacts struct {
	// Masked keeps the original pixels inside the patches and is black elsewhere.
	Masked *image.NRGBA
	// Inverted is black inside the patches and keeps the original pixels elsewhere.
	Inverted *image.NRGBA
	// Diffuse is filled with a uniform color inside the patches and is black elsewhere.
	Diffuse *image.NRGBA
}

// FillColor converts a three channel fill value to an opaque color,
// clamping every channel to the [0, 255] range.
func FillColor(fill [3]int) color.NRGBA {
	return color.NRGBA{
		R: uint8(utils.Clamp(fill[0], 0, 255)),
		G: uint8(utils.Clamp(fill[1], 0, 255)),
		B: uint8(utils.Clamp(fill[2], 0, 255)),
		A: 0xff,
	}
}

// Render produces the masked, inverted and diffuse images of the patches.
// The source image is left untouched.
func Render(src image.Image, patches []*Patch, fill [3]int) *Artifacts {
	img := toNRGBA(src)
	bounds := img.Bounds()
	black := &image.Uniform{C: color.NRGBA{A: 0xff}}

	art := &Artifacts{
		Masked:   image.NewNRGBA(bounds),
		Inverted: image.NewNRGBA(bounds),
		Diffuse:  image.NewNRGBA(bounds),
	}
	draw.Draw(art.Masked, bounds, black, image.Point{}, draw.Src)
	draw.Draw(art.Diffuse, bounds, black, image.Point{}, draw.Src)
	draw.Draw(art.Inverted, bounds, img, bounds.Min, draw.Src)

	diffuse := FillColor(fill)
	for _, p := range patches {
		if p == nil {
			continue
		}
		for _, pt := range p.Pixels {
			if !pt.In(bounds) {
				continue
			}
			c := img.NRGBAAt(pt.X, pt.Y)
			c.A = 0xff
			art.Masked.SetNRGBA(pt.X, pt.Y, c)
			art.Inverted.SetNRGBA(pt.X, pt.Y, color.NRGBA{A: 0xff})
			art.Diffuse.SetNRGBA(pt.X, pt.Y, diffuse)
		}
	}
	return art
}

// DiffuseFromStats returns the mean color of the statistics converted back to RGB.
func DiffuseFromStats(s ChannelStats, cs ColorSpace) [3]int {
	rgb := cs.ToRGB(s.Mean)
	return [3]int{int(rgb[0]), int(rgb[1]), int(rgb[2])}
}
