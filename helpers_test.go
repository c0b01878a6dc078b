package skintone

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	imgWidth  = 100
	imgHeight = 100
)

// disc places the landmarks of a region evenly on a circle, in normalized coordinates.
type disc struct {
	cx, cy, r float64
}

var defaultDiscs = map[Region]disc{
	Forehead:   {0.5, 0.2, 0.15},
	LeftCheek:  {0.25, 0.6, 0.12},
	RightCheek: {0.75, 0.6, 0.12},
}

// faceLandmarks builds a full face mesh whose region polygons are regular polygons
// inscribed in the given circles.
func faceLandmarks(discs map[Region]disc) Landmarks {
	lms := make(Landmarks, 468)
	for region, d := range discs {
		indices := region.Indices()
		for i, idx := range indices {
			a := 2 * math.Pi * float64(i) / float64(len(indices))
			lms[idx] = Landmark{X: d.cx + d.r*math.Cos(a), Y: d.cy + d.r*math.Sin(a)}
		}
	}
	return lms
}

func withDisc(region Region, d disc) map[Region]disc {
	discs := make(map[Region]disc, len(defaultDiscs))
	for r, v := range defaultDiscs {
		discs[r] = v
	}
	discs[region] = d
	return discs
}

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeLandmarks(t *testing.T, faces ...Landmarks) []byte {
	t.Helper()
	data, err := json.Marshal(map[string][]Landmarks{"faces": faces})
	require.NoError(t, err)
	return data
}

func rgbConfig() *Config {
	cfg := DefaultConfig()
	cfg.ColorSpace = RGB
	return cfg
}
