package skintone

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorSpace_Parse(t *testing.T) {
	for _, name := range []string{"rgb", "ycbcr", "yuv", "hsv"} {
		cs, err := ParseColorSpace(name)
		require.NoError(t, err)
		assert.Equal(t, ColorSpace(name), cs)
	}

	_, err := ParseColorSpace("lab")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestColorSpace_Convert(t *testing.T) {
	assert.Equal(t, [3]uint8{10, 20, 30}, RGB.Convert(10, 20, 30))
	assert.Equal(t, [3]uint8{128, 128, 128}, YCbCr.Convert(128, 128, 128))
	assert.Equal(t, [3]uint8{128, 128, 128}, YUV.Convert(128, 128, 128))
	assert.Equal(t, [3]uint8{0, 255, 255}, HSV.Convert(255, 0, 0))
	assert.Equal(t, [3]uint8{0, 0, 0}, HSV.Convert(0, 0, 0))
}

func TestColorSpace_RoundTrip(t *testing.T) {
	skin := [3]uint8{200, 150, 120}

	for _, cs := range []ColorSpace{RGB, YCbCr, YUV, HSV} {
		t.Run(string(cs), func(t *testing.T) {
			s := cs.Convert(skin[0], skin[1], skin[2])
			got := cs.ToRGB([3]float64{float64(s[0]), float64(s[1]), float64(s[2])})
			for c := range got {
				assert.InDelta(t, float64(skin[c]), float64(got[c]), 3)
			}
		})
	}
}

func TestColorSpace_ToRGBClamps(t *testing.T) {
	assert.Equal(t, [3]uint8{0, 255, 128}, RGB.ToRGB([3]float64{-4, 300, 127.6}))
}

func TestColorSpace_Frame(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 10, 8))
	img.SetNRGBA(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	img.SetNRGBA(9, 7, color.NRGBA{R: 4, G: 5, B: 6, A: 255})

	f := NewFrame(img, RGB)
	assert.Equal(t, image.Rect(0, 0, 5, 3), f.Rect)
	assert.Equal(t, 15, f.Stride)
	assert.Equal(t, [3]uint8{1, 2, 3}, f.At(image.Pt(0, 0)))
	assert.Equal(t, [3]uint8{4, 5, 6}, f.At(image.Pt(4, 2)))

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 90})
	f = NewFrame(gray, YCbCr)
	assert.Equal(t, [3]uint8{90, 128, 128}, f.At(image.Pt(1, 1)))
}
