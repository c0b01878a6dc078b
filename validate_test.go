package skintone

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pixels(n int) []image.Point {
	pts := make([]image.Point, n)
	for i := range pts {
		pts[i] = image.Pt(i, 0)
	}
	return pts
}

func TestValidate_NullsSmallPatches(t *testing.T) {
	patches := []*Patch{
		{Region: Forehead, Pixels: pixels(5)},
		{Region: LeftCheek, Pixels: pixels(150)},
		{Region: RightCheek, Pixels: pixels(100)},
	}

	nulled := Validate(patches, 100)
	assert.Equal(t, []Region{Forehead}, nulled)
	assert.True(t, patches[Forehead].Empty())
	assert.Equal(t, 150, patches[LeftCheek].Len())
	assert.Equal(t, 100, patches[RightCheek].Len())
}

func TestValidate_EmptyPatchIsNulled(t *testing.T) {
	patches := []*Patch{{Region: LeftCheek}, {Region: RightCheek, Pixels: pixels(1)}}

	assert.Equal(t, []Region{LeftCheek}, Validate(patches, 0))
	assert.Equal(t, 1, patches[1].Len())
}

func TestValidate_CheekAreaRatioGate(t *testing.T) {
	assert.False(t, CheekAreaRatioGate(10, 30, 0.5))
	assert.True(t, CheekAreaRatioGate(20, 30, 0.5))
	assert.True(t, CheekAreaRatioGate(15, 30, 0.5))
	assert.True(t, CheekAreaRatioGate(30, 10, 0.5))
	assert.True(t, CheekAreaRatioGate(0, 0, 0.5))
	assert.True(t, CheekAreaRatioGate(10, 0, 0.5))
}

func TestValidate_GateCheeks(t *testing.T) {
	left := &Patch{Region: LeftCheek, Area: 10, Pixels: pixels(10)}
	right := &Patch{Region: RightCheek, Area: 30, Pixels: pixels(30)}

	gated := GateCheeks(left, right, 0.5)
	assert.Equal(t, []Region{LeftCheek}, gated)
	assert.True(t, left.Empty())
	assert.Equal(t, 30, right.Len())

	left = &Patch{Region: LeftCheek, Area: 20, Pixels: pixels(20)}
	right = &Patch{Region: RightCheek, Area: 30, Pixels: pixels(30)}
	assert.Empty(t, GateCheeks(left, right, 0.5))
	assert.Equal(t, 20, left.Len())

	assert.Nil(t, GateCheeks(nil, right, 0.5))
}
