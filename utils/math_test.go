package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMath_MinMax(t *testing.T) {
	assert.Equal(t, 2, Min(2, 5))
	assert.Equal(t, 2, Min(5, 2))
	assert.Equal(t, 5, Max(2, 5))
	assert.Equal(t, 5.5, Max(5.5, -1.0))
}

func TestMath_Clamp(t *testing.T) {
	testCases := []struct {
		name      string
		x, lo, hi int
		want      int
	}{
		{"below", -20, 0, 255, 0},
		{"inside", 128, 0, 255, 128},
		{"above", 300, 0, 255, 255},
		{"lower bound", 0, 0, 255, 0},
		{"upper bound", 255, 0, 255, 255},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clamp(tc.x, tc.lo, tc.hi))
		})
	}
}
