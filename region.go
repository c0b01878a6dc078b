package skintone

import "fmt"

// Region identifies one of the anatomical patches of a face.
type Region int

// The regions are listed in rasterization priority order.
const (
	Forehead Region = iota
	LeftCheek
	RightCheek
)

// Regions holds every region in priority order.
var Regions = []Region{Forehead, LeftCheek, RightCheek}

// Landmark indices of the face mesh topology (468 points) delineating each patch.
// The order of the indices defines the polygon winding.
var (
	foreheadIndices = []int{
		251, 284, 332, 297, 338, 10, 109, 67, 103, 54, 21, 162, 139, 70, 63, 105, 66, 107,
		9, 336, 296, 334, 293, 300, 383, 368, 389,
	}
	leftCheekIndices = []int{
		31, 35, 143, 116, 123, 147, 213, 192, 214, 212, 216, 206, 203, 36, 101, 119, 229, 228,
	}
	rightCheekIndices = []int{
		261, 265, 372, 345, 352, 376, 433, 434, 432, 436, 426, 423, 266, 330, 348, 449, 448,
	}
)

// String returns the region name.
func (r Region) String() string {
	switch r {
	case Forehead:
		return "forehead"
	case LeftCheek:
		return "left_cheek"
	case RightCheek:
		return "right_cheek"
	}
	return fmt.Sprintf("region(%d)", int(r))
}

// Indices returns the ordered landmark indices of the region polygon.
func (r Region) Indices() []int {
	switch r {
	case Forehead:
		return foreheadIndices
	case LeftCheek:
		return leftCheekIndices
	case RightCheek:
		return rightCheekIndices
	}
	return nil
}

// CheckLandmarkRange verifies that every region only references
// landmark indices available in a set of n landmarks.
func CheckLandmarkRange(n int) error {
	for _, r := range Regions {
		for _, idx := range r.Indices() {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: %s references landmark %d, only %d available",
					ErrConfiguration, r, idx, n)
			}
		}
	}
	return nil
}
