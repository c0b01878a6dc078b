package skintone

// Validate nullifies every patch holding less than minPixels pixels
// and returns the regions which have been nullified.
func Validate(patches []*Patch, minPixels int) []Region {
	var nulled []Region
	for _, p := range patches {
		if p == nil {
			continue
		}
		if p.Len() == 0 || p.Len() < minPixels {
			p.Nullify()
			nulled = append(nulled, p.Region)
		}
	}
	return nulled
}

// CheekAreaRatioGate reports whether a cheek area is at least minRatio times the paired cheek area.
// It guards the statistics against a barely visible cheek of a turned face.
func CheekAreaRatioGate(area, pairedArea, minRatio float64) bool {
	if pairedArea <= 0 {
		return area >= 0
	}
	return area/pairedArea >= minRatio
}

// GateCheeks evaluates the area ratio gate independently for both cheeks
// and nullifies the ones which fail. It returns the regions which have been excluded.
func GateCheeks(left, right *Patch, minRatio float64) []Region {
	if left == nil || right == nil {
		return nil
	}
	leftOk := CheekAreaRatioGate(left.Area, right.Area, minRatio)
	rightOk := CheekAreaRatioGate(right.Area, left.Area, minRatio)

	var gated []Region
	if !leftOk {
		left.Nullify()
		gated = append(gated, left.Region)
	}
	if !rightOk {
		right.Nullify()
		gated = append(gated, right.Region)
	}
	return gated
}
