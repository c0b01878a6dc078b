package skintone

import (
	"math"

	"github.com/paulmach/orb"
)

// PointInPolygon reports whether the point lies inside the polygon, using the
// even-odd crossing number rule. The ring may be closed or open, convex or not.
//
// A point lying exactly on an edge or on a vertex is considered inside.
// The same convention applies to every patch, so rasterized sets are reproducible.
func PointInPolygon(pt orb.Point, poly orb.Ring) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[j], poly[i]
		if onSegment(pt, a, b) {
			return true
		}
		// Half-open rule on the y axis, so that a ray crossing a vertex is counted once.
		if (a[1] > pt[1]) != (b[1] > pt[1]) {
			x := a[0] + (pt[1]-a[1])*(b[0]-a[0])/(b[1]-a[1])
			if pt[0] < x {
				inside = !inside
			}
		}
	}
	return inside
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(p, a, b orb.Point) bool {
	cross := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
	if cross != 0 {
		return false
	}
	return p[0] >= math.Min(a[0], b[0]) && p[0] <= math.Max(a[0], b[0]) &&
		p[1] >= math.Min(a[1], b[1]) && p[1] <= math.Max(a[1], b[1])
}

// PolygonArea returns the absolute area of the polygon computed with the shoelace formula.
// Degenerate polygons (less than three vertices or collinear vertices) have zero area.
func PolygonArea(poly orb.Ring) float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}

	var sum float64
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		sum += poly[j][0]*poly[i][1] - poly[i][0]*poly[j][1]
	}
	return math.Abs(sum) / 2
}
