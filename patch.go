package skintone

import (
	"fmt"
	"image"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
)

// bandHeight is the number of bounding box rows scanned by a single rasterization task.
const bandHeight = 16

// Patch is a facial region delimited by a landmark polygon,
// together with the pixels enclosed by the polygon.
type Patch struct {
	Region   Region
	Vertices orb.Ring
	Area     float64
	Pixels   []image.Point
}

// Len returns the number of pixels in the patch.
func (p *Patch) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Pixels)
}

// Empty reports whether the patch has no pixels.
func (p *Patch) Empty() bool { return p.Len() == 0 }

// Nullify discards the patch pixels, marking the patch as not having enough usable data.
func (p *Patch) Nullify() { p.Pixels = nil }

// BuildVertices maps the region landmark indices to pixel space polygon vertices.
// The normalized landmark coordinates are scaled by the image dimensions and truncated.
func BuildVertices(lms LandmarkSet, region Region, width, height int) (orb.Ring, error) {
	indices := region.Indices()
	if len(indices) < 3 {
		return nil, fmt.Errorf("%w: %s has %d vertices", ErrDegenerateGeometry, region, len(indices))
	}

	ring := make(orb.Ring, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= lms.Len() {
			return nil, fmt.Errorf("%w: landmark %d out of range [0, %d)", ErrConfiguration, idx, lms.Len())
		}
		lm := lms.At(idx)
		x := int(float64(width) * lm.X)
		y := int(float64(height) * lm.Y)
		ring = append(ring, orb.Point{float64(x), float64(y)})
	}
	return ring, nil
}

// NewPatches builds the patches of every region in priority order. The pixel sets are left empty.
func NewPatches(lms LandmarkSet, width, height int) ([]*Patch, error) {
	patches := make([]*Patch, 0, len(Regions))
	for _, r := range Regions {
		ring, err := BuildVertices(lms, r, width, height)
		if err != nil {
			return nil, &FaceError{Region: r.String(), Err: err}
		}
		patches = append(patches, &Patch{
			Region:   r,
			Vertices: ring,
			Area:     PolygonArea(ring),
		})
	}
	return patches, nil
}

// BoundingBox returns the union bounding box of the rings, clipped to the image bounds.
// The returned rectangle includes the maximum vertex coordinates.
func BoundingBox(bounds image.Rectangle, rings ...orb.Ring) image.Rectangle {
	var (
		b     orb.Bound
		found bool
	)
	for _, r := range rings {
		if len(r) == 0 {
			continue
		}
		if !found {
			b, found = r.Bound(), true
			continue
		}
		b = b.Union(r.Bound())
	}
	if !found {
		return image.Rectangle{}
	}

	box := image.Rect(
		int(b.Min[0]), int(b.Min[1]),
		int(b.Max[0])+1, int(b.Max[1])+1,
	)
	return box.Intersect(bounds)
}

// PatchBox returns the union bounding box of the patch polygons, clipped to the image bounds.
func PatchBox(bounds image.Rectangle, patches []*Patch) image.Rectangle {
	rings := make([]orb.Ring, 0, len(patches))
	for _, p := range patches {
		rings = append(rings, p.Vertices)
	}
	return BoundingBox(bounds, rings...)
}

// Rasterize assigns every pixel of the bounding box to at most one patch.
// The patches are tested in order and the first one containing the pixel wins,
// so the resulting pixel sets are pairwise disjoint. Pixels outside of all the patches
// are discarded. The pixels of each patch are stored in row-major scan order.
//
// When workers is greater than one the box is split into horizontal bands which are scanned
// concurrently and merged back in order, giving the same result as a sequential scan.
func Rasterize(box image.Rectangle, patches []*Patch, workers int) error {
	for _, p := range patches {
		if len(p.Vertices) < 3 {
			return &FaceError{
				Region: p.Region.String(),
				Err:    fmt.Errorf("%w: %d vertices", ErrDegenerateGeometry, len(p.Vertices)),
			}
		}
		p.Pixels = nil
	}
	if box.Empty() || len(patches) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	nbands := (box.Dy() + bandHeight - 1) / bandHeight
	bands := make([][][]image.Point, nbands)

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i := 0; i < nbands; i++ {
		i := i // per-iteration copy; go directive is pinned below 1.22
		band := image.Rect(box.Min.X, box.Min.Y+i*bandHeight, box.Max.X, box.Min.Y+(i+1)*bandHeight).Intersect(box)
		g.Go(func() error {
			bands[i] = scanBand(band, patches)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, band := range bands {
		for idx, pts := range band {
			patches[idx].Pixels = append(patches[idx].Pixels, pts...)
		}
	}
	return nil
}

// scanBand tests every pixel of the rectangle against the patch polygons.
func scanBand(rect image.Rectangle, patches []*Patch) [][]image.Point {
	out := make([][]image.Point, len(patches))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			pt := orb.Point{float64(x), float64(y)}
			for idx, p := range patches {
				if PointInPolygon(pt, p.Vertices) {
					out[idx] = append(out[idx], image.Point{X: x, Y: y})
					break
				}
			}
		}
	}
	return out
}
