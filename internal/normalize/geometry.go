package normalize

import (
	"fmt"
	"math"
)

// Geometry is a frame size in pixels.
type Geometry struct {
	Width  int
	Height int
}

// String formats the geometry as WxH.
func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}

// Valid reports whether both dimensions are positive.
func (g Geometry) Valid() bool {
	return g.Width > 0 && g.Height > 0
}

// Mean returns the arithmetic mean width and height of sizes. Duplicates
// count once per occurrence.
func Mean(sizes []Geometry) (width, height float64) {
	if len(sizes) == 0 {
		return 0, 0
	}
	var sw, sh float64
	for _, g := range sizes {
		sw += float64(g.Width)
		sh += float64(g.Height)
	}
	n := float64(len(sizes))
	return sw / n, sh / n
}

// OptimalSize returns the member of sizes with the smallest Euclidean
// distance to the mean size. Ties go to the earliest entry. sizes must not be
// empty.
func OptimalSize(sizes []Geometry) Geometry {
	if len(sizes) == 0 {
		panic("normalize: OptimalSize called with no sizes")
	}

	mw, mh := Mean(sizes)
	best := 0
	bestDist := math.Inf(1)
	for i, g := range sizes {
		d := math.Hypot(float64(g.Width)-mw, float64(g.Height)-mh)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return sizes[best]
}

// Distinct returns the unique sizes in order of first appearance.
func Distinct(sizes []Geometry) []Geometry {
	seen := make(map[Geometry]bool, len(sizes))
	out := make([]Geometry, 0, len(sizes))
	for _, g := range sizes {
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}
