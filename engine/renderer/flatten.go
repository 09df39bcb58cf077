package renderer

import (
	"math"

	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/variant"
)

// maxFlattenDepth bounds adaptive subdivision at 2^10 points per cubic
// segment.
const maxFlattenDepth = 10

// flatSubpath is one flattened subpath. For closed subpaths the duplicate
// closing point is trimmed and Closed is set instead.
type flatSubpath struct {
	points []common.Vec2
	closed bool
}

// flattenPath converts every subpath of a path into a polyline. Quality
// controls the flatness tolerance: each cubic subdivides until its control
// points sit within 0.25/quality world units of the chord.
//
// Parameters:
//   - path: the path to flatten
//   - quality: the tessellation quality, 1..64
//
// Returns:
//   - []flatSubpath: one polyline per subpath
func flattenPath(path *variant.Path, quality int) []flatSubpath {
	if quality < 1 {
		quality = 1
	}
	tolerance := 0.25 / float64(quality)

	out := make([]flatSubpath, 0, len(path.Subpaths))
	for _, sp := range path.Subpaths {
		points := []common.Vec2{sp.Start}
		cursor := sp.Start
		for _, seg := range sp.Segments {
			points = flattenCubic(points, cursor, seg.C1, seg.C2, seg.End, tolerance, 0)
			cursor = seg.End
		}
		if sp.Closed && len(points) > 1 {
			points = points[:len(points)-1]
		}
		out = append(out, flatSubpath{points: points, closed: sp.Closed})
	}
	return out
}

// flattenCubic appends the polyline approximation of one cubic segment to
// points, excluding the start point (already present as the previous end).
func flattenCubic(points []common.Vec2, p0, c1, c2, p3 common.Vec2, tolerance float64, depth int) []common.Vec2 {
	if depth >= maxFlattenDepth || cubicIsFlat(p0, c1, c2, p3, tolerance) {
		return append(points, p3)
	}

	// de Casteljau split at t = 0.5
	p01 := p0.Lerp(c1, 0.5)
	p12 := c1.Lerp(c2, 0.5)
	p23 := c2.Lerp(p3, 0.5)
	p012 := p01.Lerp(p12, 0.5)
	p123 := p12.Lerp(p23, 0.5)
	mid := p012.Lerp(p123, 0.5)

	points = flattenCubic(points, p0, p01, p012, mid, tolerance, depth+1)
	return flattenCubic(points, mid, p123, p23, p3, tolerance, depth+1)
}

// cubicIsFlat reports whether both control points lie within tolerance of
// the chord from p0 to p3.
func cubicIsFlat(p0, c1, c2, p3 common.Vec2, tolerance float64) bool {
	chord := p3.Sub(p0)
	chordLen := chord.Length()
	if chordLen == 0 {
		return c1.Distance(p0) <= tolerance && c2.Distance(p0) <= tolerance
	}
	d1 := chord.Cross(c1.Sub(p0)) / chordLen
	d2 := chord.Cross(c2.Sub(p0)) / chordLen
	return math.Abs(d1) <= tolerance && math.Abs(d2) <= tolerance
}
