package renderer

import (
	"github.com/ralvey/morph-go/common"
)

// triangulate converts a simple closed ring into triangle indices by ear
// clipping. The ring must not repeat its first point at the end. Rings
// where no ear can be found (self-intersecting input) fall back to a
// convex fan so the caller always gets a drawable result.
//
// Parameters:
//   - ring: the polygon vertices in order
//
// Returns:
//   - []uint32: triangle indices into ring, in groups of three
func triangulate(ring []common.Vec2) []uint32 {
	n := len(ring)
	if n < 3 {
		return nil
	}

	// Ear clipping assumes counter-clockwise winding. Work on an index
	// list so the output always references the caller's ordering.
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if signedArea(ring) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			indices[i], indices[j] = indices[j], indices[i]
		}
	}

	out := make([]uint32, 0, (n-2)*3)
	for len(indices) > 3 {
		clipped := false
		for i := 0; i < len(indices); i++ {
			prev := indices[(i+len(indices)-1)%len(indices)]
			curr := indices[i]
			next := indices[(i+1)%len(indices)]
			if !isEar(ring, indices, prev, curr, next) {
				continue
			}
			out = append(out, uint32(prev), uint32(curr), uint32(next))
			indices = append(indices[:i], indices[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return convexFan(n)
		}
	}
	out = append(out, uint32(indices[0]), uint32(indices[1]), uint32(indices[2]))
	return out
}

// isEar reports whether the triangle (prev, curr, next) is convex and
// contains no other ring vertex.
func isEar(ring []common.Vec2, indices []int, prev, curr, next int) bool {
	a, b, c := ring[prev], ring[curr], ring[next]
	if b.Sub(a).Cross(c.Sub(b)) <= 0 {
		return false
	}
	for _, idx := range indices {
		if idx == prev || idx == curr || idx == next {
			continue
		}
		if pointInTriangle(ring[idx], a, b, c) {
			return false
		}
	}
	return true
}

// pointInTriangle reports whether p lies inside triangle abc, boundary
// included. A vertex on an ear's edge still blocks the clip, otherwise the
// ear would overlap the notch behind that vertex. The triangle's own
// corners do not count as contained.
func pointInTriangle(p, a, b, c common.Vec2) bool {
	if p == a || p == b || p == c {
		return false
	}
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

// signedArea returns twice the signed area of the ring, positive for
// counter-clockwise winding.
func signedArea(ring []common.Vec2) float64 {
	sum := 0.0
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p.Cross(q)
	}
	return sum
}

// convexFan fans every vertex around vertex zero.
func convexFan(n int) []uint32 {
	out := make([]uint32, 0, (n-2)*3)
	for i := 1; i < n-1; i++ {
		out = append(out, 0, uint32(i), uint32(i+1))
	}
	return out
}
