// package morph implements transformation blending: pure functions of two
// payloads and a parameter t in [0, 1]. The package never advances time;
// callers choose t, so there are no clocks, tickers, or goroutines here.
package morph

import (
	"fmt"

	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/variant"
)

// Blend computes the intermediate payload between a and b at parameter t.
// Both payloads are converted to their canonical bezier form and aligned
// (equal subpath and segment counts) before control points interpolate.
// Point clouds blend pointwise against each other (counts equalized by
// cycling, colors in HCL). Group payloads refuse to blend, as do payloads
// that fail pathization.
//
// t <= 0 returns a clone of a and t >= 1 a clone of b, so chained tweens
// land exactly on their endpoints.
//
// Parameters:
//   - a: the source payload
//   - b: the destination payload
//   - t: the interpolation parameter
//
// Returns:
//   - variant.Payload: the blended payload
//   - error: an error if the payload pair cannot blend
func Blend(a, b variant.Payload, t float64) (variant.Payload, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("morph: cannot blend nil payloads")
	}
	if a.Kind() == variant.KindGroup || b.Kind() == variant.KindGroup {
		return nil, fmt.Errorf("morph: group payloads do not blend; tween members individually")
	}
	if t <= 0 {
		return a.Clone(), nil
	}
	if t >= 1 {
		return b.Clone(), nil
	}

	if pa, ok := a.(*variant.PointCloud); ok {
		if pb, ok := b.(*variant.PointCloud); ok {
			return blendPointClouds(pa, pb, t), nil
		}
	}

	pathA, err := variant.AsPath(a)
	if err != nil {
		return nil, fmt.Errorf("morph: blend source: %w", err)
	}
	pathB, err := variant.AsPath(b)
	if err != nil {
		return nil, fmt.Errorf("morph: blend destination: %w", err)
	}

	if len(pathA.Subpaths) == 0 || len(pathB.Subpaths) == 0 {
		return nil, fmt.Errorf("morph: cannot blend a path with no subpaths")
	}

	alignedA, alignedB := AlignPaths(pathA, pathB)
	out := &variant.Path{Subpaths: make([]variant.Subpath, len(alignedA.Subpaths))}
	for i := range alignedA.Subpaths {
		spA, spB := alignedA.Subpaths[i], alignedB.Subpaths[i]
		blended := variant.Subpath{
			Start:    spA.Start.Lerp(spB.Start, t),
			Closed:   spA.Closed && spB.Closed,
			Segments: make([]variant.CubicSegment, len(spA.Segments)),
		}
		for j := range spA.Segments {
			sa, sb := spA.Segments[j], spB.Segments[j]
			blended.Segments[j] = variant.CubicSegment{
				C1:  sa.C1.Lerp(sb.C1, t),
				C2:  sa.C2.Lerp(sb.C2, t),
				End: sa.End.Lerp(sb.End, t),
			}
		}
		out.Subpaths[i] = blended
	}
	return out, nil
}

// blendPointClouds interpolates two point clouds pointwise. The shorter
// side's points (and colors) cycle to match the longer side.
func blendPointClouds(a, b *variant.PointCloud, t float64) *variant.PointCloud {
	n := max(len(a.Points), len(b.Points))
	out := &variant.PointCloud{}
	if n == 0 {
		return out
	}
	if len(a.Points) == 0 || len(b.Points) == 0 {
		// A side with no points cannot cycle; the non-empty side passes
		// through unchanged.
		src := a
		if len(a.Points) == 0 {
			src = b
		}
		out.Points = append(out.Points, src.Points...)
		out.Colors = append(out.Colors, src.Colors...)
		return out
	}
	out.Points = make([]common.Vec2, n)
	for i := 0; i < n; i++ {
		pa := a.Points[i%len(a.Points)]
		pb := b.Points[i%len(b.Points)]
		out.Points[i] = pa.Lerp(pb, t)
	}
	if len(a.Colors) > 0 && len(b.Colors) > 0 {
		for i := 0; i < n; i++ {
			ca := a.Colors[i%len(a.Colors)]
			cb := b.Colors[i%len(b.Colors)]
			out.Colors = append(out.Colors, ca.BlendHcl(cb, t))
		}
	} else if len(a.Colors) > 0 {
		for i := 0; i < n; i++ {
			out.Colors = append(out.Colors, a.Colors[i%len(a.Colors)])
		}
	} else if len(b.Colors) > 0 {
		for i := 0; i < n; i++ {
			out.Colors = append(out.Colors, b.Colors[i%len(b.Colors)])
		}
	}
	return out
}

// AlignPaths reparameterizes two paths so they have equal subpath counts and,
// per pair, equal segment counts. Alignment never changes either shape's
// geometry: the shorter side's subpaths are cycled and segments are grown
// by bezier subdivision, which splits curves without moving them.
//
// Parameters:
//   - a: the first path
//   - b: the second path
//
// Returns:
//   - *Path: the aligned copy of a
//   - *Path: the aligned copy of b
func AlignPaths(a, b *variant.Path) (*variant.Path, *variant.Path) {
	n := max(len(a.Subpaths), len(b.Subpaths))
	outA := &variant.Path{Subpaths: make([]variant.Subpath, 0, n)}
	outB := &variant.Path{Subpaths: make([]variant.Subpath, 0, n)}
	for i := 0; i < n; i++ {
		spA := cloneSubpath(a.Subpaths[i%len(a.Subpaths)])
		spB := cloneSubpath(b.Subpaths[i%len(b.Subpaths)])
		segs := max(len(spA.Segments), len(spB.Segments))
		spA = growSubpath(spA, segs)
		spB = growSubpath(spB, segs)
		outA.Subpaths = append(outA.Subpaths, spA)
		outB.Subpaths = append(outB.Subpaths, spB)
	}
	return outA, outB
}

func cloneSubpath(sp variant.Subpath) variant.Subpath {
	out := variant.Subpath{Start: sp.Start, Closed: sp.Closed}
	out.Segments = make([]variant.CubicSegment, len(sp.Segments))
	copy(out.Segments, sp.Segments)
	return out
}

// growSubpath subdivides the subpath's segments until it has target
// segments, distributing the extra pieces evenly. The traced curve is
// unchanged.
func growSubpath(sp variant.Subpath, target int) variant.Subpath {
	n := len(sp.Segments)
	if n == 0 || n >= target {
		return sp
	}
	out := variant.Subpath{Start: sp.Start, Closed: sp.Closed}
	out.Segments = make([]variant.CubicSegment, 0, target)

	base := target / n
	extra := target % n
	start := sp.Start
	for i, seg := range sp.Segments {
		pieces := base
		if i < extra {
			pieces++
		}
		out.Segments = append(out.Segments, splitIntoPieces(seg, start, pieces)...)
		start = seg.End
	}
	return out
}

// splitIntoPieces splits one cubic into pieces equal-parameter spans via
// repeated de Casteljau subdivision.
func splitIntoPieces(seg variant.CubicSegment, start common.Vec2, pieces int) []variant.CubicSegment {
	if pieces <= 1 {
		return []variant.CubicSegment{seg}
	}
	out := make([]variant.CubicSegment, 0, pieces)
	remaining := seg
	remainingStart := start
	for i := 0; i < pieces-1; i++ {
		// Split the remaining span at the parameter that leaves equal-sized
		// pieces: 1/(pieces-i) of what is left.
		t := 1.0 / float64(pieces-i)
		left, right := SplitCubic(remaining, remainingStart, t)
		out = append(out, left)
		remainingStart = left.End
		remaining = right
	}
	return append(out, remaining)
}

// SplitCubic subdivides a cubic bezier at parameter t using de Casteljau's
// algorithm. The left piece runs from start to the split point, the right
// piece from the split point to seg.End; together they trace the original
// curve exactly.
//
// Parameters:
//   - seg: the segment to split
//   - start: the segment's start point
//   - t: the split parameter in (0, 1)
//
// Returns:
//   - left: the first piece (End is the split point)
//   - right: the second piece
func SplitCubic(seg variant.CubicSegment, start common.Vec2, t float64) (left, right variant.CubicSegment) {
	p01 := start.Lerp(seg.C1, t)
	p12 := seg.C1.Lerp(seg.C2, t)
	p23 := seg.C2.Lerp(seg.End, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	split := p012.Lerp(p123, t)

	left = variant.CubicSegment{C1: p01, C2: p012, End: split}
	right = variant.CubicSegment{C1: p123, C2: p23, End: seg.End}
	return left, right
}
