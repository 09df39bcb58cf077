package variant

import (
	"fmt"
	"math"

	"github.com/ralvey/morph-go/common"
)

// circleKappa is the control point offset, as a fraction of the radius, that
// makes a cubic bezier approximate a quarter circle: 4(sqrt(2)-1)/3.
const circleKappa = 4 * (math.Sqrt2 - 1) / 3

// AsPath converts a drawable leaf payload to its canonical cubic bezier
// form. Line, circle, rect, polygon, arc, and path payloads convert; empty,
// point cloud, and group payloads have no bezier form and return an error
// (groups are resolved by the renderer, which flattens children).
//
// Parameters:
//   - p: the payload to convert
//
// Returns:
//   - *Path: the bezier form (a fresh value, never aliasing p)
//   - error: an error if the payload kind has no bezier form
func AsPath(p Payload) (*Path, error) {
	if p == nil {
		return nil, fmt.Errorf("variant: cannot pathize nil payload")
	}
	switch v := p.(type) {
	case *Path:
		return v.Clone().(*Path), nil
	case *Line:
		return &Path{Subpaths: []Subpath{lineSubpath(v.Start, v.End)}}, nil
	case *Circle:
		return &Path{Subpaths: []Subpath{arcSubpath(v.Center, v.Radius, 0, 2*math.Pi, true)}}, nil
	case *Arc:
		closed := math.Abs(v.SweepAngle) >= 2*math.Pi
		return &Path{Subpaths: []Subpath{arcSubpath(v.Center, v.Radius, v.StartAngle, v.SweepAngle, closed)}}, nil
	case *Polygon:
		return polygonPath(v)
	case *Rect:
		return rectPath(v), nil
	default:
		return nil, fmt.Errorf("variant: kind %q has no bezier form", p.Kind())
	}
}

// straightSegment returns a cubic that traces the straight line from a to b,
// with control points at 1/3 and 2/3 of the edge.
func straightSegment(a, b common.Vec2) CubicSegment {
	return CubicSegment{
		C1:  a.Lerp(b, 1.0/3.0),
		C2:  a.Lerp(b, 2.0/3.0),
		End: b,
	}
}

// lineSubpath builds the single-segment open subpath from a to b.
func lineSubpath(a, b common.Vec2) Subpath {
	return Subpath{Start: a, Segments: []CubicSegment{straightSegment(a, b)}}
}

// arcSubpath approximates a circular arc with one cubic per quarter turn (or
// less). A full circle yields four segments whose control points sit at
// circleKappa times the radius.
func arcSubpath(center common.Vec2, radius, start, sweep float64, closed bool) Subpath {
	pointAt := func(angle float64) common.Vec2 {
		return common.Vec2{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}

	sp := Subpath{Start: pointAt(start), Closed: closed}
	if sweep == 0 || radius == 0 {
		// Degenerate arcs still need one segment so the subpath validates.
		sp.Segments = []CubicSegment{straightSegment(sp.Start, sp.Start)}
		return sp
	}

	steps := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	delta := sweep / float64(steps)
	// Control distance for a cubic spanning delta radians; reduces to
	// circleKappa*radius at a quarter turn.
	k := radius * 4.0 / 3.0 * math.Tan(delta/4)

	angle := start
	for i := 0; i < steps; i++ {
		p0 := pointAt(angle)
		p3 := pointAt(angle + delta)
		t0 := common.Vec2{X: -math.Sin(angle), Y: math.Cos(angle)}
		t3 := common.Vec2{X: -math.Sin(angle + delta), Y: math.Cos(angle + delta)}
		sp.Segments = append(sp.Segments, CubicSegment{
			C1:  p0.Add(t0.Scale(k)),
			C2:  p3.Sub(t3.Scale(k)),
			End: p3,
		})
		angle += delta
	}
	if closed {
		// Snap the final endpoint onto the start so closed subpaths loop
		// exactly, independent of trig rounding.
		sp.Segments[len(sp.Segments)-1].End = sp.Start
	}
	return sp
}

// polygonPath converts a polygon to straight cubic edges. Closed polygons
// include the closing edge back to the first point.
func polygonPath(p *Polygon) (*Path, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	sp := Subpath{Start: p.Points[0], Closed: p.Closed}
	for i := 1; i < len(p.Points); i++ {
		sp.Segments = append(sp.Segments, straightSegment(p.Points[i-1], p.Points[i]))
	}
	if p.Closed {
		sp.Segments = append(sp.Segments, straightSegment(p.Points[len(p.Points)-1], p.Points[0]))
	}
	return &Path{Subpaths: []Subpath{sp}}, nil
}

// rectPath converts a rect to a closed subpath, honoring the clamped corner
// radius. Corners are traced counter-clockwise starting from the point just
// after the bottom-right corner's rounding.
func rectPath(r *Rect) *Path {
	cr := r.clampedCornerRadius()
	minX, minY := r.Center.X-r.Width/2, r.Center.Y-r.Height/2
	maxX, maxY := r.Center.X+r.Width/2, r.Center.Y+r.Height/2

	if cr == 0 {
		poly := &Polygon{
			Points: []common.Vec2{
				{X: maxX, Y: minY},
				{X: maxX, Y: maxY},
				{X: minX, Y: maxY},
				{X: minX, Y: minY},
			},
			Closed: true,
		}
		path, _ := polygonPath(poly)
		return path
	}

	corner := func(cx, cy, startAngle float64) []CubicSegment {
		return arcSubpath(common.Vec2{X: cx, Y: cy}, cr, startAngle, math.Pi/2, false).Segments
	}

	sp := Subpath{Start: common.Vec2{X: maxX, Y: minY + cr}, Closed: true}
	// Right edge up, then each corner and edge counter-clockwise.
	sp.Segments = append(sp.Segments, straightSegment(sp.Start, common.Vec2{X: maxX, Y: maxY - cr}))
	sp.Segments = append(sp.Segments, corner(maxX-cr, maxY-cr, 0)...)
	sp.Segments = append(sp.Segments, straightSegment(common.Vec2{X: maxX - cr, Y: maxY}, common.Vec2{X: minX + cr, Y: maxY}))
	sp.Segments = append(sp.Segments, corner(minX+cr, maxY-cr, math.Pi/2)...)
	sp.Segments = append(sp.Segments, straightSegment(common.Vec2{X: minX, Y: maxY - cr}, common.Vec2{X: minX, Y: minY + cr}))
	sp.Segments = append(sp.Segments, corner(minX+cr, minY+cr, math.Pi)...)
	sp.Segments = append(sp.Segments, straightSegment(common.Vec2{X: minX + cr, Y: minY}, common.Vec2{X: maxX - cr, Y: minY}))
	sp.Segments = append(sp.Segments, corner(maxX-cr, minY+cr, 3*math.Pi/2)...)
	sp.Segments[len(sp.Segments)-1].End = sp.Start
	return &Path{Subpaths: []Subpath{sp}}
}
