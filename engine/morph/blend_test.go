package morph

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/mobject"
	"github.com/ralvey/morph-go/engine/variant"
)

func pathsEqual(a, b *variant.Path, eps float64) bool {
	if len(a.Subpaths) != len(b.Subpaths) {
		return false
	}
	close := func(p, q common.Vec2) bool {
		return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
	}
	for i := range a.Subpaths {
		sa, sb := a.Subpaths[i], b.Subpaths[i]
		if len(sa.Segments) != len(sb.Segments) || !close(sa.Start, sb.Start) {
			return false
		}
		for j := range sa.Segments {
			x, y := sa.Segments[j], sb.Segments[j]
			if !close(x.C1, y.C1) || !close(x.C2, y.C2) || !close(x.End, y.End) {
				return false
			}
		}
	}
	return true
}

// cubicAt evaluates the curve from start through seg at parameter t.
func cubicAt(start common.Vec2, seg variant.CubicSegment, t float64) common.Vec2 {
	u := 1 - t
	p := start.Scale(u * u * u)
	p = p.Add(seg.C1.Scale(3 * u * u * t))
	p = p.Add(seg.C2.Scale(3 * u * t * t))
	return p.Add(seg.End.Scale(t * t * t))
}

// sampleSubpath evaluates the whole subpath at n uniform parameters.
func sampleSubpath(sp variant.Subpath, n int) []common.Vec2 {
	out := make([]common.Vec2, 0, n)
	segs := len(sp.Segments)
	for i := 0; i < n; i++ {
		u := float64(i) / float64(n-1) * float64(segs)
		idx := min(int(u), segs-1)
		local := u - float64(idx)
		start := sp.Start
		if idx > 0 {
			start = sp.Segments[idx-1].End
		}
		out = append(out, cubicAt(start, sp.Segments[idx], local))
	}
	return out
}

func TestBlendEndpointsAreExact(t *testing.T) {
	a := &variant.Circle{Radius: 1}
	b := &variant.Rect{Width: 2, Height: 2}

	got, err := Blend(a, b, 0)
	if err != nil {
		t.Fatalf("blend t=0: %v", err)
	}
	if got.Kind() != variant.KindCircle {
		t.Fatalf("t=0 must return a clone of the source, got kind %v", got.Kind())
	}

	got, err = Blend(a, b, 1)
	if err != nil {
		t.Fatalf("blend t=1: %v", err)
	}
	if got.Kind() != variant.KindRect {
		t.Fatalf("t=1 must return a clone of the destination, got kind %v", got.Kind())
	}
	// The returned clones must not alias the inputs.
	got.(*variant.Rect).Width = 99
	if b.Width != 2 {
		t.Fatal("blend endpoint aliased the input payload")
	}
}

func TestBlendMidpointOfLines(t *testing.T) {
	a := &variant.Line{Start: common.Vec2{}, End: common.Vec2{X: 2}}
	b := &variant.Line{Start: common.Vec2{Y: 4}, End: common.Vec2{X: 2, Y: 4}}

	got, err := Blend(a, b, 0.5)
	if err != nil {
		t.Fatalf("blend: %v", err)
	}
	path := got.(*variant.Path)
	if start := path.Subpaths[0].Start; start != (common.Vec2{Y: 2}) {
		t.Fatalf("midpoint start = %+v, want (0,2)", start)
	}
	if end := path.Subpaths[0].Segments[len(path.Subpaths[0].Segments)-1].End; end != (common.Vec2{X: 2, Y: 2}) {
		t.Fatalf("midpoint end = %+v, want (2,2)", end)
	}
}

func TestBlendRefusesGroupsAndNonDrawables(t *testing.T) {
	g := mobject.NewGroup()
	if _, err := Blend(g, &variant.Circle{Radius: 1}, 0.5); err == nil {
		t.Fatal("expected group blend to be refused")
	}
	if _, err := Blend(&variant.Circle{Radius: 1}, &variant.Empty{}, 0.5); err == nil {
		t.Fatal("expected blend with non-pathizable payload to error")
	}
	if _, err := Blend(nil, &variant.Circle{Radius: 1}, 0.5); err == nil {
		t.Fatal("expected nil blend to error")
	}
}

func TestBlendPointClouds(t *testing.T) {
	red, _ := colorful.Hex("#ff0000")
	blue, _ := colorful.Hex("#0000ff")
	a := &variant.PointCloud{Points: []common.Vec2{{}, {X: 2}}, Colors: []colorful.Color{red, red}}
	b := &variant.PointCloud{Points: []common.Vec2{{Y: 2}, {X: 2, Y: 2}, {X: 4, Y: 2}}, Colors: []colorful.Color{blue, blue, blue}}

	got, err := Blend(a, b, 0.5)
	if err != nil {
		t.Fatalf("blend: %v", err)
	}
	pc := got.(*variant.PointCloud)
	if len(pc.Points) != 3 {
		t.Fatalf("count = %d, want the longer side's 3", len(pc.Points))
	}
	// Third point pairs the cycled a[0] with b[2].
	if pc.Points[2] != (common.Vec2{X: 2, Y: 1}) {
		t.Fatalf("cycled point = %+v, want (2,1)", pc.Points[2])
	}
	if len(pc.Colors) != 3 {
		t.Fatalf("colors = %d, want 3", len(pc.Colors))
	}
}

func TestBlendPointCloudEmptySide(t *testing.T) {
	red, _ := colorful.Hex("#ff0000")
	empty := &variant.PointCloud{}
	full := &variant.PointCloud{
		Points: []common.Vec2{{}, {X: 2, Y: 1}},
		Colors: []colorful.Color{red, red},
	}

	for _, tc := range []struct {
		name string
		a, b variant.Payload
	}{
		{"empty left", empty, full},
		{"empty right", full, empty},
	} {
		got, err := Blend(tc.a, tc.b, 0.5)
		if err != nil {
			t.Fatalf("%s: blend: %v", tc.name, err)
		}
		pc := got.(*variant.PointCloud)
		if len(pc.Points) != 2 || len(pc.Colors) != 2 {
			t.Fatalf("%s: got %d points / %d colors, want 2 / 2", tc.name, len(pc.Points), len(pc.Colors))
		}
		if pc.Points[1] != full.Points[1] {
			t.Fatalf("%s: point = %+v, want %+v", tc.name, pc.Points[1], full.Points[1])
		}
	}

	if got, err := Blend(empty, &variant.PointCloud{}, 0.5); err != nil {
		t.Fatalf("empty blend: %v", err)
	} else if pc := got.(*variant.PointCloud); len(pc.Points) != 0 {
		t.Fatalf("empty blend produced %d points", len(pc.Points))
	}
}

func TestAlignPathsPreservesGeometry(t *testing.T) {
	// A one-segment line aligned against a four-segment circle grows to four
	// segments but must still trace the same line.
	linePath, _ := variant.AsPath(&variant.Line{End: common.Vec2{X: 4}})
	circlePath, _ := variant.AsPath(&variant.Circle{Radius: 1})

	alignedLine, alignedCircle := AlignPaths(linePath, circlePath)
	if len(alignedLine.Subpaths[0].Segments) != 4 || len(alignedCircle.Subpaths[0].Segments) != 4 {
		t.Fatalf("aligned counts %d / %d, want 4 / 4",
			len(alignedLine.Subpaths[0].Segments), len(alignedCircle.Subpaths[0].Segments))
	}

	// The circle side is untouched.
	if !pathsEqual(alignedCircle, circlePath, 1e-12) {
		t.Fatal("alignment changed the already-long side")
	}

	// The subdivided line still samples onto y=0, x in [0,4], monotonically.
	for _, p := range sampleSubpath(alignedLine.Subpaths[0], 33) {
		if math.Abs(p.Y) > 1e-9 || p.X < -1e-9 || p.X > 4+1e-9 {
			t.Fatalf("subdivided line left its geometry: %+v", p)
		}
	}
}

func TestSplitCubicTracesOriginal(t *testing.T) {
	start := common.Vec2{}
	seg := variant.CubicSegment{C1: common.Vec2{X: 1, Y: 2}, C2: common.Vec2{X: 3, Y: -2}, End: common.Vec2{X: 4}}
	left, right := SplitCubic(seg, start, 0.3)

	if left.End.Distance(cubicAt(start, seg, 0.3)) > 1e-9 {
		t.Fatalf("split point %+v != curve at t=0.3 %+v", left.End, cubicAt(start, seg, 0.3))
	}

	// Points on the halves map back onto the original curve.
	for _, u := range []float64{0, 0.25, 0.5, 0.75, 1} {
		onLeft := cubicAt(start, left, u)
		onOrig := cubicAt(start, seg, 0.3*u)
		if onLeft.Distance(onOrig) > 1e-9 {
			t.Fatalf("left half diverges at u=%v: %+v vs %+v", u, onLeft, onOrig)
		}
		onRight := cubicAt(left.End, right, u)
		onOrig = cubicAt(start, seg, 0.3+0.7*u)
		if onRight.Distance(onOrig) > 1e-9 {
			t.Fatalf("right half diverges at u=%v: %+v vs %+v", u, onRight, onOrig)
		}
	}
}
