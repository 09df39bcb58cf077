package loader

import (
	"math"
	"strings"
	"testing"

	"github.com/ralvey/morph-go/common"
)

func TestParsePathDataTriangle(t *testing.T) {
	path, err := ParsePathData("M 0 0 L 1 0 L 1 1 Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(path.Subpaths) != 1 {
		t.Fatalf("subpath count = %d, want 1", len(path.Subpaths))
	}
	sp := path.Subpaths[0]
	if !sp.Closed {
		t.Fatal("Z did not close the subpath")
	}
	if len(sp.Segments) != 3 {
		t.Fatalf("segment count = %d, want 3 (two lines plus the closing edge)", len(sp.Segments))
	}
	if last := sp.Segments[len(sp.Segments)-1].End; last != sp.Start {
		t.Fatalf("closing segment ends at %v, want start %v", last, sp.Start)
	}
}

func TestParsePathDataRelativeCommands(t *testing.T) {
	path, err := ParsePathData("m 1 1 l 1 0 l 0 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sp := path.Subpaths[0]
	if sp.Start != (common.Vec2{X: 1, Y: 1}) {
		t.Fatalf("start = %v", sp.Start)
	}
	if end := sp.Segments[1].End; end != (common.Vec2{X: 2, Y: 2}) {
		t.Fatalf("relative chain ended at %v, want (2, 2)", end)
	}
	if sp.Closed {
		t.Fatal("open subpath marked closed")
	}
}

func TestParsePathDataQuadraticElevation(t *testing.T) {
	path, err := ParsePathData("M 0 0 Q 1 1 2 0")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	seg := path.Subpaths[0].Segments[0]
	wantC1 := common.Vec2{X: 2.0 / 3.0, Y: 2.0 / 3.0}
	wantC2 := common.Vec2{X: 4.0 / 3.0, Y: 2.0 / 3.0}
	if math.Abs(seg.C1.X-wantC1.X) > 1e-12 || math.Abs(seg.C1.Y-wantC1.Y) > 1e-12 {
		t.Fatalf("elevated C1 = %v, want %v", seg.C1, wantC1)
	}
	if math.Abs(seg.C2.X-wantC2.X) > 1e-12 || math.Abs(seg.C2.Y-wantC2.Y) > 1e-12 {
		t.Fatalf("elevated C2 = %v, want %v", seg.C2, wantC2)
	}
}

func TestParsePathDataMultipleSubpaths(t *testing.T) {
	path, err := ParsePathData("M 0 0 L 1 0 M 5 5 L 6 5 L 6 6 Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(path.Subpaths) != 2 {
		t.Fatalf("subpath count = %d, want 2", len(path.Subpaths))
	}
	if path.Subpaths[0].Closed || !path.Subpaths[1].Closed {
		t.Fatalf("closed flags = %v, %v", path.Subpaths[0].Closed, path.Subpaths[1].Closed)
	}
}

func TestParsePathDataImplicitLineAfterMove(t *testing.T) {
	path, err := ParsePathData("M 0 0 1 0 2 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := len(path.Subpaths[0].Segments); got != 2 {
		t.Fatalf("implicit line-tos produced %d segments, want 2", got)
	}
}

func TestParsePathDataErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"command before move", "L 0 0", "before initial move"},
		{"bad token", "M 0 0 L x 1", "byte 8"},
		{"truncated", "M 0 0 C 1 1 2", "end of input"},
		{"unsupported command", "M 0 0 A 1 1", "unsupported command"},
		{"close without subpath", "Z", "close without open subpath"},
		{"empty", "", "no drawable subpaths"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePathData(tc.data)
			if err == nil {
				t.Fatalf("expected error for %q", tc.data)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestParsePathDataScientificNotation(t *testing.T) {
	path, err := ParsePathData("M 0 0 L 1e-2 2.5e1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	end := path.Subpaths[0].Segments[0].End
	if math.Abs(end.X-0.01) > 1e-12 || math.Abs(end.Y-25) > 1e-12 {
		t.Fatalf("end = %v, want (0.01, 25)", end)
	}
}
