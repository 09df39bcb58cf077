package camera

import (
	"math"
	"testing"

	"github.com/ralvey/morph-go/common"
)

func almostEqual(a, b common.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()
	if c.PixelWidth() != 1920 || c.PixelHeight() != 1080 {
		t.Fatalf("default pixel size = %dx%d", c.PixelWidth(), c.PixelHeight())
	}
	if c.FrameWidth() != 16 {
		t.Fatalf("default frame width = %v", c.FrameWidth())
	}
	if got := c.FrameHeight(); math.Abs(got-9) > 1e-9 {
		t.Fatalf("default frame height = %v, want 9", got)
	}
}

func TestWorldToPixelMapping(t *testing.T) {
	c := NewCamera(WithPixelSize(800, 400), WithFrameWidth(8))

	tests := []struct {
		name  string
		world common.Vec2
		pixel common.Vec2
	}{
		{"center", common.Vec2{}, common.Vec2{X: 400, Y: 200}},
		{"right edge", common.Vec2{X: 4}, common.Vec2{X: 800, Y: 200}},
		{"top edge", common.Vec2{Y: 2}, common.Vec2{X: 400, Y: 0}},
		{"bottom left", common.Vec2{X: -4, Y: -2}, common.Vec2{X: 0, Y: 400}},
	}
	for _, tc := range tests {
		if got := c.WorldToPixel(tc.world); !almostEqual(got, tc.pixel) {
			t.Fatalf("%s: WorldToPixel(%v) = %v, want %v", tc.name, tc.world, got, tc.pixel)
		}
		if got := c.PixelToWorld(tc.pixel); !almostEqual(got, tc.world) {
			t.Fatalf("%s: PixelToWorld(%v) = %v, want %v", tc.name, tc.pixel, got, tc.world)
		}
	}
}

func TestMatrixMatchesWorldToPixel(t *testing.T) {
	c := NewCamera(WithCenter(common.Vec2{X: 3, Y: -1}), WithFrameWidth(10))
	p := common.Vec2{X: 1.5, Y: 2.25}
	if got, want := c.Matrix().Apply(p), c.WorldToPixel(p); !almostEqual(got, want) {
		t.Fatalf("Matrix().Apply = %v, WorldToPixel = %v", got, want)
	}
}

func TestVisibleBoundsFollowsCenter(t *testing.T) {
	c := NewCamera(WithCenter(common.Vec2{X: 10, Y: 5}), WithFrameWidth(4), WithPixelSize(100, 100))
	b := c.VisibleBounds()
	want := common.BBox{MinX: 8, MinY: 3, MaxX: 12, MaxY: 7}
	if !almostEqual(b.Min(), want.Min()) || !almostEqual(b.Max(), want.Max()) {
		t.Fatalf("VisibleBounds() = %+v, want %+v", b, want)
	}
}

func TestCull(t *testing.T) {
	c := NewCamera(WithFrameWidth(4), WithPixelSize(100, 100))

	inside := common.EmptyBBox().Include(common.Vec2{X: 0.5, Y: 0.5})
	if c.Cull(inside) {
		t.Fatal("box inside the frame was culled")
	}
	outside := common.EmptyBBox().
		Include(common.Vec2{X: 10, Y: 10}).
		Include(common.Vec2{X: 11, Y: 11})
	if !c.Cull(outside) {
		t.Fatal("box outside the frame was not culled")
	}
	straddling := common.EmptyBBox().
		Include(common.Vec2{X: 1, Y: 1}).
		Include(common.Vec2{X: 10, Y: 10})
	if c.Cull(straddling) {
		t.Fatal("box overlapping the frame edge was culled")
	}
	if !c.Cull(common.EmptyBBox()) {
		t.Fatal("empty box was not culled")
	}
}

func TestZoomShrinksFrame(t *testing.T) {
	c := NewCamera(WithFrameWidth(8))
	c.Zoom(2)
	if got := c.FrameWidth(); math.Abs(got-4) > 1e-9 {
		t.Fatalf("frame width after Zoom(2) = %v, want 4", got)
	}
	c.Zoom(0.5)
	if got := c.FrameWidth(); math.Abs(got-8) > 1e-9 {
		t.Fatalf("frame width after Zoom(0.5) = %v, want 8", got)
	}
	c.Zoom(0)
	if got := c.FrameWidth(); math.Abs(got-8) > 1e-9 {
		t.Fatalf("Zoom(0) changed frame width to %v", got)
	}
}

func TestRevisionIncrementsOnMutation(t *testing.T) {
	c := NewCamera()
	start := c.Revision()
	c.SetCenter(common.Vec2{X: 1})
	c.SetFrameWidth(5)
	c.Zoom(2)
	if got := c.Revision(); got != start+3 {
		t.Fatalf("revision = %d, want %d", got, start+3)
	}
	c.SetFrameWidth(-1)
	if got := c.Revision(); got != start+3 {
		t.Fatal("ignored frame width change bumped the revision")
	}
}

func TestWithPixelSizePanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for zero pixel height")
		}
	}()
	NewCamera(WithPixelSize(100, 0))
}
