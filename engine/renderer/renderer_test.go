package renderer

import (
	"math"
	"testing"

	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/camera"
	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/mobject"
	"github.com/ralvey/morph-go/engine/variant"
)

func circleObject(name string, radius float64) mobject.Mobject {
	return mobject.NewMobject(
		mobject.WithName(name),
		mobject.WithPayload(&variant.Circle{Radius: radius}),
	)
}

func TestDeriveCircleOutline(t *testing.T) {
	r := NewRenderer()
	set, err := r.Derive(circleObject("c", 1))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(set.Outlines) != 1 {
		t.Fatalf("outline count = %d, want 1", len(set.Outlines))
	}
	o := set.Outlines[0]
	if !o.Closed {
		t.Fatal("circle outline is not closed")
	}
	if o.Name != "c" {
		t.Fatalf("outline name = %q", o.Name)
	}
	// Every flattened point approximates the unit circle.
	for _, p := range o.Points {
		if d := math.Abs(p.Length() - 1); d > 0.02 {
			t.Fatalf("point %v is %v off the unit circle", p, d)
		}
	}
}

func TestDeriveDisabledObjectIsEmpty(t *testing.T) {
	r := NewRenderer()
	obj := circleObject("off", 1)
	obj.SetEnabled(false)
	set, err := r.Derive(obj)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !set.Empty() {
		t.Fatal("disabled object derived renderable data")
	}
}

func TestDeriveNilObjectErrors(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Derive(nil); err == nil {
		t.Fatal("expected nil object to be rejected")
	}
}

func TestDeriveCacheHitsAndGenerationInvalidation(t *testing.T) {
	r := NewRenderer()
	obj := circleObject("c", 1)

	if _, err := r.Derive(obj); err != nil {
		t.Fatalf("derive: %v", err)
	}
	if _, err := r.Derive(obj); err != nil {
		t.Fatalf("derive: %v", err)
	}
	stats := r.Stats()
	if stats.Misses != 1 || stats.Hits != 1 {
		t.Fatalf("stats after repeat = %+v, want 1 miss 1 hit", stats)
	}

	if err := obj.Become(&variant.Circle{Radius: 2}); err != nil {
		t.Fatalf("become: %v", err)
	}
	if _, err := r.Derive(obj); err != nil {
		t.Fatalf("derive: %v", err)
	}
	stats = r.Stats()
	if stats.Misses != 2 {
		t.Fatalf("misses after mutation = %d, want 2", stats.Misses)
	}
}

func TestVectorBackendRejectsMeshMaterial(t *testing.T) {
	r := NewRenderer(WithBackendType(BackendTypeVector))
	obj := mobject.NewMobject(
		mobject.WithPayload(&variant.Circle{Radius: 1}),
		mobject.WithMaterial(material.NewMaterial(material.WithClass(material.ClassMesh))),
	)
	if _, err := r.Derive(obj); err == nil {
		t.Fatal("expected mesh-class material to be rejected by the vector backend")
	}
}

func TestMeshBackendTriangulatesFilledRect(t *testing.T) {
	r := NewRenderer(WithBackendType(BackendTypeMesh))
	obj := mobject.NewMobject(
		mobject.WithName("box"),
		mobject.WithPayload(&variant.Rect{Width: 2, Height: 2}),
		mobject.WithMaterial(material.NewMaterial(
			material.WithClass(material.ClassMesh),
			material.WithFillHex("#00ff00"),
		)),
	)
	set, err := r.Derive(obj)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(set.Meshes) != 1 {
		t.Fatalf("mesh count = %d, want 1", len(set.Meshes))
	}
	m := set.Meshes[0]
	if len(m.Vertices) != 4 || len(m.Indices) != 6 {
		t.Fatalf("rect mesh has %d vertices and %d indices, want 4 and 6", len(m.Vertices), len(m.Indices))
	}
	if len(set.Outlines) != 1 {
		t.Fatalf("filled rect also strokes, outline count = %d", len(set.Outlines))
	}
}

func TestMeshBackendServesVectorMaterials(t *testing.T) {
	r := NewRenderer(WithBackendType(BackendTypeMesh))
	set, err := r.Derive(circleObject("c", 1))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(set.Meshes) != 0 || len(set.Outlines) != 1 {
		t.Fatalf("vector material on mesh backend derived %d meshes, %d outlines", len(set.Meshes), len(set.Outlines))
	}
}

func TestDerivePointCloud(t *testing.T) {
	r := NewRenderer()
	obj := mobject.NewMobject(
		mobject.WithName("pts"),
		mobject.WithPayload(&variant.PointCloud{
			Points: []common.Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}},
		}),
	)
	set, err := r.Derive(obj)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(set.Dots) != 1 || len(set.Dots[0].Points) != 2 {
		t.Fatalf("dots = %+v", set.Dots)
	}
	if len(set.Dots[0].Colors) != 1 {
		t.Fatal("colorless cloud should fall back to the material stroke color")
	}
}

func TestDeriveGroupSkipsDisabledChildren(t *testing.T) {
	r := NewRenderer()
	a := circleObject("a", 1)
	b := circleObject("b", 1)
	b.SetEnabled(false)
	holder := mobject.NewMobject(mobject.WithPayload(mobject.NewGroup(a, b)))

	set, err := r.Derive(holder)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(set.Outlines) != 1 || set.Outlines[0].Name != "a" {
		t.Fatalf("group derived %d outlines, want only the enabled child", len(set.Outlines))
	}
}

func TestCullingSkipsOffFrameObjects(t *testing.T) {
	cam := camera.NewCamera(camera.WithFrameWidth(4), camera.WithPixelSize(100, 100))
	r := NewRenderer(WithCamera(cam), WithCulling(true))

	far := mobject.NewMobject(mobject.WithPayload(&variant.Circle{
		Center: common.Vec2{X: 100, Y: 100},
		Radius: 1,
	}))
	set, err := r.Derive(far)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !set.Empty() {
		t.Fatal("off-frame object was not culled")
	}
	if got := r.Stats().CullSkips; got != 1 {
		t.Fatalf("cull skips = %d, want 1", got)
	}
}

func TestCameraMapsToPixelSpace(t *testing.T) {
	cam := camera.NewCamera(camera.WithFrameWidth(4), camera.WithPixelSize(100, 100))
	r := NewRenderer(WithCamera(cam))

	line := mobject.NewMobject(mobject.WithPayload(&variant.Line{
		Start: common.Vec2{X: -1, Y: 0},
		End:   common.Vec2{X: 1, Y: 0},
	}))
	set, err := r.Derive(line)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(set.Outlines) != 1 {
		t.Fatalf("outline count = %d", len(set.Outlines))
	}
	pts := set.Outlines[0].Points
	first, last := pts[0], pts[len(pts)-1]
	if math.Abs(first.X-25) > 1e-9 || math.Abs(first.Y-50) > 1e-9 {
		t.Fatalf("first pixel point = %v, want (25, 50)", first)
	}
	if math.Abs(last.X-75) > 1e-9 || math.Abs(last.Y-50) > 1e-9 {
		t.Fatalf("last pixel point = %v, want (75, 50)", last)
	}
	// Camera mutation invalidates cached pixel-space results.
	cam.Zoom(2)
	if _, err := r.Derive(line); err != nil {
		t.Fatalf("derive after zoom: %v", err)
	}
	if got := r.Stats().Misses; got != 2 {
		t.Fatalf("misses after camera change = %d, want 2", got)
	}
}

func TestCacheEviction(t *testing.T) {
	cache := newDeriveCache(2)
	k1 := cacheKey{objectID: 1}
	k2 := cacheKey{objectID: 2}
	k3 := cacheKey{objectID: 3}
	cache.put(k1, RenderSet{})
	cache.put(k2, RenderSet{})
	if _, ok := cache.get(k1); !ok {
		t.Fatal("k1 missing before eviction")
	}
	cache.put(k3, RenderSet{})
	if _, ok := cache.get(k2); ok {
		t.Fatal("least recently used entry survived eviction")
	}
	if _, ok := cache.get(k1); !ok {
		t.Fatal("recently used entry was evicted")
	}
	if cache.len() != 2 {
		t.Fatalf("cache len = %d, want 2", cache.len())
	}
}

func TestTriangulateSquare(t *testing.T) {
	ring := []common.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	indices := triangulate(ring)
	if len(indices) != 6 {
		t.Fatalf("square produced %d indices, want 6", len(indices))
	}
	var area float64
	for i := 0; i < len(indices); i += 3 {
		a, b, c := ring[indices[i]], ring[indices[i+1]], ring[indices[i+2]]
		area += math.Abs(b.Sub(a).Cross(c.Sub(a))) / 2
	}
	if math.Abs(area-1) > 1e-9 {
		t.Fatalf("triangulated area = %v, want 1", area)
	}
}

func TestTriangulateConcave(t *testing.T) {
	// An L shape: concave at (1, 1).
	ring := []common.Vec2{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1},
		{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2},
	}
	indices := triangulate(ring)
	if len(indices) != 12 {
		t.Fatalf("L shape produced %d indices, want 12", len(indices))
	}
	var area float64
	for i := 0; i < len(indices); i += 3 {
		a, b, c := ring[indices[i]], ring[indices[i+1]], ring[indices[i+2]]
		area += math.Abs(b.Sub(a).Cross(c.Sub(a))) / 2
	}
	if math.Abs(area-3) > 1e-9 {
		t.Fatalf("triangulated area = %v, want 3", area)
	}
}

func TestFlattenQualityControlsDensity(t *testing.T) {
	arc := &variant.Arc{Radius: 1, SweepAngle: math.Pi}
	path, err := variant.AsPath(arc)
	if err != nil {
		t.Fatalf("as path: %v", err)
	}
	coarse := flattenPath(path, 1)
	fine := flattenPath(path, 64)
	if len(coarse[0].points) >= len(fine[0].points) {
		t.Fatalf("quality 1 gave %d points, quality 64 gave %d",
			len(coarse[0].points), len(fine[0].points))
	}
}
