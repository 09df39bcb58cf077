package engine

import (
	"reflect"
	"testing"

	"github.com/ralvey/morph-go/common"
	"github.com/ralvey/morph-go/engine/camera"
	"github.com/ralvey/morph-go/engine/loader"
	"github.com/ralvey/morph-go/engine/material"
	"github.com/ralvey/morph-go/engine/mobject"
	"github.com/ralvey/morph-go/engine/renderer"
	"github.com/ralvey/morph-go/engine/variant"
)

func newTestStage(t *testing.T, options ...StageBuilderOption) Stage {
	t.Helper()
	return NewStage("test", renderer.NewRenderer(), options...)
}

func circleHandle(name string, radius float64, options ...mobject.MobjectBuilderOption) mobject.Mobject {
	options = append([]mobject.MobjectBuilderOption{
		mobject.WithName(name),
		mobject.WithPayload(&variant.Circle{Radius: radius}),
	}, options...)
	return mobject.NewMobject(options...)
}

func TestNewStageRequiresRenderer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil renderer")
		}
	}()
	NewStage("bad", nil)
}

func TestStageRegistry(t *testing.T) {
	s := newTestStage(t)

	a := s.Add(circleHandle("a", 1))
	b := s.Add(circleHandle("b", 2))
	if a != 1 || b != 2 {
		t.Fatalf("ids = %d, %d, want sequential from 1", a, b)
	}
	if s.Count() != 2 {
		t.Fatalf("count = %d", s.Count())
	}

	if got := s.Get(b); got == nil || got.Name() != "b" {
		t.Fatalf("Get(%d) = %v", b, got)
	}
	if got := s.Lookup("a"); got == nil || got.ID() != a {
		t.Fatalf("Lookup(a) = %v", got)
	}
	if s.Lookup("missing") != nil {
		t.Fatal("Lookup should miss unknown names")
	}

	if !s.Remove(a) {
		t.Fatal("Remove(a) should report removal")
	}
	if s.Remove(a) {
		t.Fatal("second Remove(a) should miss")
	}
	if s.Count() != 1 || s.Get(a) != nil {
		t.Fatal("a still present after removal")
	}

	s.Clear()
	if s.Count() != 0 {
		t.Fatalf("count after clear = %d", s.Count())
	}
}

func TestStageEphemerals(t *testing.T) {
	s := newTestStage(t)
	s.Add(circleHandle("kept", 1))
	id := s.Add(circleHandle("tween", 2, mobject.WithEphemeral(true)))

	if s.Count() != 1 || s.CountEphemeral() != 1 {
		t.Fatalf("counts = %d registered, %d ephemeral", s.Count(), s.CountEphemeral())
	}
	if s.Lookup("tween") != nil {
		t.Fatal("Lookup should skip ephemeral handles")
	}
	if got := s.Get(id); got == nil || !got.Ephemeral() {
		t.Fatalf("Get(%d) = %v", id, got)
	}

	frame, err := s.RenderFrame()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(frame.Outlines) != 2 {
		t.Fatalf("outlines = %d, ephemeral handles should still render", len(frame.Outlines))
	}

	if !s.Remove(id) {
		t.Fatal("ephemeral handles should be removable by id")
	}
	if s.CountEphemeral() != 0 {
		t.Fatal("ephemeral still counted after removal")
	}
}

func TestStageEachOrder(t *testing.T) {
	s := newTestStage(t)
	s.Add(circleHandle("a", 1))
	s.Add(circleHandle("b", 2))
	s.Add(circleHandle("c", 3, mobject.WithEphemeral(true)))

	var names []string
	s.Each(func(obj mobject.Mobject) bool {
		names = append(names, obj.Name())
		return true
	})
	if !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Fatalf("order = %v", names)
	}

	names = names[:0]
	s.Each(func(obj mobject.Mobject) bool {
		names = append(names, obj.Name())
		return false
	})
	if len(names) != 1 {
		t.Fatalf("early stop visited %d objects", len(names))
	}
}

func TestStageMutationsFireCallback(t *testing.T) {
	changes := 0
	s := newTestStage(t, WithChangeCallback(func() { changes++ }))
	id := s.Add(circleHandle("a", 1))

	if err := s.Become(id, &variant.Rect{Width: 2, Height: 1}); err != nil {
		t.Fatalf("become: %v", err)
	}
	if err := s.SetMaterial(id, material.NewMaterial(material.WithOpacity(0.5))); err != nil {
		t.Fatalf("set material: %v", err)
	}
	if err := s.SetEnabled(id, false); err != nil {
		t.Fatalf("set enabled: %v", err)
	}
	if err := s.Touch(id); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if changes != 4 {
		t.Fatalf("changes = %d, want 4", changes)
	}

	if got := s.Get(id); got.Kind() != variant.KindRect || got.Enabled() {
		t.Fatalf("mutations not applied: %v", got)
	}
}

func TestStageMutationsUnknownID(t *testing.T) {
	s := newTestStage(t)
	if err := s.Become(99, &variant.Circle{Radius: 1}); err == nil {
		t.Fatal("Become should reject unknown ids")
	}
	if err := s.SetMaterial(99, material.NewMaterial()); err == nil {
		t.Fatal("SetMaterial should reject unknown ids")
	}
	if err := s.SetEnabled(99, true); err == nil {
		t.Fatal("SetEnabled should reject unknown ids")
	}
	if err := s.Touch(99); err == nil {
		t.Fatal("Touch should reject unknown ids")
	}
}

func TestStageBecomeKeepsHandle(t *testing.T) {
	s := newTestStage(t)
	id := s.Add(circleHandle("a", 1))
	handle := s.Get(id)
	gen := handle.Generation()

	if err := s.Become(id, &variant.Line{End: common.Vec2{X: 1}}); err != nil {
		t.Fatalf("become: %v", err)
	}
	if s.Get(id) != handle {
		t.Fatal("Become must not replace the handle")
	}
	if handle.Generation() <= gen {
		t.Fatal("Become must bump the generation")
	}
}

func TestStageAddDocument(t *testing.T) {
	s := newTestStage(t)
	doc := &loader.Document{
		Name: "demo",
		Objects: []loader.ObjectSpec{
			{Name: "dot", Kind: "circle", Payload: &variant.Circle{Radius: 0.5}, Enabled: true},
			{Name: "box", Kind: "rect", Payload: &variant.Rect{Width: 2, Height: 1}, Enabled: false},
		},
	}

	ids, err := s.AddDocument(doc)
	if err != nil {
		t.Fatalf("add document: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("ids = %v", ids)
	}
	if got := s.Get(ids[1]); got.Enabled() || got.Name() != "box" {
		t.Fatalf("box = %v", got)
	}

	if _, err := s.AddDocument(nil); err == nil {
		t.Fatal("nil document should be rejected")
	}
}

func TestRenderFrameDeterministic(t *testing.T) {
	s := newTestStage(t, WithWorkers(4))
	s.Add(circleHandle("a", 1))
	s.Add(circleHandle("b", 2))
	s.Add(circleHandle("c", 3))

	first, err := s.RenderFrame()
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := s.RenderFrame()
	if err != nil {
		t.Fatalf("second render: %v", err)
	}

	if first.Seq != 1 || second.Seq != 2 {
		t.Fatalf("seq = %d, %d", first.Seq, second.Seq)
	}
	second.Seq = first.Seq
	if !reflect.DeepEqual(first, second) {
		t.Fatal("frames differ beyond the sequence number")
	}

	if first.Outlines[0].Name != "a" || first.Outlines[2].Name != "c" {
		t.Fatalf("outline order = %q, %q, %q",
			first.Outlines[0].Name, first.Outlines[1].Name, first.Outlines[2].Name)
	}
}

func TestRenderFramePixelSize(t *testing.T) {
	cam := camera.NewCamera(camera.WithPixelSize(640, 360))
	s := NewStage("sized", renderer.NewRenderer(renderer.WithCamera(cam)))
	s.Add(circleHandle("a", 1))

	frame, err := s.RenderFrame()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if frame.PixelWidth != cam.PixelWidth() || frame.PixelHeight != cam.PixelHeight() {
		t.Fatalf("frame size = %dx%d", frame.PixelWidth, frame.PixelHeight)
	}
}
