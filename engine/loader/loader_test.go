package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ralvey/morph-go/engine/variant"
)

const yamlDoc = `name: demo
objects:
  - name: dot
    kind: circle
    payload: {center: {x: 0, y: 0}, radius: 0.5}
    material: {stroke: "#ffd866", fill: "#403e41", fill_enabled: true}
  - name: frame
    kind: rect
    payload: {width: 4, height: 2, corner_radius: 0.25}
    enabled: false
  - name: curve
    kind: path
    payload: {data: "M 0 0 C 1 1 2 1 3 0"}
`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func TestLoadYAMLDocument(t *testing.T) {
	l := NewLoader(BackendTypeAuto)
	doc, err := l.LoadDocument(writeDoc(t, "demo.yaml", yamlDoc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Name != "demo" || len(doc.Objects) != 3 {
		t.Fatalf("doc = %q with %d objects", doc.Name, len(doc.Objects))
	}

	dot := doc.Objects[0]
	if dot.Kind != "circle" || !dot.Enabled {
		t.Fatalf("dot = %+v", dot)
	}
	if got := dot.Payload.(*variant.Circle).Radius; got != 0.5 {
		t.Fatalf("dot radius = %v", got)
	}
	if dot.Material == nil || !dot.Material.FillEnabled() {
		t.Fatal("dot material fill not enabled")
	}

	frame := doc.Objects[1]
	if frame.Enabled {
		t.Fatal("frame should load disabled")
	}
	if frame.Material != nil {
		t.Fatal("frame has no material block, want nil material")
	}

	curve := doc.Objects[2]
	if curve.Kind != "path" {
		t.Fatalf("curve kind = %q", curve.Kind)
	}
	if got := len(curve.Payload.(*variant.Path).Subpaths); got != 1 {
		t.Fatalf("curve subpaths = %d", got)
	}
}

func TestLoadDocumentCaches(t *testing.T) {
	l := NewLoader(BackendTypeAuto)
	path := writeDoc(t, "demo.yaml", yamlDoc)
	first, err := l.LoadDocument(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	second, err := l.LoadDocument(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if first != second {
		t.Fatal("second load did not return the cached document")
	}
	if l.Get(path) != first {
		t.Fatal("Get did not find the cached document")
	}
}

func TestLoadYAMLDuplicateNames(t *testing.T) {
	l := NewLoader(BackendTypeYAML)
	_, err := l.LoadBytes("dupes", []byte(`objects:
  - name: a
    kind: circle
    payload: {radius: 1}
  - name: a
    kind: circle
    payload: {radius: 2}
`))
	if err == nil || !strings.Contains(err.Error(), "duplicate object name") {
		t.Fatalf("err = %v, want duplicate name error", err)
	}
}

func TestLoadYAMLUnknownKind(t *testing.T) {
	l := NewLoader(BackendTypeYAML)
	_, err := l.LoadBytes("bad", []byte(`objects:
  - name: a
    kind: hexagon
    payload: {}
`))
	if err == nil || !strings.Contains(err.Error(), "hexagon") {
		t.Fatalf("err = %v, want unknown kind naming hexagon", err)
	}
}

func TestLoadDocumentUnsupportedExtension(t *testing.T) {
	l := NewLoader(BackendTypeAuto)
	if _, err := l.LoadDocument("objects.json"); err == nil {
		t.Fatal("expected unsupported extension to be rejected")
	}
}

const luaDoc = `
local dot = circle{center = {x = 0, y = 0}, radius = 0.5}
local box = rect{width = 2, height = 1}
local curve = path("M 0 0 L 1 1")

return document{
	name = "lua-demo",
	objects = {
		{name = "dot", payload = dot, material = material{stroke = "#ffd866"}},
		{name = "box", payload = box, enabled = false},
		{name = "curve", payload = curve, ephemeral = true},
	},
}
`

func TestLoadLuaDocument(t *testing.T) {
	l := NewLoader(BackendTypeAuto)
	doc, err := l.LoadDocument(writeDoc(t, "demo.lua", luaDoc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Name != "lua-demo" || len(doc.Objects) != 3 {
		t.Fatalf("doc = %q with %d objects", doc.Name, len(doc.Objects))
	}
	if doc.Objects[0].Kind != "circle" || doc.Objects[0].Material == nil {
		t.Fatalf("dot = %+v", doc.Objects[0])
	}
	if got := doc.Objects[0].Payload.(*variant.Circle).Radius; got != 0.5 {
		t.Fatalf("dot radius = %v", got)
	}
	if doc.Objects[1].Enabled {
		t.Fatal("box should load disabled")
	}
	if !doc.Objects[2].Ephemeral {
		t.Fatal("curve should load ephemeral")
	}
}

func TestLoadLuaRejectsGroups(t *testing.T) {
	l := NewLoader(BackendTypeLua)
	_, err := l.LoadBytes("grouped", []byte(`return document{objects = {{name = "g", payload = group{}}}}`))
	if err == nil || !strings.Contains(err.Error(), "group") {
		t.Fatalf("err = %v, want group rejection", err)
	}
}

func TestLoadLuaInvalidPayload(t *testing.T) {
	l := NewLoader(BackendTypeLua)
	_, err := l.LoadBytes("bad", []byte(`return document{objects = {{name = "c", payload = circle{radius = -1}}}}`))
	if err == nil {
		t.Fatal("expected invalid circle to be rejected")
	}
}

func TestLoadLuaMustReturnDocument(t *testing.T) {
	l := NewLoader(BackendTypeLua)
	if _, err := l.LoadBytes("none", []byte(`return 42`)); err == nil {
		t.Fatal("expected non-document return to be rejected")
	}
}
