package material

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	if m.Class() != ClassVector {
		t.Fatalf("default class = %v, want vector", m.Class())
	}
	if m.Stroke() != (colorful.Color{R: 1, G: 1, B: 1}) {
		t.Fatalf("default stroke = %+v, want white", m.Stroke())
	}
	if m.StrokeWidth() != DefaultStrokeWidth {
		t.Fatalf("default stroke width = %v", m.StrokeWidth())
	}
	if m.FillEnabled() {
		t.Fatal("fill must be disabled by default")
	}
	if m.Opacity() != 1 {
		t.Fatalf("default opacity = %v", m.Opacity())
	}
	if m.Quality() != DefaultQuality {
		t.Fatalf("default quality = %v", m.Quality())
	}
}

func TestPipelineKey(t *testing.T) {
	m := NewMaterial(WithClass(ClassMesh), WithQuality(8))
	if got := m.PipelineKey(); got != "mesh:q8" {
		t.Fatalf("pipeline key = %q", got)
	}
}

func TestQualityClamped(t *testing.T) {
	if got := NewMaterial(WithQuality(0)).Quality(); got != MinQuality {
		t.Fatalf("quality 0 clamped to %d, want %d", got, MinQuality)
	}
	if got := NewMaterial(WithQuality(1000)).Quality(); got != MaxQuality {
		t.Fatalf("quality 1000 clamped to %d, want %d", got, MaxQuality)
	}
}

func TestHexOptions(t *testing.T) {
	m := NewMaterial(WithStrokeHex("#ffd866"), WithFillHex("#403e41"))
	if m.Stroke().Hex() != "#ffd866" {
		t.Fatalf("stroke hex = %q", m.Stroke().Hex())
	}
	if !m.FillEnabled() {
		t.Fatal("WithFillHex must enable filling")
	}
	// Invalid hex leaves the default in place.
	m = NewMaterial(WithStrokeHex("not-a-color"))
	if m.Stroke() != (colorful.Color{R: 1, G: 1, B: 1}) {
		t.Fatalf("invalid hex changed the stroke to %+v", m.Stroke())
	}
}

func TestLerpMaterial(t *testing.T) {
	a := NewMaterial(WithStrokeHex("#000000"), WithStrokeWidth(2), WithOpacity(0))
	b := NewMaterial(WithStrokeHex("#ffffff"), WithStrokeWidth(6), WithOpacity(1))

	mid := LerpMaterial(a, b, 0.5)
	if got := mid.StrokeWidth(); math.Abs(got-4) > 1e-9 {
		t.Fatalf("mid stroke width = %v, want 4", got)
	}
	if got := mid.Opacity(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("mid opacity = %v, want 0.5", got)
	}

	if got := LerpMaterial(a, b, 0).StrokeWidth(); got != 2 {
		t.Fatalf("t=0 stroke width = %v, want a's", got)
	}
	if got := LerpMaterial(a, b, 1).StrokeWidth(); got != 6 {
		t.Fatalf("t=1 stroke width = %v, want b's", got)
	}
	if got := LerpMaterial(a, b, 2).StrokeWidth(); got != 6 {
		t.Fatalf("t clamps above 1, stroke width = %v", got)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	m := NewMaterial(
		WithName("neon"),
		WithClass(ClassMesh),
		WithStrokeHex("#ff6188"),
		WithFillHex("#2d2a2e"),
		WithStrokeWidth(1.5),
		WithOpacity(0.75),
		WithQuality(32),
	)
	data, err := Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Name() != "neon" || decoded.Class() != ClassMesh || decoded.Quality() != 32 {
		t.Fatalf("identity lost in round trip: %q %v q%d", decoded.Name(), decoded.Class(), decoded.Quality())
	}
	if decoded.Stroke().Hex() != "#ff6188" || decoded.Fill().Hex() != "#2d2a2e" {
		t.Fatal("colors lost in round trip")
	}
	if !decoded.FillEnabled() {
		t.Fatal("fill flag lost in round trip")
	}
}

func TestDecodePartialKeepsDefaults(t *testing.T) {
	m, err := Decode([]byte("stroke: \"#ffd866\"\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Stroke().Hex() != "#ffd866" {
		t.Fatalf("stroke = %q", m.Stroke().Hex())
	}
	if m.StrokeWidth() != DefaultStrokeWidth || m.Quality() != DefaultQuality {
		t.Fatal("partial decode must keep defaults for absent fields")
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode([]byte("class: plasma\n")); err == nil {
		t.Fatal("expected error for unknown class")
	}
	if _, err := Decode([]byte("stroke: zzz\n")); err == nil {
		t.Fatal("expected error for bad stroke color")
	}
}
